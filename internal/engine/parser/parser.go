package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"standalone/internal/core/errors"
	"standalone/internal/shared/util"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser turns raw source into parsed units. It detects the language
// from the path and refuses files whose grammar is not loaded.
type Parser struct {
	loader     *GrammarLoader
	extensions map[string]string
	filenames  map[string]string
}

// ParsedUnit wraps a syntax tree together with the source it was parsed
// from. The tree holds C allocations; callers own the unit and must
// Close it when done.
type ParsedUnit struct {
	ID       string
	Language string
	Source   []byte
	tree     *sitter.Tree
}

func (u *ParsedUnit) Root() *sitter.Node {
	return u.tree.RootNode()
}

// Text returns the source text covered by a node.
func (u *ParsedUnit) Text(node *sitter.Node) string {
	return string(u.Source[node.StartByte():node.EndByte()])
}

func (u *ParsedUnit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extensions: make(map[string]string),
		filenames:  make(map[string]string),
	}
	for lang, spec := range loader.LanguageRegistry() {
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			p.extensions[strings.ToLower(ext)] = lang
		}
		for _, name := range spec.Filenames {
			p.filenames[strings.ToLower(filepath.Base(name))] = lang
		}
	}
	return p
}

// Parse parses one unit. A tree containing syntax errors is rejected
// whole; the slicer never works from partial trees.
func (p *Parser) Parse(unitID string, content []byte) (*ParsedUnit, error) {
	lang := p.detectLanguage(unitID)
	if lang == "" {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotSupported, "unsupported language"),
			errors.CtxUnit, unitID,
		)
	}

	grammar := p.loader.Language(lang)
	if grammar == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", lang))
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.AddContext(
			errors.New(errors.CodeInternal, "parse returned no tree"),
			errors.CtxUnit, unitID,
		)
	}

	if tree.RootNode().HasError() {
		tree.Close()
		return nil, errors.AddContext(
			errors.New(errors.CodeParseError, "syntax error"),
			errors.CtxUnit, unitID,
		)
	}

	return &ParsedUnit{ID: unitID, Language: lang, Source: content, tree: tree}, nil
}

func (p *Parser) detectLanguage(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if lang, ok := p.filenames[base]; ok {
		return lang
	}
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := p.extensions[ext]; ok {
		return lang
	}
	return ""
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.detectLanguage(path) != ""
}

func (p *Parser) GetLanguage(path string) string {
	return p.detectLanguage(path)
}

func (p *Parser) SupportedExtensions() []string {
	return util.SortedStringKeys(p.extensions)
}
