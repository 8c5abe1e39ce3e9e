package analyzer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"standalone/internal/corpus"
)

// nodeHandler processes one node kind. Returning true stops descent
// into the node's children.
type nodeHandler func(ctx *analysisContext, node *sitter.Node) bool

// analysisContext carries the mutable traversal state for one unit.
type analysisContext struct {
	source []byte
	unit   *corpus.SourceUnit
	target string

	// currentFunc is the single scope slot of the category rules: it
	// holds the target name while the walk is inside the target's
	// definition and is cleared, not restored, on exit.
	currentFunc string

	result     *Analysis
	nameSeen   map[Category]map[string]bool
	usedSeen   map[string]bool
	objectSeen map[string]bool
	targetRows map[int]bool
}

func (c *analysisContext) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.source[node.StartByte():node.EndByte()])
}

func (c *analysisContext) line(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

func (c *analysisContext) inTarget() bool {
	return c.currentFunc != "" && c.currentFunc == c.target
}

func (c *analysisContext) addRecord(cat Category, name string, line int) {
	if !c.nameSeen[cat][name] {
		c.nameSeen[cat][name] = true
		c.result.Names[cat] = append(c.result.Names[cat], name)
	}
	c.result.Records[cat] = append(c.result.Records[cat], Record{
		Name: name,
		Line: line,
		Text: c.unit.Line(line),
	})
}

func (c *analysisContext) addUsedGlobal(name string) {
	if c.usedSeen[name] {
		return
	}
	c.usedSeen[name] = true
	c.result.UsedGlobals = append(c.result.UsedGlobals, name)
}

func (c *analysisContext) addGlobalObject(name string) {
	if c.objectSeen[name] {
		return
	}
	c.objectSeen[name] = true
	c.result.GlobalObjects = append(c.result.GlobalObjects, name)
}

// recordTargetRows unions the definition's physical rows into the
// target span.
func (c *analysisContext) recordTargetRows(node *sitter.Node) {
	start := int(node.StartPosition().Row)
	end := int(node.EndPosition().Row)
	if node.EndPosition().Column == 0 && end > start {
		end--
	}
	for row := start; row <= end; row++ {
		c.targetRows[row] = true
	}
}

// walker dispatches node handlers by kind over a depth-first walk.
type walker struct {
	handlers map[string]nodeHandler
}

func (w *walker) walk(ctx *analysisContext, node *sitter.Node) {
	if node == nil {
		return
	}

	stop := false
	if handler, ok := w.handlers[node.Kind()]; ok {
		stop = handler(ctx, node)
	}
	if stop {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(ctx, node.Child(i))
	}
}

func (w *walker) walkChildren(ctx *analysisContext, node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(ctx, node.Child(i))
	}
}
