package analyzer

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"standalone/internal/corpus"
	"standalone/internal/engine/parser"
)

// Analyzer computes the dependency categories of one unit for a target
// function in a single depth-first pass.
type Analyzer struct {
	walker *walker
}

func New() *Analyzer {
	a := &Analyzer{}
	a.walker = &walker{handlers: map[string]nodeHandler{
		"import_statement":      a.handleImport,
		"import_from_statement": a.handleFromImport,
		"function_definition":   a.handleFunction,
		"decorated_definition":  a.handleDecorated,
		"class_definition":      a.handleClass,
		"call":                  a.handleCall,
		"identifier":            a.handleIdentifier,
		"assignment":            a.handleAssignment,
		"expression_statement":  a.handleExpressionStatement,
		"global_statement":      a.handleGlobal,
		"nonlocal_statement":    a.handleNonlocal,
	}}
	return a
}

// Analyze runs the pass over a parsed unit. The parsed unit and source
// unit must hold the same content.
func (a *Analyzer) Analyze(pu *parser.ParsedUnit, unit *corpus.SourceUnit, target string) *Analysis {
	result := &Analysis{
		Unit:       pu.ID,
		Target:     target,
		Names:      make(map[Category][]string, len(Categories())),
		Records:    make(map[Category][]Record, len(Categories())),
		GlobalDefs: make(map[string]int),
	}

	ctx := &analysisContext{
		source:     pu.Source,
		unit:       unit,
		target:     target,
		result:     result,
		nameSeen:   make(map[Category]map[string]bool, len(Categories())),
		usedSeen:   make(map[string]bool),
		objectSeen: make(map[string]bool),
		targetRows: make(map[int]bool),
	}
	for _, cat := range Categories() {
		ctx.nameSeen[cat] = make(map[string]bool)
	}

	a.walker.walk(ctx, pu.Root())

	result.TargetRows = make([]int, 0, len(ctx.targetRows))
	for row := range ctx.targetRows {
		result.TargetRows = append(result.TargetRows, row)
	}
	sort.Ints(result.TargetRows)

	return result
}

// handleImport records every imported module name. Identifiers inside
// import statements are never name loads.
func (a *Analyzer) handleImport(ctx *analysisContext, node *sitter.Node) bool {
	line := ctx.line(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			ctx.addRecord(CategoryImports, ctx.text(child), line)
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				ctx.addRecord(CategoryImports, ctx.text(name), line)
			}
		}
	}
	return true
}

// handleFromImport records module.item per imported item. Aliases are
// ignored in favor of the original names; a wildcard import records
// module.*. Relative dots are dropped from the module.
func (a *Analyzer) handleFromImport(ctx *analysisContext, node *sitter.Node) bool {
	line := ctx.line(node)

	module := ""
	if moduleNode := node.ChildByFieldName("module_name"); moduleNode != nil {
		module = strings.TrimLeft(ctx.text(moduleNode), ".")
	}

	sawImport := false
	var items []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "import":
			sawImport = true
		case "wildcard_import":
			items = append(items, "*")
		case "dotted_name":
			if sawImport {
				items = append(items, ctx.text(child))
			}
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				items = append(items, ctx.text(name))
			}
		}
	}

	for _, item := range items {
		full := item
		if module != "" {
			full = module + "." + item
		}
		ctx.addRecord(CategoryImports, full, line)
	}
	return true
}

// handleFunction either enters target scope or records the definition
// as an external function. Async definitions contribute nothing
// themselves; their children are walked in the enclosing scope.
func (a *Analyzer) handleFunction(ctx *analysisContext, node *sitter.Node) bool {
	if parser.IsAsyncDef(node) {
		return false
	}
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return false
	}
	name := ctx.text(nameNode)

	if name == ctx.target {
		ctx.currentFunc = name
		ctx.recordTargetRows(node)
		a.walker.walkChildren(ctx, node)
		ctx.currentFunc = ""
		return true
	}

	ctx.addGlobalObject(name)
	ctx.addRecord(CategoryFunctions, name, ctx.line(node))
	return false
}

// handleDecorated pre-enters target scope when the decorated definition
// is the target, so decorator expressions count as target loads. The
// definition's own handler still runs and clears the scope on exit.
func (a *Analyzer) handleDecorated(ctx *analysisContext, node *sitter.Node) bool {
	def := node.ChildByFieldName("definition")
	if def == nil || def.Kind() != "function_definition" || parser.IsAsyncDef(def) {
		return false
	}
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil || ctx.text(nameNode) != ctx.target {
		return false
	}
	ctx.currentFunc = ctx.target
	return false
}

func (a *Analyzer) handleClass(ctx *analysisContext, node *sitter.Node) bool {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return false
	}
	name := ctx.text(nameNode)
	ctx.addGlobalObject(name)
	ctx.addRecord(CategoryClasses, name, ctx.line(node))
	return false
}

// handleCall records attribute calls as methods in any scope, and bare
// calls as functions inside the target only. The callee is also walked
// as an ordinary expression afterwards.
func (a *Analyzer) handleCall(ctx *analysisContext, node *sitter.Node) bool {
	fn := unwrapParens(node.ChildByFieldName("function"))
	if fn == nil {
		return false
	}
	switch fn.Kind() {
	case "attribute":
		if attr := fn.ChildByFieldName("attribute"); attr != nil {
			ctx.addRecord(CategoryMethods, ctx.text(attr), ctx.line(node))
		}
	case "identifier":
		if ctx.inTarget() {
			ctx.addRecord(CategoryFunctions, ctx.text(fn), ctx.line(node))
		}
	}
	return false
}

// handleIdentifier records name loads inside the target as variables
// and marks loads of already-defined globals as used.
func (a *Analyzer) handleIdentifier(ctx *analysisContext, node *sitter.Node) bool {
	if !isLoadPosition(node) {
		return true
	}
	if !ctx.inTarget() {
		return true
	}
	name := ctx.text(node)
	ctx.addRecord(CategoryVariables, name, ctx.line(node))
	if _, defined := ctx.result.GlobalDefs[name]; defined {
		ctx.addUsedGlobal(name)
	}
	return true
}

// handleAssignment applies the assignment rules once per chain head.
// Inside the target, every simple-name link of the chain becomes a
// variables record; outside, the first simple-name target updates the
// global definition table. Annotated assignments do neither.
func (a *Analyzer) handleAssignment(ctx *analysisContext, node *sitter.Node) bool {
	if parent := node.Parent(); parent != nil && parent.Kind() == "assignment" {
		return false
	}
	if node.ChildByFieldName("type") != nil {
		return false
	}

	targets := chainTargets(node)
	if ctx.inTarget() {
		line := ctx.line(node)
		for _, t := range targets {
			if t.Kind() == "identifier" {
				ctx.addRecord(CategoryVariables, ctx.text(t), line)
			}
		}
	} else if len(targets) > 0 && targets[0].Kind() == "identifier" {
		ctx.result.GlobalDefs[ctx.text(targets[0])] = int(node.StartPosition().Row)
	}
	return false
}

// handleExpressionStatement records bare calls of plain names as
// object constructions, in any scope. Semicolon-separated expressions
// are judged one by one.
func (a *Analyzer) handleExpressionStatement(ctx *analysisContext, node *sitter.Node) bool {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		expr := unwrapParens(child)
		if expr == nil || expr.Kind() != "call" {
			continue
		}
		fn := unwrapParens(expr.ChildByFieldName("function"))
		if fn != nil && fn.Kind() == "identifier" {
			ctx.addRecord(CategoryObjects, ctx.text(fn), ctx.line(child))
		}
	}
	return false
}

// handleGlobal records every declared name. The names are keywords of
// the declaration, not loads.
func (a *Analyzer) handleGlobal(ctx *analysisContext, node *sitter.Node) bool {
	line := ctx.line(node)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "identifier" {
			ctx.addRecord(CategoryGlobals, ctx.text(child), line)
		}
	}
	return true
}

func (a *Analyzer) handleNonlocal(ctx *analysisContext, node *sitter.Node) bool {
	return true
}

// chainTargets flattens a chained assignment a = b = value into its
// target list.
func chainTargets(node *sitter.Node) []*sitter.Node {
	var targets []*sitter.Node
	for node != nil && node.Kind() == "assignment" {
		if left := node.ChildByFieldName("left"); left != nil {
			targets = append(targets, left)
		}
		right := node.ChildByFieldName("right")
		if right == nil || right.Kind() != "assignment" {
			break
		}
		node = right
	}
	return targets
}

// unwrapParens strips parenthesized_expression layers, which carry no
// meaning for dependency classification.
func unwrapParens(node *sitter.Node) *sitter.Node {
	for node != nil && node.Kind() == "parenthesized_expression" {
		var inner *sitter.Node
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child == nil || !child.IsNamed() || child.Kind() == "comment" {
				continue
			}
			inner = child
			break
		}
		node = inner
	}
	return node
}

// isLoadPosition reports whether an identifier is a name load. The
// parent kind and field decide: definition names, parameters, store
// targets, attribute names, keyword names and declaration names are
// not loads.
func isLoadPosition(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return true
	}
	switch parent.Kind() {
	case "function_definition", "class_definition":
		return !isField(parent, "name", node)
	case "parameters", "lambda_parameters", "typed_parameter",
		"list_splat_pattern", "dictionary_splat_pattern":
		return false
	case "default_parameter", "typed_default_parameter":
		return !isField(parent, "name", node)
	case "attribute":
		return !isField(parent, "attribute", node)
	case "keyword_argument":
		return !isField(parent, "name", node)
	case "assignment", "augmented_assignment":
		return !isField(parent, "left", node)
	case "for_statement", "for_in_clause":
		return !isField(parent, "left", node)
	case "pattern_list", "tuple_pattern", "list_pattern":
		return false
	case "named_expression":
		return !isField(parent, "name", node)
	case "as_pattern_target", "delete_statement":
		return false
	case "expression_list":
		gp := parent.Parent()
		return gp == nil || gp.Kind() != "delete_statement"
	case "global_statement", "nonlocal_statement":
		return false
	}
	return true
}

func isField(parent *sitter.Node, field string, node *sitter.Node) bool {
	f := parent.ChildByFieldName(field)
	return f != nil && f.StartByte() == node.StartByte() && f.EndByte() == node.EndByte()
}
