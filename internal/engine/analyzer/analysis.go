package analyzer

// Category identifies one dependency record class. The canonical order
// below is load-bearing: assembly walks categories in this order, which
// keeps output stable.
type Category string

const (
	CategoryFunctions Category = "functions"
	CategoryMethods   Category = "methods"
	CategoryClasses   Category = "classes"
	CategoryVariables Category = "variables"
	CategoryGlobals   Category = "globals"
	CategoryImports   Category = "imports"
	CategoryObjects   Category = "objects"
)

// Categories returns all categories in canonical order.
func Categories() []Category {
	return []Category{
		CategoryFunctions,
		CategoryMethods,
		CategoryClasses,
		CategoryVariables,
		CategoryGlobals,
		CategoryImports,
		CategoryObjects,
	}
}

// Record is one observed dependency occurrence: a name, the 1-indexed
// line of the statement that produced it, and that line's text.
type Record struct {
	Name string
	Line int
	Text string
}

// Analysis is the result of one single-unit dependency pass for one
// target function.
type Analysis struct {
	Unit   string
	Target string

	// Names holds the unique names per category in first-seen order;
	// Records holds every occurrence in visit order.
	Names   map[Category][]string
	Records map[Category][]Record

	// TargetRows are the 0-indexed rows of the target definition,
	// ascending. Several same-named definitions union their spans.
	TargetRows []int

	// GlobalDefs maps simple names assigned outside the target's scope
	// to the 0-indexed row of their assignment; later assignments win.
	GlobalDefs map[string]int

	// UsedGlobals are GlobalDefs names loaded inside the target, in
	// first-use order. A name only qualifies when its definition was
	// visited before the load.
	UsedGlobals []string

	// GlobalObjects are all non-target function names plus all class
	// names, in first-seen order.
	GlobalObjects []string
}

// Imports returns the aggregate import set in discovery order. The
// closure driver recurses over it.
func (a *Analysis) Imports() []string {
	return a.Names[CategoryImports]
}
