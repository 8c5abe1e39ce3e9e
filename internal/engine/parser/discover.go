package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// FunctionDef is a named function definition found in a parsed unit.
type FunctionDef struct {
	Unit string
	Name string
	Line int // 1-indexed definition line
}

// Functions lists every named function definition in the unit, at any
// nesting depth. Async definitions are not slicing targets and are
// skipped.
func Functions(u *ParsedUnit) []FunctionDef {
	var defs []FunctionDef
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Kind() == "function_definition" && !IsAsyncDef(n) {
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				defs = append(defs, FunctionDef{
					Unit: u.ID,
					Name: u.Text(nameNode),
					Line: int(n.StartPosition().Row) + 1,
				})
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			walk(child)
		}
	}
	walk(u.Root())
	return defs
}

// HasFunction reports whether the unit defines a function with the
// given name at any depth.
func HasFunction(u *ParsedUnit, name string) bool {
	for _, def := range Functions(u) {
		if def.Name == name {
			return true
		}
	}
	return false
}

// IsAsyncDef reports whether a function_definition carries the async
// keyword.
func IsAsyncDef(n *sitter.Node) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "async":
			return true
		case "def":
			return false
		}
	}
	return false
}
