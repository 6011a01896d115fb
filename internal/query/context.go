package query

import (
	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/loc"
)

// ContextKind classifies where in the program a completion request lands.
type ContextKind string

const (
	// ContextStatement covers top-level and block positions where a new
	// statement may start.
	ContextStatement ContextKind = "statement"
	// ContextArgument covers positions inside an instantiation's argument
	// list.
	ContextArgument ContextKind = "argument"
	// ContextExpression covers positions inside any other expression.
	ContextExpression ContextKind = "expression"
)

// CompletionContext describes a cursor position for completion consumers.
type CompletionContext struct {
	Kind   ContextKind
	Prefix string
	// AvailableSymbols are candidate names ranked against Prefix.
	AvailableSymbols []string
	// ParameterIndex is the argument slot under the cursor inside an
	// instantiation, -1 elsewhere.
	ParameterIndex int
	// ExpectedType names the kind the enclosing built-in accepts at
	// ParameterIndex, "" when unknown.
	ExpectedType string
}

// builtinParamTypes lists positional argument kinds for the common built-in
// modules, by declaration order.
var builtinParamTypes = map[string][]string{
	"translate":      {"vector"},
	"rotate":         {"vector", "vector"},
	"scale":          {"vector"},
	"mirror":         {"vector"},
	"multmatrix":     {"vector"},
	"color":          {"string", "number"},
	"offset":         {"number"},
	"cube":           {"vector", "boolean"},
	"sphere":         {"number"},
	"cylinder":       {"number", "number", "number"},
	"circle":         {"number"},
	"square":         {"vector", "boolean"},
	"polygon":        {"vector", "vector"},
	"text":           {"string", "number"},
	"linear_extrude": {"number"},
	"rotate_extrude": {"number"},
}

// CompletionContextAt answers what a completion request at pos should offer:
// the identifier prefix under the cursor, ranked candidates for it, and, when
// the cursor sits in an instantiation's argument list, which argument slot it
// is and what kind the built-in expects there.
func CompletionContextAt(forest []ast.Stmt, source string, pos loc.Position) CompletionContext {
	ctx := CompletionContext{
		Kind:           ContextStatement,
		Prefix:         PrefixAt(source, pos.Offset),
		ParameterIndex: -1,
	}

	if inst := enclosingInstantiation(forest, pos); inst != nil {
		if idx, ok := argumentIndexAt(inst, pos); ok {
			ctx.Kind = ContextArgument
			ctx.ParameterIndex = idx
			if kinds := builtinParamTypes[inst.Name]; idx < len(kinds) {
				ctx.ExpectedType = kinds[idx]
			}
		}
	}
	if ctx.Kind == ContextStatement {
		if _, ok := FindNodeAt(forest, pos).(ast.Expr); ok {
			ctx.Kind = ContextExpression
		}
	}

	ctx.AvailableSymbols = Complete(forest, ctx.Prefix)
	return ctx
}

// enclosingInstantiation returns the innermost instantiation whose span
// contains pos. Traversal order visits children after parents, so the last
// containing instantiation wins.
func enclosingInstantiation(forest []ast.Stmt, pos loc.Position) *ast.ModuleInstantiation {
	var inst *ast.ModuleInstantiation
	ast.WalkForest(forest, func(n ast.Node) bool {
		if mi, ok := n.(*ast.ModuleInstantiation); ok && mi.Span().Contains(pos) {
			inst = mi
		}
		return true
	})
	return inst
}

// argumentIndexAt locates pos within inst's argument list. A position past
// the last argument but before any child statement counts as the next slot.
func argumentIndexAt(inst *ast.ModuleInstantiation, pos loc.Position) (int, bool) {
	for i, arg := range inst.Args {
		if arg.Span().Contains(pos) {
			return i, true
		}
	}
	if child := firstChildSpan(inst); child != nil && !pos.Before(child.Start) {
		// pos is inside or after the child block, not the argument list.
		return 0, false
	}
	next := 0
	for _, arg := range inst.Args {
		if arg.Span().End.Before(pos) || arg.Span().End == pos {
			next++
		}
	}
	return next, true
}

func firstChildSpan(inst *ast.ModuleInstantiation) *loc.Span {
	if len(inst.Children) == 0 {
		return nil
	}
	span := inst.Children[0].Span()
	return &span
}
