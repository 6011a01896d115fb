// Package query answers position and name questions about a converted
// forest: symbol listings, node-at-position lookup, and ranked completion.
// The LSP handlers are thin wrappers over this package.
package query

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/loc"
)

// SymbolKind classifies a declared name.
type SymbolKind string

const (
	SymbolModule    SymbolKind = "module"
	SymbolFunction  SymbolKind = "function"
	SymbolVariable  SymbolKind = "variable"
	SymbolParameter SymbolKind = "parameter"
	SymbolConstant  SymbolKind = "constant"
)

// Symbol is one declared name with its declaration span.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Span       loc.Span
	Parameters []string
}

// Symbols lists every declaration in the forest in source order: module and
// function definitions at any nesting depth, top-level assignments, and the
// parameters of each definition.
func Symbols(forest []ast.Stmt) []Symbol {
	var symbols []Symbol

	for _, stmt := range forest {
		if a, ok := stmt.(*ast.Assignment); ok {
			kind := SymbolVariable
			if isLiteral(a.Value) {
				kind = SymbolConstant
			}
			symbols = append(symbols, Symbol{
				Name: a.Name,
				Kind: kind,
				Span: a.Span(),
			})
		}
	}

	ast.WalkForest(forest, func(n ast.Node) bool {
		switch def := n.(type) {
		case *ast.ModuleDefinition:
			symbols = append(symbols, definitionSymbol(def.Name, SymbolModule, def.Span(), def.Parameters))
			symbols = append(symbols, parameterSymbols(def.Parameters)...)
		case *ast.FunctionDefinition:
			symbols = append(symbols, definitionSymbol(def.Name, SymbolFunction, def.Span(), def.Parameters))
			symbols = append(symbols, parameterSymbols(def.Parameters)...)
		}
		return true
	})

	sort.SliceStable(symbols, func(i, j int) bool {
		return symbols[i].Span.Start.Before(symbols[j].Span.Start)
	})
	return symbols
}

func definitionSymbol(name string, kind SymbolKind, span loc.Span, params []*ast.ModuleParameter) Symbol {
	s := Symbol{Name: name, Kind: kind, Span: span}
	for _, p := range params {
		s.Parameters = append(s.Parameters, p.Name)
	}
	return s
}

// isLiteral reports whether e is a compile-time constant: a scalar literal or
// a vector of them.
func isLiteral(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.NumberLit, *ast.StringLit, *ast.BoolLit, *ast.UndefLit:
		return true
	case *ast.VectorExpr:
		for _, el := range n.Elements {
			if !isLiteral(el) {
				return false
			}
		}
		return true
	}
	return false
}

func parameterSymbols(params []*ast.ModuleParameter) []Symbol {
	var out []Symbol
	for _, p := range params {
		out = append(out, Symbol{Name: p.Name, Kind: SymbolParameter, Span: p.Span()})
	}
	return out
}

// FindNodeAt returns the innermost node whose span contains pos, or nil.
// Innermost means the smallest containing byte range, which is what hover
// and definition lookups want.
func FindNodeAt(forest []ast.Stmt, pos loc.Position) ast.Node {
	var best ast.Node

	ast.WalkForest(forest, func(n ast.Node) bool {
		span := n.Span()
		if !span.Contains(pos) {
			// Children may still contain the position when the parent span
			// is degenerate (error placeholders), so keep walking.
			return true
		}
		if best == nil || width(span) <= width(best.Span()) {
			best = n
		}
		return true
	})
	return best
}

func width(s loc.Span) int { return s.End.Offset - s.Start.Offset }

// PrefixAt extracts the identifier fragment ending at offset, the text a
// completion request should match against. It returns "" at a non-identifier
// boundary.
func PrefixAt(source string, offset int) string {
	if offset > len(source) {
		offset = len(source)
	}
	start := offset
	for start > 0 && identChar(source[start-1]) {
		start--
	}
	return source[start:offset]
}

func identChar(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	case ch == '_' || ch == '$':
		return true
	}
	return false
}

// Complete returns candidate names for the given prefix, ranked by fuzzy
// match quality: the forest's own symbols first on ties, then built-ins.
// An empty prefix returns every candidate in alphabetical order.
func Complete(forest []ast.Stmt, prefix string) []string {
	candidates := make([]string, 0, len(Builtins)+8)
	seen := make(map[string]bool, len(Builtins)+8)
	for _, s := range Symbols(forest) {
		if s.Kind == SymbolParameter || seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		candidates = append(candidates, s.Name)
	}
	for _, b := range Builtins {
		if !seen[b] {
			seen[b] = true
			candidates = append(candidates, b)
		}
	}

	if prefix == "" {
		sort.Strings(candidates)
		return candidates
	}

	ranks := fuzzy.RankFindFold(prefix, candidates)
	sort.Sort(ranks)
	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}

// Builtins are the OpenSCAD built-in modules and functions offered as
// completion candidates.
var Builtins = []string{
	// 3D primitives
	"cube", "sphere", "cylinder", "polyhedron",
	// 2D primitives
	"square", "circle", "polygon", "text",
	// transforms
	"translate", "rotate", "scale", "resize", "mirror", "multmatrix",
	"color", "offset", "hull", "minkowski",
	// boolean operations
	"union", "difference", "intersection",
	// extrusion and projection
	"linear_extrude", "rotate_extrude", "projection", "surface",
	// flow and introspection
	"children", "echo", "assert", "render", "import",
	// math functions
	"abs", "ceil", "floor", "round", "sqrt", "pow", "exp", "ln", "log",
	"sin", "cos", "tan", "asin", "acos", "atan", "atan2",
	"min", "max", "norm", "cross", "rands",
	// string and list functions
	"str", "len", "concat", "chr", "ord", "search", "lookup",
	"is_undef", "is_bool", "is_num", "is_string", "is_list",
}
