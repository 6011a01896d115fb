// Package types implements the lightweight value-kind checker consulted by
// the recovery engine. OpenSCAD is dynamically typed; the checker only
// classifies expressions whose kind is statically evident, reporting Unknown
// for everything else so callers never act on a guess.
package types

import (
	"strconv"
	"strings"

	"github.com/openscad-go/scadc/internal/ast"
)

// Kind classifies an OpenSCAD runtime value.
type Kind string

const (
	Number  Kind = "number"
	String  Kind = "string"
	Boolean Kind = "boolean"
	Vector  Kind = "vector"
	Range   Kind = "range"
	Undef   Kind = "undef"
	Unknown Kind = "unknown"
)

// Checker infers value kinds over the AST and over raw literal text.
type Checker struct{}

// NewChecker creates a checker.
func NewChecker() *Checker { return &Checker{} }

// TypeOf returns the statically evident kind of an expression, or Unknown.
func (c *Checker) TypeOf(e ast.Expr) Kind {
	switch n := e.(type) {
	case *ast.NumberLit:
		return Number
	case *ast.StringLit:
		return String
	case *ast.BoolLit:
		return Boolean
	case *ast.UndefLit:
		return Undef
	case *ast.VectorExpr, *ast.ListComprehension:
		return Vector
	case *ast.RangeExpr:
		return Range
	case *ast.UnaryExpr:
		switch n.Op {
		case "!":
			return Boolean
		case "-", "+":
			return c.TypeOf(n.Operand)
		}
		return Unknown
	case *ast.BinaryExpr:
		return c.binaryKind(n)
	case *ast.ConditionalExpr:
		thenKind, elseKind := c.TypeOf(n.Then), c.TypeOf(n.Else)
		if thenKind == elseKind {
			return thenKind
		}
		return Unknown
	case *ast.CallExpr:
		return c.callKind(n)
	case *ast.LetExpr:
		return c.TypeOf(n.In)
	default:
		return Unknown
	}
}

func (c *Checker) binaryKind(n *ast.BinaryExpr) Kind {
	switch n.Op {
	case "<", "<=", ">", ">=", "==", "!=", "&&", "||":
		return Boolean
	case "+", "-", "*", "/", "%", "^":
		left, right := c.TypeOf(n.Left), c.TypeOf(n.Right)
		if left == Number && right == Number {
			return Number
		}
		if left == Vector || right == Vector {
			return Vector
		}
		return Unknown
	}
	return Unknown
}

// callKind recognizes built-in functions with a fixed result kind.
func (c *Checker) callKind(n *ast.CallExpr) Kind {
	ident, ok := n.Function.(*ast.Identifier)
	if !ok {
		return Unknown
	}
	switch ident.Name {
	case "str", "chr":
		return String
	case "len", "ord", "abs", "ceil", "floor", "round", "sqrt", "pow",
		"sin", "cos", "tan", "asin", "acos", "atan", "atan2",
		"exp", "ln", "log", "min", "max", "norm":
		return Number
	case "concat", "search", "lookup":
		return Vector
	}
	return Unknown
}

// KindOfText classifies a raw source snippet as a literal kind. The recovery
// engine uses this when it only has text spans to work with.
func (c *Checker) KindOfText(text string) Kind {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return Unknown
	case text == "true" || text == "false":
		return Boolean
	case text == "undef":
		return Undef
	case strings.HasPrefix(text, `"`):
		return String
	case strings.HasPrefix(text, "["):
		return Vector
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return Number
	}
	return Unknown
}

// Assignable reports whether a value of kind from can stand where kind to is
// expected without an explicit conversion.
func (c *Checker) Assignable(from, to Kind) bool {
	if from == Unknown || to == Unknown {
		return true
	}
	if from == to {
		return true
	}
	// undef flows anywhere; OpenSCAD propagates it silently.
	return from == Undef
}

// CommonType returns the kind both operands can be coerced to, if any.
// String absorbs every printable kind via str(...).
func (c *Checker) CommonType(a, b Kind) (Kind, bool) {
	if a == b {
		return a, true
	}
	if a == Unknown || b == Unknown {
		return Unknown, true
	}
	if a == String || b == String {
		return String, true
	}
	if (a == Number && b == Boolean) || (a == Boolean && b == Number) {
		return Number, true
	}
	return Unknown, false
}
