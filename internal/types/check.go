package types

import (
	"fmt"
	"strconv"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/diag"
)

// Check walks a converted forest and reports semantic diagnostics for
// operations whose operand kinds are statically incompatible. Each
// TYPE_MISMATCH diagnostic carries the operand spans as related spans so the
// recovery engine can patch them.
func (c *Checker) Check(forest []ast.Stmt) []diag.Diagnostic {
	var diags []diag.Diagnostic

	ast.WalkForest(forest, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.BinaryExpr:
			if d, bad := c.checkBinary(node); bad {
				diags = append(diags, d)
			}
		case *ast.CallExpr:
			if d, bad := c.checkCall(node); bad {
				diags = append(diags, d)
			}
		}
		return true
	})

	return diags
}

func (c *Checker) checkBinary(n *ast.BinaryExpr) (diag.Diagnostic, bool) {
	left, right := c.TypeOf(n.Left), c.TypeOf(n.Right)
	if left == Unknown || right == Unknown || left == right {
		return diag.Diagnostic{}, false
	}

	switch n.Op {
	case "+", "-", "*", "/", "%", "^":
		if bothArithmetic(left, right) {
			return diag.Diagnostic{}, false
		}
		if _, ok := c.CommonType(left, right); ok {
			d := diag.Diagnostic{
				Code:     diag.CodeTypeMismatch,
				Message:  fmt.Sprintf("operands of `%s` have incompatible types %s and %s", n.Op, left, right),
				Severity: diag.SeverityError,
				Source:   diag.SourceSemantic,
				Span:     n.Span(),
			}
			d = d.WithRelated(n.Left.Span()).WithRelated(n.Right.Span())
			d = d.WithNote(fmt.Sprintf("left operand is a %s", left))
			d = d.WithNote(fmt.Sprintf("right operand is a %s", right))
			return d, true
		}
		return diag.Diagnostic{
			Code:     diag.CodeInvalidOperation,
			Message:  fmt.Sprintf("`%s` is not defined between %s and %s", n.Op, left, right),
			Severity: diag.SeverityError,
			Source:   diag.SourceSemantic,
			Span:     n.Span(),
		}, true
	}

	return diag.Diagnostic{}, false
}

// builtinParam is the argument kind a single-argument built-in function
// requires. Functions accepting several kinds (str, len, min, max) are not
// listed; the checker only reports what is certainly wrong.
var builtinParam = map[string]Kind{
	"sqrt": Number, "exp": Number, "ln": Number, "log": Number,
	"sin": Number, "cos": Number, "tan": Number,
	"asin": Number, "acos": Number, "atan": Number,
	"ceil": Number, "floor": Number, "round": Number, "abs": Number,
	"chr": Number,
	"ord": String,
}

// checkCall flags a literal first argument whose kind the built-in cannot
// accept. When wrapping the argument in str(...) would fix it, the diagnostic
// carries the replacement text as a suggestion.
func (c *Checker) checkCall(n *ast.CallExpr) (diag.Diagnostic, bool) {
	ident, ok := n.Function.(*ast.Identifier)
	if !ok {
		return diag.Diagnostic{}, false
	}
	expected, ok := builtinParam[ident.Name]
	if !ok || len(n.Args) == 0 || n.Args[0].Name != "" {
		return diag.Diagnostic{}, false
	}

	arg := n.Args[0].Value
	got := c.TypeOf(arg)
	if got == Unknown || c.Assignable(got, expected) {
		return diag.Diagnostic{}, false
	}

	d := diag.Diagnostic{
		Code:     diag.CodeInvalidArguments,
		Message:  fmt.Sprintf("%s expects a %s argument, got %s", ident.Name, expected, got),
		Severity: diag.SeverityError,
		Source:   diag.SourceSemantic,
		Span:     n.Span(),
	}
	d = d.WithRelated(arg.Span())
	if expected == String {
		if text, ok := literalText(arg); ok {
			d = d.WithSuggestion("str(" + text + ")")
		}
	}
	return d, true
}

// literalText renders a literal back to source form for suggestion splicing.
func literalText(e ast.Expr) (string, bool) {
	switch n := e.(type) {
	case *ast.NumberLit:
		return strconv.FormatFloat(n.Value, 'g', -1, 64), true
	case *ast.BoolLit:
		return strconv.FormatBool(n.Value), true
	}
	return "", false
}

// bothArithmetic allows number/vector mixing, which OpenSCAD defines for
// scalar-vector products and element-wise addition.
func bothArithmetic(a, b Kind) bool {
	arith := func(k Kind) bool { return k == Number || k == Vector }
	return arith(a) && arith(b)
}
