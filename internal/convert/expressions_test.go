package convert

import (
	"testing"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst"
)

func TestFlatBinaryChainPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 * 2 + 3", "(+ (* 1 2) 3)"},
		{"1 + 2 + 3", "(+ (+ 1 2) 3)"},
		{"2 ^ 3 ^ 2", "(^ 2 (^ 3 2))"},
		{"1 < 2 + 3", "(< 1 (+ 2 3))"},
		{"1 + 2 < 3 * 4", "(< (+ 1 2) (* 3 4))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			node := cst.NewNode("binary_expression", tt.src).SetSpan(tt.src, 0, len(tt.src))
			for i := 0; i < len(tt.src); i++ {
				if ch := tt.src[i]; ch >= '0' && ch <= '9' {
					node.Append(leaf(tt.src, "number", string(ch), i))
				}
			}

			expr := New(tt.src).Expression(node)
			if got := ast.Sprint(expr); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStructuredBinaryExpression(t *testing.T) {
	src := "a + b"
	node := cst.NewNode("binary_expression", src).SetSpan(src, 0, len(src)).
		Field("left", leaf(src, "identifier", "a", 0)).
		Field("operator", cst.NewNode("+", "+").SetSpan(src, 2, 3).Anonymous()).
		Field("right", leaf(src, "identifier", "b", 4))

	expr := New(src).Expression(node)
	if got := ast.Sprint(expr); got != "(+ a b)" {
		t.Fatalf("expected (+ a b), got %s", got)
	}
}

func TestRangeDefaultStep(t *testing.T) {
	src := "[0 : 5]"
	node := cst.NewNode("range_expression", src).SetSpan(src, 0, len(src)).
		Field("start", leaf(src, "number", "0", 1)).
		Field("end", leaf(src, "number", "5", 5))

	expr := New(src).Expression(node)
	rng, ok := expr.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("expected RangeExpr, got %T", expr)
	}
	step, ok := rng.Step.(*ast.NumberLit)
	if !ok || step.Value != 1 {
		t.Fatalf("expected default step 1, got %v", rng.Step)
	}
}

func TestRangeExplicitStep(t *testing.T) {
	src := "[0 : 2 : 10]"
	node := cst.NewNode("range_expression", src).SetSpan(src, 0, len(src)).
		Field("start", leaf(src, "number", "0", 1)).
		Field("step", leaf(src, "number", "2", 5)).
		Field("end", leaf(src, "number", "10", 9))

	rng, ok := New(src).Expression(node).(*ast.RangeExpr)
	if !ok {
		t.Fatalf("expected RangeExpr")
	}
	if step, ok := rng.Step.(*ast.NumberLit); !ok || step.Value != 2 {
		t.Fatalf("expected step 2, got %v", rng.Step)
	}
}

func TestTernaryExpression(t *testing.T) {
	src := "a ? 1 : 2"
	node := cst.NewNode("ternary_expression", src).SetSpan(src, 0, len(src)).
		Field("condition", leaf(src, "identifier", "a", 0)).
		Field("consequence", leaf(src, "number", "1", 4)).
		Field("alternative", leaf(src, "number", "2", 8))

	if got := ast.Sprint(New(src).Expression(node)); got != "(?: a 1 2)" {
		t.Fatalf("expected (?: a 1 2), got %s", got)
	}
}

// comprehensionFixture builds `[for (i = r) i]` with the clause and element in
// the given child order.
func comprehensionFixture(src string, elementFirst bool) *cst.SyntheticNode {
	rng := cst.NewNode("range_expression", "[0:5]").
		Field("start", cst.NewNode("number", "0")).
		Field("end", cst.NewNode("number", "5"))
	clause := cst.NewNode("for_clause", "for (i = [0:5])").
		Append(cst.NewNode("for_assignment", "i = [0:5]").
			Field("name", cst.NewNode("identifier", "i")).
			Field("range", rng))
	element := cst.NewNode("identifier", "i")

	node := cst.NewNode("list_comprehension", src)
	if elementFirst {
		return node.Append(element, clause)
	}
	return node.Append(clause, element)
}

func TestListComprehensionFormsNormalize(t *testing.T) {
	modern := New("[for (i = [0:5]) i]").Expression(comprehensionFixture("[for (i = [0:5]) i]", false))
	legacy := New("[i for (i = [0:5])]").Expression(comprehensionFixture("[i for (i = [0:5])]", true))

	m, ok := modern.(*ast.ListComprehension)
	if !ok {
		t.Fatalf("expected ListComprehension, got %T", modern)
	}
	l, ok := legacy.(*ast.ListComprehension)
	if !ok {
		t.Fatalf("expected ListComprehension, got %T", legacy)
	}

	if ast.Sprint(m) != ast.Sprint(l) {
		t.Fatalf("expected both surface forms to normalize to one shape:\n%s\n%s",
			ast.Sprint(m), ast.Sprint(l))
	}
	if len(m.Fors) != 1 || len(m.Fors[0].Variables) != 1 || m.Fors[0].Variables[0].Name != "i" {
		t.Fatalf("expected single clause over i, got %s", ast.Sprint(m))
	}
}

func TestVectorWrappingComprehension(t *testing.T) {
	src := "[for (i = [0:5]) i]"
	vec := cst.NewNode("vector_expression", src).SetSpan(src, 0, len(src)).
		Append(comprehensionFixture(src, false))

	if _, ok := New(src).Expression(vec).(*ast.ListComprehension); !ok {
		t.Fatalf("expected bracket-wrapped comprehension to unwrap")
	}
}

func TestUnquoteString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"plain"`, "plain"},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"quote\"end"`, `quote"end`},
		{`"back\\slash"`, `back\slash`},
		{`"A"`, "A"},
	}

	for _, tt := range tests {
		got, ok := unquoteString(tt.raw)
		if !ok {
			t.Fatalf("unquoteString(%s): unexpected failure", tt.raw)
		}
		if got != tt.want {
			t.Fatalf("unquoteString(%s): expected %q, got %q", tt.raw, tt.want, got)
		}
	}

	if _, ok := unquoteString(`"unterminated`); ok {
		t.Fatalf("expected unterminated string to fail")
	}
}

func TestMalformedNumberYieldsErrorNode(t *testing.T) {
	src := "1.2.3;"
	node := leaf(src, "number", "1.2.3", 0)

	c := New(src)
	expr := c.Expression(node)
	if _, ok := expr.(*ast.ErrorNode); !ok {
		t.Fatalf("expected ErrorNode for malformed number, got %T", expr)
	}
	if !c.Diagnostics().HasErrors() {
		t.Fatalf("expected a diagnostic for malformed number")
	}
}

func TestCallExpression(t *testing.T) {
	src := "max(a, 2)"
	args := cst.NewNode("arguments", "(a, 2)").SetSpan(src, 3, 9).
		Append(leaf(src, "identifier", "a", 4), leaf(src, "number", "2", 7))
	node := cst.NewNode("function_call", src).SetSpan(src, 0, len(src)).
		Field("function", leaf(src, "identifier", "max", 0)).
		Field("arguments", args)

	call, ok := New(src).Expression(node).(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr")
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(call.Args))
	}
}

func TestMemberAndIndexExpressions(t *testing.T) {
	src := "v[0].x"
	index := cst.NewNode("index_expression", "v[0]").SetSpan(src, 0, 4).
		Field("value", leaf(src, "identifier", "v", 0)).
		Field("index", leaf(src, "number", "0", 2))
	member := cst.NewNode("member_expression", src).SetSpan(src, 0, len(src)).
		Field("value", index).
		Field("property", leaf(src, "identifier", "x", 5))

	if got := ast.Sprint(New(src).Expression(member)); got != "(member (index v 0) .x)" {
		t.Fatalf("expected (member (index v 0) .x), got %s", got)
	}
}
