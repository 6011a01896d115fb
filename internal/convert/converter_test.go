package convert

import (
	"testing"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst"
	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/loc"
)

// spanAt builds a zero-width span for hand-assembled AST fixtures.
func spanAt(offset int) loc.Span {
	p := loc.Position{Column: offset, Offset: offset}
	return loc.Span{Start: p, End: p}
}

// leaf builds a named synthetic node whose span starts at the given offset.
func leaf(src, kind, text string, at int) *cst.SyntheticNode {
	return cst.NewNode(kind, text).SetSpan(src, at, at+len(text))
}

func instantiation(src, name string, nameAt int, args *cst.SyntheticNode) *cst.SyntheticNode {
	node := cst.NewNode("module_instantiation", "")
	node.Field("name", leaf(src, "identifier", name, nameAt))
	if args != nil {
		node.Field("arguments", args)
	}
	return node
}

func TestConvertCleanInstantiation(t *testing.T) {
	src := "cube(10, center=true);"

	named := cst.NewNode("assignment", "center=true").SetSpan(src, 9, 20).
		Field("name", leaf(src, "identifier", "center", 9)).
		Field("value", leaf(src, "boolean", "true", 16))
	args := cst.NewNode("arguments", "(10, center=true)").SetSpan(src, 4, 21).
		Append(leaf(src, "number", "10", 5), named)
	inst := instantiation(src, "cube", 0, args).SetSpan(src, 0, 21)
	root := cst.NewNode("source_file", src).SetSpan(src, 0, len(src)).Append(inst)

	forest, diags := New(src).Convert(root)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if len(forest) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(forest))
	}

	mi, ok := forest[0].(*ast.ModuleInstantiation)
	if !ok {
		t.Fatalf("expected ModuleInstantiation, got %T", forest[0])
	}
	if mi.Name != "cube" {
		t.Fatalf("expected name cube, got %q", mi.Name)
	}
	if len(mi.Args) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(mi.Args))
	}
	if mi.Args[0].Name != "" {
		t.Fatalf("expected first argument positional, got name %q", mi.Args[0].Name)
	}
	if mi.Args[1].Name != "center" {
		t.Fatalf("expected second argument named center, got %q", mi.Args[1].Name)
	}

	// Clean input must round-trip without error placeholders.
	ast.WalkForest(forest, func(n ast.Node) bool {
		if _, bad := n.(*ast.ErrorNode); bad {
			t.Fatalf("unexpected error node in clean conversion")
		}
		return true
	})
}

func TestModuleVisitorDoesNotClaimInstantiation(t *testing.T) {
	src := "cube(10);"
	inst := instantiation(src, "cube", 0, nil).SetSpan(src, 0, 8)

	v := &ModuleVisitor{c: New(src)}
	if got := v.Visit(inst); got != nil {
		t.Fatalf("expected ModuleVisitor to pass on module_instantiation, got %T", got)
	}
}

func TestDispatchUnhandledConstructWarns(t *testing.T) {
	src := "mystery;"
	node := leaf(src, "mystery_statement", "mystery", 0)

	c := New(src)
	if stmt := c.Dispatch(node); stmt != nil {
		t.Fatalf("expected nil for unhandled construct, got %T", stmt)
	}
	diags := c.Diagnostics().All()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Code != diag.CodeUnhandledConstruct {
		t.Fatalf("expected %q, got %q", diag.CodeUnhandledConstruct, diags[0].Code)
	}
	if diags[0].Severity != diag.SeverityWarning {
		t.Fatalf("expected warning severity, got %q", diags[0].Severity)
	}
}

func TestModuleDefinition(t *testing.T) {
	src := "module box(w, h=1) { cube(w); }"

	params := cst.NewNode("parameters_declaration", "(w, h=1)").SetSpan(src, 10, 18).
		Append(
			leaf(src, "identifier", "w", 11),
			cst.NewNode("assignment", "h=1").SetSpan(src, 14, 17).
				Field("name", leaf(src, "identifier", "h", 14)).
				Field("value", leaf(src, "number", "1", 16)),
		)
	args := cst.NewNode("arguments", "(w)").SetSpan(src, 25, 28).
		Append(leaf(src, "identifier", "w", 26))
	body := cst.NewNode("block", "{ cube(w); }").SetSpan(src, 19, 31).
		Append(instantiation(src, "cube", 21, args).SetSpan(src, 21, 29))
	def := cst.NewNode("module_definition", src).SetSpan(src, 0, len(src)).
		Field("name", leaf(src, "identifier", "box", 7)).
		Field("parameters", params).
		Field("body", body)
	root := cst.NewNode("source_file", src).SetSpan(src, 0, len(src)).Append(def)

	forest, diags := New(src).Convert(root)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	md, ok := forest[0].(*ast.ModuleDefinition)
	if !ok {
		t.Fatalf("expected ModuleDefinition, got %T", forest[0])
	}
	if md.Name != "box" {
		t.Fatalf("expected name box, got %q", md.Name)
	}
	if len(md.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(md.Parameters))
	}
	if md.Parameters[0].Name != "w" || md.Parameters[0].Default != nil {
		t.Fatalf("expected bare parameter w, got %q with default %v",
			md.Parameters[0].Name, md.Parameters[0].Default)
	}
	if md.Parameters[1].Name != "h" || md.Parameters[1].Default == nil {
		t.Fatalf("expected parameter h with default")
	}
	if len(md.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(md.Body))
	}
}

func TestMissingSemicolonClassification(t *testing.T) {
	src := "cube(10)\n"
	errNode := cst.NewErrorNode("cube(10)").SetSpan(src, 0, 8)
	root := cst.NewNode("source_file", src).SetSpan(src, 0, len(src)).Append(errNode)

	_, diags := New(src).Convert(root)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Code != diag.CodeMissingSemicolon {
		t.Fatalf("expected %q, got %q", diag.CodeMissingSemicolon, diags[0].Code)
	}
}

func TestUnclosedBracketClassification(t *testing.T) {
	src := "cube([10, 20"
	errNode := cst.NewErrorNode(src).SetSpan(src, 0, len(src))
	root := cst.NewNode("source_file", src).SetSpan(src, 0, len(src)).Append(errNode)

	_, diags := New(src).Convert(root)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Code != diag.CodeUnclosedBracket {
		t.Fatalf("expected %q, got %q", diag.CodeUnclosedBracket, d.Code)
	}
	if d.Span.Start.Offset != 5 {
		t.Fatalf("expected diagnostic at the opening bracket (offset 5), got %d", d.Span.Start.Offset)
	}
}

func TestMissingSemicolonTokenClassification(t *testing.T) {
	src := "x = 1\ny = 2;\n"
	missing := cst.NewMissingNode(";").SetSpan(src, 5, 5)
	assign := cst.NewNode("assignment", "x = 1").SetSpan(src, 0, 5).
		Field("name", leaf(src, "identifier", "x", 0)).
		Field("value", leaf(src, "number", "1", 4)).
		Append(missing)
	root := cst.NewNode("source_file", src).SetSpan(src, 0, len(src)).Append(assign)

	_, diags := New(src).Convert(root)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Code != diag.CodeMissingSemicolon {
		t.Fatalf("expected %q, got %q", diag.CodeMissingSemicolon, diags[0].Code)
	}
}

func TestErrorRegionSurvivesAsErrorNode(t *testing.T) {
	src := "@@@@\ncube(1);\n"
	errNode := cst.NewErrorNode("@@@@").SetSpan(src, 0, 4)
	args := cst.NewNode("arguments", "(1)").SetSpan(src, 9, 12).
		Append(leaf(src, "number", "1", 10))
	inst := instantiation(src, "cube", 5, args).SetSpan(src, 5, 12)
	root := cst.NewNode("source_file", src).SetSpan(src, 0, len(src)).Append(errNode, inst)

	forest, diags := New(src).Convert(root)
	if len(forest) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(forest))
	}
	if _, ok := forest[0].(*ast.ErrorNode); !ok {
		t.Fatalf("expected leading ErrorNode, got %T", forest[0])
	}
	if _, ok := forest[1].(*ast.ModuleInstantiation); !ok {
		t.Fatalf("expected trailing instantiation to survive, got %T", forest[1])
	}
	if len(diags) != 1 || diags[0].Code != diag.CodeSyntaxError {
		t.Fatalf("expected one syntax error diagnostic, got %v", diags)
	}
}

func TestBindArguments(t *testing.T) {
	size := ast.NewModuleParameter("size", nil, spanAt(0))
	center := ast.NewModuleParameter("center", ast.NewBoolLit(false, spanAt(1)), spanAt(1))
	params := []*ast.ModuleParameter{size, center}

	args := []*ast.Argument{
		ast.NewArgument("", ast.NewNumberLit(10, spanAt(2)), spanAt(2)),
		ast.NewArgument("center", ast.NewBoolLit(true, spanAt(3)), spanAt(3)),
	}

	bound := Bind(params, args)
	if n, ok := bound["size"].(*ast.NumberLit); !ok || n.Value != 10 {
		t.Fatalf("expected size bound to 10, got %v", bound["size"])
	}
	if b, ok := bound["center"].(*ast.BoolLit); !ok || !b.Value {
		t.Fatalf("expected center bound to true, got %v", bound["center"])
	}
}

func TestBindPositionalSkipsNamedFilledParameter(t *testing.T) {
	a := ast.NewModuleParameter("a", nil, spanAt(0))
	b := ast.NewModuleParameter("b", nil, spanAt(1))
	params := []*ast.ModuleParameter{a, b}

	args := []*ast.Argument{
		ast.NewArgument("a", ast.NewNumberLit(1, spanAt(2)), spanAt(2)),
		ast.NewArgument("", ast.NewNumberLit(2, spanAt(3)), spanAt(3)),
	}

	bound := Bind(params, args)
	if n, ok := bound["a"].(*ast.NumberLit); !ok || n.Value != 1 {
		t.Fatalf("expected a bound to 1 by name, got %v", bound["a"])
	}
	if n, ok := bound["b"].(*ast.NumberLit); !ok || n.Value != 2 {
		t.Fatalf("expected positional 2 to fill b, got %v", bound["b"])
	}
}

func TestBindDuplicateNamedLastWins(t *testing.T) {
	params := []*ast.ModuleParameter{ast.NewModuleParameter("r", nil, spanAt(0))}
	args := []*ast.Argument{
		ast.NewArgument("r", ast.NewNumberLit(1, spanAt(1)), spanAt(1)),
		ast.NewArgument("r", ast.NewNumberLit(2, spanAt(2)), spanAt(2)),
	}

	bound := Bind(params, args)
	if n, ok := bound["r"].(*ast.NumberLit); !ok || n.Value != 2 {
		t.Fatalf("expected last duplicate to win with 2, got %v", bound["r"])
	}
}

func TestBindRetainsUnknownNamedArgument(t *testing.T) {
	params := []*ast.ModuleParameter{ast.NewModuleParameter("r", nil, spanAt(0))}
	args := []*ast.Argument{
		ast.NewArgument("$fn", ast.NewNumberLit(64, spanAt(1)), spanAt(1)),
	}

	bound := Bind(params, args)
	if _, ok := bound["$fn"]; !ok {
		t.Fatalf("expected unknown named argument $fn to be retained")
	}
}
