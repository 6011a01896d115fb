package types_test

import (
	"testing"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/loc"
	"github.com/openscad-go/scadc/internal/types"
)

func TestTypeOf(t *testing.T) {
	c := types.NewChecker()
	span := loc.Span{}

	tests := []struct {
		name string
		expr ast.Expr
		want types.Kind
	}{
		{"number", ast.NewNumberLit(10, span), types.Number},
		{"string", ast.NewStringLit("hi", span), types.String},
		{"bool", ast.NewBoolLit(true, span), types.Boolean},
		{"undef", ast.NewUndefLit(span), types.Undef},
		{"vector", ast.NewVectorExpr([]ast.Expr{ast.NewNumberLit(1, span)}, span), types.Vector},
		{"range", ast.NewRangeExpr(ast.NewNumberLit(0, span), ast.NewNumberLit(1, span), ast.NewNumberLit(5, span), span), types.Range},
		{"negation", ast.NewUnaryExpr("-", ast.NewNumberLit(3, span), span), types.Number},
		{"not", ast.NewUnaryExpr("!", ast.NewIdentifier("x", span), span), types.Boolean},
		{"comparison", ast.NewBinaryExpr("<", ast.NewNumberLit(1, span), ast.NewNumberLit(2, span), span), types.Boolean},
		{"arithmetic", ast.NewBinaryExpr("+", ast.NewNumberLit(1, span), ast.NewNumberLit(2, span), span), types.Number},
		{"str call", ast.NewCallExpr(ast.NewIdentifier("str", span), nil, span), types.String},
		{"len call", ast.NewCallExpr(ast.NewIdentifier("len", span), nil, span), types.Number},
		{"identifier", ast.NewIdentifier("x", span), types.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.TypeOf(tt.expr); got != tt.want {
				t.Fatalf("expected kind %q, got %q", tt.want, got)
			}
		})
	}
}

func TestKindOfText(t *testing.T) {
	c := types.NewChecker()

	tests := []struct {
		text string
		want types.Kind
	}{
		{"10", types.Number},
		{"-2.5", types.Number},
		{`"abc"`, types.String},
		{"true", types.Boolean},
		{"undef", types.Undef},
		{"[1, 2]", types.Vector},
		{"foo", types.Unknown},
	}

	for _, tt := range tests {
		if got := c.KindOfText(tt.text); got != tt.want {
			t.Fatalf("KindOfText(%q): expected %q, got %q", tt.text, tt.want, got)
		}
	}
}

func TestCommonType(t *testing.T) {
	c := types.NewChecker()

	if k, ok := c.CommonType(types.String, types.Number); !ok || k != types.String {
		t.Fatalf("expected string/number to unify to string, got %q ok=%t", k, ok)
	}
	if k, ok := c.CommonType(types.Number, types.Boolean); !ok || k != types.Number {
		t.Fatalf("expected number/boolean to unify to number, got %q ok=%t", k, ok)
	}
	if _, ok := c.CommonType(types.Range, types.Boolean); ok {
		t.Fatalf("expected range/boolean to have no common type")
	}
}

func TestAssignable(t *testing.T) {
	c := types.NewChecker()

	tests := []struct {
		from, to types.Kind
		want     bool
	}{
		{types.Number, types.Number, true},
		{types.Undef, types.Number, true},
		{types.Unknown, types.String, true},
		{types.String, types.Number, false},
		{types.Boolean, types.Vector, false},
	}

	for _, tt := range tests {
		if got := c.Assignable(tt.from, tt.to); got != tt.want {
			t.Fatalf("Assignable(%q, %q): expected %t, got %t", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestCheckFlagsBadCallArgument(t *testing.T) {
	span := loc.Span{}
	argSpan := loc.Span{
		Start: loc.Position{Column: 8, Offset: 8},
		End:   loc.Position{Column: 11, Offset: 11},
	}
	call := ast.NewCallExpr(ast.NewIdentifier("sin", span),
		[]*ast.Argument{ast.NewArgument("", ast.NewStringLit("x", argSpan), argSpan)}, span)
	forest := []ast.Stmt{ast.NewAssignment("y", call, span)}

	diags := types.NewChecker().Check(forest)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Code != diag.CodeInvalidArguments {
		t.Fatalf("expected code %q, got %q", diag.CodeInvalidArguments, d.Code)
	}
	if len(d.Related) != 1 {
		t.Fatalf("expected the argument span attached, got %d related spans", len(d.Related))
	}
	if d.Suggestion != "" {
		t.Fatalf("expected no suggestion for a string where a number is required, got %q", d.Suggestion)
	}
}

func TestCheckSuggestsStrWrapForStringParameter(t *testing.T) {
	span := loc.Span{}
	argSpan := loc.Span{
		Start: loc.Position{Column: 8, Offset: 8},
		End:   loc.Position{Column: 10, Offset: 10},
	}
	call := ast.NewCallExpr(ast.NewIdentifier("ord", span),
		[]*ast.Argument{ast.NewArgument("", ast.NewNumberLit(10, argSpan), argSpan)}, span)
	forest := []ast.Stmt{ast.NewAssignment("c", call, span)}

	diags := types.NewChecker().Check(forest)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Suggestion != "str(10)" {
		t.Fatalf("expected suggestion str(10), got %q", diags[0].Suggestion)
	}
}

func TestCheckReportsStringNumberMismatch(t *testing.T) {
	span := loc.Span{
		Start: loc.Position{Line: 0, Column: 4, Offset: 4},
		End:   loc.Position{Line: 0, Column: 14, Offset: 14},
	}
	left := ast.NewStringLit("width: ", loc.Span{
		Start: loc.Position{Line: 0, Column: 4, Offset: 4},
		End:   loc.Position{Line: 0, Column: 12, Offset: 12},
	})
	right := ast.NewNumberLit(10, loc.Span{
		Start: loc.Position{Line: 0, Column: 15, Offset: 15},
		End:   loc.Position{Line: 0, Column: 17, Offset: 17},
	})
	forest := []ast.Stmt{
		ast.NewAssignment("label", ast.NewBinaryExpr("+", left, right, span), span),
	}

	diags := types.NewChecker().Check(forest)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Code != diag.CodeTypeMismatch {
		t.Fatalf("expected code %q, got %q", diag.CodeTypeMismatch, d.Code)
	}
	if d.Source != diag.SourceSemantic {
		t.Fatalf("expected semantic source, got %q", d.Source)
	}
	if len(d.Related) != 2 {
		t.Fatalf("expected operand spans attached, got %d related spans", len(d.Related))
	}
}

func TestCheckAllowsScalarVectorArithmetic(t *testing.T) {
	span := loc.Span{}
	vec := ast.NewVectorExpr([]ast.Expr{ast.NewNumberLit(1, span), ast.NewNumberLit(2, span)}, span)
	forest := []ast.Stmt{
		ast.NewAssignment("v", ast.NewBinaryExpr("*", ast.NewNumberLit(2, span), vec, span), span),
	}

	if diags := types.NewChecker().Check(forest); len(diags) != 0 {
		t.Fatalf("expected no diagnostics for scalar*vector, got %v", diags)
	}
}
