package recovery_test

import (
	"testing"

	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/loc"
	"github.com/openscad-go/scadc/internal/recovery"
	"github.com/openscad-go/scadc/internal/types"
)

func span(start, end int) loc.Span {
	return loc.Span{
		Start: loc.Position{Column: start, Offset: start},
		End:   loc.Position{Column: end, Offset: end},
	}
}

func TestSemicolonRecovery(t *testing.T) {
	src := "cube(10)\n"
	d := diag.Diagnostic{Code: diag.CodeMissingSemicolon, Span: span(0, 8)}

	patched, handled, ok := recovery.NewEngine().Apply(src, []diag.Diagnostic{d})
	if !ok {
		t.Fatalf("expected a patch")
	}
	if patched != "cube(10);\n" {
		t.Fatalf("expected %q, got %q", "cube(10);\n", patched)
	}
	if handled.Code != diag.CodeMissingSemicolon {
		t.Fatalf("expected the semicolon diagnostic handled, got %q", handled.Code)
	}
}

func TestSemicolonRecoverySkipsTerminatedLine(t *testing.T) {
	src := "cube(10);\n"
	d := diag.Diagnostic{Code: diag.CodeMissingSemicolon, Span: span(0, 8)}

	s := recovery.NewSemicolonStrategy()
	if _, ok := s.Recover(src, d); ok {
		t.Fatalf("expected no patch for an already terminated line")
	}
}

func TestSemicolonRecoverySkipsCommentLine(t *testing.T) {
	src := "// a comment\n"
	d := diag.Diagnostic{Code: diag.CodeMissingSemicolon, Span: span(0, 12)}

	s := recovery.NewSemicolonStrategy()
	if _, ok := s.Recover(src, d); ok {
		t.Fatalf("expected no patch for a comment line")
	}
}

func TestDelimiterRecoveryClosesNest(t *testing.T) {
	src := "cube([10, 20, 30"
	d := diag.Diagnostic{Code: diag.CodeUnclosedBracket, Span: span(5, len(src))}

	s := recovery.NewDelimiterStrategy()
	patched, ok := s.Recover(src, d)
	if !ok {
		t.Fatalf("expected a patch")
	}
	// The rescan starts at the flagged opener and closes everything still
	// open, so the paren opened earlier stays untouched here.
	if patched != "cube([10, 20, 30]" {
		t.Fatalf("expected %q, got %q", "cube([10, 20, 30]", patched)
	}
}

func TestDelimiterRecoveryFullStatement(t *testing.T) {
	src := "cube([10, 20, 30"
	d := diag.Diagnostic{Code: diag.CodeUnclosedParen, Span: span(4, len(src))}

	s := recovery.NewDelimiterStrategy()
	patched, ok := s.Recover(src, d)
	if !ok {
		t.Fatalf("expected a patch")
	}
	if patched != "cube([10, 20, 30])" {
		t.Fatalf("expected %q, got %q", "cube([10, 20, 30])", patched)
	}
}

func TestDelimiterRecoveryBeforeTrailingSemicolon(t *testing.T) {
	src := "cube((10;\n"
	d := diag.Diagnostic{Code: diag.CodeUnclosedParen, Span: span(4, 9)}

	s := recovery.NewDelimiterStrategy()
	patched, ok := s.Recover(src, d)
	if !ok {
		t.Fatalf("expected a patch")
	}
	if patched != "cube((10));\n" {
		t.Fatalf("expected %q, got %q", "cube((10));\n", patched)
	}
}

func TestDelimiterRecoveryBrace(t *testing.T) {
	src := "module m() {\n  cube(1);\n"
	d := diag.Diagnostic{Code: diag.CodeUnclosedBrace, Span: span(11, len(src))}

	s := recovery.NewDelimiterStrategy()
	patched, ok := s.Recover(src, d)
	if !ok {
		t.Fatalf("expected a patch")
	}
	if patched != "module m() {\n  cube(1);\n}\n" {
		t.Fatalf("expected closing brace at end, got %q", patched)
	}
}

func TestDelimiterRecoveryIgnoresStringsAndComments(t *testing.T) {
	src := `echo("unbalanced ( here") // also ( here` + "\n"
	d := diag.Diagnostic{Code: diag.CodeUnclosedParen, Span: span(4, len(src))}

	s := recovery.NewDelimiterStrategy()
	if _, ok := s.Recover(src, d); ok {
		t.Fatalf("expected no patch when delimiters only look unbalanced inside strings/comments")
	}
}

func TestTypeMismatchRecoveryWrapsNumber(t *testing.T) {
	src := `label = "w: " + 10;` + "\n"
	d := diag.Diagnostic{
		Code: diag.CodeTypeMismatch,
		Span: span(8, 18),
	}
	d = d.WithRelated(span(8, 13)).WithRelated(span(16, 18))

	s := recovery.NewTypeMismatchStrategy(types.NewChecker())
	patched, ok := s.Recover(src, d)
	if !ok {
		t.Fatalf("expected a patch")
	}
	want := `label = "w: " + str(10);` + "\n"
	if patched != want {
		t.Fatalf("expected %q, got %q", want, patched)
	}
}

func TestTypeMismatchRecoveryLeavesNonStringMixAlone(t *testing.T) {
	src := "x = true + [1];\n"
	d := diag.Diagnostic{Code: diag.CodeTypeMismatch, Span: span(4, 14)}
	d = d.WithRelated(span(4, 8)).WithRelated(span(11, 14))

	s := recovery.NewTypeMismatchStrategy(types.NewChecker())
	if _, ok := s.Recover(src, d); ok {
		t.Fatalf("expected no patch for a mix without a string operand")
	}
}

func TestEngineAppliesSinglePatchPerPass(t *testing.T) {
	src := "cube(10)\nsphere(5)\n"
	diags := []diag.Diagnostic{
		{Code: diag.CodeMissingSemicolon, Span: span(0, 8)},
		{Code: diag.CodeMissingSemicolon, Span: span(9, 18)},
	}

	patched, _, ok := recovery.NewEngine().Apply(src, diags)
	if !ok {
		t.Fatalf("expected a patch")
	}
	if patched != "cube(10);\nsphere(5)\n" {
		t.Fatalf("expected only the first diagnostic patched, got %q", patched)
	}
}

func TestEngineNoChangeOnCleanInput(t *testing.T) {
	src := "cube(10);\n"
	patched, _, ok := recovery.NewEngine().Apply(src, nil)
	if ok || patched != src {
		t.Fatalf("expected clean input untouched, got ok=%t %q", ok, patched)
	}
}

func TestEngineOrdersByPriority(t *testing.T) {
	engine := recovery.NewEngine(
		recovery.NewTypeMismatchStrategy(types.NewChecker()),
		recovery.NewSemicolonStrategy(),
		recovery.NewDelimiterStrategy(),
	)
	strategies := engine.Strategies()
	if len(strategies) != 3 {
		t.Fatalf("expected 3 strategies, got %d", len(strategies))
	}
	for i := 1; i < len(strategies); i++ {
		if strategies[i-1].Priority() > strategies[i].Priority() {
			t.Fatalf("strategies not sorted by priority: %d before %d",
				strategies[i-1].Priority(), strategies[i].Priority())
		}
	}
	if strategies[0].Name() != "delimiter" {
		t.Fatalf("expected delimiter strategy first, got %q", strategies[0].Name())
	}
}

func TestInvalidArgumentSuggestionApplied(t *testing.T) {
	src := "c = ord(10);\n"
	d := diag.Diagnostic{
		Code:       diag.CodeInvalidArguments,
		Span:       span(4, 11),
		Related:    []loc.Span{span(8, 10)},
		Suggestion: "str(10)",
	}

	patched, handled, ok := recovery.NewEngine().Apply(src, []diag.Diagnostic{d})
	if !ok {
		t.Fatalf("expected the suggestion applied")
	}
	if patched != "c = ord(str(10));\n" {
		t.Fatalf("expected %q, got %q", "c = ord(str(10));\n", patched)
	}
	if handled.Code != diag.CodeInvalidArguments {
		t.Fatalf("expected the argument diagnostic handled, got %q", handled.Code)
	}
}

func TestInvalidArgumentWithoutSuggestionIgnored(t *testing.T) {
	d := diag.Diagnostic{
		Code:    diag.CodeInvalidArguments,
		Span:    span(4, 12),
		Related: []loc.Span{span(8, 11)},
	}

	s := recovery.NewTypeMismatchStrategy(types.NewChecker())
	if s.CanHandle(d) {
		t.Fatalf("expected the strategy to decline a diagnostic without a suggestion")
	}
}

func TestDefaultsWithTypeChecker(t *testing.T) {
	strategies := recovery.Defaults(recovery.WithTypeChecker(types.NewChecker()))
	if len(strategies) != 3 {
		t.Fatalf("expected 3 default strategies, got %d", len(strategies))
	}
}
