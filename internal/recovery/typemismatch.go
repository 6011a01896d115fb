package recovery

import (
	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/loc"
	"github.com/openscad-go/scadc/internal/types"
)

// TypeMismatchStrategy heals string/non-string operand mixes by wrapping the
// non-string operand in str(...). It relies on the checker attaching both
// operand spans to the diagnostic.
type TypeMismatchStrategy struct {
	checker *types.Checker
}

// NewTypeMismatchStrategy creates the strategy.
func NewTypeMismatchStrategy(checker *types.Checker) *TypeMismatchStrategy {
	return &TypeMismatchStrategy{checker: checker}
}

// Name implements Strategy.
func (*TypeMismatchStrategy) Name() string { return "type-mismatch" }

// Priority implements Strategy.
func (*TypeMismatchStrategy) Priority() int { return 80 }

// CanHandle implements Strategy.
func (*TypeMismatchStrategy) CanHandle(d diag.Diagnostic) bool {
	switch d.Code {
	case diag.CodeTypeMismatch:
		return len(d.Related) == 2
	case diag.CodeInvalidArguments:
		return len(d.Related) == 1 && d.Suggestion != ""
	}
	return false
}

// Recover wraps the non-string operand in str(...) when exactly one operand
// is a string literal, or splices in the checker's suggested conversion for a
// bad call argument. Other kind combinations are left for the user; a textual
// patch cannot guess the intent.
func (s *TypeMismatchStrategy) Recover(source string, d diag.Diagnostic) (string, bool) {
	if d.Code == diag.CodeInvalidArguments {
		return s.applySuggestion(source, d)
	}

	left, right := d.Related[0], d.Related[1]
	leftText, ok := slice(source, left)
	if !ok {
		return source, false
	}
	rightText, ok := slice(source, right)
	if !ok {
		return source, false
	}

	leftKind := s.checker.KindOfText(leftText)
	rightKind := s.checker.KindOfText(rightText)

	var target loc.Span
	var targetText string
	switch {
	case leftKind == types.String && rightKind != types.String && rightKind != types.Unknown:
		target, targetText = right, rightText
	case rightKind == types.String && leftKind != types.String && leftKind != types.Unknown:
		target, targetText = left, leftText
	default:
		return source, false
	}

	patched := source[:target.Start.Offset] + "str(" + targetText + ")" + source[target.End.Offset:]
	return patched, true
}

// applySuggestion replaces the diagnostic's related span with the replacement
// text the checker attached.
func (s *TypeMismatchStrategy) applySuggestion(source string, d diag.Diagnostic) (string, bool) {
	target := d.Related[0]
	text, ok := slice(source, target)
	if !ok || text == d.Suggestion {
		return source, false
	}
	return source[:target.Start.Offset] + d.Suggestion + source[target.End.Offset:], true
}

func slice(source string, span loc.Span) (string, bool) {
	start, end := span.Start.Offset, span.End.Offset
	if start < 0 || end > len(source) || start >= end {
		return "", false
	}
	return source[start:end], true
}
