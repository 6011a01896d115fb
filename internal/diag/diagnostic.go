// Package diag defines the diagnostic records produced during CST conversion.
// Diagnostics are data returned alongside the AST; nothing in this package
// panics or aborts processing.
package diag

import (
	"fmt"

	"github.com/openscad-go/scadc/internal/loc"
)

// Source identifies which analysis produced the diagnostic.
type Source string

const (
	SourceParser   Source = "parser"
	SourceSemantic Source = "semantic"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Code is a stable identifier for a diagnostic. The set is closed; recovery
// strategies key off these values.
type Code string

const (
	CodeSyntaxError        Code = "SYNTAX_ERROR"
	CodeMissingSemicolon   Code = "MISSING_SEMICOLON"
	CodeUnclosedParen      Code = "UNCLOSED_PAREN"
	CodeUnclosedBracket    Code = "UNCLOSED_BRACKET"
	CodeUnclosedBrace      Code = "UNCLOSED_BRACE"
	CodeTypeMismatch       Code = "TYPE_MISMATCH"
	CodeInvalidOperation   Code = "INVALID_OPERATION"
	CodeInvalidArguments   Code = "INVALID_ARGUMENTS"
	CodeUnhandledConstruct Code = "UNHANDLED_CONSTRUCT"
	CodeMalformedLiteral   Code = "MALFORMED_LITERAL"
	CodeMissingField       Code = "MISSING_FIELD"
)

// Diagnostic is a single finding surfaced to the caller.
type Diagnostic struct {
	Code     Code
	Message  string
	Severity Severity
	Source   Source
	Span     loc.Span
	Filename string

	// Related carries secondary spans, e.g. the operand locations of a type
	// mismatch, in source order.
	Related []loc.Span
	// Help holds an optional fix suggestion for user-facing display.
	Help  string
	Notes []string
	// Suggestion holds replacement text for the first related span. A
	// recovery strategy may splice it in verbatim.
	Suggestion string
}

// String renders the diagnostic in "file:line:col: severity[CODE]: message"
// form with 1-based coordinates.
func (d Diagnostic) String() string {
	prefix := d.Span.String()
	if d.Filename != "" {
		prefix = fmt.Sprintf("%s:%s", d.Filename, prefix)
	}
	return fmt.Sprintf("%s: %s[%s]: %s", prefix, d.Severity, d.Code, d.Message)
}

// WithHelp returns a copy of the diagnostic with help text attached.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// WithNote returns a copy of the diagnostic with a note appended.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithRelated returns a copy of the diagnostic with a secondary span appended.
func (d Diagnostic) WithRelated(span loc.Span) Diagnostic {
	d.Related = append(d.Related, span)
	return d
}

// WithSuggestion returns a copy of the diagnostic with replacement text for
// its first related span.
func (d Diagnostic) WithSuggestion(text string) Diagnostic {
	d.Suggestion = text
	return d
}
