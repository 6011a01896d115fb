package recovery

import (
	"strings"

	"github.com/openscad-go/scadc/internal/diag"
)

// SemicolonStrategy appends the missing statement terminator at the end of
// the flagged line.
type SemicolonStrategy struct{}

// NewSemicolonStrategy creates the strategy.
func NewSemicolonStrategy() *SemicolonStrategy { return &SemicolonStrategy{} }

// Name implements Strategy.
func (*SemicolonStrategy) Name() string { return "semicolon" }

// Priority implements Strategy.
func (*SemicolonStrategy) Priority() int { return 50 }

// CanHandle implements Strategy.
func (*SemicolonStrategy) CanHandle(d diag.Diagnostic) bool {
	return d.Code == diag.CodeMissingSemicolon
}

// Recover inserts `;` after the last meaningful character of the line the
// diagnostic ends on. Lines that already end in a semicolon or an opening
// brace, and comment-only lines, are left alone.
func (*SemicolonStrategy) Recover(source string, d diag.Diagnostic) (string, bool) {
	offset := d.Span.End.Offset
	if offset > len(source) {
		offset = len(source)
	}

	lineStart := strings.LastIndexByte(source[:offset], '\n') + 1
	lineEnd := strings.IndexByte(source[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(source)
	} else {
		lineEnd += offset
	}

	line := source[lineStart:lineEnd]
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == "" {
		return source, false
	}
	if strings.HasPrefix(strings.TrimSpace(trimmed), "//") {
		return source, false
	}
	switch trimmed[len(trimmed)-1] {
	case ';', '{', '}':
		return source, false
	}

	at := lineStart + len(trimmed)
	return source[:at] + ";" + source[at:], true
}
