package recovery

import (
	"strings"

	"github.com/openscad-go/scadc/internal/diag"
)

// DelimiterStrategy closes unbalanced parentheses, brackets, and braces.
// Parentheses and brackets close at the end of the line that opened them;
// braces close at the end of the source, since blocks legitimately span
// many lines.
type DelimiterStrategy struct{}

// NewDelimiterStrategy creates the strategy.
func NewDelimiterStrategy() *DelimiterStrategy { return &DelimiterStrategy{} }

// Name implements Strategy.
func (*DelimiterStrategy) Name() string { return "delimiter" }

// Priority implements Strategy.
func (*DelimiterStrategy) Priority() int { return 10 }

// CanHandle implements Strategy.
func (*DelimiterStrategy) CanHandle(d diag.Diagnostic) bool {
	switch d.Code {
	case diag.CodeUnclosedParen, diag.CodeUnclosedBracket, diag.CodeUnclosedBrace:
		return true
	}
	return false
}

// Recover rescans from the diagnostic position and appends the closers for
// every delimiter still open, innermost first. The rescan, rather than
// trusting the diagnostic's delimiter kind alone, handles nests like
// `cube([1, 2` in one patch.
func (*DelimiterStrategy) Recover(source string, d diag.Diagnostic) (string, bool) {
	start := d.Span.Start.Offset
	if start < 0 || start >= len(source) {
		return source, false
	}

	if d.Code == diag.CodeUnclosedBrace {
		open := openDelimiters(source[start:])
		if len(open) == 0 {
			return source, false
		}
		var closers strings.Builder
		for i := len(open) - 1; i >= 0; i-- {
			closers.WriteByte(closerFor(open[i]))
		}
		patched := strings.TrimRight(source, " \t\n")
		return patched + "\n" + closers.String() + "\n", true
	}

	lineEnd := strings.IndexByte(source[start:], '\n')
	if lineEnd < 0 {
		lineEnd = len(source)
	} else {
		lineEnd += start
	}

	open := openDelimiters(source[start:lineEnd])
	// Only line-scoped delimiters close at end of line.
	for len(open) > 0 && open[0] == '{' {
		open = open[1:]
	}
	if len(open) == 0 {
		return source, false
	}

	var closers strings.Builder
	for i := len(open) - 1; i >= 0; i-- {
		closers.WriteByte(closerFor(open[i]))
	}

	insertAt := lineEnd
	// Keep the patch before a trailing semicolon so `f(x;` heals to `f(x);`.
	line := strings.TrimRight(source[start:lineEnd], " \t")
	if strings.HasSuffix(line, ";") {
		insertAt = start + len(line) - 1
	}
	return source[:insertAt] + closers.String() + source[insertAt:], true
}

// openDelimiters returns the unmatched opening delimiters of text in opening
// order, skipping strings and comments.
func openDelimiters(text string) []byte {
	var stack []byte
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			for j := i + 1; j < len(text); j++ {
				if text[j] == '\\' {
					j++
					continue
				}
				if text[j] == '"' {
					i = j
					break
				}
				if j == len(text)-1 {
					i = j
				}
			}
		case '/':
			if i+1 < len(text) {
				switch text[i+1] {
				case '/':
					for i < len(text) && text[i] != '\n' {
						i++
					}
				case '*':
					if end := strings.Index(text[i+2:], "*/"); end >= 0 {
						i += end + 3
					} else {
						i = len(text)
					}
				}
			}
		case '(', '[', '{':
			stack = append(stack, text[i])
		case ')', ']', '}':
			if len(stack) > 0 && stack[len(stack)-1] == openerFor(text[i]) {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return stack
}

func closerFor(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func openerFor(close byte) byte {
	switch close {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}
