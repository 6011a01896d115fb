// Package convert turns an OpenSCAD concrete syntax tree into the typed AST.
// A Converter owns one conversion pass: a chain of statement visitors, an
// expression reconstructor, and a shared diagnostic sink. Visitors never
// panic on malformed input; they degrade to ast.ErrorNode and keep visiting
// siblings so as much of the tree as possible survives.
package convert

import (
	"strings"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst"
	"github.com/openscad-go/scadc/internal/diag"
)

// Visitor converts the CST node types it understands into statements. Visit
// returns nil for node types it does not claim, letting the next visitor in
// the chain try; this "nil means not mine" contract is what keeps visitors
// independent.
type Visitor interface {
	Visit(node cst.Node) ast.Stmt
}

// Converter drives one CST-to-AST pass.
type Converter struct {
	source   string
	filename string
	sink     *diag.Sink
	visitors []Visitor
}

// Option configures a Converter.
type Option func(*Converter)

// WithFilename stamps diagnostics with the given file name.
func WithFilename(name string) Option {
	return func(c *Converter) { c.filename = name }
}

// WithVisitors replaces the default visitor chain. Order matters: the first
// visitor to return non-nil claims the node, so more specific visitors must
// precede generic ones.
func WithVisitors(visitors ...Visitor) Option {
	return func(c *Converter) { c.visitors = visitors }
}

// New creates a converter for one source snapshot. The default visitor chain
// is, in claim order: module/function definitions, control structures, the
// legacy assign statement, and module instantiation.
func New(source string, opts ...Option) *Converter {
	c := &Converter{source: source}
	for _, opt := range opts {
		opt(c)
	}
	c.sink = diag.NewSink(c.filename)
	if c.visitors == nil {
		c.visitors = []Visitor{
			&ModuleVisitor{c: c},
			&ControlStructureVisitor{c: c},
			&AssignStatementVisitor{c: c},
			&InstantiationVisitor{c: c},
		}
	}
	return c
}

// Convert produces the AST forest and diagnostics for the tree rooted at
// root. The converter may be reused: each call is an independent pass over a
// fresh sink.
func (c *Converter) Convert(root cst.Node) ([]ast.Stmt, []diag.Diagnostic) {
	c.sink.Reset()
	if root == nil {
		return nil, c.sink.All()
	}

	c.collectSyntaxErrors(root)
	forest := c.statements(root)
	return forest, c.sink.All()
}

// Diagnostics returns the sink of the current pass.
func (c *Converter) Diagnostics() *diag.Sink { return c.sink }

// Dispatch routes one statement-position node through the visitor chain.
// A node no visitor claims yields nil plus an unhandled-construct warning;
// comments and stray tokens are skipped silently.
func (c *Converter) Dispatch(node cst.Node) ast.Stmt {
	if node == nil {
		return nil
	}

	switch node.Type() {
	case "comment", ";":
		return nil
	case cst.ErrorType, cst.MissingType:
		// Already reported by collectSyntaxErrors; keep the region visible
		// in the output forest.
		return c.errorStmtQuiet(node)
	}
	if node.IsError() || node.IsMissing() {
		return c.errorStmtQuiet(node)
	}

	for _, v := range c.visitors {
		if stmt := v.Visit(node); stmt != nil {
			return stmt
		}
	}

	if node.IsNamed() {
		c.warn(node, diag.CodeUnhandledConstruct,
			"no visitor handles construct `"+node.Type()+"`")
	}
	return nil
}

// statements converts every named child of node, flattening nested blocks so
// bodies are plain statement lists.
func (c *Converter) statements(node cst.Node) []ast.Stmt {
	if node == nil {
		return nil
	}
	var stmts []ast.Stmt
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Type() == "block" {
			stmts = append(stmts, c.statements(child)...)
			continue
		}
		if stmt := c.Dispatch(child); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// body converts a statement body that is either a block or a single
// statement.
func (c *Converter) body(node cst.Node) []ast.Stmt {
	if node == nil {
		return nil
	}
	if node.Type() == "block" {
		return c.statements(node)
	}
	if stmt := c.Dispatch(node); stmt != nil {
		return []ast.Stmt{stmt}
	}
	return nil
}

// collectSyntaxErrors walks the whole CST once and records one classified
// diagnostic per error or missing node. This is the single reporter for
// parse-level errors; visitors only report failures of their own extraction.
func (c *Converter) collectSyntaxErrors(node cst.Node) {
	if node == nil || !node.HasError() {
		return
	}
	if node.IsError() || node.IsMissing() {
		c.sink.Record(c.classifySyntaxError(node))
		return
	}
	for i := 0; i < node.ChildCount(); i++ {
		c.collectSyntaxErrors(node.Child(i))
	}
}

// classifySyntaxError maps a parse error region onto one of the recoverable
// diagnostic codes. Unbalanced delimiters win over the missing-semicolon
// heuristic because closing them usually makes the semicolon parse too.
func (c *Converter) classifySyntaxError(node cst.Node) diag.Diagnostic {
	span := cst.SpanOf(node)
	text := node.Text()

	if kind, at, ok := unclosedDelimiter(text); ok {
		d := diag.Diagnostic{
			Code:     kind,
			Severity: diag.SeverityError,
			Source:   diag.SourceParser,
			Span:     span,
		}
		switch kind {
		case diag.CodeUnclosedParen:
			d.Message = "unclosed `(`"
		case diag.CodeUnclosedBracket:
			d.Message = "unclosed `[`"
		case diag.CodeUnclosedBrace:
			d.Message = "unclosed `{`"
		}
		d.Span.Start.Column += at
		d.Span.Start.Offset += at
		return d.WithHelp("add the matching closing delimiter")
	}

	if node.IsMissing() && strings.TrimSpace(text) == ";" {
		return diag.Diagnostic{
			Code:     diag.CodeMissingSemicolon,
			Message:  "statement is missing a terminating semicolon",
			Severity: diag.SeverityError,
			Source:   diag.SourceParser,
			Span:     span,
		}.WithHelp("add `;` at the end of the statement")
	}

	if c.missingSemicolonAfter(node) {
		return diag.Diagnostic{
			Code:     diag.CodeMissingSemicolon,
			Message:  "statement is missing a terminating semicolon",
			Severity: diag.SeverityError,
			Source:   diag.SourceParser,
			Span:     span,
		}.WithHelp("add `;` at the end of the statement")
	}

	return diag.Diagnostic{
		Code:     diag.CodeSyntaxError,
		Message:  "syntax error near `" + strings.TrimSpace(text) + "`",
		Severity: diag.SeverityError,
		Source:   diag.SourceParser,
		Span:     span,
	}
}

// missingSemicolonAfter reports whether the error region reads as a complete
// statement whose only defect is the absent terminator.
func (c *Converter) missingSemicolonAfter(node cst.Node) bool {
	text := strings.TrimSpace(node.Text())
	if text == "" || strings.HasSuffix(text, ";") {
		return false
	}
	if !statementTail(text[len(text)-1]) {
		return false
	}
	if _, _, unclosed := unclosedDelimiter(text); unclosed {
		return false
	}
	rest := ""
	if end := node.EndByte(); end <= len(c.source) {
		rest = strings.TrimLeft(c.source[end:], " \t")
	}
	return rest == "" || strings.HasPrefix(rest, "\n") || strings.HasPrefix(rest, "}")
}

// statementTail reports whether ch can end a well-formed statement minus its
// semicolon: a closing delimiter, a string quote, or an identifier/number
// character.
func statementTail(ch byte) bool {
	switch {
	case ch == ')' || ch == ']' || ch == '"':
		return true
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '_':
		return true
	}
	return false
}

// errorStmtQuiet wraps an already-reported error region as an AST node.
func (c *Converter) errorStmtQuiet(node cst.Node) *ast.ErrorNode {
	return ast.NewErrorNode(
		"unparsed region",
		diag.CodeSyntaxError,
		node.Type(),
		node.Text(),
		cst.SpanOf(node),
	)
}

// unclosedDelimiter scans text for unmatched opening delimiters, ignoring
// delimiters inside strings and comments. It returns the diagnostic code of
// the innermost unmatched opener, its byte offset within text, and whether
// anything was found. The innermost opener is the one the parse actually
// stopped at.
func unclosedDelimiter(text string) (diag.Code, int, bool) {
	type open struct {
		ch byte
		at int
	}
	var stack []open

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			i = skipString(text, i)
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
			stack = append(stack, open{text[i], i})
		case ')', ']', '}':
			if len(stack) > 0 && stack[len(stack)-1].ch == matchingOpen(text[i]) {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) == 0 {
		return "", 0, false
	}
	inner := stack[len(stack)-1]
	switch inner.ch {
	case '(':
		return diag.CodeUnclosedParen, inner.at, true
	case '[':
		return diag.CodeUnclosedBracket, inner.at, true
	default:
		return diag.CodeUnclosedBrace, inner.at, true
	}
}

func matchingOpen(close byte) byte {
	switch close {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}

// skipString advances past a double-quoted string starting at i, honoring
// backslash escapes. It returns the index of the closing quote.
func skipString(text string, i int) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return len(text)
}
