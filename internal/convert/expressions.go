package convert

import (
	"strconv"
	"strings"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst"
	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/loc"
)

// Expression reconstructs a typed expression from a CST expression node.
// Malformed subtrees come back as *ast.ErrorNode, never nil, so enclosing
// nodes always have a child to hold the position.
func (c *Converter) Expression(node cst.Node) ast.Expr {
	if node == nil {
		return ast.NewErrorNode("missing expression", diag.CodeMissingField, "", "", loc.Span{})
	}
	if node.IsError() || node.IsMissing() {
		// Reported once by the syntax-error walk.
		return ast.NewErrorNode("unparsed expression", diag.CodeSyntaxError,
			node.Type(), node.Text(), cst.SpanOf(node))
	}

	span := cst.SpanOf(node)

	switch node.Type() {
	case "number", "decimal", "float", "integer":
		value, err := parseNumber(node.Text())
		if err != nil {
			return c.errorExpr(node, diag.CodeMalformedLiteral,
				"malformed number literal `"+node.Text()+"`")
		}
		return ast.NewNumberLit(value, span)

	case "string":
		value, ok := unquoteString(node.Text())
		if !ok {
			return c.errorExpr(node, diag.CodeMalformedLiteral,
				"unterminated string literal")
		}
		return ast.NewStringLit(value, span)

	case "boolean", "true", "false":
		return ast.NewBoolLit(strings.TrimSpace(node.Text()) == "true", span)

	case "undef":
		return ast.NewUndefLit(span)

	case "identifier":
		return ast.NewIdentifier(node.Text(), span)

	case "special_variable":
		return ast.NewSpecialVariable(node.Text(), span)

	case "unary_expression":
		return c.unaryExpression(node, span)

	case "binary_expression":
		return c.binaryExpression(node, span)

	case "ternary_expression", "conditional_expression":
		return c.ternaryExpression(node, span)

	case "parenthesized_expression":
		if inner := firstNamedExpression(node); inner != nil {
			return c.Expression(inner)
		}
		return c.errorExpr(node, diag.CodeMissingField, "empty parenthesized expression")

	case "range_expression":
		return c.rangeExpression(node, span)

	case "vector_expression", "list_expression":
		return c.vectorExpression(node, span)

	case "list_comprehension":
		return c.listComprehension(node, span)

	case "let_expression":
		return c.letExpression(node, span)

	case "function_call", "call_expression":
		return c.callExpression(node, span)

	case "index_expression", "subscript_expression":
		return c.indexExpression(node, span)

	case "member_expression", "dot_index_expression":
		return c.memberExpression(node, span)
	}

	// Wrapper productions (e.g. an `expression` node with one real child)
	// are transparent.
	if node.NamedChildCount() == 1 {
		return c.Expression(node.NamedChild(0))
	}
	return c.errorExpr(node, diag.CodeUnhandledConstruct,
		"unsupported expression construct `"+node.Type()+"`")
}

func (c *Converter) unaryExpression(node cst.Node, span loc.Span) ast.Expr {
	operand := node.ChildByFieldName("operand")
	if operand == nil {
		operand = firstNamedExpression(node)
	}
	op := ""
	if opNode := node.ChildByFieldName("operator"); opNode != nil {
		op = opNode.Text()
	} else if text := strings.TrimSpace(node.Text()); text != "" {
		op = string(text[0])
	}
	if operand == nil || op == "" {
		return c.errorExpr(node, diag.CodeMissingField, "malformed unary expression")
	}
	return ast.NewUnaryExpr(op, c.Expression(operand), span)
}

// binaryExpression prefers the structured left/operator/right fields. Flat
// operand-operator chains, which some grammar versions emit for repeated
// operators, go through precedence climbing instead.
func (c *Converter) binaryExpression(node cst.Node, span loc.Span) ast.Expr {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	opNode := node.ChildByFieldName("operator")

	if left != nil && right != nil {
		op := ""
		if opNode != nil {
			op = opNode.Text()
		} else {
			op = c.operatorBetween(left, right)
		}
		if op == "" {
			return c.errorExpr(node, diag.CodeMissingField, "binary expression has no operator")
		}
		return ast.NewBinaryExpr(op, c.Expression(left), c.Expression(right), span)
	}

	return c.climbFlatChain(node, span)
}

// climbFlatChain rebuilds a flat `a op b op c ...` child list into a
// precedence-correct tree.
func (c *Converter) climbFlatChain(node cst.Node, span loc.Span) ast.Expr {
	var operands []cst.Node
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Type() != "comment" {
			operands = append(operands, child)
		}
	}
	if len(operands) == 0 {
		return c.errorExpr(node, diag.CodeMissingField, "binary expression has no operands")
	}
	if len(operands) == 1 {
		return c.Expression(operands[0])
	}

	ops := make([]string, 0, len(operands)-1)
	for i := 0; i+1 < len(operands); i++ {
		op := c.operatorBetween(operands[i], operands[i+1])
		if op == "" {
			return c.errorExpr(node, diag.CodeMissingField, "binary expression has no operator")
		}
		ops = append(ops, op)
	}

	pos := 0
	return c.climb(operands, ops, &pos, 0, span)
}

var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
	"^": 7,
}

// climb is standard precedence climbing over parallel operand and operator
// slices; pos indexes operands, ops[i] sits between operands[i] and
// operands[i+1]. Exponentiation binds right.
func (c *Converter) climb(operands []cst.Node, ops []string, pos *int, minPrec int, span loc.Span) ast.Expr {
	left := c.Expression(operands[*pos])

	for *pos < len(ops) {
		op := ops[*pos]
		prec, known := binaryPrecedence[op]
		if !known || prec < minPrec {
			break
		}
		next := prec + 1
		if op == "^" {
			next = prec
		}
		*pos++
		right := c.climb(operands, ops, pos, next, span)
		merged := loc.Merge(left.Span(), right.Span())
		if merged == (loc.Span{}) {
			merged = span
		}
		left = ast.NewBinaryExpr(op, left, right, merged)
	}
	return left
}

// operatorBetween recovers the operator token from the source text between
// two sibling nodes, skipping whitespace and comments.
func (c *Converter) operatorBetween(left, right cst.Node) string {
	start, end := left.EndByte(), right.StartByte()
	if start < 0 || end > len(c.source) || start >= end {
		return ""
	}
	between := c.source[start:end]
	for {
		between = strings.TrimSpace(between)
		switch {
		case strings.HasPrefix(between, "//"):
			if nl := strings.IndexByte(between, '\n'); nl >= 0 {
				between = between[nl+1:]
				continue
			}
			return ""
		case strings.HasPrefix(between, "/*"):
			if close := strings.Index(between, "*/"); close >= 0 {
				between = between[close+2:]
				continue
			}
			return ""
		}
		return between
	}
}

func (c *Converter) ternaryExpression(node cst.Node, span loc.Span) ast.Expr {
	cond := node.ChildByFieldName("condition")
	then := node.ChildByFieldName("consequence")
	els := node.ChildByFieldName("alternative")

	if cond == nil || then == nil || els == nil {
		parts := namedExpressions(node)
		if len(parts) == 3 {
			cond, then, els = parts[0], parts[1], parts[2]
		} else {
			return c.errorExpr(node, diag.CodeMissingField, "malformed conditional expression")
		}
	}
	return ast.NewConditionalExpr(c.Expression(cond), c.Expression(then), c.Expression(els), span)
}

// rangeExpression handles both `[start : end]` and `[start : step : end]`.
// The absent step of the two-part form materializes as a literal 1 spanning
// the whole range, so downstream consumers never branch on arity.
func (c *Converter) rangeExpression(node cst.Node, span loc.Span) ast.Expr {
	start := node.ChildByFieldName("start")
	step := node.ChildByFieldName("increment")
	if step == nil {
		step = node.ChildByFieldName("step")
	}
	end := node.ChildByFieldName("end")

	if start == nil || end == nil {
		parts := namedExpressions(node)
		switch len(parts) {
		case 2:
			start, end = parts[0], parts[1]
		case 3:
			start, step, end = parts[0], parts[1], parts[2]
		default:
			return c.errorExpr(node, diag.CodeMissingField, "malformed range expression")
		}
	}

	var stepExpr ast.Expr
	if step != nil {
		stepExpr = c.Expression(step)
	} else {
		stepExpr = ast.NewNumberLit(1, span)
	}
	return ast.NewRangeExpr(c.Expression(start), stepExpr, c.Expression(end), span)
}

func (c *Converter) vectorExpression(node cst.Node, span loc.Span) ast.Expr {
	// `[for (...) x]` parses as a comprehension child inside the brackets.
	if node.NamedChildCount() == 1 {
		if only := node.NamedChild(0); only != nil && only.Type() == "list_comprehension" {
			return c.listComprehension(only, span)
		}
	}

	var elements []ast.Expr
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		elements = append(elements, c.Expression(child))
	}
	return ast.NewVectorExpr(elements, span)
}

// listComprehension collects for clauses, an optional if clause, and the
// element expression regardless of their order, which normalizes the legacy
// trailing-for form and the modern leading-for form to one node shape.
func (c *Converter) listComprehension(node cst.Node, span loc.Span) ast.Expr {
	var fors []*ast.ComprehensionFor
	var condition, element cst.Node

	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		switch child.Type() {
		case "for_clause", "comprehension_for", "lc_for":
			fors = append(fors, c.comprehensionFor(child))
		case "if_clause", "comprehension_if", "lc_if":
			condition = firstNamedExpression(child)
		default:
			element = child
		}
	}

	if len(fors) == 0 || element == nil {
		return c.errorExpr(node, diag.CodeMissingField, "malformed list comprehension")
	}

	var cond ast.Expr
	if condition != nil {
		cond = c.Expression(condition)
	}
	return ast.NewListComprehension(fors, cond, c.Expression(element), span)
}

func (c *Converter) comprehensionFor(node cst.Node) *ast.ComprehensionFor {
	return ast.NewComprehensionFor(c.loopVariables(node), cst.SpanOf(node))
}

func (c *Converter) letExpression(node cst.Node, span loc.Span) ast.Expr {
	assignments, body := c.splitAssignments(node)
	if body == nil {
		return c.errorExpr(node, diag.CodeMissingField, "let expression has no body")
	}
	return ast.NewLetExpr(assignments, c.Expression(body), span)
}

// splitAssignments separates a node's assignment clauses from the trailing
// non-assignment child, which let forms use as the body.
func (c *Converter) splitAssignments(node cst.Node) ([]*ast.Assignment, cst.Node) {
	var assignments []*ast.Assignment
	var rest cst.Node
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		if child.Type() == "assignment" || child.Type() == "let_assignment" {
			if a := c.assignmentClause(child); a != nil {
				assignments = append(assignments, a)
			}
			continue
		}
		rest = child
	}
	if rest == nil {
		if body := node.ChildByFieldName("body"); body != nil {
			rest = body
		}
	}
	return assignments, rest
}

// assignmentClause converts one `name = value` pair. A clause with no name or
// no value is reported and skipped.
func (c *Converter) assignmentClause(node cst.Node) *ast.Assignment {
	name := node.ChildByFieldName("name")
	if name == nil {
		name = node.ChildByFieldName("left")
	}
	value := node.ChildByFieldName("value")
	if value == nil {
		value = node.ChildByFieldName("right")
	}

	if name == nil || value == nil {
		parts := namedExpressions(node)
		if len(parts) == 2 {
			name, value = parts[0], parts[1]
		}
	}
	if name == nil || value == nil {
		c.warn(node, diag.CodeMissingField, "assignment clause is missing its name or value; skipped")
		return nil
	}
	return ast.NewAssignment(name.Text(), c.Expression(value), cst.SpanOf(node))
}

func (c *Converter) callExpression(node cst.Node, span loc.Span) ast.Expr {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		fn = node.ChildByFieldName("name")
	}
	if fn == nil {
		fn = firstNamedExpression(node)
	}
	if fn == nil {
		return c.errorExpr(node, diag.CodeMissingField, "call expression has no callee")
	}
	args := c.Arguments(node.ChildByFieldName("arguments"))
	return ast.NewCallExpr(c.Expression(fn), args, span)
}

func (c *Converter) indexExpression(node cst.Node, span loc.Span) ast.Expr {
	value := node.ChildByFieldName("value")
	index := node.ChildByFieldName("index")
	if value == nil || index == nil {
		parts := namedExpressions(node)
		if len(parts) != 2 {
			return c.errorExpr(node, diag.CodeMissingField, "malformed index expression")
		}
		value, index = parts[0], parts[1]
	}
	return ast.NewIndexExpr(c.Expression(value), c.Expression(index), span)
}

func (c *Converter) memberExpression(node cst.Node, span loc.Span) ast.Expr {
	value := node.ChildByFieldName("value")
	property := node.ChildByFieldName("property")
	if value == nil || property == nil {
		parts := namedExpressions(node)
		if len(parts) != 2 {
			return c.errorExpr(node, diag.CodeMissingField, "malformed member expression")
		}
		value, property = parts[0], parts[1]
	}
	return ast.NewMemberExpr(c.Expression(value), property.Text(), span)
}

// firstNamedExpression returns the first named non-comment child.
func firstNamedExpression(node cst.Node) cst.Node {
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Type() != "comment" {
			return child
		}
	}
	return nil
}

// namedExpressions returns all named non-comment children.
func namedExpressions(node cst.Node) []cst.Node {
	var out []cst.Node
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Type() != "comment" {
			out = append(out, child)
		}
	}
	return out
}

func parseNumber(text string) (float64, error) {
	text = strings.TrimSpace(text)
	// OpenSCAD accepts a trailing dot ("2." == 2.0); ParseFloat does too,
	// but a leading dot with exponent needs no special casing either.
	return strconv.ParseFloat(text, 64)
}

// unquoteString resolves the escape sequences OpenSCAD defines: \" \\ \n \t
// \r and \uXXXX. It reports false for a literal without a closing quote.
func unquoteString(raw string) (string, bool) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", false
	}
	body := raw[1 : len(raw)-1]

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 >= len(body) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case 'u':
			if i+4 < len(body) {
				if code, err := strconv.ParseUint(body[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(code))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		default:
			// Unknown escape: keep the character, drop the backslash.
			b.WriteByte(body[i])
		}
	}
	return b.String(), true
}
