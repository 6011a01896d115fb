package ast

import "github.com/openscad-go/scadc/internal/loc"

// NumberLit is a numeric literal. OpenSCAD numbers are IEEE-754 doubles.
type NumberLit struct {
	Value float64
	span  loc.Span
}

// Span returns the literal span.
func (n *NumberLit) Span() loc.Span { return n.span }

// NewNumberLit constructs a number literal node.
func NewNumberLit(value float64, span loc.Span) *NumberLit {
	return &NumberLit{Value: value, span: span}
}

func (*NumberLit) exprNode() {}

// StringLit is a string literal with escapes resolved.
type StringLit struct {
	Value string
	span  loc.Span
}

// Span returns the literal span.
func (s *StringLit) Span() loc.Span { return s.span }

// NewStringLit constructs a string literal node.
func NewStringLit(value string, span loc.Span) *StringLit {
	return &StringLit{Value: value, span: span}
}

func (*StringLit) exprNode() {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	span  loc.Span
}

// Span returns the literal span.
func (b *BoolLit) Span() loc.Span { return b.span }

// NewBoolLit constructs a boolean literal node.
func NewBoolLit(value bool, span loc.Span) *BoolLit {
	return &BoolLit{Value: value, span: span}
}

func (*BoolLit) exprNode() {}

// UndefLit is the `undef` literal.
type UndefLit struct {
	span loc.Span
}

// Span returns the literal span.
func (u *UndefLit) Span() loc.Span { return u.span }

// NewUndefLit constructs an undef literal node.
func NewUndefLit(span loc.Span) *UndefLit {
	return &UndefLit{span: span}
}

func (*UndefLit) exprNode() {}

// Identifier is a plain variable or function reference.
type Identifier struct {
	Name string
	span loc.Span
}

// Span returns the identifier span.
func (i *Identifier) Span() loc.Span { return i.span }

// NewIdentifier constructs an identifier node.
func NewIdentifier(name string, span loc.Span) *Identifier {
	return &Identifier{Name: name, span: span}
}

func (*Identifier) exprNode() {}

// SpecialVariable is a $-prefixed renderer configuration variable such as
// `$fn`. Name keeps the `$` prefix.
type SpecialVariable struct {
	Name string
	span loc.Span
}

// Span returns the variable span.
func (v *SpecialVariable) Span() loc.Span { return v.span }

// NewSpecialVariable constructs a special variable node.
func NewSpecialVariable(name string, span loc.Span) *SpecialVariable {
	return &SpecialVariable{Name: name, span: span}
}

func (*SpecialVariable) exprNode() {}

// UnaryExpr is a prefix operation: `-x` or `!x`.
type UnaryExpr struct {
	Op      string
	Operand Expr
	span    loc.Span
}

// Span returns the expression span.
func (u *UnaryExpr) Span() loc.Span { return u.span }

// NewUnaryExpr constructs a unary expression node.
func NewUnaryExpr(op string, operand Expr, span loc.Span) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, span: span}
}

func (*UnaryExpr) exprNode() {}

// BinaryExpr is an infix operation with OpenSCAD's operator set.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	span  loc.Span
}

// Span returns the expression span.
func (b *BinaryExpr) Span() loc.Span { return b.span }

// NewBinaryExpr constructs a binary expression node.
func NewBinaryExpr(op string, left, right Expr, span loc.Span) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right, span: span}
}

func (*BinaryExpr) exprNode() {}

// ConditionalExpr is the ternary `cond ? then : else`.
type ConditionalExpr struct {
	Condition Expr
	Then      Expr
	Else      Expr
	span      loc.Span
}

// Span returns the expression span.
func (c *ConditionalExpr) Span() loc.Span { return c.span }

// NewConditionalExpr constructs a ternary expression node.
func NewConditionalExpr(condition, then, els Expr, span loc.Span) *ConditionalExpr {
	return &ConditionalExpr{Condition: condition, Then: then, Else: els, span: span}
}

func (*ConditionalExpr) exprNode() {}

// RangeExpr is `[start : end]` or `[start : step : end]`. Step is a literal
// 1 when the two-element form was written.
type RangeExpr struct {
	Start Expr
	Step  Expr
	End   Expr
	span  loc.Span
}

// Span returns the expression span.
func (r *RangeExpr) Span() loc.Span { return r.span }

// NewRangeExpr constructs a range expression node.
func NewRangeExpr(start, step, end Expr, span loc.Span) *RangeExpr {
	return &RangeExpr{Start: start, Step: step, End: end, span: span}
}

func (*RangeExpr) exprNode() {}

// VectorExpr is a `[a, b, c]` list literal.
type VectorExpr struct {
	Elements []Expr
	span     loc.Span
}

// Span returns the expression span.
func (v *VectorExpr) Span() loc.Span { return v.span }

// NewVectorExpr constructs a vector literal node.
func NewVectorExpr(elements []Expr, span loc.Span) *VectorExpr {
	return &VectorExpr{Elements: elements, span: span}
}

func (*VectorExpr) exprNode() {}

// ComprehensionFor is one `for (a = ra, ...)` clause of a list comprehension.
type ComprehensionFor struct {
	Variables []*ForLoopVariable
	span      loc.Span
}

// Span returns the clause span.
func (c *ComprehensionFor) Span() loc.Span { return c.span }

// NewComprehensionFor constructs a comprehension for clause.
func NewComprehensionFor(variables []*ForLoopVariable, span loc.Span) *ComprehensionFor {
	return &ComprehensionFor{Variables: variables, span: span}
}

// ListComprehension is `[for (...) if (...) element]`. Both the legacy
// `[expr for (...)]` and the modern leading-for surface forms normalize to
// this one shape.
type ListComprehension struct {
	Fors      []*ComprehensionFor
	Condition Expr // nil when there is no if clause
	Element   Expr
	span      loc.Span
}

// Span returns the expression span.
func (l *ListComprehension) Span() loc.Span { return l.span }

// NewListComprehension constructs a list comprehension node.
func NewListComprehension(fors []*ComprehensionFor, condition, element Expr, span loc.Span) *ListComprehension {
	return &ListComprehension{Fors: fors, Condition: condition, Element: element, span: span}
}

func (*ListComprehension) exprNode() {}

// LetExpr is the expression form `let (a = 1) expr`.
type LetExpr struct {
	Assignments []*Assignment
	In          Expr
	span        loc.Span
}

// Span returns the expression span.
func (l *LetExpr) Span() loc.Span { return l.span }

// NewLetExpr constructs a let expression node.
func NewLetExpr(assignments []*Assignment, in Expr, span loc.Span) *LetExpr {
	return &LetExpr{Assignments: assignments, In: in, span: span}
}

func (*LetExpr) exprNode() {}

// CallExpr is a function call `f(args)`.
type CallExpr struct {
	Function Expr
	Args     []*Argument
	span     loc.Span
}

// Span returns the expression span.
func (c *CallExpr) Span() loc.Span { return c.span }

// NewCallExpr constructs a call expression node.
func NewCallExpr(function Expr, args []*Argument, span loc.Span) *CallExpr {
	return &CallExpr{Function: function, Args: args, span: span}
}

func (*CallExpr) exprNode() {}

// IndexExpr is `value[index]`.
type IndexExpr struct {
	Value Expr
	Index Expr
	span  loc.Span
}

// Span returns the expression span.
func (i *IndexExpr) Span() loc.Span { return i.span }

// NewIndexExpr constructs an index expression node.
func NewIndexExpr(value, index Expr, span loc.Span) *IndexExpr {
	return &IndexExpr{Value: value, Index: index, span: span}
}

func (*IndexExpr) exprNode() {}

// MemberExpr is the swizzle access `value.x`.
type MemberExpr struct {
	Value    Expr
	Property string
	span     loc.Span
}

// Span returns the expression span.
func (m *MemberExpr) Span() loc.Span { return m.span }

// NewMemberExpr constructs a member access node.
func NewMemberExpr(value Expr, property string, span loc.Span) *MemberExpr {
	return &MemberExpr{Value: value, Property: property, span: span}
}

func (*MemberExpr) exprNode() {}
