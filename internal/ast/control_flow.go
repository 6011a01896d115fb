package ast

import "github.com/openscad-go/scadc/internal/loc"

// IfNode represents `if (cond) then-branch [else else-branch]`. An
// `else if` chain is encoded by right recursion: the Else slice holds a
// single nested IfNode.
type IfNode struct {
	Condition Expr
	Then      []Stmt
	Else      []Stmt // nil when there is no else branch
	span      loc.Span
}

// Span returns the statement span.
func (n *IfNode) Span() loc.Span { return n.span }

// NewIfNode constructs an if statement node.
func NewIfNode(condition Expr, then, els []Stmt, span loc.Span) *IfNode {
	return &IfNode{Condition: condition, Then: then, Else: els, span: span}
}

func (*IfNode) stmtNode() {}

// ForLoopVariable is one `name = range` clause of a for statement or a list
// comprehension.
type ForLoopVariable struct {
	Name  string
	Range Expr
	span  loc.Span
}

// Span returns the clause span.
func (v *ForLoopVariable) Span() loc.Span { return v.span }

// NewForLoopVariable constructs a loop variable clause.
func NewForLoopVariable(name string, rng Expr, span loc.Span) *ForLoopVariable {
	return &ForLoopVariable{Name: name, Range: rng, span: span}
}

// ForLoop represents `for (a = ra, b = rb, ...) body`. Multiple clauses share
// one body; this is OpenSCAD's nested-loop sugar, preserved rather than
// desugared.
type ForLoop struct {
	Variables []*ForLoopVariable
	Body      []Stmt
	span      loc.Span
}

// Span returns the statement span.
func (f *ForLoop) Span() loc.Span { return f.span }

// NewForLoop constructs a for loop node.
func NewForLoop(variables []*ForLoopVariable, body []Stmt, span loc.Span) *ForLoop {
	return &ForLoop{Variables: variables, Body: body, span: span}
}

func (*ForLoop) stmtNode() {}

// Let represents the statement form `let (a = 1, b = 2) body`.
type Let struct {
	Assignments []*Assignment
	Body        []Stmt
	span        loc.Span
}

// Span returns the statement span.
func (l *Let) Span() loc.Span { return l.span }

// NewLet constructs a let statement node.
func NewLet(assignments []*Assignment, body []Stmt, span loc.Span) *Let {
	return &Let{Assignments: assignments, Body: body, span: span}
}

func (*Let) stmtNode() {}

// Each represents `each expr`, which splices a list value into the enclosing
// list context.
type Each struct {
	Expression Expr
	span       loc.Span
}

// Span returns the statement span.
func (e *Each) Span() loc.Span { return e.span }

// NewEach constructs an each node.
func NewEach(expression Expr, span loc.Span) *Each {
	return &Each{Expression: expression, span: span}
}

func (*Each) stmtNode() {}

// Assign represents the deprecated `assign (a = 1, ...) body` statement,
// retained for backward compatibility with legacy OpenSCAD sources.
type Assign struct {
	Assignments []*Assignment
	Body        []Stmt
	span        loc.Span
}

// Span returns the statement span.
func (a *Assign) Span() loc.Span { return a.span }

// NewAssign constructs a legacy assign statement node.
func NewAssign(assignments []*Assignment, body []Stmt, span loc.Span) *Assign {
	return &Assign{Assignments: assignments, Body: body, span: span}
}

func (*Assign) stmtNode() {}
