// Package ast defines the typed syntax tree produced from an OpenSCAD CST.
// The node set is closed: every variant lives in this package and carries the
// unexported marker methods, so consumers can switch exhaustively.
//
// Nodes are immutable value trees. They are constructed once per conversion
// pass and never mutated after the visitor returns them.
package ast

import (
	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/loc"
)

// Node represents any AST node with an associated source span.
type Node interface {
	Span() loc.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// ErrorNode is a first-class AST variant standing in for a subtree that could
// not be converted. It satisfies both Expr and Stmt so a partially-invalid
// tree never silently disappears from the output.
type ErrorNode struct {
	Message string
	Code    diag.Code
	// NodeType is the CST production tag of the node that failed to convert.
	NodeType string
	// Text is the raw CST text of the offending region.
	Text string
	span loc.Span
}

// Span returns the failed region's span.
func (e *ErrorNode) Span() loc.Span { return e.span }

// NewErrorNode constructs an error placeholder node.
func NewErrorNode(message string, code diag.Code, nodeType, text string, span loc.Span) *ErrorNode {
	return &ErrorNode{
		Message:  message,
		Code:     code,
		NodeType: nodeType,
		Text:     text,
		span:     span,
	}
}

func (*ErrorNode) exprNode() {}
func (*ErrorNode) stmtNode() {}

// ModuleParameter is one declared parameter of a module or function
// definition. Special ($-prefixed) variables keep their prefix in Name.
type ModuleParameter struct {
	Name    string
	Default Expr // nil when the parameter has no default value
	span    loc.Span
}

// Span returns the parameter span.
func (p *ModuleParameter) Span() loc.Span { return p.span }

// NewModuleParameter constructs a declared parameter.
func NewModuleParameter(name string, def Expr, span loc.Span) *ModuleParameter {
	return &ModuleParameter{Name: name, Default: def, span: span}
}

// Argument is one call-site argument. Name is empty for positional arguments.
type Argument struct {
	Name  string
	Value Expr
	span  loc.Span
}

// Span returns the argument span.
func (a *Argument) Span() loc.Span { return a.span }

// NewArgument constructs a call-site argument.
func NewArgument(name string, value Expr, span loc.Span) *Argument {
	return &Argument{Name: name, Value: value, span: span}
}

// ModuleDefinition represents `module name(params) body`.
type ModuleDefinition struct {
	Name       string
	Parameters []*ModuleParameter
	Body       []Stmt
	span       loc.Span
}

// Span returns the definition span.
func (d *ModuleDefinition) Span() loc.Span { return d.span }

// NewModuleDefinition constructs a module definition node.
func NewModuleDefinition(name string, params []*ModuleParameter, body []Stmt, span loc.Span) *ModuleDefinition {
	return &ModuleDefinition{Name: name, Parameters: params, Body: body, span: span}
}

func (*ModuleDefinition) stmtNode() {}

// FunctionDefinition represents `function name(params) = expr`.
type FunctionDefinition struct {
	Name       string
	Parameters []*ModuleParameter
	Value      Expr
	span       loc.Span
}

// Span returns the definition span.
func (d *FunctionDefinition) Span() loc.Span { return d.span }

// NewFunctionDefinition constructs a function definition node.
func NewFunctionDefinition(name string, params []*ModuleParameter, value Expr, span loc.Span) *FunctionDefinition {
	return &FunctionDefinition{Name: name, Parameters: params, Value: value, span: span}
}

func (*FunctionDefinition) stmtNode() {}

// ModuleInstantiation represents a generic `name(args) children` statement.
// Instantiations of the built-in transforms are rewritten into the
// specialized variants in transforms.go when their arguments are literal.
type ModuleInstantiation struct {
	Name string
	// Modifier is the OpenSCAD modifier character prefixing the
	// instantiation: "#" (debug), "!" (root), "%" (background),
	// "*" (disable), or empty.
	Modifier string
	Args     []*Argument
	Children []Stmt
	span     loc.Span
}

// Span returns the instantiation span.
func (m *ModuleInstantiation) Span() loc.Span { return m.span }

// NewModuleInstantiation constructs a module instantiation node.
func NewModuleInstantiation(name, modifier string, args []*Argument, children []Stmt, span loc.Span) *ModuleInstantiation {
	return &ModuleInstantiation{
		Name:     name,
		Modifier: modifier,
		Args:     args,
		Children: children,
		span:     span,
	}
}

func (*ModuleInstantiation) stmtNode() {}

// Assignment represents `name = expr;` at the top level or one
// `name = expr` pair inside let/assign clauses.
type Assignment struct {
	Name  string
	Value Expr
	span  loc.Span
}

// Span returns the assignment span.
func (a *Assignment) Span() loc.Span { return a.span }

// NewAssignment constructs an assignment node.
func NewAssignment(name string, value Expr, span loc.Span) *Assignment {
	return &Assignment{Name: name, Value: value, span: span}
}

func (*Assignment) stmtNode() {}

// Include represents `include <path>`.
type Include struct {
	Path string
	span loc.Span
}

// Span returns the include span.
func (i *Include) Span() loc.Span { return i.span }

// NewInclude constructs an include node.
func NewInclude(path string, span loc.Span) *Include {
	return &Include{Path: path, span: span}
}

func (*Include) stmtNode() {}

// Use represents `use <path>`.
type Use struct {
	Path string
	span loc.Span
}

// Span returns the use span.
func (u *Use) Span() loc.Span { return u.span }

// NewUse constructs a use node.
func NewUse(path string, span loc.Span) *Use {
	return &Use{Path: path, span: span}
}

func (*Use) stmtNode() {}
