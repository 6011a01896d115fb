package convert

import (
	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst"
	"github.com/openscad-go/scadc/internal/diag"
)

// ControlStructureVisitor converts the statement-position control
// constructs: if/else chains, for loops, let statements, and each.
type ControlStructureVisitor struct {
	c *Converter
}

// Visit implements Visitor.
func (v *ControlStructureVisitor) Visit(node cst.Node) ast.Stmt {
	switch node.Type() {
	case "if_statement":
		return v.ifStatement(node)
	case "for_statement", "intersection_for_statement":
		return v.forStatement(node)
	case "let_statement":
		return v.letStatement(node)
	case "each_statement":
		return v.eachStatement(node)
	}
	return nil
}

// ifStatement converts an if/else chain. `else if` encodes by right
// recursion: the Else slice of the outer node holds a single nested IfNode.
func (v *ControlStructureVisitor) ifStatement(node cst.Node) ast.Stmt {
	condition := node.ChildByFieldName("condition")
	if condition == nil {
		return v.c.errorStmt(node, diag.CodeMissingField, "if statement has no condition")
	}
	consequence := node.ChildByFieldName("consequence")
	if consequence == nil {
		return v.c.errorStmt(node, diag.CodeMissingField, "if statement has no body")
	}

	var els []ast.Stmt
	if alternative := node.ChildByFieldName("alternative"); alternative != nil {
		if alternative.Type() == "if_statement" {
			if nested := v.ifStatement(alternative); nested != nil {
				els = []ast.Stmt{nested}
			}
		} else {
			els = v.c.body(alternative)
		}
	}

	return ast.NewIfNode(v.c.Expression(condition), v.c.body(consequence), els, cst.SpanOf(node))
}

// forStatement converts `for (a = ra, b = rb, ...) body`. The clause list is
// preserved as-is rather than desugared into nested loops.
func (v *ControlStructureVisitor) forStatement(node cst.Node) ast.Stmt {
	variables := v.c.loopVariables(node)
	if len(variables) == 0 {
		return v.c.errorStmt(node, diag.CodeMissingField, "for statement has no loop variable")
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		body = lastNonClauseChild(node)
	}
	if body == nil {
		return v.c.errorStmt(node, diag.CodeMissingField, "for statement has no body")
	}
	return ast.NewForLoop(variables, v.c.body(body), cst.SpanOf(node))
}

func (v *ControlStructureVisitor) letStatement(node cst.Node) ast.Stmt {
	assignments, body := v.c.splitAssignments(node)
	if body == nil {
		return v.c.errorStmt(node, diag.CodeMissingField, "let statement has no body")
	}
	return ast.NewLet(assignments, v.c.body(body), cst.SpanOf(node))
}

func (v *ControlStructureVisitor) eachStatement(node cst.Node) ast.Stmt {
	expr := firstNamedExpression(node)
	if expr == nil {
		return v.c.errorStmt(node, diag.CodeMissingField, "each has no expression")
	}
	return ast.NewEach(v.c.Expression(expr), cst.SpanOf(node))
}

// loopVariables extracts `name = range` clauses from a for statement or a
// comprehension for clause. The grammar emits either for_assignment children
// or name/range fields directly on the node for the single-clause form.
func (c *Converter) loopVariables(node cst.Node) []*ast.ForLoopVariable {
	var variables []*ast.ForLoopVariable

	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Type() != "for_assignment" && child.Type() != "assignment" {
			continue
		}
		if v := c.loopVariable(child); v != nil {
			variables = append(variables, v)
		}
	}

	if len(variables) == 0 {
		if v := c.loopVariable(node); v != nil {
			variables = append(variables, v)
		}
	}
	return variables
}

func (c *Converter) loopVariable(node cst.Node) *ast.ForLoopVariable {
	name := node.ChildByFieldName("name")
	if name == nil {
		name = node.ChildByFieldName("left")
	}
	rng := node.ChildByFieldName("range")
	if rng == nil {
		rng = node.ChildByFieldName("value")
	}

	if name == nil {
		return nil
	}
	var rangeExpr ast.Expr
	if rng != nil {
		rangeExpr = c.Expression(rng)
	} else {
		rangeExpr = c.errorExpr(node, diag.CodeMissingField,
			"loop variable `"+name.Text()+"` has no range")
	}
	return ast.NewForLoopVariable(name.Text(), rangeExpr, cst.SpanOf(node))
}

// lastNonClauseChild returns the trailing child that is not a loop clause,
// which is the loop body when the grammar has no body field.
func lastNonClauseChild(node cst.Node) cst.Node {
	for i := node.NamedChildCount() - 1; i >= 0; i-- {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "for_assignment", "assignment", "comment":
			continue
		}
		return child
	}
	return nil
}
