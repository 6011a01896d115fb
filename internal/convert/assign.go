package convert

import (
	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst"
	"github.com/openscad-go/scadc/internal/diag"
)

// AssignStatementVisitor converts the deprecated `assign (a = 1, ...) body`
// statement. Malformed clauses are reported and skipped while the remaining
// clauses and the body survive, so one bad clause does not lose the subtree.
type AssignStatementVisitor struct {
	c *Converter
}

// Visit implements Visitor.
func (v *AssignStatementVisitor) Visit(node cst.Node) ast.Stmt {
	if node.Type() != "assign_statement" {
		return nil
	}

	var assignments []*ast.Assignment
	var body cst.Node
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		if child.Type() == "assign_assignment" || child.Type() == "assignment" {
			if a := v.c.assignmentClause(child); a != nil {
				assignments = append(assignments, a)
			}
			continue
		}
		body = child
	}

	if body == nil {
		if b := node.ChildByFieldName("body"); b != nil {
			body = b
		}
	}
	if body == nil {
		return v.c.errorStmt(node, diag.CodeMissingField, "assign statement has no body")
	}
	return ast.NewAssign(assignments, v.c.body(body), cst.SpanOf(node))
}
