package convert

import (
	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst"
	"github.com/openscad-go/scadc/internal/diag"
)

// errorStmt records an error diagnostic and returns a statement-position
// placeholder covering the node.
func (c *Converter) errorStmt(node cst.Node, code diag.Code, message string) *ast.ErrorNode {
	return c.errorNode(node, code, message, diag.SeverityError)
}

// errorExpr is errorStmt for expression positions; the placeholder type
// satisfies both interfaces, the split exists for call-site readability.
func (c *Converter) errorExpr(node cst.Node, code diag.Code, message string) *ast.ErrorNode {
	return c.errorNode(node, code, message, diag.SeverityError)
}

func (c *Converter) errorNode(node cst.Node, code diag.Code, message string, sev diag.Severity) *ast.ErrorNode {
	span := cst.SpanOf(node)
	c.sink.Record(diag.Diagnostic{
		Code:     code,
		Message:  message,
		Severity: sev,
		Source:   diag.SourceParser,
		Span:     span,
	})
	return ast.NewErrorNode(message, code, node.Type(), node.Text(), span)
}

// warn records a warning without producing a placeholder node.
func (c *Converter) warn(node cst.Node, code diag.Code, message string) {
	c.sink.Record(diag.Diagnostic{
		Code:     code,
		Message:  message,
		Severity: diag.SeverityWarning,
		Source:   diag.SourceParser,
		Span:     cst.SpanOf(node),
	})
}
