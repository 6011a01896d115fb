package convert

import (
	"strings"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst"
	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/loc"
)

// ModuleVisitor converts definitions and file-level declarations: module and
// function definitions, include/use directives, and top-level assignments.
// It deliberately does not claim module_instantiation nodes so the rest of
// the chain can process them.
type ModuleVisitor struct {
	c *Converter
}

// Visit implements Visitor.
func (v *ModuleVisitor) Visit(node cst.Node) ast.Stmt {
	switch node.Type() {
	case "module_definition":
		return v.moduleDefinition(node)
	case "function_definition":
		return v.functionDefinition(node)
	case "include_statement":
		if path, ok := v.directivePath(node); ok {
			return ast.NewInclude(path, cst.SpanOf(node))
		}
		return v.c.errorStmt(node, diag.CodeMissingField, "include directive has no path")
	case "use_statement":
		if path, ok := v.directivePath(node); ok {
			return ast.NewUse(path, cst.SpanOf(node))
		}
		return v.c.errorStmt(node, diag.CodeMissingField, "use directive has no path")
	case "assignment":
		if a := v.c.assignmentClause(node); a != nil {
			return a
		}
		return v.c.errorStmt(node, diag.CodeMissingField, "malformed assignment")
	}
	return nil
}

func (v *ModuleVisitor) moduleDefinition(node cst.Node) ast.Stmt {
	name := node.ChildByFieldName("name")
	if name == nil {
		return v.c.errorStmt(node, diag.CodeMissingField, "module definition has no name")
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return v.c.errorStmt(node, diag.CodeMissingField,
			"module `"+name.Text()+"` has no body")
	}
	params := v.c.Parameters(node.ChildByFieldName("parameters"))
	return ast.NewModuleDefinition(name.Text(), params, v.c.body(body), cst.SpanOf(node))
}

func (v *ModuleVisitor) functionDefinition(node cst.Node) ast.Stmt {
	name := node.ChildByFieldName("name")
	if name == nil {
		return v.c.errorStmt(node, diag.CodeMissingField, "function definition has no name")
	}
	value := node.ChildByFieldName("value")
	if value == nil {
		value = node.ChildByFieldName("expression")
	}
	if value == nil {
		return v.c.errorStmt(node, diag.CodeMissingField,
			"function `"+name.Text()+"` has no value expression")
	}
	params := v.c.Parameters(node.ChildByFieldName("parameters"))
	return ast.NewFunctionDefinition(name.Text(), params, v.c.Expression(value), cst.SpanOf(node))
}

// directivePath extracts the `<path>` of an include or use directive.
func (v *ModuleVisitor) directivePath(node cst.Node) (string, bool) {
	if path := node.ChildByFieldName("path"); path != nil {
		return strings.Trim(path.Text(), "<>"), true
	}
	text := node.Text()
	open := strings.IndexByte(text, '<')
	close := strings.LastIndexByte(text, '>')
	if open < 0 || close <= open {
		return "", false
	}
	return text[open+1 : close], true
}

// InstantiationVisitor converts module_instantiation nodes, rewriting the
// built-in geometric transforms into their specialized AST variants when
// their arguments are statically literal.
type InstantiationVisitor struct {
	c *Converter
}

// Visit implements Visitor.
func (v *InstantiationVisitor) Visit(node cst.Node) ast.Stmt {
	if node.Type() != "module_instantiation" {
		return nil
	}

	name := node.ChildByFieldName("name")
	if name == nil {
		return v.c.errorStmt(node, diag.CodeMissingField, "module instantiation has no name")
	}

	args := v.c.Arguments(node.ChildByFieldName("arguments"))
	children := v.children(node)
	modifier := v.modifier(node)
	span := cst.SpanOf(node)

	if modifier == "" {
		if t := v.transform(name.Text(), args, children, span); t != nil {
			return t
		}
	}
	return ast.NewModuleInstantiation(name.Text(), modifier, args, children, span)
}

// children collects the instantiation's child statements: either the body
// field, a trailing block, or a single trailing statement.
func (v *InstantiationVisitor) children(node cst.Node) []ast.Stmt {
	if body := node.ChildByFieldName("body"); body != nil {
		return v.c.body(body)
	}
	for i := node.NamedChildCount() - 1; i >= 0; i-- {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "identifier", "arguments", "comment":
			continue
		}
		return v.c.body(child)
	}
	return nil
}

// modifier returns the instantiation's modifier character, if any. The
// grammar surfaces it either as a `modifier` child or as a leading anonymous
// token.
func (v *InstantiationVisitor) modifier(node cst.Node) string {
	for i := 0; i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "modifier", "#", "!", "%", "*":
			return strings.TrimSpace(child.Text())
		}
		if child.IsNamed() {
			break
		}
	}
	return ""
}

// transform recognizes the built-in transforms. It returns nil when the
// name is not a transform or the arguments are not statically resolvable,
// leaving the instantiation generic.
func (v *InstantiationVisitor) transform(name string, args []*ast.Argument, children []ast.Stmt, span loc.Span) ast.Stmt {
	switch name {
	case "translate":
		if vec, ok := literalVector3(argValue(args, "v", 0), 0); ok {
			return ast.NewTranslate(vec, children, span)
		}
	case "mirror":
		if vec, ok := literalVector3(argValue(args, "v", 0), 0); ok {
			return ast.NewMirror(vec, children, span)
		}
	case "scale":
		value := argValue(args, "v", 0)
		if s, ok := literalNumber(value); ok {
			return ast.NewScale([3]float64{s, s, s}, children, span)
		}
		if vec, ok := literalVector3(value, 1); ok {
			return ast.NewScale(vec, children, span)
		}
	case "rotate":
		return rotateTransform(args, children, span)
	case "multmatrix":
		if m, ok := literalMatrix4(argValue(args, "m", 0)); ok {
			return ast.NewMultmatrix(m, children, span)
		}
	case "color":
		return colorTransform(args, children, span)
	case "offset":
		return offsetTransform(args, children, span)
	}
	return nil
}

func rotateTransform(args []*ast.Argument, children []ast.Stmt, span loc.Span) ast.Stmt {
	a := argValue(args, "a", 0)
	if a == nil {
		return nil
	}

	var angles []float64
	if s, ok := literalNumber(a); ok {
		angles = []float64{s}
	} else if vec, ok := literalNumbers(a); ok && len(vec) == 3 {
		angles = vec
	} else {
		return nil
	}

	axisArg := argValue(args, "v", 1)
	if axisArg == nil {
		return ast.NewRotate(angles, nil, children, span)
	}
	axis, ok := literalVector3(axisArg, 0)
	if !ok {
		return nil
	}
	return ast.NewRotate(angles, &axis, children, span)
}

func colorTransform(args []*ast.Argument, children []ast.Stmt, span loc.Span) ast.Stmt {
	value := argValue(args, "c", 0)
	if value == nil {
		return nil
	}

	alpha, hasAlpha := 0.0, false
	if alphaArg := argValue(args, "alpha", 1); alphaArg != nil {
		a, ok := literalNumber(alphaArg)
		if !ok {
			return nil
		}
		alpha, hasAlpha = a, true
	}

	if s, ok := value.(*ast.StringLit); ok {
		if hasAlpha {
			// Named color with separate alpha needs the color table to
			// resolve; keep it generic.
			return nil
		}
		return ast.NewColor(s.Value, nil, children, span)
	}
	if rgba, ok := literalNumbers(value); ok && (len(rgba) == 3 || len(rgba) == 4) {
		if hasAlpha && len(rgba) == 3 {
			rgba = append(rgba, alpha)
		}
		return ast.NewColor("", rgba, children, span)
	}
	return nil
}

func offsetTransform(args []*ast.Argument, children []ast.Stmt, span loc.Span) ast.Stmt {
	var r, delta *float64
	chamfer := false

	for i, a := range args {
		value, ok := literalNumber(a.Value)
		switch a.Name {
		case "r":
			if !ok {
				return nil
			}
			r = &value
		case "delta":
			if !ok {
				return nil
			}
			delta = &value
		case "chamfer":
			b, isBool := a.Value.(*ast.BoolLit)
			if !isBool {
				return nil
			}
			chamfer = b.Value
		case "":
			// A single positional argument means r.
			if i != 0 || !ok {
				return nil
			}
			r = &value
		default:
			return nil
		}
	}

	if r == nil && delta == nil {
		return nil
	}
	if r != nil && delta != nil {
		return nil
	}
	return ast.NewOffset(r, delta, chamfer, children, span)
}

// argValue resolves an argument by name, falling back to position. Named
// wins; among repeated named arguments the last one wins.
func argValue(args []*ast.Argument, name string, position int) ast.Expr {
	var named ast.Expr
	for _, a := range args {
		if a.Name == name {
			named = a.Value
		}
	}
	if named != nil {
		return named
	}
	i := 0
	for _, a := range args {
		if a.Name != "" {
			continue
		}
		if i == position {
			return a.Value
		}
		i++
	}
	return nil
}

func literalNumber(e ast.Expr) (float64, bool) {
	switch n := e.(type) {
	case *ast.NumberLit:
		return n.Value, true
	case *ast.UnaryExpr:
		if inner, ok := n.Operand.(*ast.NumberLit); ok {
			switch n.Op {
			case "-":
				return -inner.Value, true
			case "+":
				return inner.Value, true
			}
		}
	}
	return 0, false
}

func literalNumbers(e ast.Expr) ([]float64, bool) {
	vec, ok := e.(*ast.VectorExpr)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(vec.Elements))
	for _, el := range vec.Elements {
		n, ok := literalNumber(el)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// literalVector3 resolves a literal 2- or 3-element numeric vector, padding
// the missing third component with pad.
func literalVector3(e ast.Expr, pad float64) ([3]float64, bool) {
	nums, ok := literalNumbers(e)
	if !ok {
		return [3]float64{}, false
	}
	switch len(nums) {
	case 2:
		return [3]float64{nums[0], nums[1], pad}, true
	case 3:
		return [3]float64{nums[0], nums[1], nums[2]}, true
	}
	return [3]float64{}, false
}

func literalMatrix4(e ast.Expr) ([4][4]float64, bool) {
	var m [4][4]float64
	outer, ok := e.(*ast.VectorExpr)
	if !ok || len(outer.Elements) != 4 {
		return m, false
	}
	for i, row := range outer.Elements {
		nums, ok := literalNumbers(row)
		if !ok || len(nums) != 4 {
			return m, false
		}
		copy(m[i][:], nums)
	}
	return m, true
}
