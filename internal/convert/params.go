package convert

import (
	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/cst"
	"github.com/openscad-go/scadc/internal/diag"
)

// Parameters extracts the declared parameter list of a module or function
// definition. A bare identifier declares a parameter without a default; a
// `name = expr` child declares one with a default. Trailing commas leave no
// CST child, so they need no special handling.
func (c *Converter) Parameters(node cst.Node) []*ast.ModuleParameter {
	if node == nil {
		return nil
	}
	var params []*ast.ModuleParameter
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		if p := c.parameter(child); p != nil {
			params = append(params, p)
		}
	}
	return params
}

func (c *Converter) parameter(node cst.Node) *ast.ModuleParameter {
	span := cst.SpanOf(node)

	switch node.Type() {
	case "identifier", "special_variable":
		return ast.NewModuleParameter(node.Text(), nil, span)

	case "parameter_declaration", "assignment", "default_parameter":
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
			if len(parts) == 1 {
				return ast.NewModuleParameter(parts[0].Text(), nil, span)
			}
			if len(parts) == 2 {
				name, value = parts[0], parts[1]
			}
		}
		if name == nil {
			c.warn(node, diag.CodeMissingField, "parameter declaration has no name; skipped")
			return nil
		}
		var def ast.Expr
		if value != nil {
			def = c.Expression(value)
		}
		return ast.NewModuleParameter(name.Text(), def, span)
	}

	if node.IsError() || node.IsMissing() {
		return nil
	}
	c.warn(node, diag.CodeUnhandledConstruct,
		"unsupported parameter form `"+node.Type()+"`; skipped")
	return nil
}

// Arguments extracts call-site arguments from an arguments node. Positional
// arguments keep an empty Name; `name = expr` children become named
// arguments.
func (c *Converter) Arguments(node cst.Node) []*ast.Argument {
	if node == nil {
		return nil
	}
	var args []*ast.Argument
	for i := 0; i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		if child.IsError() || child.IsMissing() {
			continue
		}
		args = append(args, c.argument(child))
	}
	return args
}

func (c *Converter) argument(node cst.Node) *ast.Argument {
	span := cst.SpanOf(node)

	target := node
	if node.Type() == "argument" {
		// Wrapper production: either one expression child (positional) or a
		// nested assignment (named).
		if inner := firstNamedExpression(node); inner != nil {
			target = inner
		}
	}

	if target.Type() == "assignment" || target.Type() == "named_argument" {
		name := target.ChildByFieldName("name")
		if name == nil {
			name = target.ChildByFieldName("left")
		}
		value := target.ChildByFieldName("value")
		if value == nil {
			value = target.ChildByFieldName("right")
		}
		if name == nil || value == nil {
			parts := namedExpressions(target)
			if len(parts) == 2 {
				name, value = parts[0], parts[1]
			}
		}
		if name != nil && value != nil {
			return ast.NewArgument(name.Text(), c.Expression(value), span)
		}
	}

	return ast.NewArgument("", c.Expression(target), span)
}

// Bind resolves call-site arguments against a declared parameter list the way
// the evaluator would: defaults first, then arguments in call order. A named
// argument binds by name; a positional argument binds to the next parameter
// in declaration order not already filled by an argument. A named argument
// repeated later in the list overwrites the earlier binding, and a named
// argument matching no declared parameter is retained (it may address a
// special variable of the callee).
func Bind(params []*ast.ModuleParameter, args []*ast.Argument) map[string]ast.Expr {
	bound := make(map[string]ast.Expr, len(params))
	for _, p := range params {
		if p.Default != nil {
			bound[p.Name] = p.Default
		}
	}

	filled := make(map[string]bool, len(args))
	positional := 0
	for _, a := range args {
		if a.Name != "" {
			bound[a.Name] = a.Value
			filled[a.Name] = true
			continue
		}
		for positional < len(params) && filled[params[positional].Name] {
			positional++
		}
		if positional < len(params) {
			bound[params[positional].Name] = a.Value
			filled[params[positional].Name] = true
			positional++
		}
	}
	return bound
}
