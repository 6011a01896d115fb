package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sprint renders a node as a compact s-expression for debug output and tests.
func Sprint(node Node) string {
	var b strings.Builder
	sprint(&b, node)
	return b.String()
}

// SprintForest renders a forest one statement per line.
func SprintForest(forest []Stmt) string {
	var b strings.Builder
	for _, stmt := range forest {
		sprint(&b, stmt)
		b.WriteByte('\n')
	}
	return b.String()
}

func sprint(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("<nil>")

	case *ModuleDefinition:
		fmt.Fprintf(b, "(module %s", n.Name)
		sprintParams(b, n.Parameters)
		sprintStmts(b, n.Body)
		b.WriteByte(')')

	case *FunctionDefinition:
		fmt.Fprintf(b, "(function %s", n.Name)
		sprintParams(b, n.Parameters)
		b.WriteString(" = ")
		sprint(b, n.Value)
		b.WriteByte(')')

	case *ModuleInstantiation:
		b.WriteByte('(')
		if n.Modifier != "" {
			b.WriteString(n.Modifier)
		}
		b.WriteString(n.Name)
		sprintArgs(b, n.Args)
		sprintStmts(b, n.Children)
		b.WriteByte(')')

	case *Translate:
		fmt.Fprintf(b, "(translate %v", n.V)
		sprintStmts(b, n.Children)
		b.WriteByte(')')

	case *Rotate:
		fmt.Fprintf(b, "(rotate %v", n.Angles)
		if n.Axis != nil {
			fmt.Fprintf(b, " axis=%v", *n.Axis)
		}
		sprintStmts(b, n.Children)
		b.WriteByte(')')

	case *Scale:
		fmt.Fprintf(b, "(scale %v", n.V)
		sprintStmts(b, n.Children)
		b.WriteByte(')')

	case *Mirror:
		fmt.Fprintf(b, "(mirror %v", n.V)
		sprintStmts(b, n.Children)
		b.WriteByte(')')

	case *Multmatrix:
		fmt.Fprintf(b, "(multmatrix %v", n.M)
		sprintStmts(b, n.Children)
		b.WriteByte(')')

	case *Color:
		if n.Name != "" {
			fmt.Fprintf(b, "(color %q", n.Name)
		} else {
			fmt.Fprintf(b, "(color %v", n.RGBA)
		}
		sprintStmts(b, n.Children)
		b.WriteByte(')')

	case *Offset:
		b.WriteString("(offset")
		if n.R != nil {
			fmt.Fprintf(b, " r=%s", formatFloat(*n.R))
		}
		if n.Delta != nil {
			fmt.Fprintf(b, " delta=%s", formatFloat(*n.Delta))
		}
		if n.Chamfer {
			b.WriteString(" chamfer")
		}
		sprintStmts(b, n.Children)
		b.WriteByte(')')

	case *IfNode:
		b.WriteString("(if ")
		sprint(b, n.Condition)
		sprintStmts(b, n.Then)
		if n.Else != nil {
			b.WriteString(" else")
			sprintStmts(b, n.Else)
		}
		b.WriteByte(')')

	case *ForLoop:
		b.WriteString("(for")
		for _, v := range n.Variables {
			fmt.Fprintf(b, " %s=", v.Name)
			sprint(b, v.Range)
		}
		sprintStmts(b, n.Body)
		b.WriteByte(')')

	case *Let:
		b.WriteString("(let")
		sprintAssignments(b, n.Assignments)
		sprintStmts(b, n.Body)
		b.WriteByte(')')

	case *Each:
		b.WriteString("(each ")
		sprint(b, n.Expression)
		b.WriteByte(')')

	case *Assign:
		b.WriteString("(assign")
		sprintAssignments(b, n.Assignments)
		sprintStmts(b, n.Body)
		b.WriteByte(')')

	case *Assignment:
		fmt.Fprintf(b, "(= %s ", n.Name)
		sprint(b, n.Value)
		b.WriteByte(')')

	case *Include:
		fmt.Fprintf(b, "(include %q)", n.Path)

	case *Use:
		fmt.Fprintf(b, "(use %q)", n.Path)

	case *NumberLit:
		b.WriteString(formatFloat(n.Value))

	case *StringLit:
		fmt.Fprintf(b, "%q", n.Value)

	case *BoolLit:
		fmt.Fprintf(b, "%t", n.Value)

	case *UndefLit:
		b.WriteString("undef")

	case *Identifier:
		b.WriteString(n.Name)

	case *SpecialVariable:
		b.WriteString(n.Name)

	case *UnaryExpr:
		fmt.Fprintf(b, "(%s ", n.Op)
		sprint(b, n.Operand)
		b.WriteByte(')')

	case *BinaryExpr:
		fmt.Fprintf(b, "(%s ", n.Op)
		sprint(b, n.Left)
		b.WriteByte(' ')
		sprint(b, n.Right)
		b.WriteByte(')')

	case *ConditionalExpr:
		b.WriteString("(?: ")
		sprint(b, n.Condition)
		b.WriteByte(' ')
		sprint(b, n.Then)
		b.WriteByte(' ')
		sprint(b, n.Else)
		b.WriteByte(')')

	case *RangeExpr:
		b.WriteString("(range ")
		sprint(b, n.Start)
		b.WriteByte(':')
		sprint(b, n.Step)
		b.WriteByte(':')
		sprint(b, n.End)
		b.WriteByte(')')

	case *VectorExpr:
		b.WriteByte('[')
		for i, e := range n.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			sprint(b, e)
		}
		b.WriteByte(']')

	case *ListComprehension:
		b.WriteString("(comprehension")
		for _, f := range n.Fors {
			b.WriteString(" for")
			for _, v := range f.Variables {
				fmt.Fprintf(b, " %s=", v.Name)
				sprint(b, v.Range)
			}
		}
		if n.Condition != nil {
			b.WriteString(" if ")
			sprint(b, n.Condition)
		}
		b.WriteByte(' ')
		sprint(b, n.Element)
		b.WriteByte(')')

	case *LetExpr:
		b.WriteString("(let-expr")
		sprintAssignments(b, n.Assignments)
		b.WriteByte(' ')
		sprint(b, n.In)
		b.WriteByte(')')

	case *CallExpr:
		b.WriteString("(call ")
		sprint(b, n.Function)
		sprintArgs(b, n.Args)
		b.WriteByte(')')

	case *IndexExpr:
		b.WriteString("(index ")
		sprint(b, n.Value)
		b.WriteByte(' ')
		sprint(b, n.Index)
		b.WriteByte(')')

	case *MemberExpr:
		b.WriteString("(member ")
		sprint(b, n.Value)
		fmt.Fprintf(b, " .%s)", n.Property)

	case *ErrorNode:
		fmt.Fprintf(b, "(error %s %q)", n.Code, n.Text)

	default:
		fmt.Fprintf(b, "(unknown %T)", n)
	}
}

func sprintStmts(b *strings.Builder, stmts []Stmt) {
	for _, s := range stmts {
		b.WriteByte(' ')
		sprint(b, s)
	}
}

func sprintParams(b *strings.Builder, params []*ModuleParameter) {
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Default != nil {
			b.WriteByte('=')
			sprint(b, p.Default)
		}
	}
	b.WriteByte(')')
}

func sprintArgs(b *strings.Builder, args []*Argument) {
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		if a.Name != "" {
			b.WriteString(a.Name)
			b.WriteByte('=')
		}
		sprint(b, a.Value)
	}
	b.WriteByte(')')
}

func sprintAssignments(b *strings.Builder, assignments []*Assignment) {
	for _, a := range assignments {
		fmt.Fprintf(b, " %s=", a.Name)
		sprint(b, a.Value)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
