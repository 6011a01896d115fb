package ast

// Walk traverses the tree rooted at node in source order, calling fn for each
// node. If fn returns false, Walk does not descend into that node's children.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *ModuleDefinition:
		for _, p := range n.Parameters {
			Walk(p, fn)
		}
		walkStmts(n.Body, fn)

	case *FunctionDefinition:
		for _, p := range n.Parameters {
			Walk(p, fn)
		}
		Walk(n.Value, fn)

	case *ModuleParameter:
		if n.Default != nil {
			Walk(n.Default, fn)
		}

	case *Argument:
		Walk(n.Value, fn)

	case *ModuleInstantiation:
		for _, a := range n.Args {
			Walk(a, fn)
		}
		walkStmts(n.Children, fn)

	case *Translate:
		walkStmts(n.Children, fn)
	case *Rotate:
		walkStmts(n.Children, fn)
	case *Scale:
		walkStmts(n.Children, fn)
	case *Mirror:
		walkStmts(n.Children, fn)
	case *Multmatrix:
		walkStmts(n.Children, fn)
	case *Color:
		walkStmts(n.Children, fn)
	case *Offset:
		walkStmts(n.Children, fn)

	case *IfNode:
		Walk(n.Condition, fn)
		walkStmts(n.Then, fn)
		walkStmts(n.Else, fn)

	case *ForLoop:
		for _, v := range n.Variables {
			Walk(v, fn)
		}
		walkStmts(n.Body, fn)

	case *ForLoopVariable:
		Walk(n.Range, fn)

	case *Let:
		for _, a := range n.Assignments {
			Walk(a, fn)
		}
		walkStmts(n.Body, fn)

	case *Each:
		Walk(n.Expression, fn)

	case *Assign:
		for _, a := range n.Assignments {
			Walk(a, fn)
		}
		walkStmts(n.Body, fn)

	case *Assignment:
		Walk(n.Value, fn)

	case *UnaryExpr:
		Walk(n.Operand, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *ConditionalExpr:
		Walk(n.Condition, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)

	case *RangeExpr:
		Walk(n.Start, fn)
		if n.Step != nil {
			Walk(n.Step, fn)
		}
		Walk(n.End, fn)

	case *VectorExpr:
		for _, e := range n.Elements {
			Walk(e, fn)
		}

	case *ListComprehension:
		for _, f := range n.Fors {
			Walk(f, fn)
		}
		if n.Condition != nil {
			Walk(n.Condition, fn)
		}
		Walk(n.Element, fn)

	case *ComprehensionFor:
		for _, v := range n.Variables {
			Walk(v, fn)
		}

	case *LetExpr:
		for _, a := range n.Assignments {
			Walk(a, fn)
		}
		Walk(n.In, fn)

	case *CallExpr:
		Walk(n.Function, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}

	case *IndexExpr:
		Walk(n.Value, fn)
		Walk(n.Index, fn)

	case *MemberExpr:
		Walk(n.Value, fn)

	// Leaf nodes have no children to traverse.
	case *Identifier, *SpecialVariable, *NumberLit, *StringLit, *BoolLit,
		*UndefLit, *Include, *Use, *ErrorNode:
	}
}

// WalkForest traverses every top-level statement of a forest.
func WalkForest(forest []Stmt, fn func(Node) bool) {
	for _, stmt := range forest {
		Walk(stmt, fn)
	}
}

func walkStmts(stmts []Stmt, fn func(Node) bool) {
	for _, s := range stmts {
		Walk(s, fn)
	}
}
