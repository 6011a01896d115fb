package cst

// SyntheticNode is an in-memory Node implementation. Tests and lightweight
// embedders build trees with it directly instead of driving a real grammar.
type SyntheticNode struct {
	kind     string
	text     string
	start    int
	end      int
	startPt  Point
	endPt    Point
	named    bool
	err      bool
	missing  bool
	children []*SyntheticNode
	fields   map[string]*SyntheticNode
}

// NewNode creates a named synthetic node with the given type tag and text.
func NewNode(kind, text string) *SyntheticNode {
	return &SyntheticNode{kind: kind, text: text, named: true}
}

// NewErrorNode creates a node of type ERROR covering the given text.
func NewErrorNode(text string) *SyntheticNode {
	n := NewNode(ErrorType, text)
	n.err = true
	return n
}

// NewMissingNode creates a zero-width MISSING node for the given token.
func NewMissingNode(token string) *SyntheticNode {
	n := NewNode(MissingType, token)
	n.missing = true
	return n
}

// SetSpan records the node's byte extent within source and derives its
// row/column points from the surrounding text.
func (n *SyntheticNode) SetSpan(source string, start, end int) *SyntheticNode {
	n.start, n.end = start, end
	if start <= len(source) {
		n.startPt = pointFor(source, start)
	}
	if end <= len(source) {
		n.endPt = pointFor(source, end)
	}
	return n
}

// Anonymous marks the node as an unnamed token.
func (n *SyntheticNode) Anonymous() *SyntheticNode {
	n.named = false
	return n
}

// Append adds children in source order.
func (n *SyntheticNode) Append(children ...*SyntheticNode) *SyntheticNode {
	n.children = append(n.children, children...)
	return n
}

// Field adds a child reachable both positionally and by field name.
func (n *SyntheticNode) Field(name string, child *SyntheticNode) *SyntheticNode {
	if n.fields == nil {
		n.fields = make(map[string]*SyntheticNode)
	}
	n.fields[name] = child
	n.children = append(n.children, child)
	return n
}

func (n *SyntheticNode) Type() string      { return n.kind }
func (n *SyntheticNode) Text() string      { return n.text }
func (n *SyntheticNode) StartPoint() Point { return n.startPt }
func (n *SyntheticNode) EndPoint() Point   { return n.endPt }
func (n *SyntheticNode) StartByte() int    { return n.start }
func (n *SyntheticNode) EndByte() int      { return n.end }
func (n *SyntheticNode) IsNamed() bool     { return n.named }
func (n *SyntheticNode) IsError() bool     { return n.err }
func (n *SyntheticNode) IsMissing() bool   { return n.missing }

func (n *SyntheticNode) HasError() bool {
	if n.err || n.missing {
		return true
	}
	for _, c := range n.children {
		if c.HasError() {
			return true
		}
	}
	return false
}

func (n *SyntheticNode) ChildCount() int { return len(n.children) }

func (n *SyntheticNode) Child(i int) Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *SyntheticNode) NamedChildCount() int {
	count := 0
	for _, c := range n.children {
		if c.named {
			count++
		}
	}
	return count
}

func (n *SyntheticNode) NamedChild(i int) Node {
	seen := 0
	for _, c := range n.children {
		if !c.named {
			continue
		}
		if seen == i {
			return c
		}
		seen++
	}
	return nil
}

func (n *SyntheticNode) ChildByFieldName(name string) Node {
	child, ok := n.fields[name]
	if !ok {
		return nil
	}
	return child
}

func pointFor(source string, offset int) Point {
	var p Point
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			p.Row++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	return p
}
