package ast

import "github.com/openscad-go/scadc/internal/loc"

// The nodes in this file are specialized forms of ModuleInstantiation,
// recognized by callee name when the relevant arguments are literal. An
// instantiation whose arguments cannot be resolved statically stays a
// generic ModuleInstantiation.

// Translate represents `translate(v) children`. Two-element vectors are
// padded with 0, matching OpenSCAD's 2D compatibility rule.
type Translate struct {
	V        [3]float64
	Children []Stmt
	span     loc.Span
}

// Span returns the statement span.
func (t *Translate) Span() loc.Span { return t.span }

// NewTranslate constructs a translate node.
func NewTranslate(v [3]float64, children []Stmt, span loc.Span) *Translate {
	return &Translate{V: v, Children: children, span: span}
}

func (*Translate) stmtNode() {}

// Rotate represents `rotate(a) children` or `rotate(a, v) children`.
// Angles holds one element for the scalar form and three for the
// per-axis vector form. Axis is set only for the axis/angle form.
type Rotate struct {
	Angles   []float64
	Axis     *[3]float64
	Children []Stmt
	span     loc.Span
}

// Span returns the statement span.
func (r *Rotate) Span() loc.Span { return r.span }

// NewRotate constructs a rotate node.
func NewRotate(angles []float64, axis *[3]float64, children []Stmt, span loc.Span) *Rotate {
	return &Rotate{Angles: angles, Axis: axis, Children: children, span: span}
}

func (*Rotate) stmtNode() {}

// Scale represents `scale(v) children`. A scalar argument is broadcast to
// all three axes; two-element vectors are padded with 1.
type Scale struct {
	V        [3]float64
	Children []Stmt
	span     loc.Span
}

// Span returns the statement span.
func (s *Scale) Span() loc.Span { return s.span }

// NewScale constructs a scale node.
func NewScale(v [3]float64, children []Stmt, span loc.Span) *Scale {
	return &Scale{V: v, Children: children, span: span}
}

func (*Scale) stmtNode() {}

// Mirror represents `mirror(v) children`. Two-element vectors are padded
// with 0.
type Mirror struct {
	V        [3]float64
	Children []Stmt
	span     loc.Span
}

// Span returns the statement span.
func (m *Mirror) Span() loc.Span { return m.span }

// NewMirror constructs a mirror node.
func NewMirror(v [3]float64, children []Stmt, span loc.Span) *Mirror {
	return &Mirror{V: v, Children: children, span: span}
}

func (*Mirror) stmtNode() {}

// Multmatrix represents `multmatrix(m) children` with a 4x4 affine matrix.
type Multmatrix struct {
	M        [4][4]float64
	Children []Stmt
	span     loc.Span
}

// Span returns the statement span.
func (m *Multmatrix) Span() loc.Span { return m.span }

// NewMultmatrix constructs a multmatrix node.
func NewMultmatrix(m [4][4]float64, children []Stmt, span loc.Span) *Multmatrix {
	return &Multmatrix{M: m, Children: children, span: span}
}

func (*Multmatrix) stmtNode() {}

// Color represents `color(c) children`. Either Name (a color keyword or
// "#rrggbb" string) or RGBA (3 or 4 components in [0,1]) is set.
type Color struct {
	Name     string
	RGBA     []float64
	Children []Stmt
	span     loc.Span
}

// Span returns the statement span.
func (c *Color) Span() loc.Span { return c.span }

// NewColor constructs a color node.
func NewColor(name string, rgba []float64, children []Stmt, span loc.Span) *Color {
	return &Color{Name: name, RGBA: rgba, Children: children, span: span}
}

func (*Color) stmtNode() {}

// Offset represents `offset(r|delta, chamfer) children`. Exactly one of
// R and Delta is set.
type Offset struct {
	R        *float64
	Delta    *float64
	Chamfer  bool
	Children []Stmt
	span     loc.Span
}

// Span returns the statement span.
func (o *Offset) Span() loc.Span { return o.span }

// NewOffset constructs an offset node.
func NewOffset(r, delta *float64, chamfer bool, children []Stmt, span loc.Span) *Offset {
	return &Offset{R: r, Delta: delta, Chamfer: chamfer, Children: children, span: span}
}

func (*Offset) stmtNode() {}
