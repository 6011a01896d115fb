// Package cst defines the interface boundary to the external concrete syntax
// tree provider. The core never constructs or mutates provider trees; it only
// reads node types, text spans, and named/field children through the Node
// interface declared here.
package cst

import (
	"context"

	"github.com/openscad-go/scadc/internal/loc"
)

// ErrorType is the node type a grammar-driven parser assigns to regions it
// could not parse. MissingType marks zero-width nodes the parser inserted to
// keep the tree well-formed.
const (
	ErrorType   = "ERROR"
	MissingType = "MISSING"
)

// Point is a 0-based row/column pair.
type Point struct {
	Row    int
	Column int
}

// Node is one node of the provider's concrete syntax tree.
type Node interface {
	// Type returns the grammar production tag, e.g. "module_definition".
	Type() string
	// Text returns the source text the node covers.
	Text() string

	StartPoint() Point
	EndPoint() Point
	StartByte() int
	EndByte() int

	// IsNamed reports whether the node is a named production rather than an
	// anonymous token such as a delimiter.
	IsNamed() bool
	// IsError reports whether the node marks a parse error region.
	IsError() bool
	// IsMissing reports whether the parser inserted this node to recover.
	IsMissing() bool
	// HasError reports whether the subtree rooted here contains any error or
	// missing node.
	HasError() bool

	ChildCount() int
	Child(i int) Node
	NamedChildCount() int
	NamedChild(i int) Node
	ChildByFieldName(name string) Node
}

// Provider produces a CST for OpenSCAD source text. Implementations wrap an
// external grammar-driven parser; Parse is called again by the driver after
// the recovery engine patches the source.
type Provider interface {
	Parse(ctx context.Context, source []byte) (Node, error)
}

// SpanOf converts a node's byte/point extent into an AST location record.
func SpanOf(n Node) loc.Span {
	if n == nil {
		return loc.Span{}
	}
	start, end := n.StartPoint(), n.EndPoint()
	return loc.Span{
		Start: loc.Position{Line: start.Row, Column: start.Column, Offset: n.StartByte()},
		End:   loc.Position{Line: end.Row, Column: end.Column, Offset: n.EndByte()},
	}
}
