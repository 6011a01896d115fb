// Package sitter adapts a tree-sitter parser to the cst.Provider contract.
// The OpenSCAD grammar is linked in by default; NewProvider accepts any other
// compiled tree-sitter language for embedders that bring their own grammar.
package sitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	tree_sitter_openscad "github.com/tree-sitter-grammars/tree-sitter-openscad"

	"github.com/openscad-go/scadc/internal/cst"
)

// Provider parses source text with a tree-sitter grammar. A fresh parser is
// created per Parse call so one Provider may be shared across goroutines.
type Provider struct {
	lang *sitter.Language
}

// NewOpenSCADProvider returns a provider backed by the tree-sitter OpenSCAD
// grammar.
func NewOpenSCADProvider() *Provider {
	return NewProvider(sitter.NewLanguage(tree_sitter_openscad.Language()))
}

// NewProvider returns a provider for an arbitrary compiled grammar.
func NewProvider(lang *sitter.Language) *Provider {
	return &Provider{lang: lang}
}

// Parse produces the CST root for source.
func (p *Provider) Parse(ctx context.Context, source []byte) (cst.Node, error) {
	if p == nil || p.lang == nil {
		return nil, fmt.Errorf("sitter: no language configured")
	}

	parser := sitter.NewParser()
	parser.SetLanguage(p.lang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("sitter: parsing: %w", err)
	}

	// The tree is retained by every node wrapper; it is released by its
	// finalizer once the forest built from it is discarded.
	return &node{n: tree.RootNode(), tree: tree, source: source}, nil
}

type node struct {
	n      *sitter.Node
	tree   *sitter.Tree
	source []byte
}

func (a *node) wrap(n *sitter.Node) cst.Node {
	if n == nil {
		return nil
	}
	return &node{n: n, tree: a.tree, source: a.source}
}

func (a *node) Type() string { return a.n.Type() }
func (a *node) Text() string { return a.n.Content(a.source) }

func (a *node) StartPoint() cst.Point {
	pt := a.n.StartPoint()
	return cst.Point{Row: int(pt.Row), Column: int(pt.Column)}
}

func (a *node) EndPoint() cst.Point {
	pt := a.n.EndPoint()
	return cst.Point{Row: int(pt.Row), Column: int(pt.Column)}
}

func (a *node) StartByte() int { return int(a.n.StartByte()) }
func (a *node) EndByte() int   { return int(a.n.EndByte()) }

func (a *node) IsNamed() bool   { return a.n.IsNamed() }
func (a *node) IsError() bool   { return a.n.IsError() }
func (a *node) IsMissing() bool { return a.n.IsMissing() }
func (a *node) HasError() bool  { return a.n.HasError() }

func (a *node) ChildCount() int      { return int(a.n.ChildCount()) }
func (a *node) Child(i int) cst.Node { return a.wrap(a.n.Child(i)) }

func (a *node) NamedChildCount() int      { return int(a.n.NamedChildCount()) }
func (a *node) NamedChild(i int) cst.Node { return a.wrap(a.n.NamedChild(i)) }

func (a *node) ChildByFieldName(name string) cst.Node {
	return a.wrap(a.n.ChildByFieldName(name))
}
