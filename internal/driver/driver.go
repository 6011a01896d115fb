// Package driver runs the frontend pipeline: parse, convert, type-check,
// recover, reparse. Recovery is bounded; when the retry budget is spent the
// last forest and its diagnostics are returned as-is, errors included.
package driver

import (
	"context"

	"github.com/openscad-go/scadc/internal/ast"
	"github.com/openscad-go/scadc/internal/convert"
	"github.com/openscad-go/scadc/internal/cst"
	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/recovery"
	"github.com/openscad-go/scadc/internal/types"
)

const (
	// DefaultMaxRetries is the recovery pass budget when none is configured.
	DefaultMaxRetries = 3
	// MaxRetriesCap bounds the configurable budget. Each retry is a full
	// reparse; beyond a handful the source is not salvageable by patching.
	MaxRetriesCap = 5
)

// Driver compiles OpenSCAD source to an AST forest with recovery.
type Driver struct {
	provider   cst.Provider
	engine     *recovery.Engine
	checker    *types.Checker
	filename   string
	maxRetries int
}

// Option configures a Driver.
type Option func(*Driver)

// WithFilename stamps diagnostics with the given file name.
func WithFilename(name string) Option {
	return func(d *Driver) { d.filename = name }
}

// WithMaxRetries sets the recovery pass budget. Values are clamped to
// [0, MaxRetriesCap]; zero disables recovery entirely.
func WithMaxRetries(n int) Option {
	return func(d *Driver) {
		if n < 0 {
			n = 0
		}
		if n > MaxRetriesCap {
			n = MaxRetriesCap
		}
		d.maxRetries = n
	}
}

// WithEngine replaces the default recovery engine.
func WithEngine(e *recovery.Engine) Option {
	return func(d *Driver) { d.engine = e }
}

// New creates a driver over the given CST provider.
func New(provider cst.Provider, opts ...Option) *Driver {
	d := &Driver{
		provider:   provider,
		checker:    types.NewChecker(),
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.engine == nil {
		defaults := recovery.Defaults(recovery.WithTypeChecker(d.checker))
		d.engine = recovery.NewEngine(defaults...)
	}
	return d
}

// Result is the outcome of one Compile call.
type Result struct {
	// Forest is the converted AST of the final pass.
	Forest []ast.Stmt
	// Diagnostics are the parse and semantic diagnostics of the final pass.
	Diagnostics []diag.Diagnostic
	// Source is the source text of the final pass, including any patches
	// recovery applied.
	Source string
	// Passes counts parse passes; 1 means the input was clean or recovery
	// is disabled.
	Passes int
	// Recovered lists the diagnostics recovery patched in earlier passes.
	Recovered []diag.Diagnostic
}

// HasErrors reports whether the final pass still carries error-severity
// diagnostics.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

// Compile runs the pipeline on source. The context is checked between
// passes; a parse failure from the provider aborts the loop.
func (d *Driver) Compile(ctx context.Context, source string) (*Result, error) {
	src := source
	var recovered []diag.Diagnostic

	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root, err := d.provider.Parse(ctx, []byte(src))
		if err != nil {
			return nil, err
		}

		conv := convert.New(src, convert.WithFilename(d.filename))
		forest, diags := conv.Convert(root)
		for _, sd := range d.checker.Check(forest) {
			sd.Filename = d.filename
			diags = append(diags, sd)
		}

		result := &Result{
			Forest:      forest,
			Diagnostics: diags,
			Source:      src,
			Passes:      pass,
			Recovered:   recovered,
		}
		if !result.HasErrors() || pass > d.maxRetries {
			return result, nil
		}

		patched, handled, ok := d.engine.Apply(src, diags)
		if !ok {
			return result, nil
		}
		src = patched
		recovered = append(recovered, handled)
	}
}
