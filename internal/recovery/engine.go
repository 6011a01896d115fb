// Package recovery implements text-level error recovery. Strategies patch the
// source around a diagnostic so the next parse gets further; the driver loops
// parse, convert, recover until the source is clean or the retry budget runs
// out.
package recovery

import (
	"sort"

	"github.com/openscad-go/scadc/internal/diag"
	"github.com/openscad-go/scadc/internal/types"
)

// Strategy patches source text around one diagnostic. Recover returns the
// patched source and whether a patch was applied; a strategy that cannot
// improve the input must return ok=false rather than return it unchanged.
type Strategy interface {
	// Name identifies the strategy in logs and driver traces.
	Name() string
	// Priority orders strategies within a pass; lower runs first.
	Priority() int
	// CanHandle reports whether the strategy applies to the diagnostic.
	CanHandle(d diag.Diagnostic) bool
	// Recover produces the patched source.
	Recover(source string, d diag.Diagnostic) (string, bool)
}

// Engine holds an ordered strategy set and applies at most one patch per
// call. One patch per pass keeps every intermediate source parseable on its
// own terms and makes each recovery step attributable to one diagnostic.
type Engine struct {
	strategies []Strategy
}

// NewEngine creates an engine over the given strategies, sorted by ascending
// priority. With no arguments it uses the default set: delimiters, then
// semicolons, then type mismatches.
func NewEngine(strategies ...Strategy) *Engine {
	if len(strategies) == 0 {
		strategies = Defaults()
	}
	sorted := make([]Strategy, len(strategies))
	copy(sorted, strategies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return &Engine{strategies: sorted}
}

// Option configures the default strategy set.
type Option func(*config)

type config struct {
	checker *types.Checker
}

// WithTypeChecker sets the checker the type-mismatch strategy consults.
func WithTypeChecker(checker *types.Checker) Option {
	return func(c *config) { c.checker = checker }
}

// Defaults returns the built-in strategy set. Delimiters run before the
// semicolon strategy because closing a delimiter often makes the terminator
// parse as well.
func Defaults(opts ...Option) []Strategy {
	cfg := config{checker: types.NewChecker()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return []Strategy{
		NewDelimiterStrategy(),
		NewSemicolonStrategy(),
		NewTypeMismatchStrategy(cfg.checker),
	}
}

// Apply tries strategies in priority order against every diagnostic and
// applies the first successful patch. It returns the patched source, the
// diagnostic that was addressed, and whether anything changed.
func (e *Engine) Apply(source string, diags []diag.Diagnostic) (string, diag.Diagnostic, bool) {
	for _, s := range e.strategies {
		for _, d := range diags {
			if !s.CanHandle(d) {
				continue
			}
			if patched, ok := s.Recover(source, d); ok && patched != source {
				return patched, d, true
			}
		}
	}
	return source, diag.Diagnostic{}, false
}

// Strategies returns the engine's strategies in application order.
func (e *Engine) Strategies() []Strategy {
	out := make([]Strategy, len(e.strategies))
	copy(out, e.strategies)
	return out
}
