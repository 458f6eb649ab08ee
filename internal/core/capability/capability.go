// Package capability discovers and binds the external invoice analysis engine.
//
// Engine adapters register modules in a Registry; a Resolver walks an ordered
// list of descriptors over that registry and binds the first analysis entry
// point it can construct. The resulting Capability is immutable and safe to
// share across requests as long as the engine itself is.
package capability

import (
	"context"
	"errors"
)

// Capability is a resolved analysis entry point.
type Capability struct {
	target Target
	source string
}

// New wraps a target directly, bypassing resolution.
func New(source string, target Target) *Capability {
	return &Capability{target: target, source: source}
}

// Source describes the candidate the capability was resolved from.
func (c *Capability) Source() string {
	return c.source
}

// Invoke runs the analysis for path with visualisation turned off. A target
// that rejects the keyword is called again with the path alone.
func (c *Capability) Invoke(ctx context.Context, path string) (any, error) {
	raw, err := c.target(ctx, path, Kwargs{KwVisualize: false})
	if errors.Is(err, ErrSignatureMismatch) {
		return c.target(ctx, path, nil)
	}
	return raw, err
}
