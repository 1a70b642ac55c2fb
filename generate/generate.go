// Package generate defines the generation capability contract and its
// backends. The pipeline treats generation as a synchronous black box:
// prompt in, completion text out. Calls may take seconds.
package generate

import "context"

// Options tunes a single generation call.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Normalize fills in default option values.
func (o Options) Normalize() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = 512
	}
	return o
}

// Generator produces a completion for an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}
