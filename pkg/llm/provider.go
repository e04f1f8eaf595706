package llm

import (
	"context"
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

// ApplyOptions returns defaults with every option applied in order.
func ApplyOptions(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// StructuredGenerator is the schema-constrained generation capability.
// Implementations return the raw JSON text produced by the model. An empty
// string with a nil error means the model answered with nothing usable.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, prompt string, schema *Schema, options ...Option) (string, error)
}
