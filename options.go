package asciimath

import (
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/riverfjs/asciimath-go/internal/convert"
)

// Wrapping 替换文本的定界符
type Wrapping = convert.Wrapping

// ConvertOptions holds options for a Converter.
type ConvertOptions struct {
	Logger  logrus.FieldLogger
	Workers int
	Metrics Metrics
	// Display 非 nil 时覆盖 Settings.DisplayMode
	Display  *bool
	Wrapping Wrapping
	DryRun   bool
}

// Option is a function that configures ConvertOptions.
type Option func(*ConvertOptions)

// WithLogger sets the logger used by one converter instead of the package Logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(opts *ConvertOptions) {
		opts.Logger = logger
	}
}

// WithWorkers bounds the number of documents converted in parallel.
func WithWorkers(n int) Option {
	return func(opts *ConvertOptions) {
		if n > 0 {
			opts.Workers = n
		}
	}
}

// WithMetrics records conversion counters.
func WithMetrics(m Metrics) Option {
	return func(opts *ConvertOptions) {
		opts.Metrics = m
	}
}

// WithDisplayMode overrides Settings.DisplayMode.
func WithDisplayMode(display bool) Option {
	return func(opts *ConvertOptions) {
		opts.Display = &display
	}
}

// WithWrapping sets the delimiters written around converted formulas.
func WithWrapping(w Wrapping) Option {
	return func(opts *ConvertOptions) {
		opts.Wrapping = w
	}
}

// WithDryRun counts conversions without writing documents back.
func WithDryRun(dry bool) Option {
	return func(opts *ConvertOptions) {
		opts.DryRun = dry
	}
}

// defaultConvertOptions returns the default conversion options.
func defaultConvertOptions() *ConvertOptions {
	return &ConvertOptions{
		Workers:  runtime.NumCPU(),
		Metrics:  NewNoopMetrics(),
		Wrapping: convert.DefaultWrapping,
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *ConvertOptions {
	options := defaultConvertOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Logger == nil {
		options.Logger = Logger
	}
	if options.Metrics == nil {
		options.Metrics = NewNoopMetrics()
	}
	return options
}
