package forecaster

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Forecaster.
type Option func(*Forecaster)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Forecaster) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithWindowSize bounds the stored last window to the trailing n
// observations. Zero keeps the whole training series.
func WithWindowSize(n int) Option {
	return func(f *Forecaster) {
		if n >= 0 {
			f.windowSize = n
		}
	}
}

// WithMetrics records fits on m.
func WithMetrics(m *Metrics) Option {
	return func(f *Forecaster) {
		f.metrics = m
	}
}

// WithClock overrides the clock used for creation and fit dates.
func WithClock(now func() time.Time) Option {
	return func(f *Forecaster) {
		if now != nil {
			f.now = now
		}
	}
}
