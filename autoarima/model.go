package autoarima

import (
	"go.uber.org/zap"

	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/timeseries"
)

// Model runs the order search on Fit and delegates to the selected
// arima.Model afterwards.
type Model struct {
	config *Config
	logger *zap.Logger
	result *Result
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger passed to the search.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Model. A nil config means DefaultConfig.
func New(config *Config, opts ...Option) *Model {
	if config == nil {
		config = DefaultConfig()
	}
	m := &Model{config: config, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit searches for the best orders on y and exog. On failure the previously
// selected model is kept.
func (m *Model) Fit(y *timeseries.Series, exog *timeseries.Frame) error {
	result, err := AutoARIMA(y, exog, m.config, m.logger)
	if err != nil {
		return err
	}
	m.result = result
	return nil
}

// Result returns the last search result, or nil before Fit.
func (m *Model) Result() *Result {
	return m.result
}

// FittedValues returns the selected model's in-sample fitted values.
func (m *Model) FittedValues() *timeseries.Series {
	if m.result == nil {
		return nil
	}
	return m.result.Model.FittedValues()
}

// Predict forecasts with the selected model.
func (m *Model) Predict(steps int, exog *timeseries.Frame) ([]float64, error) {
	if m.result == nil {
		return nil, arima.ErrNotFitted
	}
	return m.result.Model.Predict(steps, exog)
}

// PredictInterval forecasts with (1 - alpha) prediction intervals.
func (m *Model) PredictInterval(steps int, exog *timeseries.Frame, alpha float64) (mean, lower, upper []float64, err error) {
	if m.result == nil {
		return nil, nil, nil, arima.ErrNotFitted
	}
	return m.result.Model.PredictInterval(steps, exog, alpha)
}

// String names the selected model once fitted.
func (m *Model) String() string {
	if m.result == nil {
		return "AutoARIMA"
	}
	return "AutoARIMA " + m.result.Model.String()
}
