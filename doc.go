// Package goforecast provides SARIMAX forecasting behind a validating
// forecaster wrapper.
//
// The forecaster checks that the series and its exogenous covariates are
// aligned before fitting, then records what it needs to keep forecasting
// past the training data: the index frequency (or positional step), a
// trailing window of observations and the index of the model's fitted
// values.
//
// # Quick Start
//
//	series, exog, _ := timeseries.LoadCSVWithExog("sales.csv", opts)
//
//	model := arima.New(arima.Order{P: 1, D: 1, Q: 1},
//	    arima.WithSeasonalOrder(arima.SeasonalOrder{P: 0, D: 1, Q: 1, M: 12}))
//	f := forecaster.New(model)
//	if err := f.Fit(series, exog); err != nil {
//	    return err
//	}
//	intervals, _ := f.PredictInterval(12, futureExog, 0.05)
//
// Use Auto-ARIMA when the orders are unknown:
//
//	f := forecaster.New(autoarima.New(autoarima.DefaultConfig()))
//
// # Packages
//
//   - forecaster: input validation, index bookkeeping and metrics
//   - arima: SARIMAX models with exogenous regressors
//   - autoarima: automatic order selection
//   - stats: stationarity tests, autocorrelation and regression helpers
//   - timeseries: series, frames, indexes and CSV loading
//
// The forecast command in cmd/forecast runs the whole pipeline from a CSV
// file and prints a JSON report.
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package goforecast
