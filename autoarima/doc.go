// Package autoarima implements automatic SARIMAX order selection.
//
// Auto-ARIMA selects the best model by searching through combinations of
// orders and keeping the one with the lowest information criterion.
// Differencing is chosen up front with KPSS/ADF tests, seasonal differencing
// from the seasonal strength of a classical decomposition. The stepwise search
// also starts from the MA order suggested by the leading significant
// autocorrelations.
//
// # Basic Usage
//
//	result, err := autoarima.AutoARIMA(series, nil, autoarima.DefaultConfig(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Best model: %s, AIC: %.2f, Models evaluated: %d\n",
//	    result.Model, result.AIC, result.ModelsEvaluated)
//
//	forecasts, _ := result.Model.Predict(10, nil)
//
// # As a Regressor
//
// Model wraps the search behind Fit/FittedValues/Predict so it can be used
// anywhere a fixed-order arima.Model is accepted:
//
//	config := autoarima.DefaultConfig()
//	config.Seasonal = true
//	config.SeasonalM = 12
//
//	model := autoarima.New(config, autoarima.WithLogger(logger))
//	if err := model.Fit(series, exog); err != nil {
//	    log.Fatal(err)
//	}
//
// # Search Methods
//
// Two search methods are available:
//   - Stepwise (default): starts from a few simple orders and moves to
//     neighbouring orders while the criterion improves
//   - Grid: exhaustive search over all combinations (set Stepwise=false)
package autoarima
