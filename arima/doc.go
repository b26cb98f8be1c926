// Package arima implements regression with seasonal ARIMA errors (SARIMAX).
//
// A SARIMAX(p,d,q)(P,D,Q)[m] model combines:
//   - AR(p) and seasonal AR(P): autoregressive terms at lags 1..p and m..P*m
//   - I(d) and seasonal I(D): first and seasonal differencing
//   - MA(q) and seasonal MA(Q): moving average terms on past residuals
//   - X: a linear regression on exogenous variables
//
// # Basic Usage
//
//	model := arima.New(arima.Order{P: 1, D: 1, Q: 1},
//	    arima.WithSeasonalOrder(arima.SeasonalOrder{P: 1, D: 1, M: 12}))
//
//	if err := model.Fit(series, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	summary := model.Summary()
//	fmt.Printf("%s AIC: %.2f, BIC: %.2f\n", summary.Model, summary.AIC, summary.BIC)
//
//	forecasts, _ := model.Predict(10, nil)
//	mean, lower, upper, _ := model.PredictInterval(10, nil, 0.05)
//
// # Exogenous Variables
//
// Pass a timeseries.Frame with one row per observation. Regression
// coefficients are estimated by least squares on the differenced data, and
// the ARIMA terms are fitted to the regression errors. Forecasting then
// requires the future values of the same columns:
//
//	model.Fit(series, exog)
//	forecasts, _ := model.Predict(5, futureExog)
//
// # Fitted Values
//
// FittedValues returns one-step in-sample predictions on the original scale,
// indexed exactly like the training series.
//
// For automatic order selection, use the autoarima package.
package arima
