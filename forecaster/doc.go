// Package forecaster adapts a SARIMAX-style regressor to a uniform
// forecasting interface.
//
// A Forecaster validates its inputs before delegating to a Regressor and
// records the index metadata needed to continue forecasting after the
// training data:
//
//   - IndexFreq: the frequency of a calendar index, or the step of a
//     positional one
//   - LastWindow: the trailing observations of the training series
//   - ExtendedIndex: the index of the regressor's in-sample fitted values
//
// # Basic Usage
//
//	model := arima.New(arima.Order{P: 1, D: 1, Q: 1})
//	f := forecaster.New(model, forecaster.WithLogger(logger))
//
//	if err := f.Fit(series, nil); err != nil {
//	    if errors.Is(err, forecaster.ErrInvalidInput) {
//	        // misaligned or missing data
//	    }
//	    log.Fatal(err)
//	}
//
//	pred, _ := f.Predict(12, nil)
//	intervals, _ := f.PredictInterval(12, nil, 0.05)
//
// Errors returned by the regressor are passed through unchanged. A failed
// Fit leaves the state of the previous successful Fit in place.
package forecaster
