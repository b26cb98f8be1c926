// Package timeseries provides time series data structures and utilities.
//
// A Series is a slice of values labelled by an Index. The Index is either a
// positional RangeIndex or a calendar DatetimeIndex carrying a Frequency.
// Transformations keep values and labels aligned.
//
// # Creating a Series
//
//	series := timeseries.New([]float64{100, 102, 105, 103, 108, 110}) // index 0..5
//
//	idx := timeseries.DateRange(start, 50, timeseries.YearEnd)
//	annual, err := timeseries.NewWithIndex(idx, values)
//
// # Indexes
//
// Use a type switch to tell calendar and positional indexes apart:
//
//	switch idx := series.Index.(type) {
//	case timeseries.DatetimeIndex:
//	    fmt.Println(idx.Freq)
//	case timeseries.RangeIndex:
//	    fmt.Println(idx.StepOrDefault())
//	}
//
// Extend returns the labels that follow an index, which is how forecasts are
// labelled:
//
//	future, err := series.Index.Extend(12)
//
// # Exogenous data
//
// A Frame holds aligned covariates:
//
//	exog, err := timeseries.FrameFromSeries(temperature, promotions)
//
// # Loading from CSV
//
//	series, err := timeseries.LoadCSVColumn("data.csv", "value")
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.ExogColumns = []string{"temp"}
//	series, exog, err := timeseries.LoadCSVWithExog("data.csv", opts)
//
// Parsed dates produce a DatetimeIndex whose frequency is inferred unless
// CSVOptions.Freq is set.
//
// # Transformations
//
//	diff := series.Diff()            // First difference
//	sdiff := series.SeasonalDiff(12) // Seasonal difference
//	window := series.Tail(24)        // Last 24 observations
//	ma := series.MovingAverage(7)    // Moving average
package timeseries
