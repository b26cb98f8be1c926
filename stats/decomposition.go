package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/goforecast/timeseries"
)

// Decomposition models.
const (
	Additive       = "additive"
	Multiplicative = "multiplicative"
)

// DecompositionResult represents the decomposition of a time series. All
// components share the original series' index.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
	Type     string
}

// Decompose performs classical seasonal decomposition using a centred moving
// average for the trend. decompositionType is Additive (default) or
// Multiplicative. Trend and residual are NaN where the moving average is
// undefined.
func Decompose(series *timeseries.Series, period int, decompositionType string) *DecompositionResult {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}
	if decompositionType != Multiplicative {
		decompositionType = Additive
	}
	multiplicative := decompositionType == Multiplicative

	trend := centredMovingAverage(series.Values, period)

	// Average the detrended values at each position within the period.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range series.Values {
		if math.IsNaN(trend[i]) || (multiplicative && trend[i] == 0) {
			continue
		}
		if multiplicative {
			pattern[i%period] += v / trend[i]
		} else {
			pattern[i%period] += v - trend[i]
		}
		counts[i%period]++
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}

	mean := floats.Sum(pattern) / float64(period)
	if multiplicative {
		floats.Scale(1/mean, pattern)
	} else {
		floats.AddConst(-mean, pattern)
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i, v := range series.Values {
		seasonal[i] = pattern[i%period]
		switch {
		case math.IsNaN(trend[i]):
			residual[i] = math.NaN()
		case multiplicative:
			if trend[i] == 0 || seasonal[i] == 0 {
				residual[i] = math.NaN()
			} else {
				residual[i] = v / (trend[i] * seasonal[i])
			}
		default:
			residual[i] = v - trend[i] - seasonal[i]
		}
	}

	index := series.ResolvedIndex()
	component := func(values []float64, name string) *timeseries.Series {
		return &timeseries.Series{Index: index, Values: values, Name: name}
	}

	return &DecompositionResult{
		Original: series,
		Trend:    component(trend, "trend"),
		Seasonal: component(seasonal, "seasonal"),
		Residual: component(residual, "residual"),
		Period:   period,
		Type:     decompositionType,
	}
}

// centredMovingAverage uses a 2xperiod MA for even periods.
func centredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		var sum float64
		if period%2 == 0 {
			sum = 0.5*values[i-half] + 0.5*values[i+half] + floats.Sum(values[i-half+1:i+half])
		} else {
			sum = floats.Sum(values[i-half : i+half+1])
		}
		trend[i] = sum / float64(period)
	}
	return trend
}
