// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series represents a time series: values labelled by an Index.
type Series struct {
	Index  Index
	Values []float64
	Name   string
}

// New creates a new time series from values with a positional index.
func New(values []float64) *Series {
	return &Series{
		Index:  DefaultIndex(len(values)),
		Values: values,
	}
}

// NewWithTimestamps creates a time series with a calendar index. The index
// frequency is inferred from the timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{
		Index:  NewDatetimeIndex(timestamps, ""),
		Values: values,
	}, nil
}

// NewWithIndex creates a time series with an explicit index.
func NewWithIndex(index Index, values []float64) (*Series, error) {
	if index == nil {
		index = DefaultIndex(len(values))
	}
	if index.Len() != len(values) {
		return nil, errors.New("index and values must have the same length")
	}
	return &Series{
		Index:  index,
		Values: values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// ResolvedIndex returns the series index, or the default positional index when
// the series was built without one.
func (s *Series) ResolvedIndex() Index {
	if s.Index == nil {
		return DefaultIndex(len(s.Values))
	}
	return s.Index
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// HasNaN reports whether any value is NaN.
func (s *Series) HasNaN() bool {
	return floats.HasNaN(s.Values)
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN calculates the lag-n difference y[t] - y[t-n]. The result is labelled
// with the index positions n onwards.
func (s *Series) DiffN(n int) *Series {
	return s.laggedDiff(n, "_diff")
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.laggedDiff(m, "_seasonal_diff")
}

func (s *Series) laggedDiff(lag int, suffix string) *Series {
	if lag <= 0 || len(s.Values) <= lag {
		return s.empty()
	}

	result := make([]float64, len(s.Values)-lag)
	floats.SubTo(result, s.Values[lag:], s.Values[:len(s.Values)-lag])

	return &Series{
		Index:  s.ResolvedIndex().Slice(lag, len(s.Values)),
		Values: result,
		Name:   s.Name + suffix,
	}
}

// Lag returns the series shifted k positions forward: the value observed at
// position t-k, labelled with position t.
func (s *Series) Lag(k int) *Series {
	if k <= 0 || k >= len(s.Values) {
		return s.empty()
	}

	result := make([]float64, len(s.Values)-k)
	copy(result, s.Values[:len(s.Values)-k])

	return &Series{
		Index:  s.ResolvedIndex().Slice(k, len(s.Values)),
		Values: result,
		Name:   s.Name + "_lag",
	}
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	start, end = clampBounds(start, end, len(s.Values))

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	return &Series{
		Index:  s.ResolvedIndex().Slice(start, end),
		Values: values,
		Name:   s.Name,
	}
}

// Tail returns the last n observations. A non-positive n, or one larger than the
// series, returns a copy of the whole series.
func (s *Series) Tail(n int) *Series {
	if n <= 0 || n >= len(s.Values) {
		return s.Copy()
	}
	return s.Slice(len(s.Values)-n, len(s.Values))
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	return s.Slice(0, len(s.Values))
}

// Equal reports whether both series have the same name, index and values. NaN
// values compare equal to each other.
func (s *Series) Equal(other *Series) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Name != other.Name || len(s.Values) != len(other.Values) {
		return false
	}
	if !s.ResolvedIndex().Equal(other.ResolvedIndex()) {
		return false
	}
	return floats.Same(s.Values, other.Values)
}

// Log applies natural logarithm transformation.
func (s *Series) Log() *Series {
	result := make([]float64, len(s.Values))
	for i, v := range s.Values {
		if v > 0 {
			result[i] = math.Log(v)
		} else {
			result[i] = math.NaN()
		}
	}

	return &Series{
		Index:  s.ResolvedIndex().Slice(0, len(s.Values)),
		Values: result,
		Name:   s.Name + "_log",
	}
}

// MovingAverage calculates a simple moving average with window size. The
// average of each window is labelled with the window's last position.
func (s *Series) MovingAverage(window int) *Series {
	if window <= 0 || window > len(s.Values) {
		return s.empty()
	}

	result := make([]float64, len(s.Values)-window+1)
	sum := floats.Sum(s.Values[:window])
	result[0] = sum / float64(window)

	for i := window; i < len(s.Values); i++ {
		sum = sum - s.Values[i-window] + s.Values[i]
		result[i-window+1] = sum / float64(window)
	}

	return &Series{
		Index:  s.ResolvedIndex().Slice(window-1, len(s.Values)),
		Values: result,
		Name:   s.Name + "_ma",
	}
}

// Normalize standardizes the series (z-score normalization).
func (s *Series) Normalize() *Series {
	mean := s.Mean()
	std := s.Std()

	if std == 0 {
		return s.Copy()
	}

	result := make([]float64, len(s.Values))
	for i, v := range s.Values {
		result[i] = (v - mean) / std
	}

	return &Series{
		Index:  s.ResolvedIndex().Slice(0, len(s.Values)),
		Values: result,
		Name:   s.Name + "_normalized",
	}
}

func (s *Series) empty() *Series {
	return &Series{
		Index:  s.ResolvedIndex().Slice(0, 0),
		Values: []float64{},
		Name:   s.Name,
	}
}
