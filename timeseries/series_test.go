package timeseries

import (
	"math"
	"testing"
	"time"
)

func assertValues(t *testing.T, expected, got []float64) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("Expected %d values, got %d: %v", len(expected), len(got), got)
	}
	for i, v := range expected {
		if math.Abs(got[i]-v) > 1e-10 {
			t.Errorf("Expected %f at index %d, got %f", v, i, got[i])
		}
	}
}

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}
	for i, v := range s.Values {
		if v != values[i] {
			t.Errorf("Expected value %f at index %d, got %f", values[i], i, v)
		}
	}
	if s.Index != (RangeIndex{Start: 0, Stop: 5, Step: 1}) {
		t.Errorf("Expected RangeIndex(0, 5), got %v", s.Index)
	}
}

func TestNewWithTimestamps(t *testing.T) {
	idx := DateRange(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 5, Daily)

	s, err := NewWithTimestamps(idx.Timestamps, []float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	dt, ok := s.Index.(DatetimeIndex)
	if !ok {
		t.Fatalf("Expected a calendar index, got %T", s.Index)
	}
	if dt.Freq != Daily {
		t.Errorf("Expected frequency %v, got %v", Daily, dt.Freq)
	}

	if _, err := NewWithTimestamps(idx.Timestamps, []float64{1, 2}); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
}

func TestNewWithIndex(t *testing.T) {
	s, err := NewWithIndex(RangeIndex{Start: 10, Stop: 16, Step: 2}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if label := s.Index.Label(2); label != "14" {
		t.Errorf("Expected label 14, got %s", label)
	}

	if _, err := NewWithIndex(NewRangeIndex(0, 4), []float64{1, 2, 3}); err == nil {
		t.Error("Expected error for mismatched index")
	}

	s, err = NewWithIndex(nil, []float64{1, 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !s.Index.Equal(NewRangeIndex(0, 2)) {
		t.Errorf("Expected default index, got %v", s.Index)
	}
}

func TestResolvedIndex(t *testing.T) {
	s := &Series{Values: []float64{1, 2, 3}}
	if idx := s.ResolvedIndex(); !idx.Equal(NewRangeIndex(0, 3)) {
		t.Errorf("Expected RangeIndex(0, 3), got %v", idx)
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"mixed", []float64{-1, 0, 1}, 0.0},
		{"empty", []float64{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(tt.values).Mean()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected mean %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestVarianceAndStd(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	expected := 4.571428571428571

	if result := s.Variance(); math.Abs(result-expected) > 1e-10 {
		t.Errorf("Expected variance %f, got %f", expected, result)
	}
	if result := s.Std(); math.Abs(result-math.Sqrt(expected)) > 1e-10 {
		t.Errorf("Expected std %f, got %f", math.Sqrt(expected), result)
	}
	if result := New([]float64{1}).Variance(); result != 0 {
		t.Errorf("Expected variance 0 for a single value, got %f", result)
	}
}

func TestMinMax(t *testing.T) {
	s := New([]float64{5, 2, 8, 1, 9, 3})

	if s.Min() != 1.0 {
		t.Errorf("Expected min 1.0, got %f", s.Min())
	}
	if s.Max() != 9.0 {
		t.Errorf("Expected max 9.0, got %f", s.Max())
	}
	if !math.IsNaN(New(nil).Min()) || !math.IsNaN(New(nil).Max()) {
		t.Error("Expected NaN min and max for an empty series")
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"odd", []float64{1, 3, 5}, 3.0},
		{"even", []float64{1, 2, 3, 4}, 2.5},
		{"single", []float64{5}, 5.0},
		{"unsorted", []float64{5, 1, 3}, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(tt.values).Median()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected median %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	s := New([]float64{1, 3, 6, 10, 15})
	diff := s.Diff()

	assertValues(t, []float64{2, 3, 4, 5}, diff.Values)
	if !diff.Index.Equal(NewRangeIndex(1, 5)) {
		t.Errorf("Expected diff to keep labels 1..4, got %v", diff.Index)
	}
}

func TestDiffN(t *testing.T) {
	s := New([]float64{1, 3, 6, 10, 15, 21})

	assertValues(t, []float64{5, 7, 9, 11}, s.DiffN(2).Values)
	if n := s.DiffN(6).Len(); n != 0 {
		t.Errorf("Expected empty series, got length %d", n)
	}
}

func TestSeasonalDiff(t *testing.T) {
	values := []float64{10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32, 11, 13, 15, 17}
	idx := DateRange(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), len(values), MonthStart)
	s, err := NewWithIndex(idx, values)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	diff := s.SeasonalDiff(12)

	assertValues(t, []float64{1, 1, 1, 1}, diff.Values)
	dt := diff.Index.(DatetimeIndex)
	if want := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC); !dt.First().Equal(want) {
		t.Errorf("Expected first timestamp %v, got %v", want, dt.First())
	}
	if dt.Freq != MonthStart {
		t.Errorf("Expected frequency %v, got %v", MonthStart, dt.Freq)
	}
}

func TestLag(t *testing.T) {
	lagged := New([]float64{1, 2, 3, 4, 5}).Lag(2)

	assertValues(t, []float64{1, 2, 3}, lagged.Values)
	if !lagged.Index.Equal(NewRangeIndex(2, 5)) {
		t.Errorf("Expected RangeIndex(2, 5), got %v", lagged.Index)
	}
}

func TestSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	sliced := s.Slice(1, 4)

	assertValues(t, []float64{2, 3, 4}, sliced.Values)
	if !sliced.Index.Equal(NewRangeIndex(1, 4)) {
		t.Errorf("Expected RangeIndex(1, 4), got %v", sliced.Index)
	}
	if n := s.Slice(-3, 99).Len(); n != 5 {
		t.Errorf("Expected clamped length 5, got %d", n)
	}
}

func TestTail(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})

	tail := s.Tail(2)
	assertValues(t, []float64{4, 5}, tail.Values)
	if !tail.Index.Equal(NewRangeIndex(3, 5)) {
		t.Errorf("Expected RangeIndex(3, 5), got %v", tail.Index)
	}
	if !s.Tail(0).Equal(s) || !s.Tail(10).Equal(s) {
		t.Error("Expected the whole series for a non-positive or oversized window")
	}
}

func TestLog(t *testing.T) {
	logged := New([]float64{1, math.E, math.E * math.E, -1}).Log()

	assertValues(t, []float64{0, 1, 2}, logged.Values[:3])
	if !math.IsNaN(logged.Values[3]) {
		t.Errorf("Expected NaN for log of a negative value, got %f", logged.Values[3])
	}
	if !logged.HasNaN() {
		t.Error("Expected HasNaN to report the missing value")
	}
}

func TestMovingAverage(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5, 6, 7})
	ma := s.MovingAverage(3)

	assertValues(t, []float64{2, 3, 4, 5, 6}, ma.Values)
	if !ma.Index.Equal(NewRangeIndex(2, 7)) {
		t.Errorf("Expected RangeIndex(2, 7), got %v", ma.Index)
	}
	if n := s.MovingAverage(8).Len(); n != 0 {
		t.Errorf("Expected empty series for an oversized window, got length %d", n)
	}
}

func TestNormalize(t *testing.T) {
	normalized := New([]float64{1, 2, 3, 4, 5}).Normalize()

	if math.Abs(normalized.Mean()) > 1e-10 {
		t.Errorf("Expected mean 0, got %f", normalized.Mean())
	}
	if math.Abs(normalized.Std()-1) > 1e-10 {
		t.Errorf("Expected std 1, got %f", normalized.Std())
	}
}

func TestCopy(t *testing.T) {
	idx := DateRange(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 3, Daily)
	s, err := NewWithIndex(idx, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	copied := s.Copy()

	s.Values[0] = 100
	idx.Timestamps[0] = time.Time{}

	if copied.Values[0] != 1 {
		t.Error("Copy was modified when original changed")
	}
	if first := copied.Index.(DatetimeIndex).First(); !first.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Copied index was modified, first timestamp %v", first)
	}
}

func TestSeriesEqual(t *testing.T) {
	a := New([]float64{1, math.NaN(), 3})
	b := New([]float64{1, math.NaN(), 3})
	if !a.Equal(b) {
		t.Error("Expected series with matching NaNs to be equal")
	}

	b.Name = "other"
	if a.Equal(b) {
		t.Error("Expected series with different names to differ")
	}

	c, err := NewWithIndex(NewRangeIndex(1, 4), []float64{1, math.NaN(), 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a.Equal(c) {
		t.Error("Expected series with different indexes to differ")
	}
}
