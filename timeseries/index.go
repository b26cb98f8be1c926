package timeseries

import (
	"errors"
	"strconv"
	"time"
)

// ErrNoFrequency is returned when a calendar index without a frequency is asked
// to produce future labels.
var ErrNoFrequency = errors.New("datetime index has no frequency")

// Index labels the positions of a Series or Frame.
//
// An Index is either a RangeIndex (plain integer positions with a fixed step) or
// a DatetimeIndex (timestamps with a calendar frequency). Callers that need to
// tell them apart use a type switch.
type Index interface {
	// Len returns the number of labels.
	Len() int
	// Slice returns the labels in [start, end).
	Slice(start, end int) Index
	// Extend returns the steps labels that follow the last label.
	Extend(steps int) (Index, error)
	// Equal reports whether both indexes hold the same labels.
	Equal(other Index) bool
	// Label formats the i-th label.
	Label(i int) string

	isIndex()
}

// DefaultIndex returns the positional index 0..n-1.
func DefaultIndex(n int) Index {
	return NewRangeIndex(0, n)
}

// RangeIndex is a positional index of integers Start, Start+Step, ... up to but
// excluding Stop. A zero Step means 1.
type RangeIndex struct {
	Start int
	Stop  int
	Step  int
}

// NewRangeIndex creates a RangeIndex with step 1.
func NewRangeIndex(start, stop int) RangeIndex {
	return RangeIndex{Start: start, Stop: stop, Step: 1}
}

func (RangeIndex) isIndex() {}

// StepOrDefault returns the step, treating zero as 1.
func (r RangeIndex) StepOrDefault() int {
	if r.Step == 0 {
		return 1
	}
	return r.Step
}

// Len returns the number of positions.
func (r RangeIndex) Len() int {
	step := r.StepOrDefault()
	if step > 0 {
		if r.Stop <= r.Start {
			return 0
		}
		return (r.Stop - r.Start + step - 1) / step
	}
	if r.Stop >= r.Start {
		return 0
	}
	return (r.Start - r.Stop - step - 1) / -step
}

// At returns the i-th position.
func (r RangeIndex) At(i int) int {
	return r.Start + i*r.StepOrDefault()
}

// Slice returns the positions in [start, end).
func (r RangeIndex) Slice(start, end int) Index {
	start, end = clampBounds(start, end, r.Len())
	return RangeIndex{Start: r.At(start), Stop: r.At(end), Step: r.StepOrDefault()}
}

// Extend continues the range with the same step.
func (r RangeIndex) Extend(steps int) (Index, error) {
	if steps < 0 {
		steps = 0
	}
	n := r.Len()
	return RangeIndex{Start: r.At(n), Stop: r.At(n + steps), Step: r.StepOrDefault()}, nil
}

// Equal reports whether other is a RangeIndex with the same positions.
func (r RangeIndex) Equal(other Index) bool {
	o, ok := other.(RangeIndex)
	if !ok {
		return false
	}
	n := r.Len()
	if n != o.Len() {
		return false
	}
	if n == 0 {
		return true
	}
	if r.Start != o.Start {
		return false
	}
	return n == 1 || r.StepOrDefault() == o.StepOrDefault()
}

// Label formats the i-th position.
func (r RangeIndex) Label(i int) string {
	return strconv.Itoa(r.At(i))
}

// DatetimeIndex is a calendar index. Freq is empty when the timestamps are not
// regularly spaced.
type DatetimeIndex struct {
	Timestamps []time.Time
	Freq       Frequency
}

// NewDatetimeIndex creates a DatetimeIndex. An empty freq is inferred from the
// timestamps when possible.
func NewDatetimeIndex(timestamps []time.Time, freq Frequency) DatetimeIndex {
	if freq == "" {
		freq = InferFreq(timestamps)
	}
	return DatetimeIndex{Timestamps: timestamps, Freq: freq}
}

func (DatetimeIndex) isIndex() {}

// Len returns the number of timestamps.
func (d DatetimeIndex) Len() int {
	return len(d.Timestamps)
}

// Slice returns a copy of the timestamps in [start, end) with the same frequency.
func (d DatetimeIndex) Slice(start, end int) Index {
	start, end = clampBounds(start, end, len(d.Timestamps))
	ts := make([]time.Time, end-start)
	copy(ts, d.Timestamps[start:end])
	return DatetimeIndex{Timestamps: ts, Freq: d.Freq}
}

// Extend returns the steps timestamps that follow the last one.
func (d DatetimeIndex) Extend(steps int) (Index, error) {
	if d.Freq == "" {
		return nil, ErrNoFrequency
	}
	if len(d.Timestamps) == 0 {
		return nil, errors.New("cannot extend an empty datetime index")
	}
	if steps < 0 {
		steps = 0
	}
	last := d.Timestamps[len(d.Timestamps)-1]
	ts := make([]time.Time, steps)
	for i := range ts {
		ts[i] = d.Freq.Add(last, i+1)
	}
	return DatetimeIndex{Timestamps: ts, Freq: d.Freq}, nil
}

// Equal reports whether other is a DatetimeIndex with the same timestamps and
// frequency.
func (d DatetimeIndex) Equal(other Index) bool {
	o, ok := other.(DatetimeIndex)
	if !ok {
		return false
	}
	if d.Freq != o.Freq || len(d.Timestamps) != len(o.Timestamps) {
		return false
	}
	for i, ts := range d.Timestamps {
		if !ts.Equal(o.Timestamps[i]) {
			return false
		}
	}
	return true
}

// Label formats the i-th timestamp. Sub-daily frequencies include the clock.
func (d DatetimeIndex) Label(i int) string {
	if d.Freq.isTick() && d.Freq != Daily {
		return d.Timestamps[i].Format("2006-01-02 15:04:05")
	}
	return d.Timestamps[i].Format("2006-01-02")
}

// First returns the first timestamp, or the zero time for an empty index.
func (d DatetimeIndex) First() time.Time {
	if len(d.Timestamps) == 0 {
		return time.Time{}
	}
	return d.Timestamps[0]
}

// DateRange returns periods timestamps with frequency freq, the first being start
// rolled forward to the first date on the frequency's anchor.
func DateRange(start time.Time, periods int, freq Frequency) DatetimeIndex {
	if periods < 0 {
		periods = 0
	}
	first := freq.Anchor(start)
	ts := make([]time.Time, periods)
	for i := range ts {
		ts[i] = freq.Add(first, i)
	}
	return DatetimeIndex{Timestamps: ts, Freq: freq}
}

func clampBounds(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if end < 0 {
		end = 0
	}
	if start > end {
		start = end
	}
	return start, end
}
