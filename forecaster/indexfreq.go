package forecaster

import (
	"strconv"

	"go.uber.org/zap/zapcore"

	"github.com/sartorproj/goforecast/timeseries"
)

// IndexKind tags the variant held by an IndexFreq.
type IndexKind int

const (
	// Positional indexes advance by an integer step.
	Positional IndexKind = iota
	// Calendar indexes advance by a frequency.
	Calendar
)

// IndexFreq describes how the training index advances: Freq for a calendar
// index, Step for a positional one.
type IndexFreq struct {
	Kind IndexKind
	Freq timeseries.Frequency
	Step int
}

// IsCalendar reports whether the index is calendar based.
func (f IndexFreq) IsCalendar() bool {
	return f.Kind == Calendar
}

// String returns the frequency code or the step.
func (f IndexFreq) String() string {
	if f.IsCalendar() {
		return f.Freq.String()
	}
	return strconv.Itoa(f.Step)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (f IndexFreq) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if f.IsCalendar() {
		enc.AddString("freq", f.Freq.String())
		return nil
	}
	enc.AddInt("step", f.Step)
	return nil
}

// indexFreqOf resolves the descriptor of index. A calendar index without a
// regular frequency keeps an empty Freq.
func indexFreqOf(index timeseries.Index) IndexFreq {
	switch idx := index.(type) {
	case timeseries.DatetimeIndex:
		return IndexFreq{Kind: Calendar, Freq: idx.Freq}
	case timeseries.RangeIndex:
		return IndexFreq{Kind: Positional, Step: idx.StepOrDefault()}
	default:
		return IndexFreq{Kind: Positional, Step: 1}
	}
}

// indexType names the concrete index type.
func indexType(index timeseries.Index) string {
	switch index.(type) {
	case timeseries.DatetimeIndex:
		return "DatetimeIndex"
	case timeseries.RangeIndex:
		return "RangeIndex"
	default:
		return "Index"
	}
}
