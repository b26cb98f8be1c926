package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is the calendar frequency of a DatetimeIndex, written the way
// pandas spells frequency strings.
type Frequency string

// Supported frequencies. Anchored frequencies carry their anchor suffix.
const (
	Secondly     Frequency = "s"
	Minutely     Frequency = "min"
	Hourly       Frequency = "h"
	Daily        Frequency = "D"
	Weekly       Frequency = "W-SUN"
	MonthStart   Frequency = "MS"
	MonthEnd     Frequency = "M"
	QuarterStart Frequency = "QS-JAN"
	QuarterEnd   Frequency = "Q-DEC"
	YearStart    Frequency = "AS-JAN"
	YearEnd      Frequency = "A-DEC"
)

// inference tries tick frequencies first, then calendar offsets.
var knownFrequencies = []Frequency{
	Secondly, Minutely, Hourly, Daily, Weekly,
	MonthStart, MonthEnd, QuarterStart, QuarterEnd, YearStart, YearEnd,
}

var frequencyAliases = map[string]Frequency{
	"s": Secondly, "S": Secondly,
	"min": Minutely, "T": Minutely,
	"h": Hourly, "H": Hourly,
	"D": Daily,
	"W": Weekly, "W-SUN": Weekly,
	"MS": MonthStart,
	"M": MonthEnd, "ME": MonthEnd,
	"QS": QuarterStart, "QS-JAN": QuarterStart,
	"Q": QuarterEnd, "QE": QuarterEnd, "Q-DEC": QuarterEnd, "QE-DEC": QuarterEnd,
	"AS": YearStart, "YS": YearStart, "AS-JAN": YearStart, "YS-JAN": YearStart,
	"A": YearEnd, "Y": YearEnd, "YE": YearEnd, "A-DEC": YearEnd, "Y-DEC": YearEnd, "YE-DEC": YearEnd,
}

// ParseFrequency resolves a frequency string or one of its aliases.
func ParseFrequency(s string) (Frequency, error) {
	if f, ok := frequencyAliases[strings.TrimSpace(s)]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unsupported frequency %q", s)
}

// String returns the frequency string.
func (f Frequency) String() string {
	return string(f)
}

func (f Frequency) isTick() bool {
	switch f {
	case Secondly, Minutely, Hourly, Daily:
		return true
	}
	return false
}

// Add moves t forward by n periods. t is expected to be on the frequency's
// anchor; the result keeps t's clock and location.
func (f Frequency) Add(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	ns, loc := t.Nanosecond(), t.Location()

	switch f {
	case Secondly:
		return t.Add(time.Duration(n) * time.Second)
	case Minutely:
		return t.Add(time.Duration(n) * time.Minute)
	case Hourly:
		return t.Add(time.Duration(n) * time.Hour)
	case Daily:
		return t.AddDate(0, 0, n)
	case Weekly:
		return t.AddDate(0, 0, 7*n)
	case MonthStart:
		return time.Date(y, m+time.Month(n), 1, hh, mm, ss, ns, loc)
	case MonthEnd:
		return time.Date(y, m+time.Month(n)+1, 0, hh, mm, ss, ns, loc)
	case QuarterStart:
		return time.Date(y, m+time.Month(3*n), 1, hh, mm, ss, ns, loc)
	case QuarterEnd:
		return time.Date(y, m+time.Month(3*n)+1, 0, hh, mm, ss, ns, loc)
	case YearStart:
		return time.Date(y+n, time.January, 1, hh, mm, ss, ns, loc)
	case YearEnd:
		return time.Date(y+n, time.December, 31, hh, mm, ss, ns, loc)
	}
	return time.Date(y, m, d, hh, mm, ss, ns, loc)
}

// Anchor rolls t forward to the first date on the frequency's anchor, e.g. the
// last day of the year for YearEnd. Tick frequencies return t unchanged.
func (f Frequency) Anchor(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	ns, loc := t.Nanosecond(), t.Location()

	switch f {
	case Weekly:
		offset := (int(time.Sunday) - int(t.Weekday()) + 7) % 7
		return t.AddDate(0, 0, offset)
	case MonthStart:
		if d == 1 {
			return t
		}
		return time.Date(y, m+1, 1, hh, mm, ss, ns, loc)
	case MonthEnd:
		return time.Date(y, m+1, 0, hh, mm, ss, ns, loc)
	case QuarterStart:
		if d == 1 && (m-1)%3 == 0 {
			return t
		}
		next := ((m-1)/3+1)*3 + 1
		return time.Date(y, next, 1, hh, mm, ss, ns, loc)
	case QuarterEnd:
		end := ((m-1)/3 + 1) * 3
		return time.Date(y, end+1, 0, hh, mm, ss, ns, loc)
	case YearStart:
		if d == 1 && m == time.January {
			return t
		}
		return time.Date(y+1, time.January, 1, hh, mm, ss, ns, loc)
	case YearEnd:
		return time.Date(y, time.December, 31, hh, mm, ss, ns, loc)
	}
	return t
}

// OnOffset reports whether t lies on the frequency's anchor.
func (f Frequency) OnOffset(t time.Time) bool {
	return f.Anchor(t).Equal(t)
}

// InferFreq returns the frequency that generates timestamps, or an empty
// Frequency when none does. At least three timestamps are required.
func InferFreq(timestamps []time.Time) Frequency {
	if len(timestamps) < 3 {
		return ""
	}
	for _, f := range knownFrequencies {
		if generates(f, timestamps) {
			return f
		}
	}
	return ""
}

func generates(f Frequency, timestamps []time.Time) bool {
	first := timestamps[0]
	if !f.OnOffset(first) {
		return false
	}
	for i, ts := range timestamps {
		if !f.Add(first, i).Equal(ts) {
			return false
		}
	}
	return true
}
