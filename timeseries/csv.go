package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string   // Column name for dates (optional)
	ValueColumn string   // Column name for values (default: "y")
	IDColumn    string   // Column name for series ID (optional, for filtering)
	IDFilter    string   // Value to filter by ID column
	ExogColumns []string // Columns loaded as exogenous covariates (optional)
	DateFormat  string   // Date format (default: "2006-01-02")
	Freq        string   // Index frequency; inferred from the dates when empty
	HasHeader   bool     // Whether CSV has header row (default: true)
	Delimiter   rune     // Field delimiter (default: ',')
	SkipRows    int      // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		DateFormat:  "2006-01-02",
		HasHeader:   true,
		Delimiter:   ',',
	}
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"2006-01",
	"2006",
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	series, _, err := LoadCSVWithExog(filename, opts)
	return series, err
}

// LoadCSVWithExog loads a time series and its exogenous columns from a CSV file.
// The frame is nil when opts.ExogColumns is empty.
func LoadCSVWithExog(filename string, opts *CSVOptions) (*Series, *Frame, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	return LoadCSVWithExogFromReader(file, opts)
}

// LoadCSVFromReader loads a time series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	series, _, err := LoadCSVWithExogFromReader(r, opts)
	return series, err
}

// LoadCSVWithExogFromReader loads a time series and its exogenous columns from
// an io.Reader. Rows whose value or exogenous cells are missing are skipped.
func LoadCSVWithExogFromReader(r io.Reader, opts *CSVOptions) (*Series, *Frame, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ','
	}
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, nil, err
		}
	}

	valueIdx, dateIdx, idIdx := -1, -1, -1
	exogIdx := make([]int, len(opts.ExogColumns))
	for j := range exogIdx {
		exogIdx[j] = -1
	}

	if opts.HasHeader {
		headers, err := reader.Read()
		if err != nil {
			return nil, nil, err
		}

		for i, h := range headers {
			h = unquote(h)
			for j, name := range opts.ExogColumns {
				if h == name {
					exogIdx[j] = i
				}
			}
			switch {
			case h == opts.ValueColumn || (opts.ValueColumn == "" && (h == "y" || h == "value" || h == "Value")):
				valueIdx = i
			case opts.DateColumn != "" && h == opts.DateColumn:
				dateIdx = i
			case h == "ds" || h == "date" || h == "Date" || h == "Month" || h == "Year":
				if dateIdx == -1 {
					dateIdx = i
				}
			case opts.IDColumn != "" && h == opts.IDColumn:
				idIdx = i
			case h == "unique_id" || h == "id" || h == "ID":
				if idIdx == -1 && opts.IDColumn == "" {
					idIdx = i
				}
			}
		}

		if valueIdx == -1 {
			valueIdx = len(headers) - 1
		}
		for j, idx := range exogIdx {
			if idx == -1 {
				return nil, nil, fmt.Errorf("exogenous column %q not found", opts.ExogColumns[j])
			}
		}
	} else {
		// No header: date, value, then exogenous columns in order.
		dateIdx = 0
		valueIdx = 1
		for j := range exogIdx {
			exogIdx[j] = 2 + j
		}
	}

	var values []float64
	var timestamps []time.Time
	exog := make([][]float64, len(exogIdx))

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		if opts.IDFilter != "" && idIdx >= 0 && idIdx < len(record) {
			if unquote(record[idIdx]) != opts.IDFilter {
				continue
			}
		}

		val, ok := parseCell(record, valueIdx)
		if !ok {
			continue
		}
		row := make([]float64, len(exogIdx))
		complete := true
		for j, idx := range exogIdx {
			if row[j], ok = parseCell(record, idx); !ok {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		values = append(values, val)
		for j := range row {
			exog[j] = append(exog[j], row[j])
		}

		if dateIdx >= 0 && dateIdx < len(record) {
			if ts, ok := parseDate(unquote(record[dateIdx]), opts.DateFormat); ok {
				timestamps = append(timestamps, ts)
			}
		}
	}

	if len(values) == 0 {
		return nil, nil, errors.New("no valid data found in CSV")
	}

	index := DefaultIndex(len(values))
	if len(timestamps) == len(values) {
		var freq Frequency
		if opts.Freq != "" {
			f, err := ParseFrequency(opts.Freq)
			if err != nil {
				return nil, nil, err
			}
			freq = f
		}
		index = NewDatetimeIndex(timestamps, freq)
	}

	series := &Series{Index: index, Values: values, Name: opts.ValueColumn}
	if len(exogIdx) == 0 {
		return series, nil, nil
	}

	frame, err := NewFrame(index, append([]string(nil), opts.ExogColumns...), exog)
	if err != nil {
		return nil, nil, err
	}
	return series, frame, nil
}

func unquote(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

func parseCell(record []string, idx int) (float64, bool) {
	if idx < 0 || idx >= len(record) {
		return 0, false
	}
	s := unquote(record[idx])
	if s == "" || s == "NA" || s == "NaN" || s == "null" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(s, preferred string) (time.Time, bool) {
	if preferred != "" {
		if ts, err := time.Parse(preferred, s); err == nil {
			return ts, true
		}
	}
	for _, layout := range dateFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// LoadCSVColumn loads a specific column from a CSV file as a series.
func LoadCSVColumn(filename string, column string) (*Series, error) {
	opts := DefaultCSVOptions()
	opts.ValueColumn = column
	return LoadCSV(filename, opts)
}

// LoadCSVFiltered loads a filtered series from a CSV file.
func LoadCSVFiltered(filename string, idColumn, idValue, valueColumn string) (*Series, error) {
	opts := DefaultCSVOptions()
	opts.IDColumn = idColumn
	opts.IDFilter = idValue
	if valueColumn != "" {
		opts.ValueColumn = valueColumn
	}
	return LoadCSV(filename, opts)
}

// SaveCSV saves a time series to a CSV file.
func SaveCSV(series *Series, filename string, includeIndex bool) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteCSV(file, series, includeIndex); err != nil {
		return err
	}
	return file.Close()
}

// WriteCSV writes a time series as CSV. Calendar indexes are written under a
// "ds" column, positional ones under "index".
func WriteCSV(w io.Writer, series *Series, includeIndex bool) error {
	writer := bufio.NewWriter(w)
	index := series.ResolvedIndex()
	_, calendar := index.(DatetimeIndex)

	switch {
	case includeIndex && calendar:
		writer.WriteString("ds,y\n")
	case includeIndex:
		writer.WriteString("index,y\n")
	default:
		writer.WriteString("y\n")
	}

	for i, v := range series.Values {
		if includeIndex {
			writer.WriteString(index.Label(i))
			writer.WriteString(",")
		}
		writer.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		writer.WriteString("\n")
	}

	return writer.Flush()
}
