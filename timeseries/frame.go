package timeseries

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Frame holds one or more aligned numeric columns, typically exogenous
// covariates of a Series. Data is column-major: Data[j] is column Columns[j].
type Frame struct {
	Index   Index
	Columns []string
	Data    [][]float64
}

// NewFrame creates a frame from columns sharing index.
func NewFrame(index Index, columns []string, data [][]float64) (*Frame, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("got %d column names for %d columns", len(columns), len(data))
	}
	rows := -1
	for j, col := range data {
		if rows >= 0 && len(col) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", columns[j], len(col), rows)
		}
		rows = len(col)
	}
	if rows < 0 {
		rows = 0
		if index != nil {
			rows = index.Len()
		}
	}
	if index == nil {
		index = DefaultIndex(rows)
	}
	if index.Len() != rows {
		return nil, errors.New("index and columns must have the same length")
	}
	return &Frame{Index: index, Columns: columns, Data: data}, nil
}

// FrameFromSeries builds a frame whose columns are the given series. The index
// is taken from the first series. Unnamed series are called exog_<j>.
func FrameFromSeries(series ...*Series) (*Frame, error) {
	if len(series) == 0 {
		return nil, errors.New("at least one series is required")
	}
	columns := make([]string, len(series))
	data := make([][]float64, len(series))
	for j, s := range series {
		columns[j] = s.Name
		if columns[j] == "" {
			columns[j] = fmt.Sprintf("exog_%d", j)
		}
		data[j] = s.Values
	}
	return NewFrame(series[0].ResolvedIndex(), columns, data)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.Data) > 0 {
		return len(f.Data[0])
	}
	if f.Index != nil {
		return f.Index.Len()
	}
	return 0
}

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int {
	return len(f.Data)
}

// Column returns the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	for j, c := range f.Columns {
		if c == name {
			return f.Data[j], true
		}
	}
	return nil, false
}

// Row returns the i-th row across all columns.
func (f *Frame) Row(i int) []float64 {
	row := make([]float64, len(f.Data))
	for j, col := range f.Data {
		row[j] = col[i]
	}
	return row
}

// Head returns a copy of the first n rows.
func (f *Frame) Head(n int) *Frame {
	return f.Slice(0, n)
}

// Slice returns a copy of rows [start, end).
func (f *Frame) Slice(start, end int) *Frame {
	start, end = clampBounds(start, end, f.Len())
	data := make([][]float64, len(f.Data))
	for j, col := range f.Data {
		data[j] = make([]float64, end-start)
		copy(data[j], col[start:end])
	}
	columns := make([]string, len(f.Columns))
	copy(columns, f.Columns)

	index := f.Index
	if index == nil {
		index = DefaultIndex(f.Len())
	}
	return &Frame{Index: index.Slice(start, end), Columns: columns, Data: data}
}

// HasNaN reports whether any cell is NaN.
func (f *Frame) HasNaN() bool {
	for _, col := range f.Data {
		if floats.HasNaN(col) {
			return true
		}
	}
	return false
}

// Matrix returns the frame as a rows x columns dense matrix.
func (f *Frame) Matrix() *mat.Dense {
	rows, cols := f.Len(), len(f.Data)
	if rows == 0 || cols == 0 {
		return nil
	}
	m := mat.NewDense(rows, cols, nil)
	for j, col := range f.Data {
		m.SetCol(j, col)
	}
	return m
}
