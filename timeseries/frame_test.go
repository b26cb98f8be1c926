package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrame(t *testing.T) {
	f, err := NewFrame(nil, []string{"a", "b"}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	assert.Equal(t, 3, f.Len())
	assert.Equal(t, 2, f.NumColumns())
	assert.Equal(t, []float64{2, 5}, f.Row(1))
	assert.True(t, f.Index.Equal(NewRangeIndex(0, 3)))

	_, err = NewFrame(nil, []string{"a", "b"}, [][]float64{{1, 2, 3}, {4, 5}})
	assert.Error(t, err)

	_, err = NewFrame(nil, []string{"a"}, [][]float64{{1}, {2}})
	assert.Error(t, err)

	_, err = NewFrame(NewRangeIndex(0, 2), []string{"a"}, [][]float64{{1, 2, 3}})
	assert.Error(t, err)
}

func TestFrameFromSeries(t *testing.T) {
	named := New([]float64{1, 2, 3})
	named.Name = "temp"

	f, err := FrameFromSeries(named, New([]float64{0, 1, 0}))
	require.NoError(t, err)
	assert.Equal(t, []string{"temp", "exog_1"}, f.Columns)

	col, ok := f.Column("exog_1")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1, 0}, col)

	_, ok = f.Column("nope")
	assert.False(t, ok)

	_, err = FrameFromSeries()
	assert.Error(t, err)
}

func TestFrameHeadAndMatrix(t *testing.T) {
	f, err := NewFrame(nil, []string{"a", "b"}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	head := f.Head(2)
	assert.Equal(t, 2, head.Len())
	assert.Equal(t, [][]float64{{1, 2}, {4, 5}}, head.Data)
	assert.Equal(t, 3, f.Head(10).Len())

	m := f.Matrix()
	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 6.0, m.At(2, 1))
}

func TestFrameSlice(t *testing.T) {
	f, err := NewFrame(nil, []string{"a"}, [][]float64{{1, 2, 3, 4}})
	require.NoError(t, err)

	tail := f.Slice(2, 4)
	assert.Equal(t, [][]float64{{3, 4}}, tail.Data)
	assert.True(t, tail.Index.Equal(NewRangeIndex(2, 4)))

	tail.Data[0][0] = 0
	assert.Equal(t, 3.0, f.Data[0][2])
	assert.Equal(t, 0, f.Slice(3, 1).Len())
}

func TestFrameHasNaN(t *testing.T) {
	f, err := NewFrame(nil, []string{"a"}, [][]float64{{1, math.NaN()}})
	require.NoError(t, err)
	assert.True(t, f.HasNaN())
}
