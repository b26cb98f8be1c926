package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goforecast/timeseries"
)

// ar1 generates a deterministic AR(1) process driven by uniform noise from a
// linear congruential generator.
func ar1(n int, phi float64) []float64 {
	data := make([]float64, n)
	var seed uint64 = 12345
	for i := 1; i < n; i++ {
		seed = (seed*1103515245 + 12345) % 2147483648
		data[i] = phi*data[i-1] + (float64(seed)/2147483648 - 0.5)
	}
	return data
}

func TestACF(t *testing.T) {
	data := ar1(100, 0.7)
	acf := ACF(timeseries.New(data), 10)

	require.Len(t, acf, 11)
	assert.InDelta(t, 1.0, acf[0], 1e-10, "ACF at lag 0 is 1")
	assert.Greater(t, acf[1], 0.3, "AR(1) with phi=0.7 has a strong lag-1 ACF")
	for k, v := range acf {
		assert.LessOrEqual(t, math.Abs(v), 1.0+1e-10, "lag %d", k)
	}
}

func TestACFEdgeCases(t *testing.T) {
	assert.Nil(t, ACFValues([]float64{3, 3, 3, 3}, 2), "constant input")
	assert.Nil(t, ACFValues(nil, 2), "empty input")

	acf := ACFValues([]float64{1, 2, 3}, 10)
	assert.Len(t, acf, 3, "maxLag is capped at n-1")
}

func TestACFWithConfidence(t *testing.T) {
	series := timeseries.New(ar1(100, 0.7))
	result := ACFWithConfidence(series, 5)

	require.NotNil(t, result)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, result.Lags)
	assert.InDelta(t, 0.196, result.ConfBounds, 1e-12)

	sig := SignificantLags(result.Values, result.ConfBounds)
	assert.Contains(t, sig, 1)
	assert.NotContains(t, sig, 0)
}

func TestOLS(t *testing.T) {
	// y = 2 + 3x exactly.
	n := 10
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, float64(i))
		y[i] = 2 + 3*float64(i)
	}

	res, err := OLS(x, y)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 3}, res.Coeffs, 1e-9)
	assert.InDelta(t, 0, res.SSE, 1e-12)
	require.Len(t, res.StdErrors, 2)
	assert.Len(t, res.Residuals, n)
}

func TestOLSWithNoise(t *testing.T) {
	n := 50
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, float64(i))
		y[i] = 5 - 0.5*float64(i) + float64((i*13)%7-3)*0.1
	}

	res, err := OLS(x, y)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, res.Coeffs[1], 0.01)
	assert.Greater(t, res.SSE, 0.0)
	for _, se := range res.StdErrors {
		assert.Greater(t, se, 0.0)
	}
}

func TestOLSErrors(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 0,
		1, 0,
		1, 0,
	})
	_, err := OLS(x, []float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrSingular)

	_, err = OLS(mat.NewDense(3, 1, []float64{1, 2, 3}), []float64{1, 2})
	assert.Error(t, err)
}

func TestADFTest(t *testing.T) {
	n := 200

	stationary := make([]float64, n)
	for i := range stationary {
		stationary[i] = float64((i*17+5)%23-11) * 0.3
	}
	result := ADF(timeseries.New(stationary), 0)
	require.NotNil(t, result)
	t.Logf("ADF stationary: stat=%.4f p=%.4f", result.Statistic, result.PValue)
	assert.True(t, result.IsStationary)
	assert.Contains(t, result.CriticalVals, "5%")

	walk := make([]float64, n)
	for i := 1; i < n; i++ {
		walk[i] = walk[i-1] + 1 + float64((i*17+5)%23-11)*0.05
	}
	result = ADF(timeseries.New(walk), 0)
	require.NotNil(t, result)
	t.Logf("ADF drifting walk: stat=%.4f p=%.4f", result.Statistic, result.PValue)
	assert.False(t, result.IsStationary)

	assert.Nil(t, ADF(timeseries.New([]float64{1, 2, 3}), 0))
}

func TestKPSSTest(t *testing.T) {
	n := 100

	level := make([]float64, n)
	trend := make([]float64, n)
	for i := 0; i < n; i++ {
		noise := float64((i*7)%11-5) * 0.5
		level[i] = 10 + noise
		trend[i] = float64(i) + noise
	}

	result := KPSS(timeseries.New(level), "c", 0)
	require.NotNil(t, result)
	t.Logf("KPSS level: stat=%.4f p=%.4f", result.Statistic, result.PValue)
	assert.True(t, result.IsStationary)

	result = KPSS(timeseries.New(trend), "c", 0)
	require.NotNil(t, result)
	assert.False(t, result.IsStationary, "a trend is not level-stationary")

	result = KPSS(timeseries.New(trend), "ct", 0)
	require.NotNil(t, result)
	assert.True(t, result.IsStationary, "a trend with stationary noise is trend-stationary")
	assert.Equal(t, 0.146, result.CriticalVals["5%"])
}

func TestLjungBox(t *testing.T) {
	autocorrelated := timeseries.New(ar1(100, 0.9))
	result := LjungBox(autocorrelated, 10, 0)
	require.NotNil(t, result)
	t.Logf("Ljung-Box AR(1): Q=%.4f p=%.4f", result.Statistic, result.PValue)
	assert.Less(t, result.PValue, 0.05)
	assert.Equal(t, 10, result.DOF)

	result = LjungBox(autocorrelated, 10, 3)
	require.NotNil(t, result)
	assert.Equal(t, 7, result.DOF)

	assert.Nil(t, LjungBox(timeseries.New([]float64{1, 2, 3}), 10, 0))
}

func TestDecompose(t *testing.T) {
	n := 48
	data := make([]float64, n)
	for i := range data {
		data[i] = 10 + float64(i)*0.5 + 3*math.Sin(2*math.Pi*float64(i)/12)
	}
	series := timeseries.New(data)

	result := Decompose(series, 12, Additive)
	require.NotNil(t, result)
	assert.Equal(t, Additive, result.Type)
	assert.Equal(t, 12, result.Period)
	assert.True(t, result.Trend.Index.Equal(series.ResolvedIndex()))

	assert.True(t, math.IsNaN(result.Trend.Values[0]), "trend undefined at the edges")
	assert.InDelta(t, data[24]-3*math.Sin(2*math.Pi*24/12), result.Trend.Values[24], 1e-9)

	seasonalSum := 0.0
	for i := 0; i < 12; i++ {
		seasonalSum += result.Seasonal.Values[i]
	}
	assert.InDelta(t, 0, seasonalSum, 1e-9, "additive seasonal pattern sums to zero")

	for i := 6; i < n-6; i++ {
		assert.InDelta(t, 0, result.Residual.Values[i], 1e-9)
	}

	assert.Nil(t, Decompose(series, 1, Additive))
	assert.Nil(t, Decompose(timeseries.New(data[:20]), 12, Additive))
}

func TestDecomposeMultiplicative(t *testing.T) {
	n := 36
	data := make([]float64, n)
	for i := range data {
		data[i] = (100 + float64(i)) * (1 + 0.1*float64(i%4-1))
	}

	result := Decompose(timeseries.New(data), 4, Multiplicative)
	require.NotNil(t, result)
	assert.Equal(t, Multiplicative, result.Type)

	product := 1.0
	sum := 0.0
	for i := 0; i < 4; i++ {
		product *= result.Seasonal.Values[i]
		sum += result.Seasonal.Values[i]
	}
	assert.InDelta(t, 4, sum, 1e-9, "multiplicative factors average to one")
	assert.Greater(t, product, 0.0)
}
