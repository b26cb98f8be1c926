package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/goforecast/timeseries"
)

// ADFResult represents the result of an Augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	NObs         int
	CriticalVals map[string]float64 // Critical values at 1%, 5%, 10%
	IsStationary bool
}

// ADF performs the Augmented Dickey-Fuller test for unit root.
// The null hypothesis is that the series has a unit root (is non-stationary).
// If p-value < 0.05, we reject the null and conclude the series is stationary.
func ADF(series *timeseries.Series, maxLag int) *ADFResult {
	n := series.Len()
	if n < 10 {
		return nil
	}

	// Schwert-style default: floor((n-1)^(1/3))
	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := series.Diff().Values
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil
	}

	// delta_y_t = alpha + beta*y_{t-1} + sum(gamma_i * delta_y_{t-i}); H0: beta = 0
	y := make([]float64, nObs)
	rows := make([][]float64, nObs)
	for i := range rows {
		t := i + maxLag
		y[i] = diff[t]

		row := make([]float64, 2+maxLag)
		row[0] = 1
		row[1] = series.Values[t]
		for j := 1; j <= maxLag; j++ {
			row[1+j] = diff[t-j]
		}
		rows[i] = row
	}

	coeffs, se := olsRows(rows, y)
	if len(coeffs) < 2 || len(se) < 2 || se[1] == 0 {
		return nil
	}

	tStat := coeffs[1] / se[1]
	pValue := mackinnonPValue(tStat)

	return &ADFResult{
		Statistic: tStat,
		PValue:    pValue,
		Lags:      maxLag,
		NObs:      nObs,
		CriticalVals: map[string]float64{
			"1%":  -3.43,
			"5%":  -2.86,
			"10%": -2.57,
		},
		IsStationary: pValue < 0.05,
	}
}

// KPSSResult represents the result of a KPSS test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	CriticalVals map[string]float64
	IsStationary bool
}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test for stationarity.
// The null hypothesis is that the series is stationary around a level ("c") or
// a linear trend ("ct").
func KPSS(series *timeseries.Series, regression string, nlags int) *KPSSResult {
	n := series.Len()
	if n < 10 {
		return nil
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	residuals := kpssResiduals(series.Values, regression)
	if residuals == nil {
		return nil
	}

	cumSum := make([]float64, n)
	floats.CumSum(cumSum, residuals)

	// Newey-West long-run variance with Bartlett weights
	s2 := floats.Dot(residuals, residuals) / float64(n)
	for l := 1; l <= nlags && l < n; l++ {
		cov := floats.Dot(residuals[l:], residuals[:n-l]) / float64(n)
		weight := 1.0 - float64(l)/float64(nlags+1)
		s2 += 2 * weight * cov
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	kpssStat := floats.Dot(cumSum, cumSum) / (float64(n) * float64(n) * s2)

	criticalVals := map[string]float64{"10%": 0.347, "5%": 0.463, "1%": 0.739}
	if regression == "ct" {
		criticalVals = map[string]float64{"10%": 0.119, "5%": 0.146, "1%": 0.216}
	}

	pValue := kpssPValue(kpssStat, regression)

	return &KPSSResult{
		Statistic:    kpssStat,
		PValue:       pValue,
		Lags:         nlags,
		CriticalVals: criticalVals,
		IsStationary: pValue >= 0.05,
	}
}

// kpssResiduals removes the level, or level and linear trend for "ct".
func kpssResiduals(values []float64, regression string) []float64 {
	n := len(values)
	if regression != "ct" {
		residuals := make([]float64, n)
		copy(residuals, values)
		floats.AddConst(-floats.Sum(values)/float64(n), residuals)
		return residuals
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = []float64{1, float64(i)}
	}
	coeffs, _ := olsRows(rows, values)
	if coeffs == nil {
		return nil
	}
	residuals := make([]float64, n)
	for i, v := range values {
		residuals[i] = v - coeffs[0] - coeffs[1]*float64(i)
	}
	return residuals
}

// mackinnonPValue approximates the ADF p-value for the constant-only
// regression by interpolating asymptotic critical values.
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

// kpssPValue approximates the KPSS p-value from tabulated critical values.
func kpssPValue(stat float64, regression string) float64 {
	if regression == "ct" {
		switch {
		case stat > 0.216:
			return 0.01
		case stat > 0.146:
			return 0.05
		case stat > 0.119:
			return 0.10
		default:
			return 0.10 + (0.119-stat)*2
		}
	}

	switch {
	case stat > 0.739:
		return 0.01
	case stat > 0.463:
		return 0.05
	case stat > 0.347:
		return 0.10
	default:
		return 0.10 + (0.347-stat)*0.5
	}
}
