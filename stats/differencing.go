package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/goforecast/timeseries"
)

// Stationarity tests accepted by NDiffs.
const (
	TestKPSS = "kpss"
	TestADF  = "adf"
)

// NDiffs determines the number of first differences required for stationarity.
// testType is TestKPSS (default) or TestADF. maxD defaults to 2.
func NDiffs(series *timeseries.Series, maxD int, testType string) int {
	if maxD <= 0 {
		maxD = 2
	}

	current := series
	for d := 0; d < maxD; d++ {
		if isStationary(current, testType) {
			return d
		}

		current = current.Diff()
		if current.Len() < 10 {
			return d
		}
	}

	return maxD
}

func isStationary(series *timeseries.Series, testType string) bool {
	if testType == TestADF {
		result := ADF(series, 0)
		return result != nil && result.IsStationary
	}
	result := KPSS(series, "c", 0)
	return result != nil && result.IsStationary
}

// NSDiffs determines the number of seasonal differences required.
// One seasonal difference is suggested while the seasonal strength F_S >= 0.64.
func NSDiffs(series *timeseries.Series, period int, maxD int) int {
	if maxD <= 0 {
		maxD = 1
	}
	if period <= 1 || series.Len() < 2*period {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		if seasonalStrength(current, period) < 0.64 {
			return d
		}

		current = current.SeasonalDiff(period)
		if current.Len() < 2*period {
			return d
		}
	}

	return maxD
}

// seasonalStrength calculates F_S = max(0, 1 - Var(R) / Var(S+R)).
func seasonalStrength(series *timeseries.Series, period int) float64 {
	if series.Len() < 2*period {
		return 0
	}

	decomp := Decompose(series, period, Additive)
	if decomp == nil {
		return 0
	}

	varR := variance(decomp.Residual.Values)

	seasonalPlusResid := make([]float64, len(decomp.Seasonal.Values))
	for i := range seasonalPlusResid {
		seasonalPlusResid[i] = decomp.Seasonal.Values[i] + decomp.Residual.Values[i]
	}
	varSR := variance(seasonalPlusResid)

	if varSR == 0 {
		return 0
	}
	return math.Max(0, 1-varR/varSR)
}

// variance is the sample variance of the non-NaN values.
func variance(data []float64) float64 {
	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) < 2 {
		return 0
	}
	return stat.Variance(valid, nil)
}

// InformationCriteria holds AIC, AICc and BIC for a fitted model.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// AICc calculates the corrected Akaike Information Criterion,
// AIC + 2k(k+1)/(n-k-1).
func AICc(aic float64, nObs int, nParams int) float64 {
	k := float64(nParams)
	n := float64(nObs)

	if n-k-1 <= 0 {
		return math.Inf(1)
	}
	return aic + 2*k*(k+1)/(n-k-1)
}

// CalculateIC calculates all information criteria from a log-likelihood.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	aic := -2*logLik + 2*k

	return &InformationCriteria{
		AIC:    aic,
		AICc:   AICc(aic, nObs, nParams),
		BIC:    -2*logLik + k*math.Log(float64(nObs)),
		LogLik: logLik,
	}
}

// GaussianLogLik is the log-likelihood of n residuals with sum of squares sse
// under a normal distribution with the given variance.
func GaussianLogLik(n int, sse, variance float64) float64 {
	if variance <= 0 {
		return math.Inf(-1)
	}
	nf := float64(n)
	return -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(variance) - sse/(2*variance)
}
