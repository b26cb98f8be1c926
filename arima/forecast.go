package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/goforecast/timeseries"
)

// Predict generates point forecasts for the specified number of steps ahead.
// exog must hold at least steps future rows when the model was fitted with
// exogenous variables.
func (m *Model) Predict(steps int, exog *timeseries.Frame) ([]float64, error) {
	mean, _, err := m.forecast(steps, exog)
	return mean, err
}

// PredictInterval generates forecasts with (1 - alpha) prediction intervals.
// The forecast standard error grows with the psi weights of the integrated
// model.
func (m *Model) PredictInterval(steps int, exog *timeseries.Frame, alpha float64) (mean, lower, upper []float64, err error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, nil, nil, fmt.Errorf("alpha must be in (0, 1), got %v", alpha)
	}
	mean, se, err := m.forecast(steps, exog)
	if err != nil {
		return nil, nil, nil, err
	}

	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := range mean {
		lower[h] = mean[h] - z*se[h]
		upper[h] = mean[h] + z*se[h]
	}
	return mean, lower, upper, nil
}

func (m *Model) forecast(steps int, exog *timeseries.Frame) (mean, se []float64, err error) {
	if !m.fitted {
		return nil, nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, nil, errors.New("steps must be at least 1")
	}
	effect, err := m.exogEffect(steps, exog)
	if err != nil {
		return nil, nil, err
	}

	// Forecast the differenced process; future residuals are zero.
	n := len(m.diffData)
	extY := make([]float64, n+steps)
	copy(extY, m.diffData)
	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)
	for t := n; t < n+steps; t++ {
		extY[t] = m.armaStep(extY, extResiduals, t)
	}

	mean = integrate(m.errs, extY[n:], m.diffPoly)
	floats.Add(mean, effect)

	psi := m.psiWeights(steps)
	se = make([]float64, steps)
	acc := 0.0
	for h := range se {
		acc += psi[h] * psi[h]
		se[h] = math.Sqrt(m.Variance * acc)
	}
	return mean, se, nil
}

// exogEffect returns x_t'beta for the forecast horizon.
func (m *Model) exogEffect(steps int, exog *timeseries.Frame) ([]float64, error) {
	effect := make([]float64, steps)
	if len(m.ExogCoeffs) == 0 {
		if exog != nil && exog.NumColumns() > 0 {
			return nil, errors.New("model was fitted without exogenous variables")
		}
		return effect, nil
	}
	if exog == nil {
		return nil, errors.New("model was fitted with exogenous variables, exog is required")
	}
	if exog.NumColumns() != len(m.ExogCoeffs) {
		return nil, fmt.Errorf("exog has %d columns, model was fitted with %d", exog.NumColumns(), len(m.ExogCoeffs))
	}
	if exog.Len() < steps {
		return nil, fmt.Errorf("exog has %d rows, %d steps requested", exog.Len(), steps)
	}
	for h := range effect {
		effect[h] = floats.Dot(exog.Row(h), m.ExogCoeffs)
	}
	return effect, nil
}

// psiWeights returns the first steps MA(infinity) weights of the integrated
// model, solving phi(B) * delta(B) * psi(B) = theta(B).
func (m *Model) psiWeights(steps int) []float64 {
	_, _, period := m.seasonalTerms()

	ar := lagPolynomial(m.ARCoeffs, m.SARCoeffs, period, -1)
	ar = polyMul(ar, m.diffPoly)
	ma := lagPolynomial(m.MACoeffs, m.SMACoeffs, period, 1)

	psi := make([]float64, steps)
	psi[0] = 1
	for j := 1; j < steps; j++ {
		v := 0.0
		if j < len(ma) {
			v = ma[j]
		}
		for k := 1; k <= j && k < len(ar); k++ {
			v -= ar[k] * psi[j-k]
		}
		psi[j] = v
	}
	return psi
}

// lagPolynomial builds 1 + sign*(sum c_i B^i + sum s_i B^(i*period)).
func lagPolynomial(coeffs, seasonal []float64, period int, sign float64) []float64 {
	poly := make([]float64, 1+max(len(coeffs), len(seasonal)*period))
	poly[0] = 1
	for i, c := range coeffs {
		poly[i+1] += sign * c
	}
	for i, c := range seasonal {
		poly[(i+1)*period] += sign * c
	}
	return poly
}

// differencingPolynomial expands (1-B)^d (1-B^m)^sd. Seasonal differencing is
// ignored when m < 2.
func differencingPolynomial(d, sd, m int) []float64 {
	poly := []float64{1}
	for i := 0; i < d; i++ {
		poly = polyMul(poly, []float64{1, -1})
	}
	if m < 2 {
		return poly
	}
	seasonal := make([]float64, m+1)
	seasonal[0], seasonal[m] = 1, -1
	for i := 0; i < sd; i++ {
		poly = polyMul(poly, seasonal)
	}
	return poly
}

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// difference applies the lag polynomial poly (poly[0] == 1) to values. The
// result is len(poly)-1 elements shorter.
func difference(values, poly []float64) []float64 {
	lags := len(poly) - 1
	if len(values) <= lags {
		return nil
	}
	out := make([]float64, len(values)-lags)
	for t := range out {
		for k, c := range poly {
			out[t] += c * values[t+lags-k]
		}
	}
	return out
}

// integrate undoes difference for forecasts that follow history.
func integrate(history, forecasts, poly []float64) []float64 {
	n := len(history)
	ext := make([]float64, n+len(forecasts))
	copy(ext, history)
	for h, w := range forecasts {
		t := n + h
		v := w
		for k := 1; k < len(poly); k++ {
			v -= poly[k] * ext[t-k]
		}
		ext[t] = v
	}
	return ext[n:]
}
