package arima

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

var (
	// ErrNotFitted is returned by prediction methods before a successful Fit.
	ErrNotFitted = errors.New("model must be fitted before prediction")
	// ErrInsufficientData is returned when the series is too short for the order.
	ErrInsufficientData = errors.New("insufficient data points for the specified order")
	// ErrInvalidOrder is returned for negative orders or seasonal terms without a period.
	ErrInvalidOrder = errors.New("invalid model order")
)

// Order represents the non-seasonal order (p, d, q).
type Order struct {
	P int // AR order (number of autoregressive terms)
	D int // Differencing order
	Q int // MA order (number of moving average terms)
}

// SeasonalOrder represents the seasonal order (P, D, Q, m).
type SeasonalOrder struct {
	P int // Seasonal AR order
	D int // Seasonal differencing order
	Q int // Seasonal MA order
	M int // Seasonal period (e.g., 12 for monthly data with yearly seasonality)
}

// IsSeasonal reports whether any seasonal term is set.
func (s SeasonalOrder) IsSeasonal() bool {
	return s.P > 0 || s.D > 0 || s.Q > 0
}

// Option configures a Model.
type Option func(*Model)

// WithSeasonalOrder adds seasonal terms.
func WithSeasonalOrder(order SeasonalOrder) Option {
	return func(m *Model) {
		m.SeasonalOrder = order
	}
}

// WithLogger sets the logger used to report fits.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMaxIter bounds the number of CSS optimizer iterations.
func WithMaxIter(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxIter = n
		}
	}
}

// Model is a regression with seasonal ARIMA errors:
//
//	y_t = x_t'beta + u_t,  u_t ~ SARIMA(p,d,q)(P,D,Q)[m]
//
// Seasonal and non-seasonal lags enter the ARMA recursion additively.
type Model struct {
	Order         Order
	SeasonalOrder SeasonalOrder
	ARCoeffs      []float64 // Non-seasonal AR coefficients (phi)
	MACoeffs      []float64 // Non-seasonal MA coefficients (theta)
	SARCoeffs     []float64 // Seasonal AR coefficients
	SMACoeffs     []float64 // Seasonal MA coefficients
	ExogCoeffs    []float64 // Regression coefficients, one per exog column
	Intercept     float64   // Mean of the differenced error process
	Variance      float64   // Residual variance
	AIC           float64
	AICc          float64 // Corrected AIC for small sample sizes
	BIC           float64
	LogLik        float64

	logger  *zap.Logger
	maxIter int

	fitted      bool
	data        *timeseries.Series
	exogColumns []string
	diffPoly    []float64 // (1-B)^d (1-B^m)^D
	errs        []float64 // y - X*beta
	diffData    []float64 // errs after differencing
	residuals   []float64 // one-step residuals of diffData
	fittedVals  []float64 // one-step fitted values on the original scale
	startIdx    int
}

// New creates a model with the given non-seasonal order.
func New(order Order, opts ...Option) *Model {
	m := &Model{
		Order:   order,
		logger:  zap.NewNop(),
		maxIter: 200,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// String formats the order as SARIMAX(p,d,q)(P,D,Q)[m].
func (m *Model) String() string {
	s := m.SeasonalOrder
	return fmt.Sprintf("SARIMAX(%d,%d,%d)(%d,%d,%d)[%d]",
		m.Order.P, m.Order.D, m.Order.Q, s.P, s.D, s.Q, s.M)
}

func (m *Model) validateOrder() error {
	o, s := m.Order, m.SeasonalOrder
	if o.P < 0 || o.D < 0 || o.Q < 0 || s.P < 0 || s.D < 0 || s.Q < 0 || s.M < 0 {
		return fmt.Errorf("%w: orders must be non-negative", ErrInvalidOrder)
	}
	if s.IsSeasonal() && s.M < 2 {
		return fmt.Errorf("%w: seasonal terms require a period of at least 2", ErrInvalidOrder)
	}
	return nil
}

// minObs is the shortest series Fit accepts.
func (m *Model) minObs() int {
	s := m.SeasonalOrder
	lags := m.Order.P + m.Order.Q
	if s.IsSeasonal() {
		lags += (s.P + s.Q) * s.M
	}
	return m.differencingLags() + lags + 2
}

func (m *Model) differencingLags() int {
	lags := m.Order.D
	if m.SeasonalOrder.M > 1 {
		lags += m.SeasonalOrder.D * m.SeasonalOrder.M
	}
	return lags
}

// Fit estimates the model on y. exog may be nil; when given it must have one
// row per observation of y.
func (m *Model) Fit(y *timeseries.Series, exog *timeseries.Frame) error {
	if err := m.validateOrder(); err != nil {
		return err
	}
	if y == nil || y.Len() == 0 {
		return errors.New("series must not be empty")
	}
	n := y.Len()
	if exog != nil && exog.Len() != n {
		return fmt.Errorf("exog has %d rows, series has %d", exog.Len(), n)
	}
	if need := m.minObs(); n < need {
		return fmt.Errorf("%w: %s needs %d observations, got %d", ErrInsufficientData, m, need, n)
	}

	diffPoly := differencingPolynomial(m.Order.D, m.SeasonalOrder.D, m.SeasonalOrder.M)
	errs := make([]float64, n)
	copy(errs, y.Values)
	var coeffs []float64
	if exog != nil && exog.NumColumns() > 0 {
		var err error
		if coeffs, err = regressExog(y.Values, exog, diffPoly); err != nil {
			return err
		}
		for t := range errs {
			errs[t] -= floats.Dot(exog.Row(t), coeffs)
		}
	}

	// Nothing below can fail, so a rejected refit keeps the previous fit.
	m.data = y
	m.diffPoly = diffPoly
	m.errs = errs
	m.ExogCoeffs = coeffs
	m.exogColumns = nil
	if coeffs != nil {
		m.exogColumns = append([]string(nil), exog.Columns...)
	}
	m.diffData = difference(m.errs, m.diffPoly)
	m.fitCSS()
	m.computeFittedValues()
	m.calculateIC()

	m.fitted = true
	m.logger.Debug("fitted model",
		zap.Stringer("model", m),
		zap.Int("n_obs", n),
		zap.Int("n_exog", len(m.ExogCoeffs)),
		zap.Float64("aic", m.AIC),
		zap.Float64("sigma2", m.Variance))
	return nil
}

// regressExog estimates beta by OLS of the differenced response on the
// differenced regressors plus a constant.
func regressExog(y []float64, exog *timeseries.Frame, poly []float64) ([]float64, error) {
	target := difference(y, poly)
	rows, k := len(target), exog.NumColumns()
	if rows <= k+1 {
		return nil, fmt.Errorf("%w: %d exogenous columns", ErrInsufficientData, k)
	}

	design := mat.NewDense(rows, k+1, nil)
	for i := 0; i < rows; i++ {
		design.Set(i, 0, 1)
	}
	for j, col := range exog.Data {
		design.SetCol(j+1, difference(col, poly))
	}

	res, err := stats.OLS(design, target)
	if err != nil {
		return nil, fmt.Errorf("exogenous regression: %w", err)
	}
	return res.Coeffs[1:], nil
}

// fitCSS fits the ARMA part using Conditional Sum of Squares estimation.
func (m *Model) fitCSS() {
	y := m.diffData
	p, q := m.Order.P, m.Order.Q
	sp, sq, period := m.seasonalTerms()

	m.Intercept = floats.Sum(y) / float64(len(y))

	// Yule-Walker for the non-seasonal AR terms, half the seasonal ACF for SAR.
	maxLag := max(p, sp*period)
	acf := stats.ACFValues(y, maxLag)
	m.ARCoeffs = make([]float64, p)
	if acf != nil && p > 0 {
		m.ARCoeffs = yuleWalker(acf, p)
	}
	m.SARCoeffs = make([]float64, sp)
	for i := range m.SARCoeffs {
		if lag := (i + 1) * period; acf != nil && lag < len(acf) {
			m.SARCoeffs[i] = acf[lag] * 0.5
		}
	}
	m.MACoeffs = filled(q, 0.1)
	m.SMACoeffs = filled(sq, 0.1)

	m.startIdx = max(max(p, q), max(sp*period, sq*period))
	m.optimizeCSS(y)
}

// seasonalTerms returns the seasonal AR and MA orders and the period, all
// zero for a non-seasonal model.
func (m *Model) seasonalTerms() (sp, sq, period int) {
	s := m.SeasonalOrder
	if !s.IsSeasonal() {
		return 0, 0, 0
	}
	return s.P, s.Q, s.M
}

// armaStep is the one-step prediction of y[t] from earlier values and residuals.
func (m *Model) armaStep(y, resid []float64, t int) float64 {
	_, _, period := m.seasonalTerms()
	pred := m.Intercept
	for i, phi := range m.ARCoeffs {
		if t-i-1 >= 0 {
			pred += phi * (y[t-i-1] - m.Intercept)
		}
	}
	for i, phi := range m.SARCoeffs {
		if lag := (i + 1) * period; t-lag >= 0 {
			pred += phi * (y[t-lag] - m.Intercept)
		}
	}
	for i, theta := range m.MACoeffs {
		if t-i-1 >= 0 {
			pred += theta * resid[t-i-1]
		}
	}
	for i, theta := range m.SMACoeffs {
		if lag := (i + 1) * period; t-lag >= 0 {
			pred += theta * resid[t-lag]
		}
	}
	return pred
}

// optimizeCSS runs gradient descent with momentum and a decaying learning
// rate, keeping the best parameters seen.
func (m *Model) optimizeCSS(y []float64) {
	n := len(y)
	_, _, period := m.seasonalTerms()

	const (
		tolerance = 1e-8
		momentum  = 0.9
		decay     = 0.99
	)
	learningRate := 0.005

	params := [][]float64{m.ARCoeffs, m.SARCoeffs, m.MACoeffs, m.SMACoeffs}
	velocity := make([][]float64, len(params))
	best := make([][]float64, len(params))
	for i, c := range params {
		velocity[i] = make([]float64, len(c))
		best[i] = make([]float64, len(c))
	}

	bestSSE := math.Inf(1)
	noImprove := 0
	residuals := make([]float64, n)

	for iter := 0; iter < m.maxIter; iter++ {
		clear(residuals)
		sse := 0.0
		for t := m.startIdx; t < n; t++ {
			residuals[t] = y[t] - m.armaStep(y, residuals, t)
			sse += residuals[t] * residuals[t]
		}

		if sse < bestSSE {
			bestSSE = sse
			for i, c := range params {
				copy(best[i], c)
			}
			noImprove = 0
		} else {
			noImprove++
		}
		if noImprove > 20 {
			break
		}

		grads := make([][]float64, len(params))
		for i, c := range params {
			grads[i] = make([]float64, len(c))
		}
		for t := m.startIdx; t < n; t++ {
			r := residuals[t]
			for i := range m.ARCoeffs {
				if t-i-1 >= 0 {
					grads[0][i] -= 2 * r * (y[t-i-1] - m.Intercept)
				}
			}
			for i := range m.SARCoeffs {
				if lag := (i + 1) * period; t-lag >= 0 {
					grads[1][i] -= 2 * r * (y[t-lag] - m.Intercept)
				}
			}
			for i := range m.MACoeffs {
				if t-i-1 >= 0 {
					grads[2][i] -= 2 * r * residuals[t-i-1]
				}
			}
			for i := range m.SMACoeffs {
				if lag := (i + 1) * period; t-lag >= 0 {
					grads[3][i] -= 2 * r * residuals[t-lag]
				}
			}
		}

		for i, c := range params {
			for j := range c {
				velocity[i][j] = momentum*velocity[i][j] + learningRate*grads[i][j]/float64(n)
				c[j] = clamp(c[j]-velocity[i][j], -0.99, 0.99)
			}
		}
		learningRate *= decay

		if iter > 0 && math.Abs(sse-bestSSE) < tolerance {
			break
		}
	}

	for i, c := range params {
		copy(c, best[i])
	}

	m.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		m.residuals[t] = y[t] - m.armaStep(y, m.residuals, t)
	}

	sse := 0.0
	count := 0
	for t := m.startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	numParams := m.numARMAParams()
	if count > numParams {
		m.Variance = sse / float64(count-numParams)
	} else {
		m.Variance = sse / float64(count)
	}
}

// numARMAParams counts AR, MA, seasonal and intercept parameters.
func (m *Model) numARMAParams() int {
	return len(m.ARCoeffs) + len(m.MACoeffs) + len(m.SARCoeffs) + len(m.SMACoeffs) + 1
}

// computeFittedValues maps one-step residuals of the differenced process back
// to the original scale: fitted_t = y_t - e_t. Observations consumed by
// differencing are their own fitted value.
func (m *Model) computeFittedValues() {
	y := m.data.Values
	lags := len(m.diffPoly) - 1
	m.fittedVals = make([]float64, len(y))
	for t, v := range y {
		if t < lags {
			m.fittedVals[t] = v
			continue
		}
		m.fittedVals[t] = v - m.residuals[t-lags]
	}
}

// calculateIC calculates AIC, AICc, and BIC from the conditional residuals.
func (m *Model) calculateIC() {
	cond := m.residuals[m.startIdx:]
	n := len(cond)
	k := m.numARMAParams() + len(m.ExogCoeffs)

	m.LogLik = stats.GaussianLogLik(n, floats.Dot(cond, cond), m.Variance)
	ic := stats.CalculateIC(m.LogLik, n, k)
	m.AIC = ic.AIC
	m.AICc = ic.AICc
	m.BIC = ic.BIC
}

// Residuals returns the one-step residuals of the differenced error process.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns the in-sample one-step predictions on the original
// scale, indexed like the training series.
func (m *Model) FittedValues() *timeseries.Series {
	if !m.fitted {
		return nil
	}
	values := make([]float64, len(m.fittedVals))
	copy(values, m.fittedVals)
	return &timeseries.Series{
		Index:  m.data.ResolvedIndex().Slice(0, m.data.Len()),
		Values: values,
		Name:   m.data.Name,
	}
}

// Summary describes a fitted model.
type Summary struct {
	Model         string
	Order         Order
	SeasonalOrder SeasonalOrder
	ARCoeffs      []float64
	MACoeffs      []float64
	SARCoeffs     []float64
	SMACoeffs     []float64
	ExogColumns   []string
	ExogCoeffs    []float64
	Intercept     float64
	Variance      float64
	AIC           float64
	AICc          float64 // Corrected AIC
	BIC           float64
	LogLik        float64
	NObs          int
	LjungBox      *stats.LjungBoxResult
}

// Summary returns a summary of the fitted model, or nil before Fit.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}

	residSeries := timeseries.New(m.residuals[m.startIdx:])
	lb := stats.LjungBox(residSeries, 10, m.numARMAParams()-1)

	return &Summary{
		Model:         m.String(),
		Order:         m.Order,
		SeasonalOrder: m.SeasonalOrder,
		ARCoeffs:      m.ARCoeffs,
		MACoeffs:      m.MACoeffs,
		SARCoeffs:     m.SARCoeffs,
		SMACoeffs:     m.SMACoeffs,
		ExogColumns:   m.exogColumns,
		ExogCoeffs:    m.ExogCoeffs,
		Intercept:     m.Intercept,
		Variance:      m.Variance,
		AIC:           m.AIC,
		AICc:          m.AICc,
		BIC:           m.BIC,
		LogLik:        m.LogLik,
		NObs:          m.data.Len(),
		LjungBox:      lb,
	}
}

// yuleWalker solves the Toeplitz system R*phi = r for the AR coefficients.
// It returns zeros when the system is not positive definite.
func yuleWalker(acf []float64, order int) []float64 {
	phi := make([]float64, order)
	if order <= 0 || len(acf) <= order {
		return phi
	}

	r := mat.NewSymDense(order, nil)
	for i := 0; i < order; i++ {
		for j := i; j < order; j++ {
			r.SetSym(i, j, acf[j-i])
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(r) {
		return phi
	}
	var sol mat.VecDense
	if err := chol.SolveVecTo(&sol, mat.NewVecDense(order, acf[1:order+1])); err != nil {
		return phi
	}
	for i := range phi {
		phi[i] = clamp(sol.AtVec(i), -0.99, 0.99)
	}
	return phi
}

func filled(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func clamp(v, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, v))
}
