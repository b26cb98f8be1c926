package autoarima

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

// Information criteria accepted by Config.Criterion.
const (
	CriterionAIC  = "aic"
	CriterionAICc = "aicc"
	CriterionBIC  = "bic"
)

// ErrNoModel is returned when no candidate order could be fitted.
var ErrNoModel = errors.New("no candidate model could be fitted")

// Config holds configuration for auto ARIMA search.
type Config struct {
	MaxP        int    // Maximum AR order (default: 5)
	MaxD        int    // Maximum differencing order (default: 2)
	MaxQ        int    // Maximum MA order (default: 5)
	MaxSP       int    // Maximum seasonal AR order (default: 2)
	MaxSD       int    // Maximum seasonal differencing order (default: 1)
	MaxSQ       int    // Maximum seasonal MA order (default: 2)
	Seasonal    bool   // Whether to consider seasonal models
	SeasonalM   int    // Seasonal period (required if Seasonal=true)
	Stepwise    bool   // Use stepwise search instead of exhaustive
	Criterion   string // "aic", "aicc" or "bic" (default: "aic")
	Trace       bool   // Log every candidate at info level
	StationTest string // Stationarity test: "adf" or "kpss" (default: "kpss")
}

// DefaultConfig returns the default auto ARIMA configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxP:        5,
		MaxD:        2,
		MaxQ:        5,
		MaxSP:       2,
		MaxSD:       1,
		MaxSQ:       2,
		Seasonal:    false,
		Stepwise:    true,
		Criterion:   CriterionAIC,
		StationTest: stats.TestKPSS,
	}
}

func (c *Config) seasonal() bool {
	return c.Seasonal && c.SeasonalM > 1
}

// Result represents the result of auto ARIMA model selection.
type Result struct {
	Model         *arima.Model
	Order         arima.Order
	SeasonalOrder arima.SeasonalOrder

	AIC       float64
	BIC       float64
	LogLik    float64
	Criterion float64

	// SuggestedQ is the MA order read off the autocorrelation of the
	// differenced series. The stepwise search starts from it.
	SuggestedQ      int
	ModelsEvaluated int
}

// IsSeasonal reports whether the selected model has seasonal terms.
func (r *Result) IsSeasonal() bool {
	return r.SeasonalOrder.IsSeasonal()
}

// AutoARIMA selects the orders minimizing the configured information
// criterion. exog may be nil.
func AutoARIMA(series *timeseries.Series, exog *timeseries.Frame, config *Config, logger *zap.Logger) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if series == nil || series.Len() == 0 {
		return nil, errors.New("series must not be empty")
	}

	s := &searcher{
		series: series,
		exog:   exog,
		config: config,
		logger: logger,
		d:      determineDifferencing(series, config.MaxD, config.StationTest),
	}
	if config.seasonal() {
		s.sd = determineSeasonalDifferencing(series, config.MaxSD, config.SeasonalM)
	}
	s.suggestedQ = suggestMA(series, s.d, config.MaxQ)

	if config.Stepwise {
		s.stepwise()
	} else {
		s.exhaustive()
	}

	if s.best == nil {
		return nil, ErrNoModel
	}
	model := s.best
	result := &Result{
		Model:           model,
		Order:           model.Order,
		SeasonalOrder:   model.SeasonalOrder,
		AIC:             model.AIC,
		BIC:             model.BIC,
		LogLik:          model.LogLik,
		Criterion:       s.bestCriterion,
		SuggestedQ:      s.suggestedQ,
		ModelsEvaluated: s.evaluated,
	}
	logger.Debug("selected model",
		zap.Stringer("model", model),
		zap.Float64("criterion", result.Criterion),
		zap.Int("models_evaluated", result.ModelsEvaluated))
	return result, nil
}

// determineDifferencing determines the optimal differencing order.
// With KPSS, ADF is consulted too and both must agree unless KPSS is decisive.
func determineDifferencing(series *timeseries.Series, maxD int, testType string) int {
	if testType == stats.TestADF {
		return stats.NDiffs(series, maxD, stats.TestADF)
	}

	currentSeries := series
	for d := 0; d < maxD; d++ {
		kpssResult := stats.KPSS(currentSeries, "c", 0)
		adfResult := stats.ADF(currentSeries, 0)

		kpssStationary := kpssResult != nil && kpssResult.IsStationary
		adfStationary := adfResult != nil && adfResult.IsStationary

		if (kpssStationary && adfStationary) || (kpssStationary && kpssResult.PValue > 0.1) {
			return d
		}

		currentSeries = currentSeries.Diff()
		if currentSeries.Len() < 10 {
			return d
		}
	}

	return maxD
}

// determineSeasonalDifferencing suggests seasonal differences from the
// seasonal strength of a classical decomposition, falling back to one
// difference when the autocorrelation at the seasonal lag is strong.
func determineSeasonalDifferencing(series *timeseries.Series, maxSD int, period int) int {
	if maxSD < 1 {
		return 0
	}
	if sd := stats.NSDiffs(series, period, maxSD); sd > 0 {
		return sd
	}
	acf := stats.ACF(series, period*2)
	if len(acf) > period && math.Abs(acf[period]) > 0.5 {
		return 1
	}
	return 0
}

// suggestMA counts the leading significant autocorrelations of the
// differenced series, capped at maxQ.
func suggestMA(series *timeseries.Series, d, maxQ int) int {
	for i := 0; i < d; i++ {
		series = series.Diff()
	}
	acf := stats.ACFWithConfidence(series, maxQ)
	if acf == nil {
		return 0
	}
	q := 0
	for _, lag := range stats.SignificantLags(acf.Values, acf.ConfBounds) {
		if lag != q+1 {
			break
		}
		q = lag
	}
	return q
}

type candidate struct {
	p, q, sp, sq int
}

type searcher struct {
	series *timeseries.Series
	exog   *timeseries.Frame
	config *Config
	logger *zap.Logger
	d, sd  int

	suggestedQ int

	best          *arima.Model
	bestCandidate candidate
	bestCriterion float64
	evaluated     int
}

func (s *searcher) valid(c candidate) bool {
	cfg := s.config
	if c.p < 0 || c.p > cfg.MaxP || c.q < 0 || c.q > cfg.MaxQ {
		return false
	}
	if !cfg.seasonal() {
		return c.sp == 0 && c.sq == 0
	}
	return c.sp >= 0 && c.sp <= cfg.MaxSP && c.sq >= 0 && c.sq <= cfg.MaxSQ
}

func (s *searcher) criterion(model *arima.Model) float64 {
	switch s.config.Criterion {
	case CriterionBIC:
		return model.BIC
	case CriterionAICc:
		return model.AICc
	default:
		return model.AIC
	}
}

// try fits one candidate and reports whether it became the best.
func (s *searcher) try(c candidate) bool {
	if !s.valid(c) {
		return false
	}

	opts := []arima.Option{arima.WithLogger(s.logger)}
	if s.config.seasonal() {
		opts = append(opts, arima.WithSeasonalOrder(arima.SeasonalOrder{
			P: c.sp, D: s.sd, Q: c.sq, M: s.config.SeasonalM,
		}))
	}
	model := arima.New(arima.Order{P: c.p, D: s.d, Q: c.q}, opts...)
	if err := model.Fit(s.series, s.exog); err != nil {
		s.logger.Debug("candidate failed", zap.Stringer("model", model), zap.Error(err))
		return false
	}
	s.evaluated++

	crit := s.criterion(model)
	if s.config.Trace {
		s.logger.Info("candidate", zap.Stringer("model", model), zap.Float64("criterion", crit))
	}
	if math.IsNaN(crit) || (s.best != nil && crit >= s.bestCriterion) {
		return false
	}
	s.best, s.bestCandidate, s.bestCriterion = model, c, crit
	return true
}

func (s *searcher) exhaustive() {
	cfg := s.config
	maxSP, maxSQ := 0, 0
	if cfg.seasonal() {
		maxSP, maxSQ = cfg.MaxSP, cfg.MaxSQ
	}
	for p := 0; p <= cfg.MaxP; p++ {
		for q := 0; q <= cfg.MaxQ; q++ {
			for sp := 0; sp <= maxSP; sp++ {
				for sq := 0; sq <= maxSQ; sq++ {
					s.try(candidate{p, q, sp, sq})
				}
			}
		}
	}
}

// stepwise starts from a few simple orders and moves to neighbouring orders
// while the criterion improves.
func (s *searcher) stepwise() {
	starts := []candidate{{0, 0, 0, 0}, {1, 0, 0, 0}, {0, 1, 0, 0}, {1, 1, 0, 0}, {2, 2, 0, 0}}
	if s.config.seasonal() {
		starts = []candidate{{0, 0, 0, 0}, {1, 0, 1, 0}, {0, 1, 0, 1}, {1, 1, 1, 1}, {2, 2, 1, 1}}
	}
	if s.suggestedQ > 1 {
		starts = append(starts, candidate{0, s.suggestedQ, 0, 0})
	}
	for _, c := range starts {
		s.try(c)
	}
	if s.best == nil {
		return
	}

	for improved := true; improved; {
		improved = false
		b := s.bestCandidate
		neighbors := []candidate{
			{b.p + 1, b.q, b.sp, b.sq},
			{b.p - 1, b.q, b.sp, b.sq},
			{b.p, b.q + 1, b.sp, b.sq},
			{b.p, b.q - 1, b.sp, b.sq},
			{b.p + 1, b.q + 1, b.sp, b.sq},
			{b.p - 1, b.q - 1, b.sp, b.sq},
			{b.p, b.q, b.sp + 1, b.sq},
			{b.p, b.q, b.sp - 1, b.sq},
			{b.p, b.q, b.sp, b.sq + 1},
			{b.p, b.q, b.sp, b.sq - 1},
		}
		for _, c := range neighbors {
			if s.try(c) {
				improved = true
			}
		}
	}
}
