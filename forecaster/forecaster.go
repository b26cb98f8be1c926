package forecaster

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sartorproj/goforecast/timeseries"
)

// Regressor is the estimation backend a Forecaster delegates to.
type Regressor interface {
	// Fit estimates the model on y. exog is nil or has one row per
	// observation of y.
	Fit(y *timeseries.Series, exog *timeseries.Frame) error
	// FittedValues returns the in-sample fitted values of the last Fit.
	FittedValues() *timeseries.Series
	// Predict forecasts steps values after the training data.
	Predict(steps int, exog *timeseries.Frame) ([]float64, error)
}

// IntervalPredictor is implemented by regressors that provide prediction
// intervals.
type IntervalPredictor interface {
	PredictInterval(steps int, exog *timeseries.Frame, alpha float64) (mean, lower, upper []float64, err error)
}

// State is what a Forecaster learns from a successful Fit.
type State struct {
	Fitted bool
	// IndexFreq is the frequency of a calendar training index or the step
	// of a positional one.
	IndexFreq IndexFreq
	IndexType string
	// LastWindow is the trailing part of the training series kept to
	// continue forecasting.
	LastWindow *timeseries.Series
	// ExtendedIndex is the index of the regressor's in-sample fitted values.
	ExtendedIndex timeseries.Index
	TrainingRange [2]string
	IncludedExog  bool
	ExogColumns   []string
	FitDate       time.Time
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s State) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("fitted", s.Fitted)
	if !s.Fitted {
		return nil
	}
	if err := enc.AddObject("index_freq", s.IndexFreq); err != nil {
		return err
	}
	enc.AddString("index_type", s.IndexType)
	enc.AddInt("last_window", s.LastWindow.Len())
	enc.AddInt("extended_index", s.ExtendedIndex.Len())
	enc.AddString("training_start", s.TrainingRange[0])
	enc.AddString("training_end", s.TrainingRange[1])
	enc.AddBool("included_exog", s.IncludedExog)
	return nil
}

// Forecaster wraps a Regressor with input validation and keeps the index
// metadata needed to continue forecasting. It is not safe for concurrent
// use.
type Forecaster struct {
	regressor  Regressor
	logger     *zap.Logger
	windowSize int
	metrics    *Metrics
	now        func() time.Time

	creationDate time.Time
	state        State
}

// New creates a Forecaster around regressor.
func New(regressor Regressor, opts ...Option) *Forecaster {
	f := &Forecaster{
		regressor: regressor,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.creationDate = f.now()
	return f
}

// Regressor returns the wrapped regressor.
func (f *Forecaster) Regressor() Regressor {
	return f.regressor
}

// State returns the state of the last successful Fit. Its Fitted field is
// false before then.
func (f *Forecaster) State() State {
	return f.state
}

// IsFitted reports whether Fit has succeeded at least once.
func (f *Forecaster) IsFitted() bool {
	return f.state.Fitted
}

// IndexFreq returns the training index descriptor.
func (f *Forecaster) IndexFreq() IndexFreq {
	return f.state.IndexFreq
}

// LastWindow returns the stored trailing window, or nil before Fit.
func (f *Forecaster) LastWindow() *timeseries.Series {
	return f.state.LastWindow
}

// ExtendedIndex returns the fitted-values index, or nil before Fit.
func (f *Forecaster) ExtendedIndex() timeseries.Index {
	return f.state.ExtendedIndex
}

// Fit validates y and exog, delegates to the regressor and records the index
// metadata. Errors from the regressor are returned as they are. On any error
// the state of the previous Fit is kept.
func (f *Forecaster) Fit(y *timeseries.Series, exog *timeseries.Frame) (err error) {
	start := time.Now()
	var state State
	defer func() {
		windowLen := 0
		if state.LastWindow != nil {
			windowLen = state.LastWindow.Len()
		}
		f.metrics.observeFit(start, windowLen, err)
	}()

	if err = validateFitInputs(y, exog); err != nil {
		f.logger.Warn("rejected fit input", zap.Error(err))
		return err
	}

	index := y.ResolvedIndex()
	state = State{
		Fitted:        true,
		IndexFreq:     indexFreqOf(index),
		IndexType:     indexType(index),
		LastWindow:    y.Tail(f.windowSize),
		TrainingRange: [2]string{index.Label(0), index.Label(index.Len() - 1)},
		IncludedExog:  exog != nil,
	}
	if exog != nil {
		state.ExogColumns = slices.Clone(exog.Columns)
	}

	f.logger.Debug("fitting regressor",
		zap.Int("n_obs", y.Len()),
		zap.Stringer("index_freq", state.IndexFreq),
		zap.Bool("exog", state.IncludedExog))

	if err = f.regressor.Fit(y, exog); err != nil {
		return err
	}

	fitted := f.regressor.FittedValues()
	if fitted == nil {
		err = errors.New("regressor returned no fitted values")
		return err
	}
	ext := fitted.ResolvedIndex()
	state.ExtendedIndex = ext.Slice(0, ext.Len())
	state.FitDate = f.now()

	f.state = state
	f.logger.Info("forecaster fitted", zap.Object("state", state))
	return nil
}

func validateFitInputs(y *timeseries.Series, exog *timeseries.Frame) error {
	if y == nil || y.Len() == 0 {
		return invalidInput("y must be a non-empty series")
	}
	if y.Index != nil && y.Index.Len() != y.Len() {
		return invalidInput("y index has %d labels for %d values", y.Index.Len(), y.Len())
	}
	if exog != nil && exog.Len() != y.Len() {
		return invalidInput("exog must have same number of samples as y. length exog: (%d), length y: (%d)",
			exog.Len(), y.Len())
	}
	if exog != nil && exog.Index != nil && exog.Index.Len() != exog.Len() {
		return invalidInput("exog index has %d labels for %d rows", exog.Index.Len(), exog.Len())
	}
	if y.HasNaN() {
		return invalidInput("y has missing values")
	}
	if exog != nil && exog.HasNaN() {
		return invalidInput("exog has missing values")
	}
	return nil
}

// Predict forecasts steps values after the training data. The result is
// indexed by the continuation of the extended index.
func (f *Forecaster) Predict(steps int, exog *timeseries.Frame) (*timeseries.Series, error) {
	exog, err := f.checkPredictInputs(steps, exog)
	if err != nil {
		return nil, err
	}

	values, err := f.regressor.Predict(steps, exog)
	if err != nil {
		return nil, err
	}
	index, err := f.predictionIndex(steps, len(values))
	if err != nil {
		return nil, err
	}
	return &timeseries.Series{Index: index, Values: values, Name: "pred"}, nil
}

// PredictInterval forecasts with (1 - alpha) prediction intervals. The frame
// has columns pred, lower_bound and upper_bound.
func (f *Forecaster) PredictInterval(steps int, exog *timeseries.Frame, alpha float64) (*timeseries.Frame, error) {
	exog, err := f.checkPredictInputs(steps, exog)
	if err != nil {
		return nil, err
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, invalidInput("alpha must be between 0 and 1, got %v", alpha)
	}
	ip, ok := f.regressor.(IntervalPredictor)
	if !ok {
		return nil, ErrIntervalsUnsupported
	}

	mean, lower, upper, err := ip.PredictInterval(steps, exog, alpha)
	if err != nil {
		return nil, err
	}
	index, err := f.predictionIndex(steps, len(mean))
	if err != nil {
		return nil, err
	}
	return timeseries.NewFrame(index,
		[]string{"pred", "lower_bound", "upper_bound"},
		[][]float64{mean, lower, upper})
}

// checkPredictInputs validates prediction arguments and returns the exog to
// pass to the regressor.
func (f *Forecaster) checkPredictInputs(steps int, exog *timeseries.Frame) (*timeseries.Frame, error) {
	if !f.state.Fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, invalidInput("steps must be greater than or equal to 1, got %d", steps)
	}

	if !f.state.IncludedExog {
		if exog != nil {
			f.logger.Warn("forecaster was fitted without exog, ignoring exog")
		}
		return nil, nil
	}
	if exog == nil {
		return nil, invalidInput("forecaster was trained with exogenous variables, the same variables must be provided to predict")
	}
	if exog.Len() < steps {
		return nil, invalidInput("exog must have at least as many values as steps predicted, %d", steps)
	}
	if !slices.Equal(exog.Columns, f.state.ExogColumns) {
		return nil, invalidInput("exog columns %v do not match the training columns %v", exog.Columns, f.state.ExogColumns)
	}
	if exog.HasNaN() {
		return nil, invalidInput("exog has missing values")
	}
	return exog, nil
}

// predictionIndex continues the extended index. A calendar index without a
// frequency continues positionally.
func (f *Forecaster) predictionIndex(steps, got int) (timeseries.Index, error) {
	if got != steps {
		return nil, fmt.Errorf("regressor returned %d predictions for %d steps", got, steps)
	}
	index, err := f.state.ExtendedIndex.Extend(steps)
	if errors.Is(err, timeseries.ErrNoFrequency) {
		n := f.state.ExtendedIndex.Len()
		return timeseries.NewRangeIndex(n, n+steps), nil
	}
	return index, err
}

// String describes the forecaster and its fitted state.
func (f *Forecaster) String() string {
	s := f.state
	exog := "None"
	if len(s.ExogColumns) > 0 {
		exog = strings.Join(s.ExogColumns, ", ")
	}

	var b strings.Builder
	b.WriteString("=================\n")
	b.WriteString("ForecasterSarimax\n")
	b.WriteString("=================\n")
	fmt.Fprintf(&b, "Regressor: %v\n", f.regressor)
	fmt.Fprintf(&b, "Window size: %d\n", f.windowSize)
	fmt.Fprintf(&b, "Exogenous included: %t\n", s.IncludedExog)
	fmt.Fprintf(&b, "Exogenous variables: %s\n", exog)
	if s.Fitted {
		fmt.Fprintf(&b, "Training range: [%s, %s]\n", s.TrainingRange[0], s.TrainingRange[1])
		fmt.Fprintf(&b, "Training index type: %s\n", s.IndexType)
		fmt.Fprintf(&b, "Training index frequency: %s\n", s.IndexFreq)
		fmt.Fprintf(&b, "Last fit date: %s\n", s.FitDate.Format(time.DateTime))
	} else {
		b.WriteString("Training range: None\n")
	}
	fmt.Fprintf(&b, "Creation date: %s\n", f.creationDate.Format(time.DateTime))
	return b.String()
}
