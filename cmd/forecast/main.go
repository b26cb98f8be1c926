// Command forecast fits a SARIMAX forecaster to a CSV series and prints the
// forecast with prediction intervals as JSON.
//
// Configuration is read from the file given by -config (or GOFORECAST_CONFIG)
// and GOFORECAST_* environment variables. When exogenous columns are
// configured, the last forecast.steps rows of the CSV are held out: their
// covariates drive the forecast and their values are used to score it.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/autoarima"
	"github.com/sartorproj/goforecast/forecaster"
	"github.com/sartorproj/goforecast/internal/config"
	"github.com/sartorproj/goforecast/internal/logging"
	"github.com/sartorproj/goforecast/timeseries"
)

// Report is the JSON document written to stdout
type Report struct {
	RunID         string          `json:"run_id"`
	Model         string          `json:"model"`
	NObs          int             `json:"n_obs"`
	IndexType     string          `json:"index_type"`
	IndexFreq     string          `json:"index_freq"`
	TrainingRange [2]string       `json:"training_range"`
	ExogColumns   []string        `json:"exog_columns,omitempty"`
	LastWindow    []float64       `json:"last_window"`
	ExtendedIndex IndexBounds     `json:"extended_index"`
	AIC           *float64        `json:"aic,omitempty"`
	BIC           *float64        `json:"bic,omitempty"`
	Alpha         float64         `json:"alpha"`
	Forecasts     []ForecastPoint `json:"forecasts"`
	Accuracy      *Accuracy       `json:"accuracy,omitempty"`
}

// IndexBounds summarizes an index by its first and last labels
type IndexBounds struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Len   int    `json:"len"`
}

// ForecastPoint is one predicted step
type ForecastPoint struct {
	Label string  `json:"label"`
	Pred  float64 `json:"pred"`
	Lower float64 `json:"lower_bound"`
	Upper float64 `json:"upper_bound"`
}

// Accuracy scores the forecast against held-out observations
type Accuracy struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "forecast:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("GOFORECAST_CONFIG"), "YAML configuration file")
	dataPath := fs.String("data", "", "CSV file to forecast (overrides data.path)")
	metricsFile := fs.String("metrics-file", "", "write fit metrics in the Prometheus text format to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}
	if cfg.Data.Path == "" {
		return errors.New("no input: set data.path or pass -data")
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	series, exog, err := timeseries.LoadCSVWithExog(cfg.Data.Path, cfg.Data.CSVOptions())
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cfg.Data.Path, err)
	}
	logger.Info("loaded series",
		zap.String("path", cfg.Data.Path),
		zap.Int("n_obs", series.Len()),
		zap.Strings("exog", cfg.Data.ExogColumns))

	split, err := splitHoldout(series, exog, cfg.Forecast.Steps)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	f := forecaster.New(newRegressor(cfg.Model, logger),
		forecaster.WithLogger(logger),
		forecaster.WithWindowSize(cfg.Forecast.WindowSize),
		forecaster.WithMetrics(forecaster.NewMetrics(registry)))

	fitErr := f.Fit(split.train, split.trainExog)
	if *metricsFile != "" {
		if err := prometheus.WriteToTextfile(*metricsFile, registry); err != nil {
			logger.Warn("failed to write metrics", zap.String("path", *metricsFile), zap.Error(err))
		}
	}
	if fitErr != nil {
		return fmt.Errorf("fit failed: %w", fitErr)
	}

	intervals, err := f.PredictInterval(cfg.Forecast.Steps, split.futureExog, cfg.Forecast.Alpha)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}
	logger.Debug("forecaster", zap.Stringer("summary", f))

	report := buildReport(f, intervals, split.test, cfg.Forecast.Alpha)
	report.RunID = runID
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// newRegressor builds the configured model: an order search or a fixed
// SARIMAX order.
func newRegressor(cfg config.ModelConfig, logger *zap.Logger) forecaster.Regressor {
	if cfg.Auto {
		return autoarima.New(cfg.AutoConfig(), autoarima.WithLogger(logger))
	}
	opts := []arima.Option{arima.WithLogger(logger), arima.WithMaxIter(cfg.MaxIter)}
	if cfg.Period > 1 {
		opts = append(opts, arima.WithSeasonalOrder(arima.SeasonalOrder{
			P: cfg.SeasonalP, D: cfg.SeasonalD, Q: cfg.SeasonalQ, M: cfg.Period,
		}))
	}
	return arima.New(arima.Order{P: cfg.P, D: cfg.D, Q: cfg.Q}, opts...)
}

type holdout struct {
	train      *timeseries.Series
	trainExog  *timeseries.Frame
	test       *timeseries.Series
	futureExog *timeseries.Frame
}

// splitHoldout reserves the last steps rows as the forecast horizon when
// exogenous covariates are present. Without them the whole series trains.
func splitHoldout(series *timeseries.Series, exog *timeseries.Frame, steps int) (holdout, error) {
	if exog == nil {
		return holdout{train: series}, nil
	}
	n := series.Len()
	if n <= steps {
		return holdout{}, fmt.Errorf("need more than %d rows to hold out future covariates, got %d", steps, n)
	}
	return holdout{
		train:      series.Slice(0, n-steps),
		trainExog:  exog.Slice(0, n-steps),
		test:       series.Slice(n-steps, n),
		futureExog: exog.Slice(n-steps, n),
	}, nil
}

func buildReport(f *forecaster.Forecaster, intervals *timeseries.Frame, test *timeseries.Series, alpha float64) *Report {
	state := f.State()
	ext := state.ExtendedIndex
	report := &Report{
		Model:         fmt.Sprint(f.Regressor()),
		NObs:          ext.Len(),
		IndexType:     state.IndexType,
		IndexFreq:     state.IndexFreq.String(),
		TrainingRange: state.TrainingRange,
		ExogColumns:   state.ExogColumns,
		LastWindow:    state.LastWindow.Values,
		ExtendedIndex: IndexBounds{Start: ext.Label(0), End: ext.Label(ext.Len() - 1), Len: ext.Len()},
		Alpha:         alpha,
	}
	if m := fittedModel(f.Regressor()); m != nil {
		report.AIC, report.BIC = finite(m.AIC), finite(m.BIC)
	}

	for i := 0; i < intervals.Len(); i++ {
		row := intervals.Row(i)
		report.Forecasts = append(report.Forecasts, ForecastPoint{
			Label: intervals.Index.Label(i),
			Pred:  row[0],
			Lower: row[1],
			Upper: row[2],
		})
	}

	if test != nil {
		pred, _ := intervals.Column("pred")
		report.Accuracy = accuracy(test.Values, pred)
	}
	return report
}

// finite drops values JSON cannot encode.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func fittedModel(reg forecaster.Regressor) *arima.Model {
	switch m := reg.(type) {
	case *arima.Model:
		return m
	case *autoarima.Model:
		if r := m.Result(); r != nil {
			return r.Model
		}
	}
	return nil
}

// accuracy calculates forecast accuracy metrics
func accuracy(actual, predicted []float64) *Accuracy {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return nil
	}
	var rmse, mae, mape float64
	for i := 0; i < n; i++ {
		d := actual[i] - predicted[i]
		rmse += d * d
		mae += math.Abs(d)
		if actual[i] != 0 {
			mape += math.Abs(d) / math.Abs(actual[i]) * 100
		}
	}
	return &Accuracy{
		RMSE: math.Sqrt(rmse / float64(n)),
		MAE:  mae / float64(n),
		MAPE: mape / float64(n),
	}
}
