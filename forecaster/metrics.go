package forecaster

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fit outcomes recorded by Metrics.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)

// Metrics holds the forecaster's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	FitTotal           *prometheus.CounterVec
	FitDurationSeconds prometheus.Histogram
	LastWindowLength   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg when it is not
// nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		// FitTotal counts Fit calls by outcome
		FitTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goforecast_fit_total",
				Help: "Total number of forecaster fits by outcome",
			},
			[]string{"outcome"},
		),
		// FitDurationSeconds tracks fit latency including the regressor
		FitDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "goforecast_fit_duration_seconds",
				Help:    "Duration of forecaster fits",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		// LastWindowLength tracks the observations retained after the last fit
		LastWindowLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "goforecast_last_window_length",
				Help: "Number of observations in the stored last window",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.FitTotal, m.FitDurationSeconds, m.LastWindowLength)
	}
	return m
}

func (m *Metrics) observeFit(start time.Time, windowLen int, err error) {
	if m == nil {
		return
	}
	m.FitDurationSeconds.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		m.FitTotal.WithLabelValues(OutcomeSuccess).Inc()
		m.LastWindowLength.Set(float64(windowLen))
	case errors.Is(err, ErrInvalidInput):
		m.FitTotal.WithLabelValues(OutcomeInvalidInput).Inc()
	default:
		m.FitTotal.WithLabelValues(OutcomeError).Inc()
	}
}
