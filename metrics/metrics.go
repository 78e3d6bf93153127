package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/a-bouts/deviation/deviation"
	"github.com/a-bouts/deviation/geodesy"
	"github.com/a-bouts/deviation/latlon"
)

var (
	computeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deviation",
		Subsystem: "compute",
		Name:      "total",
		Help:      "Deviation computations by solver and outcome",
	}, []string{"solver", "outcome"})

	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "deviation",
		Subsystem: "compute",
		Name:      "duration_seconds",
		Help:      "Duration of a deviation computation",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	}, []string{"solver"})
)

// Outcome names the label recorded for err
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, deviation.ErrInvalidRequest), errors.Is(err, latlon.ErrMalformedCoordinates), errors.Is(err, latlon.ErrOutOfRange), errors.Is(err, geodesy.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, deviation.ErrTangentUndefined):
		return "tangent_undefined"
	case errors.Is(err, geodesy.ErrNoConvergence):
		return "no_convergence"
	default:
		return "error"
	}
}

// ObserveCompute records one computation with solver started at start
func ObserveCompute(solver string, start time.Time, err error) {
	computeTotal.WithLabelValues(solver, Outcome(err)).Inc()
	computeDuration.WithLabelValues(solver).Observe(time.Since(start).Seconds())
}
