// Package metrics provides Prometheus metrics for planning runs and the HTTP API.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/cutplan/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Plan outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
	StatusInvalid = "invalid"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PlansTotal counts planning runs by outcome.
	PlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cutplan_plans_total",
			Help: "Total number of planning runs",
		},
		[]string{"status"},
	)

	// PlanDuration tracks the wall time of a whole planning run.
	PlanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cutplan_plan_duration_seconds",
			Help:    "Planning run duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// GroupsTotal counts thickness groups by outcome.
	GroupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cutplan_groups_total",
			Help: "Total number of thickness groups packed",
		},
		[]string{"status"},
	)

	// SheetsUsed tracks how many stock sheets each packed group needed.
	SheetsUsed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cutplan_sheets_per_group",
			Help:    "Stock sheets used per packed thickness group",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 100},
		},
	)

	// PiecesPlaced counts panels placed across all runs.
	PiecesPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cutplan_pieces_placed_total",
			Help: "Total number of panels placed on sheets",
		},
	)

	// GroupWaste tracks the mean waste percentage of each packed group.
	GroupWaste = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cutplan_group_waste_percent",
			Help:    "Average sheet waste percentage per packed group",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// PlanStatus classifies the outcome of a planning run.
func PlanStatus(plan model.Plan, err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, model.ErrInvalidDimension), errors.Is(err, model.ErrDuplicateGroup):
		return StatusInvalid
	case len(plan.Succeeded()) > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// RecordPlan records metrics for one planning run and each of its groups.
func RecordPlan(plan model.Plan, err error, duration time.Duration) {
	PlanDuration.Observe(duration.Seconds())
	PlansTotal.WithLabelValues(PlanStatus(plan, err)).Inc()

	for _, g := range plan.Groups {
		if !g.OK() {
			GroupsTotal.WithLabelValues(StatusFailed).Inc()
			continue
		}
		GroupsTotal.WithLabelValues(StatusSuccess).Inc()
		SheetsUsed.Observe(float64(g.Result.SheetCount))
		PiecesPlaced.Add(float64(len(g.Result.Placements)))
		if g.Summary != nil {
			GroupWaste.Observe(g.Summary.AvgWastePct)
		}
	}
}
