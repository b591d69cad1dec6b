// Package metrics defines the prometheus collectors the service exports.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "unavailable"
	OutcomeMalformed   = "malformed"
	OutcomeEmpty       = "empty"
)

var (
	ReceiptIngestions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nexbill",
		Name:      "receipt_ingestions_total",
		Help:      "Receipt scans by outcome.",
	}, []string{"outcome"})

	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nexbill",
		Name:      "extraction_duration_seconds",
		Help:      "Latency of calls to the receipt extraction service.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
	})

	BillsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nexbill",
		Name:      "bills_finalized_total",
		Help:      "Drafts frozen into settled bills.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nexbill",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records request latency per matched route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
