package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics instruments inbound requests.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "venturedash_http_requests_total",
			Help: "Inbound HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "venturedash_http_request_duration_seconds",
			Help:    "Inbound HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// GinMiddleware records per-request counters and latency.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Metrics exposes application-level instruments.
type Metrics struct {
	trackingEvents *prometheus.CounterVec
	webhookEvents  *prometheus.CounterVec
	syncRuns       *prometheus.CounterVec
	syncDuration   prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		trackingEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "venturedash_tracking_events_total",
			Help: "Tracking events ingested by venture and event type.",
		}, []string{"venture", "event_type"}),
		webhookEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "venturedash_stripe_webhook_events_total",
			Help: "Stripe webhook deliveries by event type and outcome.",
		}, []string{"event_type", "outcome"}),
		syncRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "venturedash_stripe_sync_runs_total",
			Help: "Stripe sync passes by outcome.",
		}, []string{"outcome"}),
		syncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "venturedash_stripe_sync_duration_seconds",
			Help:    "Duration of full Stripe sync passes.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}

func (m *Metrics) RecordTrackingEvent(ventureSlug, eventType string) {
	if m == nil {
		return
	}
	m.trackingEvents.WithLabelValues(ventureSlug, eventType).Inc()
}

func (m *Metrics) RecordWebhookEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

func (m *Metrics) RecordSyncRun(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.syncRuns.WithLabelValues(outcome).Inc()
	m.syncDuration.Observe(elapsed.Seconds())
}
