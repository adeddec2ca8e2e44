package core

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/postpilot-ai/postpilot/pkg/metrics"
)

type Metrics struct {
	apiResponseTime   *prometheus.HistogramVec
	apiErrorCounter   *prometheus.CounterVec
	replyLatency      *prometheus.HistogramVec
	modelRequestTime  *prometheus.HistogramVec
	modelErrorCounter *prometheus.CounterVec
	gatekeeperHits    *prometheus.CounterVec
	discardCounter    *prometheus.CounterVec
	ingestCounter     *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime:   metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter:   metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		replyLatency:      metrics.NewHistogramVec("reply_latency", []string{"source"}),
		modelRequestTime:  metrics.NewHistogramVec("model_request_time", []string{"target"}),
		modelErrorCounter: metrics.NewCounterVec("model_error", []string{"type"}),
		gatekeeperHits:    metrics.NewCounterVec("gatekeeper_hits", []string{"category"}),
		discardCounter:    metrics.NewCounterVec("message_discard", []string{"reason"}),
		ingestCounter:     metrics.NewCounterVec("ingest_result", []string{"outcome"}),
	}

	return m
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ReplyLatencyObserve(source string, d time.Duration) {
	m.replyLatency.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) ModelRequestTimer(target string) *prometheus.Timer {
	return prometheus.NewTimer(m.modelRequestTime.WithLabelValues(target))
}

func (m *Metrics) ModelErrorInc(kind string) {
	m.modelErrorCounter.WithLabelValues(kind).Inc()
}

func (m *Metrics) GatekeeperHitInc(category string) {
	m.gatekeeperHits.WithLabelValues(category).Inc()
}

func (m *Metrics) DiscardInc(reason string) {
	m.discardCounter.WithLabelValues(reason).Inc()
}

func (m *Metrics) IngestResultInc(outcome string) {
	m.ingestCounter.WithLabelValues(outcome).Inc()
}
