// Package metrics exposes request counters for a requex client
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

// Metrics Prometheus 指标收集器；未启用时所有方法均为空操作
type Metrics struct {
	enabled bool

	Requests        *prometheus.CounterVec   // 请求总数（按方法、结果）
	RequestDuration *prometheus.HistogramVec // 请求耗时
	InFlight        prometheus.Gauge         // 进行中的请求数
	Superseded      prometheus.Counter       // 被重复请求取消的次数
	ProgressActive  prometheus.Gauge         // 加载指示器是否显示
}

// New 在 registerer 上注册指标；registerer 为 nil 时返回未启用的收集器
func New(namespace string, registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		return &Metrics{enabled: false}
	}

	factory := promauto.With(registerer)
	return &Metrics{
		enabled: true,

		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests by outcome",
			},
			[]string{"method", "outcome"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "outcome"},
		),

		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "Number of requests waiting for a reply",
			},
		),

		Superseded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_superseded_total",
				Help:      "Total number of requests canceled by a newer duplicate",
			},
		),

		ProgressActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "progress_active",
				Help:      "1 while the loading indicator is shown",
			},
		),
	}
}

// Disabled returns a collector that records nothing
func Disabled() *Metrics {
	return &Metrics{enabled: false}
}

// Enabled reports whether the collector records anything
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Begin marks a request in flight and returns the function that records
// its outcome
func (m *Metrics) Begin(method string) (done func(outcome string)) {
	if !m.Enabled() {
		return func(string) {}
	}

	start := time.Now()
	m.InFlight.Inc()
	return func(outcome string) {
		m.InFlight.Dec()
		m.Requests.WithLabelValues(method, outcome).Inc()
		m.RequestDuration.WithLabelValues(method, outcome).Observe(time.Since(start).Seconds())
	}
}

// Supersede counts one request replaced by a duplicate
func (m *Metrics) Supersede() {
	if m.Enabled() {
		m.Superseded.Inc()
	}
}

// Progress records the indicator state
func (m *Metrics) Progress(active bool) {
	if !m.Enabled() {
		return
	}
	if active {
		m.ProgressActive.Set(1)
	} else {
		m.ProgressActive.Set(0)
	}
}
