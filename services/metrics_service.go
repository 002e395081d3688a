package services

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panelkeeper_request_total",
			Help: "Total API requests",
		},
		[]string{"route"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "panelkeeper_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	requestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panelkeeper_request_errors_total",
			Help: "API requests answered with an error status",
		},
		[]string{"route"},
	)

	installTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panelkeeper_install_total",
			Help: "Component install attempts",
		},
		[]string{"component"},
	)

	installFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panelkeeper_install_failures_total",
			Help: "Component install failures",
		},
		[]string{"component"},
	)

	totalRequests int64
	totalErrors   int64
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(requestErrors)
	prometheus.MustRegister(installTotal)
	prometheus.MustRegister(installFailures)
}

// IncrementRequestCount 增加请求计数
func IncrementRequestCount(route string) {
	requestCount.WithLabelValues(route).Inc()
	atomic.AddInt64(&totalRequests, 1)
}

// RecordRequestDuration 记录请求持续时间
func RecordRequestDuration(route string, seconds float64) {
	requestDuration.WithLabelValues(route).Observe(seconds)
}

// IncrementErrorCount 增加错误请求计数
func IncrementErrorCount(route string) {
	requestErrors.WithLabelValues(route).Inc()
	atomic.AddInt64(&totalErrors, 1)
}

// GetTotalRequestCount 获取总请求数
func GetTotalRequestCount() int64 {
	return atomic.LoadInt64(&totalRequests)
}

// GetTotalErrorCount 获取错误请求数
func GetTotalErrorCount() int64 {
	return atomic.LoadInt64(&totalErrors)
}

// RecordInstall counts one install attempt for the component.
func RecordInstall(component string) {
	installTotal.WithLabelValues(component).Inc()
}

// RecordInstallFailure counts one failed install for the component.
func RecordInstallFailure(component string) {
	installFailures.WithLabelValues(component).Inc()
}
