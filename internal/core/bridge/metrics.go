package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 调用结果标签
const (
	outcomeOK        = "ok"        // 正常结果
	outcomeRejected  = "rejected"  // 执行器返回错误负载
	outcomeTransport = "transport" // 传输本身失败
)

var (
	metricRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lens",
			Subsystem: "bridge",
			Name:      "requests_total",
			Help:      "Total number of bridged chain calls",
		},
		[]string{"method", "outcome"},
	)

	metricRequestSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lens",
			Subsystem: "bridge",
			Name:      "request_duration_seconds",
			Help:      "Native round-trip duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	metricInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lens",
			Subsystem: "bridge",
			Name:      "inflight_requests",
			Help:      "Number of correlated calls currently in flight",
		},
	)
)
