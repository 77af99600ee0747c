package poll

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 周期结果标签
const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

var (
	metricSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lens",
			Subsystem: "poll",
			Name:      "sessions_active",
			Help:      "Number of currently active poll sessions",
		},
	)

	metricCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lens",
			Subsystem: "poll",
			Name:      "cycles_total",
			Help:      "Total number of completed poll cycles",
		},
		[]string{"outcome"},
	)

	metricCycleSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lens",
			Subsystem: "poll",
			Name:      "cycle_duration_seconds",
			Help:      "Poll cycle duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)
