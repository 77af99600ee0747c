package synthesis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 管线阶段标签
const (
	stageRegistry = "registry"
	stageBytecode = "bytecode"
	stageProxy    = "proxy"
	stageProbe    = "probe"
)

// 结果标签
const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
	outcomeEmpty  = "empty"
)

var (
	metricStage = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lens",
			Subsystem: "synthesis",
			Name:      "stage_total",
			Help:      "Synthesis pipeline stage executions by outcome",
		},
		[]string{"stage", "outcome"},
	)

	metricGeneration = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lens",
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "Surface generation requests by outcome",
		},
		[]string{"outcome"},
	)
)
