package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_tool_calls_total",
		Help: "Tool calls handled by activity and result",
	}, []string{"activity", "result"})

	metricInteractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_interactions_total",
		Help: "User interactions by activity, action and result",
	}, []string{"activity", "action", "result"})

	metricSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tutor_sessions_open",
		Help: "Tutoring sessions currently running",
	})
)
