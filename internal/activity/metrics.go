package activity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_activity_transitions_total",
		Help: "Active activity transitions",
	}, []string{"from", "to"})

	metricResets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_activity_resets_total",
		Help: "Reset callbacks invoked per activity",
	}, []string{"activity"})
)
