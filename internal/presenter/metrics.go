package presenter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_answer_verdicts_total",
		Help: "Answer verdicts by activity",
	}, []string{"activity", "verdict"})

	metricStale = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_stale_continuations_total",
		Help: "Timer or async results dropped because their activation ended",
	}, []string{"activity", "kind"})
)
