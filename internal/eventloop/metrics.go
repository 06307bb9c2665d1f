package eventloop

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutor_loop_posts_total",
		Help: "Closures queued on session loops",
	})

	metricPanics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutor_loop_panics_total",
		Help: "Closures that panicked on a session loop",
	})

	metricTurnSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tutor_loop_turn_seconds",
		Help:    "Time spent running one closure on a session loop",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
)
