package vision

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricJudgements = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "tutor_vision_judgement_seconds",
	Help:    "Latency of photo judgements by verdict",
	Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
}, []string{"result"})
