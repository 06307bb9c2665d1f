package elevenlabs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricSignedURL = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "tutor_elevenlabs_signed_url_seconds",
	Help:    "Latency of signed conversation URL requests",
	Buckets: prometheus.DefBuckets,
}, []string{"result"})
