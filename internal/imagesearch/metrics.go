package imagesearch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricSearches = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "tutor_image_search_seconds",
	Help:    "Latency of image search requests",
	Buckets: prometheus.DefBuckets,
}, []string{"result"})
