package clientws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_client_frames_total",
		Help: "Websocket frames exchanged with clients by direction and type.",
	}, []string{"direction", "type"})

	metricConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tutor_clients_connected",
		Help: "Client websockets currently attached.",
	})
)
