package toolcall

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricDecodes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tutor_tool_calls_decoded_total",
	Help: "Tool call decode attempts by tool and result",
}, []string{"tool", "result"})
