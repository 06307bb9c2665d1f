package mcpserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricCalls = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tutor_mcp_tool_calls_total",
	Help: "Tool calls received over MCP by tool.",
}, []string{"tool"})
