package bridge

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tessro/tokyobox/internal/nui"
)

var messagesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tokyobox_bridge_messages_total",
		Help: "State pushes received by type",
	},
	[]string{"type"},
)

// messageLabel keeps the type label bounded: unknown tags share one label.
func messageLabel(m nui.Message) string {
	if _, ok := m.(nui.Unknown); ok {
		return "unknown"
	}
	return m.Type()
}
