package notifications

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var deliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "whatsapp_deliveries_total",
		Help: "WhatsApp deliveries by template and status",
	},
	[]string{"template", "status"},
)
