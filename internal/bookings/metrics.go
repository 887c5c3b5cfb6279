package bookings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Bookings accepted by intake",
	})

	statusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_status_changes_total",
			Help: "Booking status changes by new status",
		},
		[]string{"status"},
	)
)
