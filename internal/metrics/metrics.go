package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anticafe_bookings_created_total",
		Help: "Number of bookings successfully created.",
	})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anticafe_booking_conflicts_total",
		Help: "Number of booking attempts rejected because of an overlap.",
	})

	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anticafe_sessions_started_total",
		Help: "Number of attendance sessions opened.",
	})

	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anticafe_payments_recorded_total",
		Help: "Number of payments written to the ledger.",
	})
)
