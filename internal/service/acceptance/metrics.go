package acceptance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAccepted    = "accepted"
	outcomeRepeated    = "repeated"
	outcomeLostRace    = "lost_race"
	outcomeNotPaid     = "not_paid"
	outcomeUnavailable = "unavailable"
	outcomeError       = "error"
)

var AcceptanceOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "delivery_acceptance_outcomes_total",
		Help: "Total number of delivery acceptance attempts by outcome",
	},
	[]string{"outcome"},
)
