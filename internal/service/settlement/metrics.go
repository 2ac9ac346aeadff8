package settlement

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var SettlementOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payment_settlement_outcomes_total",
		Help: "Total number of processed payment notifications by channel and outcome",
	},
	[]string{"channel", "outcome", "replayed"},
)
