// Package metrics defines and registers all custom Prometheus metrics for the
// bank-card API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bankcards"

// CardsCreatedTotal counts successfully issued cards.
var CardsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cards_created_total",
		Help:      "Total number of cards issued.",
	},
)

// CardsExpiredTotal counts cards transitioned to EXPIRED by the sweeper.
var CardsExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cards_expired_total",
		Help:      "Total number of cards expired by the background sweeper.",
	},
)

// DepositsTotal counts deposit attempts that reached the ledger write.
// Label:
//   - result: "ok" or "error"
var DepositsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deposits_total",
		Help:      "Total number of deposit ledger writes, by result.",
	},
	[]string{"result"},
)

// TransfersTotal counts transfer attempts that reached the ledger write.
// Label:
//   - result: "ok" or "error"
var TransfersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transfers_total",
		Help:      "Total number of transfer ledger writes, by result.",
	},
	[]string{"result"},
)

// EventsPublishedTotal counts card events delivered to the broker.
// Label:
//   - type: the event type (e.g. "card.created")
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of card events published to the broker, by type.",
	},
	[]string{"type"},
)

// EventsPublishErrorsTotal counts failed event publications.
var EventsPublishErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_publish_errors_total",
		Help:      "Total number of card events that failed to publish.",
	},
)
