package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardEventType identifies the kind of lifecycle or ledger change an event records.
type CardEventType string

const (
	EventCardCreated      CardEventType = "card.created"
	EventCardBlocked      CardEventType = "card.blocked"
	EventCardStatusChange CardEventType = "card.status_changed"
	EventCardsExpired     CardEventType = "card.expired"
	EventMoneyDeposited   CardEventType = "money.deposited"
	EventMoneyTransferred CardEventType = "money.transferred"
)

// CardEvent is published after a successful card mutation. Card numbers are
// always carried in masked form.
type CardEvent struct {
	Type       CardEventType   `json:"type"`
	CardID     string          `json:"card_id,omitempty"`
	CardNumber string          `json:"card_number,omitempty"` // masked
	ToNumber   string          `json:"to_number,omitempty"`   // masked, transfers only
	UserID     string          `json:"user_id,omitempty"`
	Status     CardStatus      `json:"status,omitempty"`
	Amount     decimal.Decimal `json:"amount,omitempty"`
	Count      int64           `json:"count,omitempty"` // sweeper batches only
	OccurredAt time.Time       `json:"occurred_at"`
}
