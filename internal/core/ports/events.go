package ports

import (
	"context"

	"github.com/bankcore/cards-api/internal/core/domain"
)

// EventEmitter accepts card events for asynchronous delivery. Implementations
// must never block the caller beyond a bounded buffer.
type EventEmitter interface {
	Emit(event domain.CardEvent)
}

// EventPublisher delivers a single card event to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.CardEvent) error
}
