package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/bankcore/cards-api/internal/core/domain"
	"github.com/bankcore/cards-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes card events to a fixed set of workers using consistent
// hashing on the card id, guaranteeing per-card event ordering.
type Dispatcher struct {
	workers   []chan domain.CardEvent
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.CardEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.CardEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Emit sends an event to the worker responsible for its card.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Emit(event domain.CardEvent) {
	d.workers[d.shardIndex(event.CardID)] <- event
}

// shardIndex maps a card id deterministically to a worker index.
func (d *Dispatcher) shardIndex(cardID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(cardID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.CardEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.publisher.Publish(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("event_type", string(event.Type)).
					Str("card_id", event.CardID).
					Int("worker_id", id).
					Msg("event publish failed")
			}
		}
	}
}

// Discard is an EventEmitter that drops every event. It stands in for the
// dispatcher when event publishing is disabled.
type Discard struct{}

func (Discard) Emit(domain.CardEvent) {}
