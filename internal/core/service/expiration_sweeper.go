package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/bankcore/cards-api/internal/api/metrics"
	"github.com/bankcore/cards-api/internal/core/domain"
	"github.com/bankcore/cards-api/internal/core/ports"
)

// ExpirationSweeper periodically transitions cards whose expiration date has
// passed into EXPIRED. A card already EXPIRED is excluded from the batch, so
// repeated runs converge and never re-fire on the same card.
type ExpirationSweeper struct {
	cards  ports.CardRepository
	events ports.EventEmitter
	log    zerolog.Logger
	cron   *cron.Cron
}

func NewExpirationSweeper(cards ports.CardRepository, events ports.EventEmitter, log zerolog.Logger) *ExpirationSweeper {
	return &ExpirationSweeper{cards: cards, events: events, log: log}
}

// Start schedules Sweep on a fixed interval. A failed run is logged and left
// to the next run; the same still-expired set is reattempted then.
func (s *ExpirationSweeper) Start(interval time.Duration) error {
	if s.cron != nil {
		return fmt.Errorf("sweeper already started")
	}

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.log.Error().Err(err).Msg("expiration sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweeper: %w", err)
	}

	s.cron = c
	c.Start()
	s.log.Info().Dur("interval", interval).Msg("expiration sweeper started")
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *ExpirationSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}

// Sweep performs one pass: every card expired before now moves to EXPIRED.
// The batch update is atomic per document, so a run interrupted partway
// leaves some cards untouched; already-EXPIRED cards are excluded from the
// match, so the next run picks up the remainder.
func (s *ExpirationSweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.cards.ExpireBefore(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("expire cards: %w", err)
	}

	if n > 0 {
		metrics.CardsExpiredTotal.Add(float64(n))
		s.events.Emit(domain.CardEvent{
			Type:       domain.EventCardsExpired,
			Count:      n,
			OccurredAt: time.Now().UTC(),
		})
		s.log.Info().Int64("count", n).Msg("cards expired")
	}
	return n, nil
}
