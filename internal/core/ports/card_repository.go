package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankcore/cards-api/internal/core/domain"
)

// ListCardsFilter carries paging parameters for card listings.
// UserID empty means no ownership filter (admin listing).
type ListCardsFilter struct {
	UserID string
	Page   int // 0-based
	Size   int
}

// CardRepository defines persistence operations for cards.
//
// The money-moving methods are conditional updates: they only apply when the
// card is still ACTIVE (and, for debits, sufficiently funded) at write time,
// closing the gap between the service-level checks and the write.
type CardRepository interface {
	// Create persists a new card. Returns domain.ErrCardNumberTaken when the
	// card number is already in use.
	Create(ctx context.Context, card *domain.Card) (*domain.Card, error)
	FindByID(ctx context.Context, id string) (*domain.Card, error)
	FindByNumber(ctx context.Context, cardNum string) (*domain.Card, error)
	// FindByNumberAndUser resolves a card by number scoped to its owner; a card
	// owned by someone else is reported as domain.ErrCardNotFound.
	FindByNumberAndUser(ctx context.Context, cardNum, userID string) (*domain.Card, error)
	FindAllByUser(ctx context.Context, userID string) ([]*domain.Card, error)
	// List returns a page of cards in insertion order and the total count.
	List(ctx context.Context, filter ListCardsFilter) ([]*domain.Card, int64, error)
	// UpdateStatus unconditionally overwrites the card's status.
	UpdateStatus(ctx context.Context, id string, status domain.CardStatus) error
	// Delete removes the card by id. Deleting a nonexistent id is a no-op.
	Delete(ctx context.Context, id string) error
	// AddBalance credits amount to the card, provided it is still ACTIVE.
	AddBalance(ctx context.Context, cardNum string, amount decimal.Decimal) error
	// Transfer atomically debits fromNum and credits toNum within a single
	// transaction. The debit applies only when the source is ACTIVE and holds
	// at least amount; the credit only when the destination is ACTIVE.
	Transfer(ctx context.Context, fromNum, toNum string, amount decimal.Decimal) error
	// ExpireBefore transitions every non-EXPIRED card whose expiration date is
	// strictly before cutoff into EXPIRED, returning how many cards changed.
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
