package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankcore/cards-api/internal/core/domain"
)

// CardDto is the outward view of a card. The card number is always masked and
// the balance is rendered at scale 2, so a fresh card reads "0.00".
type CardDto struct {
	ID             string    `json:"id"`
	CardNum        string    `json:"cardNum"`
	Owner          string    `json:"owner"`
	ExpirationDate time.Time `json:"expirationDate"`
	Status         string    `json:"status"`
	Balance        string    `json:"balance"`
}

// CardPage is a single page of card DTOs.
type CardPage struct {
	Items []CardDto `json:"content"`
	Total int64     `json:"totalElements"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}

// CardService owns all card state transitions and balance mutations.
// Ownership is always re-verified against persisted state; card identifiers
// supplied in request bodies are never trusted to belong to the caller.
type CardService interface {
	CreateCard(ctx context.Context, cardNum, userID string) (*CardDto, error)
	DeleteCard(ctx context.Context, cardID string) error
	// ChangeStatus is the administrative override: any current status may be
	// overwritten with any target status.
	ChangeStatus(ctx context.Context, cardID string, status domain.CardStatus) (*CardDto, error)
	FindByID(ctx context.Context, cardID string) (*CardDto, error)
	ListByUser(ctx context.Context, userID string, page, size int) (*CardPage, error)
	ListAll(ctx context.Context, page, size int) (*CardPage, error)
	Deposit(ctx context.Context, callerID, cardNum string, amount decimal.Decimal) error
	Transfer(ctx context.Context, callerID, fromCardNum, toCardNum string, amount decimal.Decimal) error
	// BlockCard is the guarded self-service transition: the card must belong to
	// the caller and currently be ACTIVE.
	BlockCard(ctx context.Context, callerID, cardID string) error
	GetBalance(ctx context.Context, callerID, cardNum string) (decimal.Decimal, error)
}
