package handler

import (
	"github.com/shopspring/decimal"
)

// Request types for card operations. Card numbers are validated for shape
// here; ownership and business rules stay in the service layer.

type createCardRequest struct {
	CardNum string `json:"cardNum" validate:"required,len=16,numeric"`
	UserID  string `json:"userId"  validate:"required"`
}

type depositMoneyRequest struct {
	CardNum string          `json:"cardNum" validate:"required"`
	Amount  decimal.Decimal `json:"amount"  validate:"required"`
}

type transferMoneyRequest struct {
	FromCardNum string          `json:"fromCardNum" validate:"required"`
	ToCardNum   string          `json:"toCardNum"   validate:"required"`
	Amount      decimal.Decimal `json:"amount"      validate:"required"`
}

type blockCardRequest struct {
	CardID string `json:"cardId" validate:"required"`
}

type changeCardStatusRequest struct {
	CardID     string `json:"cardId"     validate:"required"`
	CardStatus string `json:"cardStatus" validate:"required,oneof=ACTIVE BLOCKED EXPIRED"`
}

// statusResponse is the plain-text confirmation payload for money and
// lifecycle operations.
type statusResponse struct {
	Message string `json:"message"`
}
