package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// CardStatus represents the lifecycle state of a card.
type CardStatus string

const (
	StatusActive  CardStatus = "ACTIVE"
	StatusBlocked CardStatus = "BLOCKED"
	StatusExpired CardStatus = "EXPIRED"
)

// Valid reports whether s is one of the three known card states.
func (s CardStatus) Valid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusExpired:
		return true
	}
	return false
}

var ErrCardNotFound = errors.New("card not found")
var ErrCardNumberTaken = errors.New("card number already exists")
var ErrInvalidCardNumber = errors.New("invalid card number")
var ErrImpossibleTransfer = errors.New("impossible money transfer")
var ErrInvalidArgument = errors.New("invalid argument")

// ExpirationPeriod is how long a newly issued card stays valid.
const ExpirationPeriod = 10 // years

// Card is the core aggregate: a numbered account-like record with a balance,
// a lifecycle status, an expiration timestamp, and an owning user.
type Card struct {
	ID             string
	Number         string // exactly 16 digits, unique, immutable
	Owner          string // full name of the owning user at creation time
	ExpirationDate time.Time
	Status         CardStatus
	Balance        decimal.Decimal
	UserID         string
	CreatedAt      time.Time
}

// IsActive reports whether money-moving operations are permitted on the card.
func (c *Card) IsActive() bool {
	return c.Status == StatusActive
}

var cardNumberRe = regexp.MustCompile(`^\d+$`)

// ValidCardNumber reports whether num consists only of digit characters.
func ValidCardNumber(num string) bool {
	return cardNumberRe.MatchString(num)
}

const maskPrefix = "**** **** **** "

// MaskNumber returns the display form of a card number: the literal
// prefix followed by the last 4 digits. Inputs shorter than 12 characters
// cannot be masked meaningfully and are rejected.
func MaskNumber(num string) (string, error) {
	if len(num) < 12 {
		return "", ErrInvalidCardNumber
	}
	return maskPrefix + num[len(num)-4:], nil
}
