package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bankcore/cards-api/internal/api/metrics"
	"github.com/bankcore/cards-api/internal/core/domain"
	"github.com/bankcore/cards-api/internal/core/ports"
)

// CardService implements card lifecycle transitions and balance mutations.
type CardService struct {
	cards  ports.CardRepository
	users  ports.UserRepository
	events ports.EventEmitter
	log    zerolog.Logger
}

func NewCardService(cards ports.CardRepository, users ports.UserRepository, events ports.EventEmitter, log zerolog.Logger) *CardService {
	return &CardService{cards: cards, users: users, events: events, log: log}
}

// CreateCard issues a new ACTIVE card with a zero balance for the given user.
func (s *CardService) CreateCard(ctx context.Context, cardNum, userID string) (*ports.CardDto, error) {
	cardNum = strings.TrimSpace(cardNum)
	if !domain.ValidCardNumber(cardNum) {
		return nil, fmt.Errorf("%w: the card number contains characters that are not numbers", domain.ErrInvalidCardNumber)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	if _, err := s.cards.FindByNumber(ctx, cardNum); err == nil {
		return nil, fmt.Errorf("%w: a card with this number already exists", domain.ErrCardNumberTaken)
	}

	now := time.Now().UTC()
	card := &domain.Card{
		Number:         cardNum,
		Owner:          user.FullName,
		ExpirationDate: now.AddDate(domain.ExpirationPeriod, 0, 0),
		Status:         domain.StatusActive,
		Balance:        decimal.New(0, -2),
		UserID:         user.ID,
		CreatedAt:      now,
	}

	created, err := s.cards.Create(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	metrics.CardsCreatedTotal.Inc()
	s.emit(domain.CardEvent{
		Type:       domain.EventCardCreated,
		CardID:     created.ID,
		CardNumber: mustMask(created.Number),
		UserID:     created.UserID,
		Status:     created.Status,
	})
	s.log.Info().Str("card_id", created.ID).Str("user_id", created.UserID).Msg("card created")

	return toCardDto(created), nil
}

// DeleteCard removes the card by id. There is deliberately no existence or
// zero-balance precondition; deleting an unknown id is a no-op.
func (s *CardService) DeleteCard(ctx context.Context, cardID string) error {
	if err := s.cards.Delete(ctx, cardID); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	s.log.Info().Str("card_id", cardID).Msg("card deleted")
	return nil
}

// ChangeStatus overwrites the card's status with no transition guard. This is
// the administrative override; the self-service path is BlockCard.
func (s *CardService) ChangeStatus(ctx context.Context, cardID string, status domain.CardStatus) (*ports.CardDto, error) {
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("change status: %w", err)
	}

	if err := s.cards.UpdateStatus(ctx, card.ID, status); err != nil {
		return nil, fmt.Errorf("change status: %w", err)
	}
	card.Status = status

	s.emit(domain.CardEvent{
		Type:       domain.EventCardStatusChange,
		CardID:     card.ID,
		CardNumber: mustMask(card.Number),
		UserID:     card.UserID,
		Status:     status,
	})
	s.log.Info().Str("card_id", card.ID).Str("status", string(status)).Msg("card status changed")

	return toCardDto(card), nil
}

func (s *CardService) FindByID(ctx context.Context, cardID string) (*ports.CardDto, error) {
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("find card: %w", err)
	}
	return toCardDto(card), nil
}

func (s *CardService) ListByUser(ctx context.Context, userID string, page, size int) (*ports.CardPage, error) {
	return s.list(ctx, ports.ListCardsFilter{UserID: userID, Page: page, Size: size})
}

func (s *CardService) ListAll(ctx context.Context, page, size int) (*ports.CardPage, error) {
	return s.list(ctx, ports.ListCardsFilter{Page: page, Size: size})
}

func (s *CardService) list(ctx context.Context, filter ports.ListCardsFilter) (*ports.CardPage, error) {
	cards, total, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	items := make([]ports.CardDto, 0, len(cards))
	for _, c := range cards {
		items = append(items, *toCardDto(c))
	}
	return &ports.CardPage{Items: items, Total: total, Page: filter.Page, Size: filter.Size}, nil
}

// Deposit credits amount onto the caller's own ACTIVE card.
func (s *CardService) Deposit(ctx context.Context, callerID, cardNum string, amount decimal.Decimal) error {
	cardNum = strings.TrimSpace(cardNum)
	if err := s.verifyOwnership(ctx, callerID, cardNum); err != nil {
		return err
	}

	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: deposit amount must be greater than zero", domain.ErrInvalidArgument)
	}

	card, err := s.cards.FindByNumber(ctx, cardNum)
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	if !card.IsActive() {
		return fmt.Errorf("%w: this card is blocked or expired", domain.ErrInvalidArgument)
	}

	if err := s.cards.AddBalance(ctx, cardNum, amount); err != nil {
		metrics.DepositsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("deposit: %w", err)
	}

	metrics.DepositsTotal.WithLabelValues("ok").Inc()
	s.emit(domain.CardEvent{
		Type:       domain.EventMoneyDeposited,
		CardID:     card.ID,
		CardNumber: mustMask(card.Number),
		UserID:     callerID,
		Amount:     amount,
	})
	s.log.Info().Str("card_id", card.ID).Str("amount", amount.String()).Msg("money deposited")
	return nil
}

// Transfer moves amount from the caller's card to the destination card.
// The repository applies both legs inside a single transaction, so no partial
// transfer can ever be observed.
func (s *CardService) Transfer(ctx context.Context, callerID, fromCardNum, toCardNum string, amount decimal.Decimal) error {
	fromCardNum = strings.TrimSpace(fromCardNum)
	toCardNum = strings.TrimSpace(toCardNum)

	if err := s.verifyOwnership(ctx, callerID, fromCardNum); err != nil {
		return err
	}

	if !domain.ValidCardNumber(fromCardNum) || !domain.ValidCardNumber(toCardNum) {
		return fmt.Errorf("%w: the card number contains characters that are not numbers", domain.ErrInvalidCardNumber)
	}

	from, err := s.cards.FindByNumber(ctx, fromCardNum)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	to, err := s.cards.FindByNumber(ctx, toCardNum)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	if !from.IsActive() || !to.IsActive() {
		return fmt.Errorf("%w: one of the cards is blocked or expired", domain.ErrImpossibleTransfer)
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: transfer amount must be greater than zero", domain.ErrInvalidArgument)
	}
	if from.Balance.LessThan(amount) {
		return fmt.Errorf("%w: insufficient funds on the sender's card", domain.ErrImpossibleTransfer)
	}

	if err := s.cards.Transfer(ctx, fromCardNum, toCardNum, amount); err != nil {
		metrics.TransfersTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("transfer: %w", err)
	}

	metrics.TransfersTotal.WithLabelValues("ok").Inc()
	s.emit(domain.CardEvent{
		Type:       domain.EventMoneyTransferred,
		CardID:     from.ID,
		CardNumber: mustMask(from.Number),
		ToNumber:   mustMask(to.Number),
		UserID:     callerID,
		Amount:     amount,
	})
	s.log.Info().
		Str("from_card_id", from.ID).
		Str("to_card_id", to.ID).
		Str("amount", amount.String()).
		Msg("money transferred")
	return nil
}

// BlockCard is the owner-initiated ACTIVE -> BLOCKED transition.
func (s *CardService) BlockCard(ctx context.Context, callerID, cardID string) error {
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return fmt.Errorf("block card: %w", err)
	}

	if card.UserID != callerID {
		return fmt.Errorf("%w: this card doesn't belong to this user", domain.ErrInvalidArgument)
	}
	if !card.IsActive() {
		return fmt.Errorf("%w: this card has already been blocked or has expired", domain.ErrInvalidArgument)
	}

	if err := s.cards.UpdateStatus(ctx, card.ID, domain.StatusBlocked); err != nil {
		return fmt.Errorf("block card: %w", err)
	}

	s.emit(domain.CardEvent{
		Type:       domain.EventCardBlocked,
		CardID:     card.ID,
		CardNumber: mustMask(card.Number),
		UserID:     callerID,
		Status:     domain.StatusBlocked,
	})
	s.log.Info().Str("card_id", card.ID).Msg("card blocked")
	return nil
}

// GetBalance returns the balance of the caller's own card.
func (s *CardService) GetBalance(ctx context.Context, callerID, cardNum string) (decimal.Decimal, error) {
	if !domain.ValidCardNumber(cardNum) {
		return decimal.Decimal{}, fmt.Errorf("%w: the card number contains characters that are not numbers", domain.ErrInvalidCardNumber)
	}

	card, err := s.cards.FindByNumberAndUser(ctx, cardNum, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return decimal.Decimal{}, fmt.Errorf("%w: this card doesn't belong to this user or was not found", domain.ErrCardNotFound)
		}
		return decimal.Decimal{}, fmt.Errorf("get balance: %w", err)
	}
	return card.Balance, nil
}

// verifyOwnership scans the caller's cards for an exact number match. A caller
// with no cards at all and a caller holding other cards fail differently, to
// keep the two conditions distinguishable to the client.
func (s *CardService) verifyOwnership(ctx context.Context, callerID, cardNum string) error {
	cards, err := s.cards.FindAllByUser(ctx, callerID)
	if err != nil {
		return fmt.Errorf("verify ownership: %w", err)
	}
	if len(cards) == 0 {
		return fmt.Errorf("%w: the user doesn't have any cards", domain.ErrCardNotFound)
	}

	for _, c := range cards {
		if c.Number == cardNum {
			return nil
		}
	}
	return fmt.Errorf("%w: this card doesn't belong to this user", domain.ErrImpossibleTransfer)
}

func (s *CardService) emit(event domain.CardEvent) {
	event.OccurredAt = time.Now().UTC()
	s.events.Emit(event)
}

func toCardDto(c *domain.Card) *ports.CardDto {
	return &ports.CardDto{
		ID:             c.ID,
		CardNum:        mustMask(c.Number),
		Owner:          c.Owner,
		ExpirationDate: c.ExpirationDate,
		Status:         string(c.Status),
		Balance:        c.Balance.StringFixed(2),
	}
}

// mustMask masks a stored card number. Stored numbers are validated at
// creation, so a masking failure indicates corrupted data; the raw number is
// never exposed in that case.
func mustMask(num string) string {
	masked, err := domain.MaskNumber(num)
	if err != nil {
		return "****"
	}
	return masked
}
