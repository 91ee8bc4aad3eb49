package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankcore/cards-api/internal/core/domain"
	"github.com/bankcore/cards-api/internal/core/ports"
)

// stubCardRepo is an in-memory CardRepository mirroring the conditional
// update semantics of the real store.
type stubCardRepo struct {
	mu    sync.Mutex
	cards []*domain.Card
	seq   int
}

func newStubCardRepo() *stubCardRepo {
	return &stubCardRepo{}
}

func (r *stubCardRepo) Create(_ context.Context, card *domain.Card) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cards {
		if c.Number == card.Number {
			return nil, domain.ErrCardNumberTaken
		}
	}
	r.seq++
	cp := *card
	cp.ID = fmt.Sprintf("card-%d", r.seq)
	r.cards = append(r.cards, &cp)
	out := cp
	return &out, nil
}

func (r *stubCardRepo) FindByID(_ context.Context, id string) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cards {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCardNotFound
}

func (r *stubCardRepo) FindByNumber(_ context.Context, cardNum string) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cards {
		if c.Number == cardNum {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCardNotFound
}

func (r *stubCardRepo) FindByNumberAndUser(_ context.Context, cardNum, userID string) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cards {
		if c.Number == cardNum && c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCardNotFound
}

func (r *stubCardRepo) FindAllByUser(_ context.Context, userID string) ([]*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Card
	for _, c := range r.cards {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubCardRepo) List(_ context.Context, filter ports.ListCardsFilter) ([]*domain.Card, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Card
	for _, c := range r.cards {
		if filter.UserID == "" || c.UserID == filter.UserID {
			cp := *c
			matched = append(matched, &cp)
		}
	}
	total := int64(len(matched))
	start := filter.Page * filter.Size
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubCardRepo) UpdateStatus(_ context.Context, id string, status domain.CardStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cards {
		if c.ID == id {
			c.Status = status
			return nil
		}
	}
	return domain.ErrCardNotFound
}

func (r *stubCardRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.cards {
		if c.ID == id {
			r.cards = append(r.cards[:i], r.cards[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubCardRepo) AddBalance(_ context.Context, cardNum string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cards {
		if c.Number == cardNum && c.Status == domain.StatusActive {
			c.Balance = c.Balance.Add(amount)
			return nil
		}
	}
	return fmt.Errorf("%w: this card is blocked or expired", domain.ErrInvalidArgument)
}

func (r *stubCardRepo) Transfer(_ context.Context, fromNum, toNum string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var from, to *domain.Card
	for _, c := range r.cards {
		switch c.Number {
		case fromNum:
			from = c
		case toNum:
			to = c
		}
	}
	if from == nil || from.Status != domain.StatusActive || from.Balance.LessThan(amount) {
		return fmt.Errorf("%w: insufficient funds on the sender's card", domain.ErrImpossibleTransfer)
	}
	if to == nil || to.Status != domain.StatusActive {
		return fmt.Errorf("%w: one of the cards is blocked or expired", domain.ErrImpossibleTransfer)
	}
	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	return nil
}

func (r *stubCardRepo) ExpireBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.cards {
		if c.Status != domain.StatusExpired && c.ExpirationDate.Before(cutoff) {
			c.Status = domain.StatusExpired
			n++
		}
	}
	return n, nil
}

// stubUserRepo is an in-memory UserRepository.
type stubUserRepo struct {
	mu    sync.Mutex
	users []*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.seq++
	cp := *user
	cp.ID = fmt.Sprintf("user-%d", r.seq)
	r.users = append(r.users, &cp)
	out := cp
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, page, size int) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := int64(len(r.users))
	start := page * size
	if start >= len(r.users) {
		return nil, total, nil
	}
	end := start + size
	if end > len(r.users) {
		end = len(r.users)
	}
	return r.users[start:end], total, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}

// stubRoleRepo serves the two seed roles.
type stubRoleRepo struct{}

func (stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	switch name {
	case domain.RoleAdmin, domain.RoleUser:
		return &domain.Role{ID: "role-" + name, Name: name}, nil
	}
	return nil, domain.ErrRoleNotFound
}

// captureEmitter records emitted events for assertions.
type captureEmitter struct {
	mu     sync.Mutex
	events []domain.CardEvent
}

func (e *captureEmitter) Emit(event domain.CardEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *captureEmitter) byType(t domain.CardEventType) []domain.CardEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []domain.CardEvent
	for _, ev := range e.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
