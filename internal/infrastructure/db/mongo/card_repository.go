package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bankcore/cards-api/internal/core/domain"
	"github.com/bankcore/cards-api/internal/core/ports"
)

const collectionCards = "cards"

// cardDoc is the persistence shape of a card. Balances are stored as
// Decimal128 so that $inc arithmetic stays exact.
type cardDoc struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	CardNum        string               `bson:"card_num"`
	Owner          string               `bson:"owner"`
	ExpirationDate time.Time            `bson:"expiration_date"`
	Status         string               `bson:"status"`
	Balance        primitive.Decimal128 `bson:"balance"`
	UserID         string               `bson:"user_id"`
	CreatedAt      time.Time            `bson:"created_at"`
}

type CardRepository struct {
	col    *mongo.Collection
	client *mongo.Client
}

func NewCardRepository(client *mongo.Client, db *mongo.Database) *CardRepository {
	return &CardRepository{col: db.Collection(collectionCards), client: client}
}

// Create inserts a new card document. A unique index on card_num converts
// duplicate inserts into domain.ErrCardNumberTaken.
func (r *CardRepository) Create(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toCardDoc(card)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCardNumberTaken, card.Number)
		}
		return nil, err
	}
	return fromCardDoc(doc)
}

func (r *CardRepository) FindByID(ctx context.Context, id string) (*domain.Card, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid card id %q", domain.ErrCardNotFound, id)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *CardRepository) FindByNumber(ctx context.Context, cardNum string) (*domain.Card, error) {
	return r.findOne(ctx, bson.M{"card_num": cardNum})
}

// FindByNumberAndUser resolves a card by number scoped to its owner. A card
// owned by someone else decodes to no documents, so the caller cannot tell
// "not yours" apart from "does not exist".
func (r *CardRepository) FindByNumberAndUser(ctx context.Context, cardNum, userID string) (*domain.Card, error) {
	return r.findOne(ctx, bson.M{"card_num": cardNum, "user_id": userID})
}

func (r *CardRepository) findOne(ctx context.Context, filter bson.M) (*domain.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc cardDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}
	return fromCardDoc(&doc)
}

func (r *CardRepository) FindAllByUser(ctx context.Context, userID string) ([]*domain.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeCards(ctx, cur)
}

// List returns one page of cards ordered by insertion and the total count
// matching the filter.
func (r *CardRepository) List(ctx context.Context, filter ports.ListCardsFilter) ([]*domain.Card, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(filter.Page) * int64(filter.Size)).
		SetLimit(int64(filter.Size))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	cards, err := decodeCards(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// UpdateStatus overwrites the card's status without preconditions.
func (r *CardRepository) UpdateStatus(ctx context.Context, id string, status domain.CardStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid card id %q", domain.ErrCardNotFound, id)
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

// Delete removes the card by id. A missing document is not an error.
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// AddBalance credits amount to the card in a single conditional update. The
// filter requires the card to still be ACTIVE at write time, so a concurrent
// block or expiry cannot race the credit.
func (r *CardRepository) AddBalance(ctx context.Context, cardNum string, amount decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	inc, err := toDecimal128(amount)
	if err != nil {
		return err
	}

	filter := bson.M{"card_num": cardNum, "status": string(domain.StatusActive)}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"balance": inc}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: this card is blocked or expired", domain.ErrInvalidArgument)
	}
	return nil
}

// Transfer moves amount between two cards inside a multi-document transaction.
// The debit only matches when the source is still ACTIVE and holds at least
// amount; the credit only when the destination is still ACTIVE. Either leg
// failing aborts the whole transaction.
func (r *CardRepository) Transfer(ctx context.Context, fromNum, toNum string, amount decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	inc, err := toDecimal128(amount)
	if err != nil {
		return err
	}
	dec, err := toDecimal128(amount.Neg())
	if err != nil {
		return err
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		debitFilter := bson.M{
			"card_num": fromNum,
			"status":   string(domain.StatusActive),
			"balance":  bson.M{"$gte": inc},
		}
		res, err := r.col.UpdateOne(sc, debitFilter, bson.M{"$inc": bson.M{"balance": dec}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: insufficient funds on the sender's card", domain.ErrImpossibleTransfer)
		}

		creditFilter := bson.M{"card_num": toNum, "status": string(domain.StatusActive)}
		res, err = r.col.UpdateOne(sc, creditFilter, bson.M{"$inc": bson.M{"balance": inc}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: one of the cards is blocked or expired", domain.ErrImpossibleTransfer)
		}
		return nil, nil
	})
	return err
}

// ExpireBefore flips every non-EXPIRED card whose expiration date is strictly
// before cutoff into EXPIRED and reports how many documents changed.
func (r *CardRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"expiration_date": bson.M{"$lt": cutoff},
		"status":          bson.M{"$ne": string(domain.StatusExpired)},
	}
	res, err := r.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": string(domain.StatusExpired)}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates necessary indexes on the cards collection.
func (r *CardRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "card_num", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "expiration_date", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeCards(ctx context.Context, cur *mongo.Cursor) ([]*domain.Card, error) {
	var cards []*domain.Card
	for cur.Next(ctx) {
		var doc cardDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		card, err := fromCardDoc(&doc)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, cur.Err()
}

func toCardDoc(card *domain.Card) (*cardDoc, error) {
	balance, err := toDecimal128(card.Balance)
	if err != nil {
		return nil, err
	}
	return &cardDoc{
		CardNum:        card.Number,
		Owner:          card.Owner,
		ExpirationDate: card.ExpirationDate.UTC(),
		Status:         string(card.Status),
		Balance:        balance,
		UserID:         card.UserID,
		CreatedAt:      card.CreatedAt.UTC(),
	}, nil
}

func fromCardDoc(doc *cardDoc) (*domain.Card, error) {
	balance, err := decimal.NewFromString(doc.Balance.String())
	if err != nil {
		return nil, fmt.Errorf("decode balance: %w", err)
	}
	return &domain.Card{
		ID:             doc.ID.Hex(),
		Number:         doc.CardNum,
		Owner:          doc.Owner,
		ExpirationDate: doc.ExpirationDate,
		Status:         domain.CardStatus(doc.Status),
		Balance:        balance,
		UserID:         doc.UserID,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode balance: %w", err)
	}
	return v, nil
}
