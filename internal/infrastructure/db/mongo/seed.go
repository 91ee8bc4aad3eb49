package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/bankcore/cards-api/internal/core/domain"
)

// EnsureSeedData makes sure the role reference data and the bootstrap admin
// account exist. Every step is an upsert or an insert-if-absent, so running
// it on every startup (or on several replicas at once) is safe.
func EnsureSeedData(ctx context.Context, db *mongo.Database, adminPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	roles := db.Collection(collectionRoles)
	for _, name := range []string{domain.RoleAdmin, domain.RoleUser} {
		_, err := roles.UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{"name": name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}

	users := db.Collection(collectionUsers)
	err := users.FindOne(ctx, bson.M{"username": domain.RoleAdmin}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("seed admin lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin password: %w", err)
	}

	_, err = users.InsertOne(ctx, &userDoc{
		ID:           primitive.NewObjectID(),
		Username:     domain.RoleAdmin,
		FullName:     domain.RoleAdmin,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleAdmin},
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
