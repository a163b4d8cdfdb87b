package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/complyhq/complybot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuthTokenRepository interface {
	Create(ctx context.Context, token *models.AuthToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.AuthToken, error)
	Revoke(ctx context.Context, tokenHash string) error
}

type authTokenRepo struct {
	collection *mongo.Collection
}

func NewAuthTokenRepository(db *DB) AuthTokenRepository {
	return &authTokenRepo{
		collection: db.Database.Collection("auth_tokens"),
	}
}

func (r *authTokenRepo) Create(ctx context.Context, token *models.AuthToken) error {
	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("create auth token: %w", err)
	}
	return nil
}

func (r *authTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.collection.FindOne(ctx, bson.M{"token_hash": tokenHash}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get auth token: %w", err)
	}
	return &token, nil
}

// Revoke is idempotent: revoking an unknown or already revoked hash
// succeeds.
func (r *authTokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	update := bson.M{"$set": bson.M{"is_revoked": true}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"token_hash": tokenHash}, update); err != nil {
		return fmt.Errorf("revoke auth token: %w", err)
	}
	return nil
}
