package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/complyhq/complybot/internal/models"
	"github.com/complyhq/complybot/internal/stream"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type BusinessRepository interface {
	Create(ctx context.Context, userID string, input models.BusinessInput) (string, error)
	GetByID(ctx context.Context, userID, businessID string) (*models.Business, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Business, error)
	Merge(ctx context.Context, userID, businessID string, update models.BusinessUpdate) error
	Delete(ctx context.Context, userID, businessID string) error
	Watch(ctx context.Context, userID string) (<-chan []*models.Business, context.CancelFunc, error)
}

type businessRepo struct {
	collection *mongo.Collection
	hub        *stream.Hub
}

func NewBusinessRepository(db *DB, hub *stream.Hub) BusinessRepository {
	return &businessRepo{
		collection: db.Database.Collection("businesses"),
		hub:        hub,
	}
}

// Create stamps the owner id from the authenticated caller and the
// timestamps from the server clock; nothing linkage-related is taken from
// the input payload.
func (r *businessRepo) Create(ctx context.Context, userID string, input models.BusinessInput) (string, error) {
	owner, err := ownerID(userID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	business := models.Business{
		ID:          primitive.NewObjectID(),
		OwnerID:     owner,
		Name:        input.Name,
		Address:     input.Address,
		Phone:       input.Phone,
		Description: input.Description,
		Type:        input.Type,
		LegalEntity: input.LegalEntity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, business); err != nil {
		return "", fmt.Errorf("create business: %w", err)
	}
	r.hub.Publish(BusinessesScope(userID))
	return business.ID.Hex(), nil
}

func (r *businessRepo) GetByID(ctx context.Context, userID, businessID string) (*models.Business, error) {
	owner, err := ownerID(userID)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(businessID)
	if err != nil {
		return nil, models.ErrNotFound
	}

	var business models.Business
	err = r.collection.FindOne(ctx, bson.M{"_id": id, "owner_id": owner}).Decode(&business)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &business, nil
}

func (r *businessRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Business, error) {
	owner, err := ownerID(userID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": owner})
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer cursor.Close(ctx)

	var businesses []*models.Business
	if err := cursor.All(ctx, &businesses); err != nil {
		return nil, fmt.Errorf("decode businesses: %w", err)
	}
	return businesses, nil
}

func (r *businessRepo) Merge(ctx context.Context, userID, businessID string, update models.BusinessUpdate) error {
	owner, err := ownerID(userID)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(businessID)
	if err != nil {
		return models.ErrNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Type != nil {
		set["type"] = *update.Type
	}
	if update.LegalEntity != nil {
		set["legal_entity"] = *update.LegalEntity
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "owner_id": owner}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("merge business: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	r.hub.Publish(BusinessesScope(userID))
	return nil
}

// Delete is idempotent by id: deleting a business that does not exist is
// not an error at this layer.
func (r *businessRepo) Delete(ctx context.Context, userID, businessID string) error {
	owner, err := ownerID(userID)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(businessID)
	if err != nil {
		return nil
	}

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "owner_id": owner}); err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	r.hub.Publish(BusinessesScope(userID))
	return nil
}

func (r *businessRepo) Watch(ctx context.Context, userID string) (<-chan []*models.Business, context.CancelFunc, error) {
	if _, err := ownerID(userID); err != nil {
		return nil, nil, err
	}
	ch, cancel := stream.Snapshots(ctx, r.hub, BusinessesScope(userID), func(ctx context.Context) ([]*models.Business, error) {
		return r.ListByOwner(ctx, userID)
	})
	return ch, cancel, nil
}
