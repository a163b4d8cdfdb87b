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

type ComplianceRepository interface {
	Create(ctx context.Context, userID, businessID string, item *models.ComplianceItem) (string, error)
	CreateMany(ctx context.Context, userID, businessID string, items []*models.ComplianceItem) ([]string, error)
	GetByID(ctx context.Context, userID, businessID, itemID string) (*models.ComplianceItem, error)
	ListByBusiness(ctx context.Context, userID, businessID string) ([]*models.ComplianceItem, error)
	Merge(ctx context.Context, userID, businessID, itemID string, update models.ComplianceItemUpdate) error
	Delete(ctx context.Context, userID, businessID, itemID string) error
	Watch(ctx context.Context, userID, businessID string) (<-chan []*models.ComplianceItem, context.CancelFunc, error)
}

type complianceRepo struct {
	collection *mongo.Collection
	hub        *stream.Hub
}

func NewComplianceRepository(db *DB, hub *stream.Hub) ComplianceRepository {
	return &complianceRepo{
		collection: db.Database.Collection("compliance_items"),
		hub:        hub,
	}
}

func (r *complianceRepo) scopeIDs(userID, businessID string) (primitive.ObjectID, primitive.ObjectID, error) {
	owner, err := ownerID(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	business, err := primitive.ObjectIDFromHex(businessID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, models.ErrMissingBusinessData
	}
	return owner, business, nil
}

// Create stamps owner and business linkage from the resolved scope; any ids
// present on the item itself are overwritten.
func (r *complianceRepo) Create(ctx context.Context, userID, businessID string, item *models.ComplianceItem) (string, error) {
	owner, business, err := r.scopeIDs(userID, businessID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	item.ID = primitive.NewObjectID()
	item.OwnerID = owner
	item.BusinessID = business
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return "", fmt.Errorf("create compliance item: %w", err)
	}
	r.hub.Publish(ComplianceScope(userID, businessID))
	return item.ID.Hex(), nil
}

func (r *complianceRepo) CreateMany(ctx context.Context, userID, businessID string, items []*models.ComplianceItem) ([]string, error) {
	owner, business, err := r.scopeIDs(userID, businessID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	docs := make([]any, 0, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		item.ID = primitive.NewObjectID()
		item.OwnerID = owner
		item.BusinessID = business
		item.CreatedAt = now
		item.UpdatedAt = now
		docs = append(docs, item)
		ids = append(ids, item.ID.Hex())
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("create compliance items: %w", err)
	}
	r.hub.Publish(ComplianceScope(userID, businessID))
	return ids, nil
}

func (r *complianceRepo) GetByID(ctx context.Context, userID, businessID, itemID string) (*models.ComplianceItem, error) {
	owner, business, err := r.scopeIDs(userID, businessID)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, models.ErrNotFound
	}

	var item models.ComplianceItem
	err = r.collection.FindOne(ctx, bson.M{"_id": id, "owner_id": owner, "business_id": business}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get compliance item: %w", err)
	}
	return &item, nil
}

func (r *complianceRepo) ListByBusiness(ctx context.Context, userID, businessID string) ([]*models.ComplianceItem, error) {
	owner, business, err := r.scopeIDs(userID, businessID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": owner, "business_id": business})
	if err != nil {
		return nil, fmt.Errorf("list compliance items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*models.ComplianceItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode compliance items: %w", err)
	}
	return items, nil
}

func (r *complianceRepo) Merge(ctx context.Context, userID, businessID, itemID string, update models.ComplianceItemUpdate) error {
	owner, business, err := r.scopeIDs(userID, businessID)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return models.ErrNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.DueDate != nil {
		set["due_date"] = *update.DueDate
	}
	if update.Frequency != nil {
		set["frequency"] = *update.Frequency
	}
	if update.IssuingAuthority != nil {
		set["issuing_authority"] = *update.IssuingAuthority
	}
	if update.RelevantLaws != nil {
		set["relevant_laws"] = *update.RelevantLaws
	}
	if update.RequiredDocuments != nil {
		set["required_documents"] = *update.RequiredDocuments
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}
	if update.Attachments != nil {
		set["attachments"] = *update.Attachments
	}
	if update.LastCompletedDate != nil {
		set["last_completed_date"] = *update.LastCompletedDate
	}
	if update.NextReviewDate != nil {
		set["next_review_date"] = *update.NextReviewDate
	}

	filter := bson.M{"_id": id, "owner_id": owner, "business_id": business}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("merge compliance item: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	r.hub.Publish(ComplianceScope(userID, businessID))
	return nil
}

// Delete succeeds for ids that no longer exist.
func (r *complianceRepo) Delete(ctx context.Context, userID, businessID, itemID string) error {
	owner, business, err := r.scopeIDs(userID, businessID)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil
	}

	filter := bson.M{"_id": id, "owner_id": owner, "business_id": business}
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("delete compliance item: %w", err)
	}
	r.hub.Publish(ComplianceScope(userID, businessID))
	return nil
}

func (r *complianceRepo) Watch(ctx context.Context, userID, businessID string) (<-chan []*models.ComplianceItem, context.CancelFunc, error) {
	if _, _, err := r.scopeIDs(userID, businessID); err != nil {
		return nil, nil, err
	}
	ch, cancel := stream.Snapshots(ctx, r.hub, ComplianceScope(userID, businessID), func(ctx context.Context) ([]*models.ComplianceItem, error) {
		return r.ListByBusiness(ctx, userID, businessID)
	})
	return ch, cancel, nil
}
