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

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	Merge(ctx context.Context, userID string, update models.ProfileUpdate) error
	Watch(ctx context.Context, userID string) (<-chan *models.UserProfile, context.CancelFunc, error)
}

type profileRepo struct {
	collection *mongo.Collection
	hub        *stream.Hub
}

func NewProfileRepository(db *DB, hub *stream.Hub) ProfileRepository {
	return &profileRepo{
		collection: db.Database.Collection("profiles"),
		hub:        hub,
	}
}

// ownerID resolves a caller-supplied user id, failing fast before any
// network call when none is available.
func ownerID(userID string) (primitive.ObjectID, error) {
	if userID == "" {
		return primitive.NilObjectID, models.ErrUnauthenticated
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid user id", models.ErrUnauthenticated)
	}
	return id, nil
}

func (r *profileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	now := time.Now()
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	r.hub.Publish(ProfileScope(profile.ID.Hex()))
	return nil
}

func (r *profileRepo) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	id, err := ownerID(userID)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	err = r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return &profile, nil
}

// Merge applies a partial update: only the fields present in update are
// written, everything else keeps its stored value.
func (r *profileRepo) Merge(ctx context.Context, userID string, update models.ProfileUpdate) error {
	id, err := ownerID(userID)
	if err != nil {
		return err
	}

	set := bson.M{"updated_at": time.Now()}
	if update.FirstName != nil {
		set["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		set["last_name"] = *update.LastName
	}
	if update.HasCompletedOnboarding != nil {
		set["has_completed_onboarding"] = *update.HasCompletedOnboarding
	}
	if update.IsSubscribed != nil {
		set["is_subscribed"] = *update.IsSubscribed
	}
	if update.SubscriptionPackageID != nil {
		set["subscription_package_id"] = *update.SubscriptionPackageID
	}
	if update.SubscriptionStartDate != nil {
		set["subscription_start_date"] = *update.SubscriptionStartDate
	}
	if update.TrialEndDate != nil {
		set["trial_end_date"] = *update.TrialEndDate
	}
	if update.HasTrialUsed != nil {
		set["has_trial_used"] = *update.HasTrialUsed
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("merge profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	r.hub.Publish(ProfileScope(userID))
	return nil
}

func (r *profileRepo) Watch(ctx context.Context, userID string) (<-chan *models.UserProfile, context.CancelFunc, error) {
	if _, err := ownerID(userID); err != nil {
		return nil, nil, err
	}
	ch, cancel := stream.Snapshots(ctx, r.hub, ProfileScope(userID), func(ctx context.Context) (*models.UserProfile, error) {
		profile, err := r.GetByID(ctx, userID)
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return profile, err
	})
	return ch, cancel, nil
}
