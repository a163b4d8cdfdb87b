package usecase

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/complyhq/complybot/internal/models"
	"github.com/complyhq/complybot/internal/repo/mongodb"
	"github.com/complyhq/complybot/internal/stream"
)

// In-memory repository fakes backed by the same change hub as production
// code, so watch behaviour can be exercised without a database.

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
	hub      *stream.Hub
}

func newFakeProfileRepo(hub *stream.Hub) *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: map[string]*models.UserProfile{},
		hub:      hub,
	}
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.Email == profile.Email {
			return models.ErrEmailTaken
		}
	}
	now := time.Now()
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	clone := *profile
	r.profiles[profile.ID.Hex()] = &clone
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *profile
	return &clone, nil
}

func (r *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.Email == email {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeProfileRepo) Merge(ctx context.Context, userID string, update models.ProfileUpdate) error {
	r.mu.Lock()
	profile, ok := r.profiles[userID]
	if !ok {
		r.mu.Unlock()
		return models.ErrNotFound
	}
	if update.FirstName != nil {
		profile.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		profile.LastName = *update.LastName
	}
	if update.HasCompletedOnboarding != nil {
		profile.HasCompletedOnboarding = *update.HasCompletedOnboarding
	}
	if update.IsSubscribed != nil {
		profile.IsSubscribed = *update.IsSubscribed
	}
	if update.HasTrialUsed != nil {
		profile.HasTrialUsed = *update.HasTrialUsed
	}
	profile.UpdatedAt = time.Now()
	r.mu.Unlock()
	if r.hub != nil {
		r.hub.Publish(mongodb.ProfileScope(userID))
	}
	return nil
}

func (r *fakeProfileRepo) Watch(ctx context.Context, userID string) (<-chan *models.UserProfile, context.CancelFunc, error) {
	ch, cancel := stream.Snapshots(ctx, r.hub, mongodb.ProfileScope(userID), func(ctx context.Context) (*models.UserProfile, error) {
		return r.GetByID(ctx, userID)
	})
	return ch, cancel, nil
}

type fakeBusinessRepo struct {
	mu         sync.Mutex
	businesses map[string]*models.Business
	hub        *stream.Hub
}

func newFakeBusinessRepo(hub *stream.Hub) *fakeBusinessRepo {
	return &fakeBusinessRepo{
		businesses: map[string]*models.Business{},
		hub:        hub,
	}
}

func (r *fakeBusinessRepo) Create(ctx context.Context, userID string, input models.BusinessInput) (string, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", models.ErrUnauthenticated
	}
	r.mu.Lock()
	now := time.Now()
	business := &models.Business{
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
	r.businesses[business.ID.Hex()] = business
	r.mu.Unlock()
	if r.hub != nil {
		r.hub.Publish(mongodb.BusinessesScope(userID))
	}
	return business.ID.Hex(), nil
}

func (r *fakeBusinessRepo) GetByID(ctx context.Context, userID, businessID string) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	business, ok := r.businesses[businessID]
	if !ok || business.OwnerID.Hex() != userID {
		return nil, models.ErrNotFound
	}
	clone := *business
	return &clone, nil
}

func (r *fakeBusinessRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Business
	for _, business := range r.businesses {
		if business.OwnerID.Hex() == userID {
			clone := *business
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeBusinessRepo) Merge(ctx context.Context, userID, businessID string, update models.BusinessUpdate) error {
	r.mu.Lock()
	business, ok := r.businesses[businessID]
	if !ok || business.OwnerID.Hex() != userID {
		r.mu.Unlock()
		return models.ErrNotFound
	}
	if update.Name != nil {
		business.Name = *update.Name
	}
	if update.Description != nil {
		business.Description = *update.Description
	}
	if update.Phone != nil {
		business.Phone = *update.Phone
	}
	business.UpdatedAt = time.Now()
	r.mu.Unlock()
	if r.hub != nil {
		r.hub.Publish(mongodb.BusinessesScope(userID))
	}
	return nil
}

func (r *fakeBusinessRepo) Delete(ctx context.Context, userID, businessID string) error {
	r.mu.Lock()
	delete(r.businesses, businessID)
	r.mu.Unlock()
	if r.hub != nil {
		r.hub.Publish(mongodb.BusinessesScope(userID))
	}
	return nil
}

func (r *fakeBusinessRepo) Watch(ctx context.Context, userID string) (<-chan []*models.Business, context.CancelFunc, error) {
	ch, cancel := stream.Snapshots(ctx, r.hub, mongodb.BusinessesScope(userID), func(ctx context.Context) ([]*models.Business, error) {
		return r.ListByOwner(ctx, userID)
	})
	return ch, cancel, nil
}

type fakeComplianceRepo struct {
	mu    sync.Mutex
	items map[string]*models.ComplianceItem
	hub   *stream.Hub
}

func newFakeComplianceRepo(hub *stream.Hub) *fakeComplianceRepo {
	return &fakeComplianceRepo{
		items: map[string]*models.ComplianceItem{},
		hub:   hub,
	}
}

func (r *fakeComplianceRepo) stamp(userID, businessID string, item *models.ComplianceItem) error {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.ErrUnauthenticated
	}
	business, err := primitive.ObjectIDFromHex(businessID)
	if err != nil {
		return models.ErrMissingBusinessData
	}
	now := time.Now()
	item.ID = primitive.NewObjectID()
	item.OwnerID = owner
	item.BusinessID = business
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (r *fakeComplianceRepo) Create(ctx context.Context, userID, businessID string, item *models.ComplianceItem) (string, error) {
	if err := r.stamp(userID, businessID, item); err != nil {
		return "", err
	}
	r.mu.Lock()
	r.items[item.ID.Hex()] = item
	r.mu.Unlock()
	if r.hub != nil {
		r.hub.Publish(mongodb.ComplianceScope(userID, businessID))
	}
	return item.ID.Hex(), nil
}

func (r *fakeComplianceRepo) CreateMany(ctx context.Context, userID, businessID string, items []*models.ComplianceItem) ([]string, error) {
	ids := make([]string, 0, len(items))
	r.mu.Lock()
	for _, item := range items {
		if err := r.stamp(userID, businessID, item); err != nil {
			r.mu.Unlock()
			return nil, err
		}
		r.items[item.ID.Hex()] = item
		ids = append(ids, item.ID.Hex())
	}
	r.mu.Unlock()
	if r.hub != nil {
		r.hub.Publish(mongodb.ComplianceScope(userID, businessID))
	}
	return ids, nil
}

func (r *fakeComplianceRepo) GetByID(ctx context.Context, userID, businessID, itemID string) (*models.ComplianceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.OwnerID.Hex() != userID || item.BusinessID.Hex() != businessID {
		return nil, models.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *fakeComplianceRepo) ListByBusiness(ctx context.Context, userID, businessID string) ([]*models.ComplianceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.ComplianceItem
	for _, item := range r.items {
		if item.OwnerID.Hex() == userID && item.BusinessID.Hex() == businessID {
			clone := *item
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeComplianceRepo) Merge(ctx context.Context, userID, businessID, itemID string, update models.ComplianceItemUpdate) error {
	r.mu.Lock()
	item, ok := r.items[itemID]
	if !ok {
		r.mu.Unlock()
		return models.ErrNotFound
	}
	if update.Status != nil {
		item.Status = *update.Status
	}
	if update.LastCompletedDate != nil {
		item.LastCompletedDate = update.LastCompletedDate
	}
	if update.Title != nil {
		item.Title = *update.Title
	}
	item.UpdatedAt = time.Now()
	r.mu.Unlock()
	if r.hub != nil {
		r.hub.Publish(mongodb.ComplianceScope(userID, businessID))
	}
	return nil
}

func (r *fakeComplianceRepo) Delete(ctx context.Context, userID, businessID, itemID string) error {
	r.mu.Lock()
	delete(r.items, itemID)
	r.mu.Unlock()
	if r.hub != nil {
		r.hub.Publish(mongodb.ComplianceScope(userID, businessID))
	}
	return nil
}

func (r *fakeComplianceRepo) Watch(ctx context.Context, userID, businessID string) (<-chan []*models.ComplianceItem, context.CancelFunc, error) {
	ch, cancel := stream.Snapshots(ctx, r.hub, mongodb.ComplianceScope(userID, businessID), func(ctx context.Context) ([]*models.ComplianceItem, error) {
		return r.ListByBusiness(ctx, userID, businessID)
	})
	return ch, cancel, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.AuthToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*models.AuthToken{}}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *models.AuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now()
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.AuthToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *token
	return &clone, nil
}

func (r *fakeTokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token, ok := r.tokens[tokenHash]; ok {
		token.IsRevoked = true
	}
	return nil
}

// fakeLLM replays scripted replies in order and returns a fixed extraction
// result.
type fakeLLM struct {
	mu          sync.Mutex
	replies     []string
	replyErr    error
	drafts      []models.ComplianceDraft
	extractErr  error
	seenHistory [][]models.ChatEntry
}

func (f *fakeLLM) Converse(ctx context.Context, history []models.ChatEntry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seenHistory = append(f.seenHistory, append([]models.ChatEntry(nil), history...))
	if f.replyErr != nil {
		return "", f.replyErr
	}
	if len(f.replies) == 0 {
		return "Tell me more about your business.", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeLLM) ExtractComplianceItems(ctx context.Context, history []models.ChatEntry) ([]models.ComplianceDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.drafts, nil
}
