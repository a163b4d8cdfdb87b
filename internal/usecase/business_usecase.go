package usecase

import (
	"context"

	"github.com/complyhq/complybot/internal/models"
	"github.com/complyhq/complybot/internal/repo/mongodb"
)

// BusinessUsecase exposes CRUD over the caller's own businesses. Ownership
// always comes from the authenticated user; the store rejects cross-owner
// access as not found.
type BusinessUsecase interface {
	Create(ctx context.Context, userID string, input models.BusinessInput) (*models.Business, error)
	Get(ctx context.Context, userID, businessID string) (*models.Business, error)
	List(ctx context.Context, userID string) ([]*models.Business, error)
	Update(ctx context.Context, userID, businessID string, update models.BusinessUpdate) (*models.Business, error)
	Delete(ctx context.Context, userID, businessID string) error
	Watch(ctx context.Context, userID string) (<-chan []*models.Business, context.CancelFunc, error)
}

type businessUsecase struct {
	businessRepo mongodb.BusinessRepository
}

func NewBusinessUsecase(businessRepo mongodb.BusinessRepository) BusinessUsecase {
	return &businessUsecase{businessRepo: businessRepo}
}

func (uc *businessUsecase) Create(ctx context.Context, userID string, input models.BusinessInput) (*models.Business, error) {
	businessID, err := uc.businessRepo.Create(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	return uc.businessRepo.GetByID(ctx, userID, businessID)
}

func (uc *businessUsecase) Get(ctx context.Context, userID, businessID string) (*models.Business, error) {
	return uc.businessRepo.GetByID(ctx, userID, businessID)
}

func (uc *businessUsecase) List(ctx context.Context, userID string) ([]*models.Business, error) {
	return uc.businessRepo.ListByOwner(ctx, userID)
}

func (uc *businessUsecase) Update(ctx context.Context, userID, businessID string, update models.BusinessUpdate) (*models.Business, error) {
	if err := uc.businessRepo.Merge(ctx, userID, businessID, update); err != nil {
		return nil, err
	}
	return uc.businessRepo.GetByID(ctx, userID, businessID)
}

func (uc *businessUsecase) Delete(ctx context.Context, userID, businessID string) error {
	return uc.businessRepo.Delete(ctx, userID, businessID)
}

func (uc *businessUsecase) Watch(ctx context.Context, userID string) (<-chan []*models.Business, context.CancelFunc, error) {
	return uc.businessRepo.Watch(ctx, userID)
}
