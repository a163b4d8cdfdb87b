package usecase

import (
	"context"
	"time"

	"github.com/complyhq/complybot/internal/models"
	"github.com/complyhq/complybot/internal/repo/mongodb"
)

// ComplianceUsecase manages the compliance items of one business, always
// scoped to the authenticated owner.
type ComplianceUsecase interface {
	Create(ctx context.Context, userID, businessID string, item *models.ComplianceItem) (*models.ComplianceItem, error)
	Get(ctx context.Context, userID, businessID, itemID string) (*models.ComplianceItem, error)
	List(ctx context.Context, userID, businessID string) ([]*models.ComplianceItem, error)
	Update(ctx context.Context, userID, businessID, itemID string, update models.ComplianceItemUpdate) (*models.ComplianceItem, error)
	Complete(ctx context.Context, userID, businessID, itemID string) (*models.ComplianceItem, error)
	Delete(ctx context.Context, userID, businessID, itemID string) error
	Watch(ctx context.Context, userID, businessID string) (<-chan []*models.ComplianceItem, context.CancelFunc, error)
}

type complianceUsecase struct {
	complianceRepo mongodb.ComplianceRepository
}

func NewComplianceUsecase(complianceRepo mongodb.ComplianceRepository) ComplianceUsecase {
	return &complianceUsecase{complianceRepo: complianceRepo}
}

func (uc *complianceUsecase) Create(ctx context.Context, userID, businessID string, item *models.ComplianceItem) (*models.ComplianceItem, error) {
	itemID, err := uc.complianceRepo.Create(ctx, userID, businessID, item)
	if err != nil {
		return nil, err
	}
	return uc.complianceRepo.GetByID(ctx, userID, businessID, itemID)
}

func (uc *complianceUsecase) Get(ctx context.Context, userID, businessID, itemID string) (*models.ComplianceItem, error) {
	return uc.complianceRepo.GetByID(ctx, userID, businessID, itemID)
}

func (uc *complianceUsecase) List(ctx context.Context, userID, businessID string) ([]*models.ComplianceItem, error) {
	return uc.complianceRepo.ListByBusiness(ctx, userID, businessID)
}

func (uc *complianceUsecase) Update(ctx context.Context, userID, businessID, itemID string, update models.ComplianceItemUpdate) (*models.ComplianceItem, error) {
	if err := uc.complianceRepo.Merge(ctx, userID, businessID, itemID, update); err != nil {
		return nil, err
	}
	return uc.complianceRepo.GetByID(ctx, userID, businessID, itemID)
}

// Complete marks an item done and stamps the completion date.
func (uc *complianceUsecase) Complete(ctx context.Context, userID, businessID, itemID string) (*models.ComplianceItem, error) {
	status := models.StatusCompleted
	now := time.Now()
	return uc.Update(ctx, userID, businessID, itemID, models.ComplianceItemUpdate{
		Status:            &status,
		LastCompletedDate: &now,
	})
}

func (uc *complianceUsecase) Delete(ctx context.Context, userID, businessID, itemID string) error {
	return uc.complianceRepo.Delete(ctx, userID, businessID, itemID)
}

func (uc *complianceUsecase) Watch(ctx context.Context, userID, businessID string) (<-chan []*models.ComplianceItem, context.CancelFunc, error) {
	return uc.complianceRepo.Watch(ctx, userID, businessID)
}
