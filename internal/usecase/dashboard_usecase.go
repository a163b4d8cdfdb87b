package usecase

import (
	"context"
	"errors"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/complyhq/complybot/internal/models"
	"github.com/complyhq/complybot/internal/repo/mongodb"
	"github.com/complyhq/complybot/internal/stream"
)

// DashboardUsecase aggregates the profile, the active business, and its
// compliance items into one view, either as a point-in-time read or as a
// live stream that re-emits on every underlying change.
type DashboardUsecase interface {
	GetDashboard(ctx context.Context, userID string) (*models.Dashboard, error)
	WatchDashboard(ctx context.Context, userID string) (<-chan *models.Dashboard, context.CancelFunc, error)
}

type dashboardUsecase struct {
	profileRepo    mongodb.ProfileRepository
	businessRepo   mongodb.BusinessRepository
	complianceRepo mongodb.ComplianceRepository
	hub            *stream.Hub
}

func NewDashboardUsecase(
	profileRepo mongodb.ProfileRepository,
	businessRepo mongodb.BusinessRepository,
	complianceRepo mongodb.ComplianceRepository,
	hub *stream.Hub,
) DashboardUsecase {
	return &dashboardUsecase{
		profileRepo:    profileRepo,
		businessRepo:   businessRepo,
		complianceRepo: complianceRepo,
		hub:            hub,
	}
}

// GetDashboard builds the dashboard for the user's first business. The data
// model permits several businesses per user but the dashboard tracks one
// active business at a time.
func (uc *dashboardUsecase) GetDashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	profile, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.HasCompletedOnboarding {
		return &models.Dashboard{User: profile, RedirectToOnboarding: true}, nil
	}

	businesses, err := uc.businessRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	if len(businesses) == 0 {
		return &models.Dashboard{User: profile, RedirectToOnboarding: true}, nil
	}
	business := businesses[0]

	items, err := uc.complianceRepo.ListByBusiness(ctx, userID, business.ID.Hex())
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("list compliance items: %w", err)
	}

	dashboard := &models.Dashboard{
		User:       profile,
		Business:   business,
		TotalItems: len(items),
	}
	byCategory := map[models.ComplianceCategory][]*models.ComplianceItem{}
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
		if item.Status == models.StatusCompleted {
			dashboard.CompletedItems++
		}
	}
	for _, category := range models.ComplianceCategories {
		if grouped := byCategory[category]; len(grouped) > 0 {
			dashboard.Groups = append(dashboard.Groups, models.CategoryGroup{
				Category: category,
				Items:    grouped,
			})
		}
	}
	return dashboard, nil
}

// WatchDashboard streams dashboard snapshots. It always follows the profile
// and business scopes; the compliance subscription is retargeted whenever
// the active business changes. The first snapshot is emitted immediately.
func (uc *dashboardUsecase) WatchDashboard(ctx context.Context, userID string) (<-chan *models.Dashboard, context.CancelFunc, error) {
	if _, err := uc.profileRepo.GetByID(ctx, userID); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	profileTicks, _ := uc.hub.Subscribe(ctx, mongodb.ProfileScope(userID))
	businessTicks, _ := uc.hub.Subscribe(ctx, mongodb.BusinessesScope(userID))
	out := make(chan *models.Dashboard, 1)

	go func() {
		defer close(out)

		var (
			complianceTicks   <-chan struct{}
			complianceStop    context.CancelFunc
			watchedBusinessID string
		)
		defer func() {
			if complianceStop != nil {
				complianceStop()
			}
		}()

		retarget := func(businessID string) {
			if businessID == watchedBusinessID {
				return
			}
			if complianceStop != nil {
				complianceStop()
				complianceTicks = nil
			}
			watchedBusinessID = businessID
			if businessID != "" {
				complianceTicks, complianceStop = uc.hub.Subscribe(ctx, mongodb.ComplianceScope(userID, businessID))
			}
		}

		emit := func() {
			dashboard, err := uc.GetDashboard(ctx, userID)
			if err != nil {
				if ctx.Err() == nil {
					log.Warnw(ctx, "dashboard snapshot failed", "user_id", userID, "error", err)
				}
				return
			}
			businessID := ""
			if dashboard.Business != nil {
				businessID = dashboard.Business.ID.Hex()
			}
			retarget(businessID)
			// latest-wins: a stale pending snapshot is dropped, not queued
			select {
			case out <- dashboard:
			default:
				select {
				case <-out:
				default:
				}
				select {
				case out <- dashboard:
				default:
				}
			}
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-profileTicks:
				emit()
			case <-businessTicks:
				emit()
			case <-complianceTicks:
				emit()
			}
		}
	}()

	return out, cancel, nil
}
