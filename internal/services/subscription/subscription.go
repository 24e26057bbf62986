// Package services contains the subscription business logic: taking
// out a plan, inspecting one's own subscription and the admin actions
// of renewing and cancelling, plus plan management.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/models"
	"github.com/jotanews/content-api/internal/storage/repository"
)

// Term of a freshly taken subscription.
const subscriptionTerm = 30 * 24 * time.Hour

var (
	ErrNotFound          = errors.New("subscription not found")
	ErrForbidden         = errors.New("permission denied")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrAlreadySubscribed = errors.New("user already has an active subscription")
	ErrUnknownCategory   = errors.New("unknown category")
)

// SubscriptionRepository defines the storage methods the service needs.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.UserSubscription) (int64, error)
	GetSubscription(ctx context.Context, id int64) (*models.UserSubscription, error)
	GetActiveSubscriptionByUserUID(ctx context.Context, userUID string) (*models.UserSubscription, error)
	RenewSubscription(ctx context.Context, id int64, extension time.Duration) (int, error)
	CancelSubscription(ctx context.Context, id int64) (int, error)
	CreatePlan(ctx context.Context, plan models.SubscriptionPlan) (int64, error)
	GetPlan(ctx context.Context, id int64) (*models.SubscriptionPlan, error)
	ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	ListCategoriesByIDs(ctx context.Context, ids []int64) ([]models.Category, error)
}

// SubscriptionService implements subscription and plan management.
type SubscriptionService struct {
	repo SubscriptionRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, log: log, now: time.Now}
}

// Subscribe puts the user on the given plan for a 30 day term. A user
// holds at most one active subscription; a second attempt fails with
// ErrAlreadySubscribed.
func (s *SubscriptionService) Subscribe(ctx context.Context, userUID string, planID int64) (*models.UserSubscription, error) {
	existing, err := s.repo.GetActiveSubscriptionByUserUID(ctx, userUID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySubscribed
	}

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	now := s.now()
	sub := models.UserSubscription{
		UserUID:   userUID,
		Plan:      *plan,
		StartDate: now,
		EndDate:   now.Add(subscriptionTerm),
		IsActive:  true,
	}
	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id
	s.log.Info("created subscription",
		slog.Int64("id", id), slog.String("user_uid", userUID), slog.String("plan", plan.Name))
	return &sub, nil
}

// My returns the requester's active subscription, or ErrNotFound.
func (s *SubscriptionService) My(ctx context.Context, userUID string) (*models.UserSubscription, error) {
	sub, err := s.repo.GetActiveSubscriptionByUserUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// ActiveSubscription returns the user's active subscription or nil
// when there is none. Used while building the request identity, where
// a missing subscription is the normal case, not an error.
func (s *SubscriptionService) ActiveSubscription(ctx context.Context, userUID string) (*models.UserSubscription, error) {
	sub, err := s.repo.GetActiveSubscriptionByUserUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// Renew extends a subscription by another 30 day term and reactivates
// it. Admin only.
func (s *SubscriptionService) Renew(ctx context.Context, requester access.Requester, id int64) error {
	if requester.Role != models.RoleAdmin {
		return ErrForbidden
	}

	count, err := s.repo.RenewSubscription(ctx, id, subscriptionTerm)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.log.Info("renewed subscription", slog.Int64("id", id))
	return nil
}

// Cancel deactivates a subscription, keeping the record. Admin only.
func (s *SubscriptionService) Cancel(ctx context.Context, requester access.Requester, id int64) error {
	if requester.Role != models.RoleAdmin {
		return ErrForbidden
	}

	count, err := s.repo.CancelSubscription(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.log.Info("cancelled subscription", slog.Int64("id", id))
	return nil
}

// CreatePlan registers a new plan with its category coverage. Admin
// only.
func (s *SubscriptionService) CreatePlan(ctx context.Context, requester access.Requester, req models.DummyPlan) (int64, error) {
	if requester.Role != models.RoleAdmin {
		return 0, ErrForbidden
	}

	categories, err := s.repo.ListCategoriesByIDs(ctx, req.CategoryIDs)
	if err != nil {
		return 0, err
	}
	if len(categories) != len(req.CategoryIDs) {
		return 0, ErrUnknownCategory
	}

	plan := models.SubscriptionPlan{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Categories:  categories,
	}
	id, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return 0, fmt.Errorf("create plan: %w", err)
	}
	s.log.Info("created plan", slog.Int64("id", id), slog.String("name", plan.Name))
	return id, nil
}

// ListPlans returns all plans, cheapest first. Open to everyone so the
// paywall can show the offer.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	return s.repo.ListPlans(ctx)
}
