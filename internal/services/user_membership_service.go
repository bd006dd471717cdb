package services

import (
	"context"
	"fmt"
	"time"

	"gymetra/internal/common"
	"gymetra/internal/models"
	"gymetra/internal/repositories"

	"github.com/rs/zerolog"
)

// UserMembershipService governs the subscription lifecycle of each user.
type UserMembershipService interface {
	CreateOrUpdate(ctx context.Context, req SubscriptionRequest) (*models.UserMembership, error)
	TransitionStatus(ctx context.Context, id int, status models.MembershipStatus) (*models.UserMembership, error)
	LatestActive(ctx context.Context, userID int) (*models.UserMembership, error)
	RemainingDays(membership *models.UserMembership) int
	PurgeStalePending(ctx context.Context, maxAge time.Duration) (int64, error)

	GetByID(ctx context.Context, id int) (*models.UserMembership, error)
	List(ctx context.Context, limit, offset int) ([]*models.UserMembership, error)
	ListByUser(ctx context.Context, userID int) ([]*models.UserMembership, error)
	HasPending(ctx context.Context, userID int) (bool, error)
	Delete(ctx context.Context, id int) error
}

// SubscriptionRequest is a renewal request. Nil dates and an empty status
// are filled with defaults.
type SubscriptionRequest struct {
	UserID       int
	MembershipID int
	StartDate    *time.Time
	EndDate      *time.Time
	Status       models.MembershipStatus
}

// PlanLookup resolves catalog plans by id.
type PlanLookup interface {
	GetByID(ctx context.Context, id int) (*models.MembershipPlan, error)
}

type userMembershipService struct {
	repo   repositories.UserMembershipRepository
	plans  PlanLookup
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserMembershipService(repo repositories.UserMembershipRepository, plans PlanLookup, logger zerolog.Logger) UserMembershipService {
	return &userMembershipService{
		repo:   repo,
		plans:  plans,
		logger: logger.With().Str("component", "lifecycle").Logger(),
		now:    time.Now,
	}
}

// dateOf drops the clock part of t, keeping its calendar date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *userMembershipService) CreateOrUpdate(ctx context.Context, req SubscriptionRequest) (*models.UserMembership, error) {
	if req.StartDate != nil && req.EndDate != nil && dateOf(*req.EndDate).Before(dateOf(*req.StartDate)) {
		return nil, common.ErrInvalidDateRange
	}
	if req.UserID <= 0 || req.MembershipID <= 0 {
		return nil, fmt.Errorf("user and membership ids are required: %w", common.ErrValidation)
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, fmt.Errorf("invalid membership status %q: %w", req.Status, common.ErrValidation)
	}

	plan, err := s.plans.GetByID(ctx, req.MembershipID)
	if err != nil {
		return nil, err
	}

	start := dateOf(s.now())
	if req.StartDate != nil {
		start = dateOf(*req.StartDate)
	}
	end := start.AddDate(0, 0, plan.DurationDays)
	if req.EndDate != nil {
		end = dateOf(*req.EndDate)
	}
	if end.Before(start) {
		return nil, common.ErrInvalidDateRange
	}

	var result *models.UserMembership
	err = s.repo.WithinUserLock(ctx, req.UserID, func(tx repositories.UserMembershipRepository) error {
		pending, err := tx.ExistsByUserAndStatus(ctx, req.UserID, models.MembershipStatusPending)
		if err != nil {
			return fmt.Errorf("check pending membership: %w", err)
		}
		if pending {
			return common.ErrConflictingPendingSubscription
		}

		existing, err := tx.ListByUser(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("list memberships: %w", err)
		}

		if len(existing) > 0 {
			latest := existing[0]
			switch latest.Status {
			case models.MembershipStatusExpired:
				latest.StartDate = start
				latest.EndDate = end
				latest.Status = models.MembershipStatusActive
				latest.CreatedAt = s.now()
				if err := tx.Update(ctx, latest); err != nil {
					return err
				}
				s.logger.Info().Int("user_id", req.UserID).Int("membership_id", latest.ID).Msg("expired membership reactivated")
				result = latest
				return nil
			case models.MembershipStatusCanceled:
				// Only the end date moves; status stays CANCELED until an explicit activation.
				if end.Before(dateOf(latest.StartDate)) {
					return common.ErrInvalidDateRange
				}
				latest.EndDate = end
				latest.CreatedAt = s.now()
				if err := tx.Update(ctx, latest); err != nil {
					return err
				}
				s.logger.Info().Int("user_id", req.UserID).Int("membership_id", latest.ID).Msg("canceled membership extended")
				result = latest
				return nil
			}
		}

		status := req.Status
		if status == "" {
			status = models.MembershipStatusPending
		}
		created := &models.UserMembership{
			UserID:       req.UserID,
			MembershipID: req.MembershipID,
			StartDate:    start,
			EndDate:      end,
			Status:       status,
			CreatedAt:    s.now(),
		}
		if err := tx.Create(ctx, created); err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *userMembershipService) TransitionStatus(ctx context.Context, id int, status models.MembershipStatus) (*models.UserMembership, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid membership status %q: %w", status, common.ErrValidation)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// LatestActive returns the user's ACTIVE membership ending last.
func (s *userMembershipService) LatestActive(ctx context.Context, userID int) (*models.UserMembership, error) {
	memberships, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var latest *models.UserMembership
	for _, m := range memberships {
		if m.Status != models.MembershipStatusActive {
			continue
		}
		if latest == nil || m.EndDate.After(latest.EndDate) {
			latest = m
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no active membership for user %d: %w", userID, common.ErrNotFound)
	}
	return latest, nil
}

// RemainingDays is the signed number of days from today to the end date.
func (s *userMembershipService) RemainingDays(membership *models.UserMembership) int {
	today := dateOf(s.now())
	return int(dateOf(membership.EndDate).Sub(today) / (24 * time.Hour))
}

func (s *userMembershipService) PurgeStalePending(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, fmt.Errorf("max age must be positive: %w", common.ErrValidation)
	}
	cutoff := s.now().Add(-maxAge)
	return s.repo.DeleteByStatusCreatedBefore(ctx, models.MembershipStatusPending, cutoff)
}

func (s *userMembershipService) GetByID(ctx context.Context, id int) (*models.UserMembership, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userMembershipService) List(ctx context.Context, limit, offset int) ([]*models.UserMembership, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.repo.List(ctx, limit, offset)
}

func (s *userMembershipService) ListByUser(ctx context.Context, userID int) ([]*models.UserMembership, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *userMembershipService) HasPending(ctx context.Context, userID int) (bool, error) {
	return s.repo.ExistsByUserAndStatus(ctx, userID, models.MembershipStatusPending)
}

func (s *userMembershipService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
