package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymetra/internal/caching"
	"gymetra/internal/common"
	"gymetra/internal/models"
	"gymetra/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MembershipService manages the plan catalog.
type MembershipService interface {
	Create(ctx context.Context, input PlanInput) (*models.MembershipPlan, error)
	GetByID(ctx context.Context, id int) (*models.MembershipPlan, error)
	List(ctx context.Context, limit, offset int) ([]*models.MembershipPlan, error)
	Update(ctx context.Context, id int, input PlanInput) (*models.MembershipPlan, error)
	Delete(ctx context.Context, id int) error
}

type PlanInput struct {
	PlanName     string
	DurationDays int
	Price        decimal.Decimal
	Status       models.PlanStatus
	Description  *string
}

type membershipService struct {
	repo     repositories.MembershipRepository
	cacheSvc caching.CacheService
	cacheTTL time.Duration
	logger   zerolog.Logger
}

func NewMembershipService(repo repositories.MembershipRepository, cacheSvc caching.CacheService, cacheTTL time.Duration, logger zerolog.Logger) MembershipService {
	return &membershipService{
		repo:     repo,
		cacheSvc: cacheSvc,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
}

func (input *PlanInput) normalize() error {
	input.PlanName = strings.TrimSpace(input.PlanName)
	if input.PlanName == "" {
		return fmt.Errorf("plan name is required: %w", common.ErrValidation)
	}
	if input.DurationDays <= 0 {
		return fmt.Errorf("duration days must be positive: %w", common.ErrValidation)
	}
	if input.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative: %w", common.ErrValidation)
	}
	if input.Status == "" {
		input.Status = models.PlanStatusActive
	}
	if !input.Status.Valid() {
		return fmt.Errorf("invalid plan status %q: %w", input.Status, common.ErrValidation)
	}
	return nil
}

func (s *membershipService) Create(ctx context.Context, input PlanInput) (*models.MembershipPlan, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, input.PlanName, 0); err != nil {
		return nil, err
	}

	plan := &models.MembershipPlan{
		PlanName:     input.PlanName,
		DurationDays: input.DurationDays,
		Price:        input.Price,
		Status:       input.Status,
		Description:  input.Description,
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *membershipService) ensureUniqueName(ctx context.Context, name string, excludeID int) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("check plan name: %w", err)
	}
	if exists {
		return fmt.Errorf("plan %q: %w", name, common.ErrDuplicatePlanName)
	}
	return nil
}

// GetByID reads through the plan cache. Cache errors only degrade to a store read.
func (s *membershipService) GetByID(ctx context.Context, id int) (*models.MembershipPlan, error) {
	cached, err := s.cacheSvc.GetPlan(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Int("plan_id", id).Msg("plan cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetPlan(ctx, plan, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Int("plan_id", id).Msg("plan cache write failed")
	}
	return plan, nil
}

func (s *membershipService) List(ctx context.Context, limit, offset int) ([]*models.MembershipPlan, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.repo.List(ctx, limit, offset)
}

func (s *membershipService) Update(ctx context.Context, id int, input PlanInput) (*models.MembershipPlan, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(plan.PlanName, input.PlanName) {
		if err := s.ensureUniqueName(ctx, input.PlanName, id); err != nil {
			return nil, err
		}
	}

	plan.PlanName = input.PlanName
	plan.DurationDays = input.DurationDays
	plan.Price = input.Price
	plan.Status = input.Status
	plan.Description = input.Description
	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return plan, nil
}

func (s *membershipService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *membershipService) invalidate(ctx context.Context, id int) {
	if err := s.cacheSvc.DeletePlan(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int("plan_id", id).Msg("plan cache invalidation failed")
	}
}
