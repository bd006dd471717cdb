package handlers

import (
	"net/http"

	"gymetra/internal/models"
	"gymetra/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MembershipHandlers serves the plan catalog
type MembershipHandlers struct {
	membershipService services.MembershipService
	logger            zerolog.Logger
}

func NewMembershipHandlers(membershipService services.MembershipService, logger zerolog.Logger) *MembershipHandlers {
	return &MembershipHandlers{
		membershipService: membershipService,
		logger:            logger,
	}
}

// PlanRequest is the create/replace payload of a membership plan
type PlanRequest struct {
	PlanName     string          `json:"plan_name" validate:"required,max=100"`
	DurationDays int             `json:"duration_days" validate:"required,gt=0"`
	Price        decimal.Decimal `json:"price"`
	Status       string          `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	Description  *string         `json:"description"`
}

func (r PlanRequest) toInput() services.PlanInput {
	return services.PlanInput{
		PlanName:     r.PlanName,
		DurationDays: r.DurationDays,
		Price:        r.Price,
		Status:       models.PlanStatus(r.Status),
		Description:  r.Description,
	}
}

// ListPlansRequest represents query parameters for listing plans
type ListPlansRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *MembershipHandlers) ListPlans(c echo.Context) error {
	var req ListPlansRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	plans, err := h.membershipService.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to list membership plans")
	}
	if plans == nil {
		plans = []*models.MembershipPlan{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"memberships": plans,
		"limit":       req.Limit,
		"offset":      req.Offset,
	})
}

func (h *MembershipHandlers) GetPlan(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	plan, err := h.membershipService.GetByID(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to get membership plan")
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *MembershipHandlers) CreatePlan(c echo.Context) error {
	var req PlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	plan, err := h.membershipService.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to create membership plan")
	}
	return c.JSON(http.StatusCreated, plan)
}

func (h *MembershipHandlers) UpdatePlan(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req PlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	plan, err := h.membershipService.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to update membership plan")
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *MembershipHandlers) DeletePlan(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.membershipService.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(h.logger, err, "Failed to delete membership plan")
	}
	return c.NoContent(http.StatusNoContent)
}
