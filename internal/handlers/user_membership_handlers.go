package handlers

import (
	"net/http"

	"gymetra/internal/common"
	"gymetra/internal/models"
	"gymetra/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// UserMembershipHandlers exposes the subscription lifecycle
type UserMembershipHandlers struct {
	lifecycle services.UserMembershipService
	logger    zerolog.Logger
}

func NewUserMembershipHandlers(lifecycle services.UserMembershipService, logger zerolog.Logger) *UserMembershipHandlers {
	return &UserMembershipHandlers{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// SubscribeRequest is a create-or-renew payload. Dates use YYYY-MM-DD.
type SubscribeRequest struct {
	UserID       *int   `json:"user_id" validate:"omitempty,gt=0"`
	MembershipID int    `json:"membership_id" validate:"required,gt=0"`
	StartDate    string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status       string `json:"status" validate:"omitempty,oneof=PENDING ACTIVE SUSPENDED CANCELED EXPIRED"`
}

type RemainingDaysResponse struct {
	UserMembershipID int    `json:"user_membership_id"`
	EndDate          string `json:"end_date"`
	RemainingDays    int    `json:"remaining_days"`
}

// CreateOrUpdate creates a subscription or renews the latest expired/canceled one
func (h *UserMembershipHandlers) CreateOrUpdate(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	var req SubscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	userID := caller.UserID
	if req.UserID != nil {
		userID = *req.UserID
	}
	if err := ownerOrAdmin(caller, userID); err != nil {
		return err
	}
	if req.Status != "" && !selfServiceStatus(models.MembershipStatus(req.Status), true) {
		if err := adminOnly(caller); err != nil {
			return err
		}
	}

	startDate, err := common.ParseDate(req.StartDate, "start_date")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	endDate, err := common.ParseDate(req.EndDate, "end_date")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	membership, err := h.lifecycle.CreateOrUpdate(c.Request().Context(), services.SubscriptionRequest{
		UserID:       userID,
		MembershipID: req.MembershipID,
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       models.MembershipStatus(req.Status),
	})
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to save user membership")
	}
	return c.JSON(http.StatusOK, membership)
}

type ListUserMembershipsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *UserMembershipHandlers) List(c echo.Context) error {
	var req ListUserMembershipsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	memberships, err := h.lifecycle.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to list user memberships")
	}
	if memberships == nil {
		memberships = []*models.UserMembership{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_memberships": memberships,
		"limit":            req.Limit,
		"offset":           req.Offset,
	})
}

// load fetches a subscription and checks the caller may see it.
func (h *UserMembershipHandlers) load(c echo.Context) (*models.UserMembership, error) {
	caller, err := callerFromContext(c)
	if err != nil {
		return nil, err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return nil, err
	}
	membership, err := h.lifecycle.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to get user membership")
	}
	if err := ownerOrAdmin(caller, membership.UserID); err != nil {
		return nil, err
	}
	return membership, nil
}

func (h *UserMembershipHandlers) Get(c echo.Context) error {
	membership, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, membership)
}

func (h *UserMembershipHandlers) Activate(c echo.Context) error {
	return h.transition(c, models.MembershipStatusActive)
}

func (h *UserMembershipHandlers) Suspend(c echo.Context) error {
	return h.transition(c, models.MembershipStatusSuspended)
}

func (h *UserMembershipHandlers) Cancel(c echo.Context) error {
	return h.transition(c, models.MembershipStatusCanceled)
}

// UpdateStatus sets the status named by the ?status= query parameter.
func (h *UserMembershipHandlers) UpdateStatus(c echo.Context) error {
	status := models.MembershipStatus(c.QueryParam("status"))
	if !status.Valid() {
		return common.SendValidationError(c, map[string]string{"status": "must be one of: PENDING ACTIVE SUSPENDED CANCELED EXPIRED"})
	}
	return h.transition(c, status)
}

// selfServiceStatus reports whether an owner may set status without an admin.
// On creation only PENDING is allowed.
func selfServiceStatus(status models.MembershipStatus, creating bool) bool {
	if creating {
		return status == models.MembershipStatusPending
	}
	return status == models.MembershipStatusSuspended || status == models.MembershipStatusCanceled
}

func (h *UserMembershipHandlers) transition(c echo.Context, status models.MembershipStatus) error {
	membership, err := h.load(c)
	if err != nil {
		return err
	}
	if !selfServiceStatus(status, false) {
		caller, err := callerFromContext(c)
		if err != nil {
			return err
		}
		if err := adminOnly(caller); err != nil {
			return err
		}
	}
	updated, err := h.lifecycle.TransitionStatus(c.Request().Context(), membership.ID, status)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to update user membership status")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *UserMembershipHandlers) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.lifecycle.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(h.logger, err, "Failed to delete user membership")
	}
	return c.NoContent(http.StatusNoContent)
}

// userParam resolves :userId and checks the caller may act for that user.
func userParam(c echo.Context) (int, error) {
	caller, err := callerFromContext(c)
	if err != nil {
		return 0, err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return 0, err
	}
	if err := ownerOrAdmin(caller, userID); err != nil {
		return 0, err
	}
	return userID, nil
}

func (h *UserMembershipHandlers) ListByUser(c echo.Context) error {
	userID, err := userParam(c)
	if err != nil {
		return err
	}
	memberships, err := h.lifecycle.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to list user memberships")
	}
	if memberships == nil {
		memberships = []*models.UserMembership{}
	}
	return c.JSON(http.StatusOK, memberships)
}

// RemainingDays reports the days left on the user's latest ACTIVE membership.
func (h *UserMembershipHandlers) RemainingDays(c echo.Context) error {
	userID, err := userParam(c)
	if err != nil {
		return err
	}
	latest, err := h.lifecycle.LatestActive(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to compute remaining days")
	}
	return c.JSON(http.StatusOK, RemainingDaysResponse{
		UserMembershipID: latest.ID,
		EndDate:          latest.EndDate.Format(common.DateLayout),
		RemainingDays:    h.lifecycle.RemainingDays(latest),
	})
}

func (h *UserMembershipHandlers) HasPending(c echo.Context) error {
	userID, err := userParam(c)
	if err != nil {
		return err
	}
	pending, err := h.lifecycle.HasPending(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to check pending membership")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":     userID,
		"has_pending": pending,
	})
}
