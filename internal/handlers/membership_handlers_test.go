package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"gymetra/internal/common"
	"gymetra/internal/models"
	"gymetra/internal/services"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePlan(t *testing.T) {
	svc := new(MockMembershipService)
	h := NewMembershipHandlers(svc, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/v1/memberships",
		`{"plan_name":"Monthly","duration_days":30,"price":"39.99"}`, admin())
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in services.PlanInput) bool {
		return in.PlanName == "Monthly" && in.DurationDays == 30 && in.Price.Equal(decimal.RequireFromString("39.99"))
	})).Return(&models.MembershipPlan{ID: 1, PlanName: "Monthly", DurationDays: 30, Status: models.PlanStatusActive}, nil).Once()

	require.NoError(t, h.CreatePlan(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreatePlan_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate name", common.ErrDuplicatePlanName, http.StatusConflict},
		{"invalid price", fmt.Errorf("price must not be negative: %w", common.ErrValidation), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockMembershipService)
			h := NewMembershipHandlers(svc, zerolog.Nop())
			c, _ := newContext(http.MethodPost, "/v1/memberships", `{"plan_name":"Monthly","duration_days":30,"price":"1"}`, admin())
			svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			assert.Equal(t, tt.want, httpStatus(h.CreatePlan(c)))
		})
	}
}

func TestCreatePlan_ValidationFailure(t *testing.T) {
	h := NewMembershipHandlers(new(MockMembershipService), zerolog.Nop())
	c, _ := newContext(http.MethodPost, "/v1/memberships", `{"plan_name":"","duration_days":0}`, admin())

	err := h.CreatePlan(c)
	require.Equal(t, http.StatusBadRequest, httpStatus(err))
}

func TestGetPlan_NotFound(t *testing.T) {
	svc := new(MockMembershipService)
	h := NewMembershipHandlers(svc, zerolog.Nop())
	c, _ := newContext(http.MethodGet, "/v1/memberships/4", "", client(7))
	withParams(c, "id", "4")
	svc.On("GetByID", mock.Anything, 4).Return(nil, fmt.Errorf("membership plan 4: %w", common.ErrNotFound)).Once()

	assert.Equal(t, http.StatusNotFound, httpStatus(h.GetPlan(c)))
}

func TestDeletePlan_InUse(t *testing.T) {
	svc := new(MockMembershipService)
	h := NewMembershipHandlers(svc, zerolog.Nop())
	c, _ := newContext(http.MethodDelete, "/v1/memberships/4", "", admin())
	withParams(c, "id", "4")
	svc.On("Delete", mock.Anything, 4).Return(common.ErrPlanInUse).Once()

	assert.Equal(t, http.StatusConflict, httpStatus(h.DeletePlan(c)))
}

func TestListPlans_Empty(t *testing.T) {
	svc := new(MockMembershipService)
	h := NewMembershipHandlers(svc, zerolog.Nop())
	c, rec := newContext(http.MethodGet, "/v1/memberships", "", client(7))
	svc.On("List", mock.Anything, 0, 0).Return(nil, nil).Once()

	require.NoError(t, h.ListPlans(c))
	assert.JSONEq(t, `{"memberships":[],"limit":0,"offset":0}`, rec.Body.String())
}
