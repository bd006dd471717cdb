package handlers

import (
	"net/http"

	"gymetra/internal/common"
	"gymetra/internal/services"

	"github.com/labstack/echo/v4"
)

func callerFromContext(c echo.Context) (services.Caller, error) {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return services.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	role, _ := common.GetRoleFromContext(ctx)
	return services.Caller{UserID: userID, Role: role}, nil
}

func pathID(c echo.Context, name string) (int, error) {
	id, err := common.ParseID(c.Param(name), name)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return id, nil
}

// adminOnly rejects non-admin callers.
func adminOnly(caller services.Caller) error {
	if !caller.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, common.ErrForbidden.Error())
	}
	return nil
}

// ownerOrAdmin rejects callers that are neither the owner nor an admin.
func ownerOrAdmin(caller services.Caller, ownerID int) error {
	if !caller.CanAccessUser(ownerID) {
		return echo.NewHTTPError(http.StatusForbidden, common.ErrForbidden.Error())
	}
	return nil
}
