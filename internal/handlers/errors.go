package handlers

import (
	"errors"
	"net/http"

	"gymetra/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// toHTTPError maps domain errors onto HTTP responses. Unknown errors are
// logged and hidden behind a 500.
func toHTTPError(logger zerolog.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, common.ErrInvalidDateRange):
		return echo.NewHTTPError(http.StatusBadRequest, common.ErrInvalidDateRange.Error())
	case errors.Is(err, common.ErrConflictingPendingSubscription):
		return echo.NewHTTPError(http.StatusBadRequest, common.ErrConflictingPendingSubscription.Error())
	case errors.Is(err, common.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrDuplicatePlanName),
		errors.Is(err, common.ErrEmailTaken),
		errors.Is(err, common.ErrPlanInUse),
		errors.Is(err, common.ErrSubscriptionHasPayments):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrInvalidResetToken):
		return echo.NewHTTPError(http.StatusBadRequest, common.ErrInvalidResetToken.Error())
	case errors.Is(err, common.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, common.ErrForbidden.Error())
	}
	logger.Error().Err(err).Msg(fallback)
	return echo.NewHTTPError(http.StatusInternalServerError, fallback)
}
