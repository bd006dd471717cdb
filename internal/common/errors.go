package common

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound                       = errors.New("not found")
	ErrValidation                     = errors.New("validation failed")
	ErrInvalidDateRange               = errors.New("end date cannot be before start date")
	ErrConflictingPendingSubscription = errors.New("user already has a pending membership")
	ErrDuplicatePlanName              = errors.New("a membership plan with this name already exists")
	ErrPlanInUse                      = errors.New("membership plan is referenced by user memberships")
	ErrEmailTaken                     = errors.New("email is already registered")
	ErrInvalidCredentials             = errors.New("invalid credentials")
	ErrInvalidResetToken              = errors.New("invalid or expired reset token")
	ErrForbidden                      = errors.New("insufficient permissions")
	ErrSubscriptionHasPayments        = errors.New("user membership has recorded payments")
)

// PostgreSQL error codes the repositories translate.
const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
	PgCheckViolation      = "23514"
)

// PgErrorCode returns the SQLSTATE and constraint of a PostgreSQL error, if err is one.
func PgErrorCode(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	return "", "", false
}
