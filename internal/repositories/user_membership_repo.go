package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymetra/internal/common"
	"gymetra/internal/models"

	"github.com/jackc/pgx/v5"
)

// pendingIndex is the partial unique index that allows one PENDING row per user.
const pendingIndex = "ux_user_memberships_pending"

// datesCheck enforces end_date >= start_date.
const datesCheck = "chk_user_memberships_dates"

type UserMembershipRepository interface {
	Create(ctx context.Context, membership *models.UserMembership) error
	GetByID(ctx context.Context, id int) (*models.UserMembership, error)
	Update(ctx context.Context, membership *models.UserMembership) error
	UpdateStatus(ctx context.Context, id int, status models.MembershipStatus) (*models.UserMembership, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, limit, offset int) ([]*models.UserMembership, error)
	ListByUser(ctx context.Context, userID int) ([]*models.UserMembership, error)
	ExistsByUserAndStatus(ctx context.Context, userID int, status models.MembershipStatus) (bool, error)
	DeleteByStatusCreatedBefore(ctx context.Context, status models.MembershipStatus, before time.Time) (int64, error)
	// WithinUserLock runs fn in a transaction that holds an advisory lock on
	// userID. The repository handed to fn is bound to that transaction.
	WithinUserLock(ctx context.Context, userID int, fn func(UserMembershipRepository) error) error
}

type userMembershipRepo struct {
	db Database
}

func NewUserMembershipRepo(db Database) UserMembershipRepository {
	return &userMembershipRepo{db: db}
}

const userMembershipColumns = `id, user_id, membership_id, start_date, end_date, status, created_at`

func scanUserMembership(row pgx.Row) (*models.UserMembership, error) {
	m := &models.UserMembership{}
	err := row.Scan(&m.ID, &m.UserID, &m.MembershipID, &m.StartDate, &m.EndDate, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func collectUserMemberships(rows pgx.Rows) ([]*models.UserMembership, error) {
	defer rows.Close()

	var memberships []*models.UserMembership
	for rows.Next() {
		m, err := scanUserMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

// translateWriteErr maps store constraint failures onto domain errors.
func translateWriteErr(err error) error {
	code, constraint, ok := common.PgErrorCode(err)
	if !ok {
		return err
	}
	switch {
	case code == common.PgUniqueViolation && constraint == pendingIndex:
		return common.ErrConflictingPendingSubscription
	case code == common.PgCheckViolation && constraint == datesCheck:
		return common.ErrInvalidDateRange
	case code == common.PgCheckViolation:
		return fmt.Errorf("constraint %s: %w", constraint, common.ErrValidation)
	case code == common.PgForeignKeyViolation:
		return fmt.Errorf("membership plan: %w", common.ErrNotFound)
	}
	return err
}

func (r *userMembershipRepo) Create(ctx context.Context, membership *models.UserMembership) error {
	query := `
		INSERT INTO user_memberships (user_id, membership_id, start_date, end_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, membership.UserID, membership.MembershipID, membership.StartDate,
		membership.EndDate, membership.Status, membership.CreatedAt).Scan(&membership.ID)
	return translateWriteErr(err)
}

func (r *userMembershipRepo) GetByID(ctx context.Context, id int) (*models.UserMembership, error) {
	query := `SELECT ` + userMembershipColumns + ` FROM user_memberships WHERE id = $1`
	m, err := scanUserMembership(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user membership %d: %w", id, common.ErrNotFound)
	}
	return m, err
}

func (r *userMembershipRepo) Update(ctx context.Context, membership *models.UserMembership) error {
	query := `
		UPDATE user_memberships
		SET start_date = $1, end_date = $2, status = $3, created_at = $4
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, membership.StartDate, membership.EndDate, membership.Status,
		membership.CreatedAt, membership.ID)
	if err != nil {
		return translateWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user membership %d: %w", membership.ID, common.ErrNotFound)
	}
	return nil
}

func (r *userMembershipRepo) UpdateStatus(ctx context.Context, id int, status models.MembershipStatus) (*models.UserMembership, error) {
	query := `UPDATE user_memberships SET status = $1 WHERE id = $2 RETURNING ` + userMembershipColumns
	m, err := scanUserMembership(r.db.QueryRow(ctx, query, status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user membership %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, translateWriteErr(err)
	}
	return m, nil
}

func (r *userMembershipRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_memberships WHERE id = $1`, id)
	if code, _, ok := common.PgErrorCode(err); ok && code == common.PgForeignKeyViolation {
		return fmt.Errorf("user membership %d: %w", id, common.ErrSubscriptionHasPayments)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user membership %d: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *userMembershipRepo) List(ctx context.Context, limit, offset int) ([]*models.UserMembership, error) {
	query := `SELECT ` + userMembershipColumns + ` FROM user_memberships ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectUserMemberships(rows)
}

// ListByUser returns the user's rows, latest end date first.
func (r *userMembershipRepo) ListByUser(ctx context.Context, userID int) ([]*models.UserMembership, error) {
	query := `SELECT ` + userMembershipColumns + ` FROM user_memberships WHERE user_id = $1 ORDER BY end_date DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectUserMemberships(rows)
}

func (r *userMembershipRepo) ExistsByUserAndStatus(ctx context.Context, userID int, status models.MembershipStatus) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_memberships WHERE user_id = $1 AND status = $2)`
	err := r.db.QueryRow(ctx, query, userID, status).Scan(&exists)
	return exists, err
}

// DeleteByStatusCreatedBefore leaves rows that already have payments recorded.
func (r *userMembershipRepo) DeleteByStatusCreatedBefore(ctx context.Context, status models.MembershipStatus, before time.Time) (int64, error) {
	query := `
		DELETE FROM user_memberships
		WHERE status = $1 AND created_at < $2
		  AND NOT EXISTS (SELECT 1 FROM payments p WHERE p.user_membership_id = user_memberships.id)
	`
	tag, err := r.db.Exec(ctx, query, status, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *userMembershipRepo) WithinUserLock(ctx context.Context, userID int, fn func(UserMembershipRepository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(userID)); err != nil {
		return fmt.Errorf("lock user %d: %w", userID, err)
	}

	if err := fn(&userMembershipRepo{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
