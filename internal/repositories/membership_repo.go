package repositories

import (
	"context"
	"errors"
	"fmt"

	"gymetra/internal/common"
	"gymetra/internal/models"

	"github.com/jackc/pgx/v5"
)

type MembershipRepository interface {
	Create(ctx context.Context, plan *models.MembershipPlan) error
	GetByID(ctx context.Context, id int) (*models.MembershipPlan, error)
	// ExistsByName reports whether another plan (id != excludeID) already uses name.
	ExistsByName(ctx context.Context, name string, excludeID int) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.MembershipPlan, error)
	Update(ctx context.Context, plan *models.MembershipPlan) error
	Delete(ctx context.Context, id int) error
}

type membershipRepo struct {
	db DBTX
}

func NewMembershipRepo(db DBTX) MembershipRepository {
	return &membershipRepo{db: db}
}

const membershipColumns = `id, plan_name, duration_days, price, status, description, created_at, updated_at`

func scanMembership(row pgx.Row) (*models.MembershipPlan, error) {
	plan := &models.MembershipPlan{}
	err := row.Scan(&plan.ID, &plan.PlanName, &plan.DurationDays, &plan.Price, &plan.Status,
		&plan.Description, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func translatePlanErr(err error, plan string) error {
	code, _, ok := common.PgErrorCode(err)
	switch {
	case ok && code == common.PgUniqueViolation:
		return fmt.Errorf("plan %q: %w", plan, common.ErrDuplicatePlanName)
	case ok && code == common.PgForeignKeyViolation:
		return fmt.Errorf("plan %s: %w", plan, common.ErrPlanInUse)
	}
	return err
}

func (r *membershipRepo) Create(ctx context.Context, plan *models.MembershipPlan) error {
	query := `
		INSERT INTO memberships (plan_name, duration_days, price, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, plan.PlanName, plan.DurationDays, plan.Price, plan.Status, plan.Description).
		Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
	return translatePlanErr(err, plan.PlanName)
}

func (r *membershipRepo) GetByID(ctx context.Context, id int) (*models.MembershipPlan, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1`
	plan, err := scanMembership(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("membership plan %d: %w", id, common.ErrNotFound)
	}
	return plan, err
}

func (r *membershipRepo) ExistsByName(ctx context.Context, name string, excludeID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM memberships WHERE LOWER(plan_name) = LOWER($1) AND id <> $2)`
	err := r.db.QueryRow(ctx, query, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *membershipRepo) List(ctx context.Context, limit, offset int) ([]*models.MembershipPlan, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.MembershipPlan
	for rows.Next() {
		plan, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *membershipRepo) Update(ctx context.Context, plan *models.MembershipPlan) error {
	query := `
		UPDATE memberships
		SET plan_name = $1, duration_days = $2, price = $3, status = $4, description = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, plan.PlanName, plan.DurationDays, plan.Price, plan.Status,
		plan.Description, plan.ID).Scan(&plan.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("membership plan %d: %w", plan.ID, common.ErrNotFound)
	}
	return translatePlanErr(err, plan.PlanName)
}

func (r *membershipRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM memberships WHERE id = $1`, id)
	if err != nil {
		return translatePlanErr(err, fmt.Sprint(id))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("membership plan %d: %w", id, common.ErrNotFound)
	}
	return nil
}
