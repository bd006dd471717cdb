package repositories

import (
	"context"
	"errors"
	"fmt"

	"gymetra/internal/common"
	"gymetra/internal/models"

	"github.com/jackc/pgx/v5"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	List(ctx context.Context, limit, offset int) ([]*models.Payment, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) (*models.Payment, error)
	SetReceiptKey(ctx context.Context, id int64, key string) error
	Delete(ctx context.Context, id int64) error
}

type paymentRepo struct {
	db DBTX
}

func NewPaymentRepo(db DBTX) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `p.id, p.user_membership_id, p.payment_date, p.amount, p.payment_method, p.transaction_reference, p.payment_status, p.receipt_key, p.created_at, p.updated_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(&p.ID, &p.UserMembershipID, &p.PaymentDate, &p.Amount, &p.PaymentMethod,
		&p.TransactionReference, &p.PaymentStatus, &p.ReceiptKey, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func collectPayments(rows pgx.Rows) ([]*models.Payment, error) {
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (user_membership_id, payment_date, amount, payment_method, transaction_reference, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, payment.UserMembershipID, payment.PaymentDate, payment.Amount,
		payment.PaymentMethod, payment.TransactionReference, payment.PaymentStatus).
		Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if code, _, ok := common.PgErrorCode(err); ok && code == common.PgForeignKeyViolation {
		return fmt.Errorf("user membership %d: %w", payment.UserMembershipID, common.ErrNotFound)
	}
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.id = $1`
	p, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payment %d: %w", id, common.ErrNotFound)
	}
	return p, err
}

func (r *paymentRepo) List(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p ORDER BY p.payment_date DESC, p.id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

func (r *paymentRepo) ListByUser(ctx context.Context, userID int) ([]*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments p
		JOIN user_memberships um ON um.id = p.user_membership_id
		WHERE um.user_id = $1
		ORDER BY p.payment_date DESC, p.id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) (*models.Payment, error) {
	query := `
		UPDATE payments p SET payment_status = $1, updated_at = NOW()
		WHERE p.id = $2
		RETURNING ` + paymentColumns
	p, err := scanPayment(r.db.QueryRow(ctx, query, status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payment %d: %w", id, common.ErrNotFound)
	}
	return p, err
}

func (r *paymentRepo) SetReceiptKey(ctx context.Context, id int64, key string) error {
	tag, err := r.db.Exec(ctx, `UPDATE payments SET receipt_key = $1, updated_at = NOW() WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %d: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *paymentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %d: %w", id, common.ErrNotFound)
	}
	return nil
}
