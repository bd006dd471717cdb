package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gymetra/internal/common"
	"gymetra/internal/models"
	"gymetra/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PaymentService records payments against subscriptions. Payment status is
// never propagated to the subscription.
type PaymentService interface {
	Create(ctx context.Context, input PaymentInput) (*models.Payment, error)
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	List(ctx context.Context, limit, offset int) ([]*models.Payment, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) (*models.Payment, error)
	Delete(ctx context.Context, id int64) error

	AttachReceipt(ctx context.Context, id int64, file ReceiptFile) (*models.Payment, error)
	ReceiptURL(ctx context.Context, id int64) (string, error)
}

type PaymentInput struct {
	UserMembershipID     int
	PaymentDate          *time.Time
	Amount               decimal.Decimal
	PaymentMethod        models.PaymentMethod
	TransactionReference *string
	PaymentStatus        models.PaymentStatus
}

type ReceiptFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type paymentService struct {
	repo        repositories.PaymentRepository
	memberships repositories.UserMembershipRepository
	storage     ReceiptStorage
	logger      zerolog.Logger
	now         func() time.Time
}

func NewPaymentService(repo repositories.PaymentRepository, memberships repositories.UserMembershipRepository, storage ReceiptStorage, logger zerolog.Logger) PaymentService {
	return &paymentService{
		repo:        repo,
		memberships: memberships,
		storage:     storage,
		logger:      logger.With().Str("component", "payments").Logger(),
		now:         time.Now,
	}
}

func (s *paymentService) Create(ctx context.Context, input PaymentInput) (*models.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", common.ErrValidation)
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("invalid payment method %q: %w", input.PaymentMethod, common.ErrValidation)
	}
	if input.PaymentStatus == "" {
		input.PaymentStatus = models.PaymentStatusPending
	}
	if !input.PaymentStatus.Valid() {
		return nil, fmt.Errorf("invalid payment status %q: %w", input.PaymentStatus, common.ErrValidation)
	}
	if input.TransactionReference != nil && len(*input.TransactionReference) > 100 {
		return nil, fmt.Errorf("transaction reference exceeds 100 characters: %w", common.ErrValidation)
	}

	if _, err := s.memberships.GetByID(ctx, input.UserMembershipID); err != nil {
		return nil, err
	}

	paymentDate := s.now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment := &models.Payment{
		UserMembershipID:     input.UserMembershipID,
		PaymentDate:          paymentDate,
		Amount:               input.Amount,
		PaymentMethod:        input.PaymentMethod,
		TransactionReference: input.TransactionReference,
		PaymentStatus:        input.PaymentStatus,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *paymentService) List(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.repo.List(ctx, limit, offset)
}

func (s *paymentService) ListByUser(ctx context.Context, userID int) ([]*models.Payment, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *paymentService) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) (*models.Payment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid payment status %q: %w", status, common.ErrValidation)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *paymentService) Delete(ctx context.Context, id int64) error {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if payment.ReceiptKey != nil {
		s.removeObject(ctx, *payment.ReceiptKey)
	}
	return nil
}

// AttachReceipt uploads file and points the payment at it, replacing any earlier receipt.
func (s *paymentService) AttachReceipt(ctx context.Context, id int64, file ReceiptFile) (*models.Payment, error) {
	if file.Reader == nil || file.Size <= 0 {
		return nil, fmt.Errorf("receipt file is empty: %w", common.ErrValidation)
	}

	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := receiptKey(id, file.Filename)
	if err := s.storage.Upload(ctx, key, file.Reader, file.Size, file.ContentType); err != nil {
		return nil, fmt.Errorf("upload receipt: %w", err)
	}
	if err := s.repo.SetReceiptKey(ctx, id, key); err != nil {
		s.removeObject(ctx, key)
		return nil, err
	}

	if payment.ReceiptKey != nil {
		s.removeObject(ctx, *payment.ReceiptKey)
	}
	payment.ReceiptKey = &key
	return payment, nil
}

func (s *paymentService) ReceiptURL(ctx context.Context, id int64) (string, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if payment.ReceiptKey == nil {
		return "", fmt.Errorf("payment %d has no receipt: %w", id, common.ErrNotFound)
	}
	return s.storage.GetPresignedURL(ctx, *payment.ReceiptKey)
}

func (s *paymentService) removeObject(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("object", key).Msg("failed to remove receipt object")
	}
}

func receiptKey(paymentID int64, filename string) string {
	return fmt.Sprintf("payments/%d/%s%s", paymentID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
}
