package services

import (
	"context"
	"io"
	"time"

	"gymetra/internal/models"
	"gymetra/internal/repositories"

	"github.com/stretchr/testify/mock"
)

type MockUserMembershipRepository struct {
	mock.Mock
}

func (m *MockUserMembershipRepository) Create(ctx context.Context, membership *models.UserMembership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockUserMembershipRepository) GetByID(ctx context.Context, id int) (*models.UserMembership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMembership), args.Error(1)
}

func (m *MockUserMembershipRepository) Update(ctx context.Context, membership *models.UserMembership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockUserMembershipRepository) UpdateStatus(ctx context.Context, id int, status models.MembershipStatus) (*models.UserMembership, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMembership), args.Error(1)
}

func (m *MockUserMembershipRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserMembershipRepository) List(ctx context.Context, limit, offset int) ([]*models.UserMembership, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.UserMembership), args.Error(1)
}

func (m *MockUserMembershipRepository) ListByUser(ctx context.Context, userID int) ([]*models.UserMembership, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.UserMembership), args.Error(1)
}

func (m *MockUserMembershipRepository) ExistsByUserAndStatus(ctx context.Context, userID int, status models.MembershipStatus) (bool, error) {
	args := m.Called(ctx, userID, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserMembershipRepository) DeleteByStatusCreatedBefore(ctx context.Context, status models.MembershipStatus, before time.Time) (int64, error) {
	args := m.Called(ctx, status, before)
	return args.Get(0).(int64), args.Error(1)
}

// WithinUserLock runs fn against the mock itself, mirroring a transaction-bound repository.
func (m *MockUserMembershipRepository) WithinUserLock(ctx context.Context, userID int, fn func(repositories.UserMembershipRepository) error) error {
	args := m.Called(ctx, userID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, plan *models.MembershipPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockMembershipRepository) GetByID(ctx context.Context, id int) (*models.MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipPlan), args.Error(1)
}

func (m *MockMembershipRepository) ExistsByName(ctx context.Context, name string, excludeID int) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) List(ctx context.Context, limit, offset int) ([]*models.MembershipPlan, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.MembershipPlan), args.Error(1)
}

func (m *MockMembershipRepository) Update(ctx context.Context, plan *models.MembershipPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByUser(ctx context.Context, userID int) ([]*models.Payment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) (*models.Payment, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SetReceiptKey(ctx context.Context, id int64, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetPlan(ctx context.Context, planID int) (*models.MembershipPlan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipPlan), args.Error(1)
}

func (m *MockCacheService) SetPlan(ctx context.Context, plan *models.MembershipPlan, ttl time.Duration) error {
	args := m.Called(ctx, plan, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeletePlan(ctx context.Context, planID int) error {
	args := m.Called(ctx, planID)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) SendPasswordResetEmail(to, firstName, token string) error {
	args := m.Called(to, firstName, token)
	return args.Error(0)
}

func (m *MockMailService) SendPasswordChangedEmail(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

type MockReceiptStorage struct {
	mock.Mock
}

func (m *MockReceiptStorage) Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockReceiptStorage) GetPresignedURL(ctx context.Context, objectName string) (string, error) {
	args := m.Called(ctx, objectName)
	return args.String(0), args.Error(1)
}

func (m *MockReceiptStorage) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockReceiptStorage) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
