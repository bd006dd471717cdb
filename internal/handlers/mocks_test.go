package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"gymetra/internal/common"
	"gymetra/internal/models"
	"gymetra/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input services.RegisterInput) (*models.TokenResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenClaims), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *services.TokenClaims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, caller services.Caller, userID int, input services.ProfileInput) (*models.User, error) {
	args := m.Called(ctx, caller, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) Create(ctx context.Context, input services.PlanInput) (*models.MembershipPlan, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipPlan), args.Error(1)
}

func (m *MockMembershipService) GetByID(ctx context.Context, id int) (*models.MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipPlan), args.Error(1)
}

func (m *MockMembershipService) List(ctx context.Context, limit, offset int) ([]*models.MembershipPlan, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MembershipPlan), args.Error(1)
}

func (m *MockMembershipService) Update(ctx context.Context, id int, input services.PlanInput) (*models.MembershipPlan, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MembershipPlan), args.Error(1)
}

func (m *MockMembershipService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserMembershipService struct {
	mock.Mock
}

func (m *MockUserMembershipService) CreateOrUpdate(ctx context.Context, req services.SubscriptionRequest) (*models.UserMembership, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMembership), args.Error(1)
}

func (m *MockUserMembershipService) TransitionStatus(ctx context.Context, id int, status models.MembershipStatus) (*models.UserMembership, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMembership), args.Error(1)
}

func (m *MockUserMembershipService) LatestActive(ctx context.Context, userID int) (*models.UserMembership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMembership), args.Error(1)
}

func (m *MockUserMembershipService) RemainingDays(membership *models.UserMembership) int {
	return m.Called(membership).Int(0)
}

func (m *MockUserMembershipService) PurgeStalePending(ctx context.Context, maxAge time.Duration) (int64, error) {
	args := m.Called(ctx, maxAge)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserMembershipService) GetByID(ctx context.Context, id int) (*models.UserMembership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMembership), args.Error(1)
}

func (m *MockUserMembershipService) List(ctx context.Context, limit, offset int) ([]*models.UserMembership, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserMembership), args.Error(1)
}

func (m *MockUserMembershipService) ListByUser(ctx context.Context, userID int) ([]*models.UserMembership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserMembership), args.Error(1)
}

func (m *MockUserMembershipService) HasPending(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserMembershipService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Create(ctx context.Context, input services.PaymentInput) (*models.Payment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) List(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentService) ListByUser(ctx context.Context, userID int) ([]*models.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentService) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) (*models.Payment, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPaymentService) AttachReceipt(ctx context.Context, id int64, file services.ReceiptFile) (*models.Payment, error) {
	args := m.Called(ctx, id, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) ReceiptURL(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
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
	return m.Called(ctx, plan, ttl).Error(0)
}

func (m *MockCacheService) DeletePlan(ctx context.Context, planID int) error {
	return m.Called(ctx, planID).Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
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
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCacheService) Close() error {
	return m.Called().Error(0)
}

type MockReceiptStorage struct {
	mock.Mock
}

func (m *MockReceiptStorage) Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	return m.Called(ctx, objectName, reader, objectSize, contentType).Error(0)
}

func (m *MockReceiptStorage) GetPresignedURL(ctx context.Context, objectName string) (string, error) {
	args := m.Called(ctx, objectName)
	return args.String(0), args.Error(1)
}

func (m *MockReceiptStorage) Delete(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}

func (m *MockReceiptStorage) EnsureBucketExists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// newContext builds an echo context for a direct handler call. A non-nil
// caller is placed on the request context as if the JWT middleware ran.
func newContext(method, target, body string, caller *services.Caller) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewRequestValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if caller != nil {
		req = req.WithContext(common.WithSession(req.Context(), caller.UserID, caller.Role, "token-1"))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withParams(c echo.Context, pairs ...string) echo.Context {
	var names, values []string
	for i := 0; i+1 < len(pairs); i += 2 {
		names = append(names, pairs[i])
		values = append(values, pairs[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c
}

func admin() *services.Caller {
	return &services.Caller{UserID: 1, Role: models.RoleAdmin}
}

func client(id int) *services.Caller {
	return &services.Caller{UserID: id, Role: models.RoleClient}
}

// httpStatus extracts the status from an *echo.HTTPError, or 0.
func httpStatus(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
