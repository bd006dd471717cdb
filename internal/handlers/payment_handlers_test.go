package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymetra/internal/common"
	"gymetra/internal/models"
	"gymetra/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PaymentHandlersTestSuite struct {
	suite.Suite
	payments  *MockPaymentService
	lifecycle *MockUserMembershipService
	handlers  *PaymentHandlers
}

func (suite *PaymentHandlersTestSuite) SetupTest() {
	suite.payments = new(MockPaymentService)
	suite.lifecycle = new(MockUserMembershipService)
	suite.handlers = NewPaymentHandlers(suite.payments, suite.lifecycle, zerolog.Nop())
}

func (suite *PaymentHandlersTestSuite) TearDownTest() {
	suite.payments.AssertExpectations(suite.T())
	suite.lifecycle.AssertExpectations(suite.T())
}

func TestPaymentHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlersTestSuite))
}

func payment(id int64, userMembershipID int) *models.Payment {
	return &models.Payment{
		ID:               id,
		UserMembershipID: userMembershipID,
		PaymentDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.RequireFromString("49.90"),
		PaymentMethod:    models.PaymentMethodCard,
		PaymentStatus:    models.PaymentStatusPending,
	}
}

func (suite *PaymentHandlersTestSuite) TestCreate_Owner() {
	c, rec := newContext(http.MethodPost, "/v1/payments",
		`{"user_membership_id":11,"amount":"49.90","payment_method":"CARD","payment_date":"2024-01-02"}`, client(7))
	suite.lifecycle.On("GetByID", mock.Anything, 11).Return(subscription(11, 7, models.MembershipStatusPending), nil).Once()
	suite.payments.On("Create", mock.Anything, mock.MatchedBy(func(in services.PaymentInput) bool {
		return in.UserMembershipID == 11 &&
			in.Amount.Equal(decimal.RequireFromString("49.90")) &&
			in.PaymentMethod == models.PaymentMethodCard &&
			in.PaymentDate != nil && in.PaymentDate.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	})).Return(payment(5, 11), nil).Once()

	suite.NoError(suite.handlers.Create(c))
	suite.Equal(http.StatusCreated, rec.Code)
	suite.Contains(rec.Body.String(), `"amount":"49.9"`)
}

func (suite *PaymentHandlersTestSuite) TestCreate_ForeignSubscriptionForbidden() {
	c, _ := newContext(http.MethodPost, "/v1/payments",
		`{"user_membership_id":11,"amount":"10","payment_method":"CASH"}`, client(9))
	suite.lifecycle.On("GetByID", mock.Anything, 11).Return(subscription(11, 7, models.MembershipStatusActive), nil).Once()

	suite.Equal(http.StatusForbidden, httpStatus(suite.handlers.Create(c)))
}

func (suite *PaymentHandlersTestSuite) TestCreate_ClientCannotSettlePayment() {
	for _, status := range []string{"CONFIRMED", "FAILED"} {
		c, _ := newContext(http.MethodPost, "/v1/payments",
			`{"user_membership_id":11,"amount":"49.90","payment_method":"CARD","payment_status":"`+status+`"}`, client(7))

		suite.Equal(http.StatusForbidden, httpStatus(suite.handlers.Create(c)), status)
	}
	suite.payments.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *PaymentHandlersTestSuite) TestCreate_AdminRecordsConfirmedPayment() {
	c, rec := newContext(http.MethodPost, "/v1/payments",
		`{"user_membership_id":11,"amount":"49.90","payment_method":"CASH","payment_status":"CONFIRMED"}`, admin())
	confirmed := payment(5, 11)
	confirmed.PaymentStatus = models.PaymentStatusConfirmed
	suite.payments.On("Create", mock.Anything, mock.MatchedBy(func(in services.PaymentInput) bool {
		return in.PaymentStatus == models.PaymentStatusConfirmed
	})).Return(confirmed, nil).Once()

	suite.NoError(suite.handlers.Create(c))
	suite.Equal(http.StatusCreated, rec.Code)
}

func (suite *PaymentHandlersTestSuite) TestCreate_UnknownMethodRejected() {
	c, _ := newContext(http.MethodPost, "/v1/payments",
		`{"user_membership_id":11,"amount":"10","payment_method":"CHEQUE"}`, admin())

	suite.Equal(http.StatusBadRequest, httpStatus(suite.handlers.Create(c)))
}

func (suite *PaymentHandlersTestSuite) TestCreate_NonPositiveAmount() {
	c, _ := newContext(http.MethodPost, "/v1/payments",
		`{"user_membership_id":11,"amount":"0","payment_method":"CASH"}`, admin())
	suite.payments.On("Create", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("amount must be positive: %w", common.ErrValidation)).Once()

	suite.Equal(http.StatusBadRequest, httpStatus(suite.handlers.Create(c)))
}

func (suite *PaymentHandlersTestSuite) TestGet_NotFound() {
	c, _ := newContext(http.MethodGet, "/v1/payments/5", "", admin())
	withParams(c, "id", "5")
	suite.payments.On("GetByID", mock.Anything, int64(5)).Return(nil, fmt.Errorf("payment 5: %w", common.ErrNotFound)).Once()

	suite.Equal(http.StatusNotFound, httpStatus(suite.handlers.Get(c)))
}

func (suite *PaymentHandlersTestSuite) TestUpdateStatus() {
	c, rec := newContext(http.MethodPatch, "/v1/payments/5/status?status=CONFIRMED", "", admin())
	withParams(c, "id", "5")
	confirmed := payment(5, 11)
	confirmed.PaymentStatus = models.PaymentStatusConfirmed
	suite.payments.On("UpdateStatus", mock.Anything, int64(5), models.PaymentStatusConfirmed).Return(confirmed, nil).Once()

	suite.NoError(suite.handlers.UpdateStatus(c))
	suite.Contains(rec.Body.String(), `"payment_status":"CONFIRMED"`)
}

func (suite *PaymentHandlersTestSuite) TestUploadReceipt() {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "receipt.PDF")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/5/receipt", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req = req.WithContext(common.WithSession(req.Context(), 7, models.RoleClient, "token-1"))
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	withParams(c, "id", "5")

	suite.payments.On("GetByID", mock.Anything, int64(5)).Return(payment(5, 11), nil).Once()
	suite.lifecycle.On("GetByID", mock.Anything, 11).Return(subscription(11, 7, models.MembershipStatusActive), nil).Once()
	key := "payments/5/abc.pdf"
	stored := payment(5, 11)
	stored.ReceiptKey = &key
	suite.payments.On("AttachReceipt", mock.Anything, int64(5), mock.MatchedBy(func(f services.ReceiptFile) bool {
		return f.Filename == "receipt.PDF" && f.Size == int64(len("%PDF-1.4 fake")) && f.Reader != nil
	})).Return(stored, nil).Once()

	suite.NoError(suite.handlers.UploadReceipt(c))
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), key)
}

func (suite *PaymentHandlersTestSuite) TestUploadReceipt_MissingFile() {
	c, _ := newContext(http.MethodPost, "/v1/payments/5/receipt", `{}`, admin())
	withParams(c, "id", "5")
	suite.payments.On("GetByID", mock.Anything, int64(5)).Return(payment(5, 11), nil).Once()

	suite.Equal(http.StatusBadRequest, httpStatus(suite.handlers.UploadReceipt(c)))
}

func (suite *PaymentHandlersTestSuite) TestReceiptURL_NoReceipt() {
	c, _ := newContext(http.MethodGet, "/v1/payments/5/receipt", "", admin())
	withParams(c, "id", "5")
	suite.payments.On("GetByID", mock.Anything, int64(5)).Return(payment(5, 11), nil).Once()
	suite.payments.On("ReceiptURL", mock.Anything, int64(5)).
		Return("", fmt.Errorf("payment 5 has no receipt: %w", common.ErrNotFound)).Once()

	suite.Equal(http.StatusNotFound, httpStatus(suite.handlers.ReceiptURL(c)))
}

func (suite *PaymentHandlersTestSuite) TestListByUser() {
	c, rec := newContext(http.MethodGet, "/v1/payments/user/7", "", client(7))
	withParams(c, "userId", "7")
	suite.payments.On("ListByUser", mock.Anything, 7).Return([]*models.Payment{payment(5, 11)}, nil).Once()

	suite.NoError(suite.handlers.ListByUser(c))
	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *PaymentHandlersTestSuite) TestDelete() {
	c, rec := newContext(http.MethodDelete, "/v1/payments/5", "", admin())
	withParams(c, "id", "5")
	suite.payments.On("Delete", mock.Anything, int64(5)).Return(nil).Once()

	suite.NoError(suite.handlers.Delete(c))
	suite.Equal(http.StatusNoContent, rec.Code)
}
