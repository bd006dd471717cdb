package handlers

import (
	"net/http"

	"gymetra/internal/common"
	"gymetra/internal/models"
	"gymetra/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxReceiptSize bounds uploaded receipt files (10MB).
const maxReceiptSize = 10 << 20

// PaymentHandlers serves the payment ledger. Ownership of a payment is the
// ownership of the subscription it pays for.
type PaymentHandlers struct {
	paymentService services.PaymentService
	lifecycle      services.UserMembershipService
	logger         zerolog.Logger
}

func NewPaymentHandlers(paymentService services.PaymentService, lifecycle services.UserMembershipService, logger zerolog.Logger) *PaymentHandlers {
	return &PaymentHandlers{
		paymentService: paymentService,
		lifecycle:      lifecycle,
		logger:         logger,
	}
}

type CreatePaymentRequest struct {
	UserMembershipID     int             `json:"user_membership_id" validate:"required,gt=0"`
	PaymentDate          string          `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	Amount               decimal.Decimal `json:"amount"`
	PaymentMethod        string          `json:"payment_method" validate:"required,oneof=CASH CARD GATEWAY"`
	TransactionReference *string         `json:"transaction_reference" validate:"omitempty,max=100"`
	PaymentStatus        string          `json:"payment_status" validate:"omitempty,oneof=PENDING CONFIRMED FAILED"`
}

type ListPaymentsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// checkSubscriptionOwner ensures the caller owns the subscription or is an admin.
func (h *PaymentHandlers) checkSubscriptionOwner(c echo.Context, caller services.Caller, userMembershipID int) error {
	if caller.IsAdmin() {
		return nil
	}
	subscription, err := h.lifecycle.GetByID(c.Request().Context(), userMembershipID)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to load user membership")
	}
	return ownerOrAdmin(caller, subscription.UserID)
}

func (h *PaymentHandlers) Create(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	var req CreatePaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	paymentDate, err := common.ParseDate(req.PaymentDate, "payment_date")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// Members record PENDING payments; settling them is an admin action.
	if req.PaymentStatus != "" && models.PaymentStatus(req.PaymentStatus) != models.PaymentStatusPending {
		if err := adminOnly(caller); err != nil {
			return err
		}
	}
	if err := h.checkSubscriptionOwner(c, caller, req.UserMembershipID); err != nil {
		return err
	}

	payment, err := h.paymentService.Create(c.Request().Context(), services.PaymentInput{
		UserMembershipID:     req.UserMembershipID,
		PaymentDate:          paymentDate,
		Amount:               req.Amount,
		PaymentMethod:        models.PaymentMethod(req.PaymentMethod),
		TransactionReference: req.TransactionReference,
		PaymentStatus:        models.PaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to create payment")
	}
	return c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandlers) List(c echo.Context) error {
	var req ListPaymentsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	payments, err := h.paymentService.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to list payments")
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"limit":    req.Limit,
		"offset":   req.Offset,
	})
}

// load fetches the payment named by :id and checks the caller may see it.
func (h *PaymentHandlers) load(c echo.Context) (*models.Payment, error) {
	caller, err := callerFromContext(c)
	if err != nil {
		return nil, err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return nil, err
	}
	payment, err := h.paymentService.GetByID(c.Request().Context(), int64(id))
	if err != nil {
		return nil, toHTTPError(h.logger, err, "Failed to get payment")
	}
	if err := h.checkSubscriptionOwner(c, caller, payment.UserMembershipID); err != nil {
		return nil, err
	}
	return payment, nil
}

func (h *PaymentHandlers) Get(c echo.Context) error {
	payment, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandlers) ListByUser(c echo.Context) error {
	userID, err := userParam(c)
	if err != nil {
		return err
	}
	payments, err := h.paymentService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to list payments")
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandlers) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	status := models.PaymentStatus(c.QueryParam("status"))
	if !status.Valid() {
		return common.SendValidationError(c, map[string]string{"status": "must be one of: PENDING CONFIRMED FAILED"})
	}
	payment, err := h.paymentService.UpdateStatus(c.Request().Context(), int64(id), status)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to update payment status")
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandlers) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.paymentService.Delete(c.Request().Context(), int64(id)); err != nil {
		return toHTTPError(h.logger, err, "Failed to delete payment")
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadReceipt stores the multipart "file" field as the payment's receipt.
func (h *PaymentHandlers) UploadReceipt(c echo.Context) error {
	payment, err := h.load(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > maxReceiptSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "receipt exceeds 10MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	updated, err := h.paymentService.AttachReceipt(c.Request().Context(), payment.ID, services.ReceiptFile{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to store receipt")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *PaymentHandlers) ReceiptURL(c echo.Context) error {
	payment, err := h.load(c)
	if err != nil {
		return err
	}
	url, err := h.paymentService.ReceiptURL(c.Request().Context(), payment.ID)
	if err != nil {
		return toHTTPError(h.logger, err, "Failed to sign receipt URL")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
