package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "CASH"
	PaymentMethodCard    PaymentMethod = "CARD"
	PaymentMethodGateway PaymentMethod = "GATEWAY"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodCard || m == PaymentMethodGateway
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPending || s == PaymentStatusConfirmed || s == PaymentStatusFailed
}

type Payment struct {
	ID                   int64           `json:"id" db:"id"`
	UserMembershipID     int             `json:"user_membership_id" db:"user_membership_id"`
	PaymentDate          time.Time       `json:"payment_date" db:"payment_date"`
	Amount               decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod        PaymentMethod   `json:"payment_method" db:"payment_method"`
	TransactionReference *string         `json:"transaction_reference,omitempty" db:"transaction_reference"`
	PaymentStatus        PaymentStatus   `json:"payment_status" db:"payment_status"`
	ReceiptKey           *string         `json:"receipt_key,omitempty" db:"receipt_key"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}
