package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "ACTIVE"
	PlanStatusInactive PlanStatus = "INACTIVE"
)

func (s PlanStatus) Valid() bool {
	return s == PlanStatusActive || s == PlanStatusInactive
}

// MembershipPlan is a purchasable offering in the catalog.
type MembershipPlan struct {
	ID           int             `json:"id" db:"id"`
	PlanName     string          `json:"plan_name" db:"plan_name"`
	DurationDays int             `json:"duration_days" db:"duration_days"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Status       PlanStatus      `json:"status" db:"status"`
	Description  *string         `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}
