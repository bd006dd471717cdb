package models

import "time"

type MembershipStatus string

const (
	MembershipStatusPending   MembershipStatus = "PENDING"
	MembershipStatusActive    MembershipStatus = "ACTIVE"
	MembershipStatusSuspended MembershipStatus = "SUSPENDED"
	MembershipStatusCanceled  MembershipStatus = "CANCELED"
	MembershipStatusExpired   MembershipStatus = "EXPIRED"
)

func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipStatusPending, MembershipStatusActive, MembershipStatusSuspended,
		MembershipStatusCanceled, MembershipStatusExpired:
		return true
	}
	return false
}

// UserMembership binds a user to one plan for a date range. The plan is
// referenced by id only; callers load it explicitly when they need it.
type UserMembership struct {
	ID           int              `json:"id" db:"id"`
	UserID       int              `json:"user_id" db:"user_id"`
	MembershipID int              `json:"membership_id" db:"membership_id"`
	StartDate    time.Time        `json:"start_date" db:"start_date"`
	EndDate      time.Time        `json:"end_date" db:"end_date"`
	Status       MembershipStatus `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}
