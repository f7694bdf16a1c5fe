package membership

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string
type SaleSource string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"

	SourceMembership SaleSource = "membership"
	SourceTournament SaleSource = "tournament"
)

type Membership struct {
	ID         int             `db:"id" json:"id"`
	UserID     int             `db:"user_id" json:"user_id"`
	GymID      int             `db:"gym_id" json:"gym_id"`
	PlanID     int             `db:"plan_id" json:"plan_id"`
	Status     Status          `db:"status" json:"status"`
	PricePaid  decimal.Decimal `db:"price_paid" json:"price_paid"`
	ValidFrom  time.Time       `db:"valid_from" json:"valid_from"`
	ValidUntil time.Time       `db:"valid_until" json:"valid_until"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// Sale is up-front revenue collected and held by the platform. It feeds
// analytics only and is never part of an owner's withdrawable balance.
type Sale struct {
	ID           int             `db:"id" json:"id"`
	GymID        int             `db:"gym_id" json:"gym_id"`
	Source       SaleSource      `db:"source" json:"source"`
	MembershipID *int            `db:"membership_id" json:"membership_id,omitempty"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

type SellRequest struct {
	UserID    int    `json:"user_id" binding:"required,gt=0"`
	PlanID    int    `json:"plan_id" binding:"required,gt=0"`
	ValidFrom string `json:"valid_from" example:"2026-03-01"`
}
