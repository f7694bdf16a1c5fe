package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Booking is one requested visit. It becomes the completed-session record
// once the visit is delivered, and is immutable from then on.
type Booking struct {
	ID             int                 `db:"id" json:"id"`
	UserID         int                 `db:"user_id" json:"user_id"`
	GymID          int                 `db:"gym_id" json:"gym_id"`
	PlanID         *int                `db:"plan_id" json:"plan_id,omitempty"`
	TimeSlotID     int                 `db:"time_slot_id" json:"time_slot_id"`
	Status         Status              `db:"status" json:"status"`
	DecisionReason *string             `db:"decision_reason" json:"decision_reason,omitempty"`
	DailyRate      decimal.NullDecimal `db:"daily_rate" json:"daily_rate"`
	DecidedAt      *time.Time          `db:"decided_at" json:"decided_at,omitempty"`
	CompletedAt    *time.Time          `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	SlotStart time.Time `db:"slot_start" json:"slot_start"`
	SlotEnd   time.Time `db:"slot_end" json:"slot_end"`
	UserName  string    `db:"user_name" json:"user_name"`
	UserEmail string    `db:"user_email" json:"user_email"`
}

type DecisionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}
