package withdrawal

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type Request struct {
	ID            int             `db:"id" json:"id"`
	GymID         int             `db:"gym_id" json:"gym_id"`
	MethodID      int             `db:"method_id" json:"method_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Status        Status          `db:"status" json:"status"`
	FailureReason *string         `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Method is a payout destination registered by a gym owner.
type Method struct {
	ID        int       `db:"id" json:"id"`
	GymID     int       `db:"gym_id" json:"gym_id"`
	Kind      string    `db:"kind" json:"kind"`
	Details   string    `db:"details" json:"details"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Balance is recomputed from ledger and withdrawal rows on every read.
// Failed withdrawals are not subtracted, which releases their reservation.
type Balance struct {
	Earned    decimal.Decimal `db:"earned" json:"earned"`
	Completed decimal.Decimal `db:"completed" json:"completed"`
	Pending   decimal.Decimal `db:"pending" json:"pending"`
	Available decimal.Decimal `db:"-" json:"available"`
}

func (b Balance) withAvailable() Balance {
	b.Available = b.Earned.Sub(b.Completed).Sub(b.Pending)
	return b
}

type CreateRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	MethodID int             `json:"method_id" binding:"required,gt=0"`
}

type FailRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type CreateMethodRequest struct {
	Kind    string `json:"kind" binding:"required,oneof=bank upi"`
	Details string `json:"details" binding:"required,max=200"`
}
