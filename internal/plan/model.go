package plan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Tier string
type Duration string

const (
	Tier1 Tier = "Tier 1"
	Tier2 Tier = "Tier 2"
	Tier3 Tier = "Tier 3"

	DurationDaily      Duration = "Daily"
	DurationWeekly     Duration = "Weekly"
	DurationMonthly    Duration = "Monthly"
	DurationQuarterly  Duration = "Quarterly"
	DurationHalfYearly Duration = "Half-Yearly"
	DurationYearly     Duration = "Yearly"
)

// MembershipPlan is owned by a gym and must not change once a membership
// has been sold against it.
type MembershipPlan struct {
	ID        int             `db:"id" json:"id"`
	GymID     int             `db:"gym_id" json:"gym_id"`
	Name      string          `db:"name" json:"name"`
	Tier      Tier            `db:"tier" json:"tier"`
	Duration  Duration        `db:"duration" json:"duration"`
	Price     decimal.Decimal `db:"price" json:"price"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// DailyRate amortizes the plan price over its duration.
func (p MembershipPlan) DailyRate() (decimal.Decimal, error) {
	return AmortizeDailyRate(p.Price, p.Duration)
}

func (t Tier) Valid() bool {
	switch t {
	case Tier1, Tier2, Tier3:
		return true
	}
	return false
}

func (d Duration) Valid() bool {
	_, err := d.Days()
	return err == nil
}

type RateResponse struct {
	PlanID        int             `json:"plan_id" example:"12"`
	DailyRate     decimal.Decimal `json:"daily_rate" example:"100"`
	CutPercentage decimal.Decimal `json:"cut_percentage" example:"70"`
	OwnerPerVisit decimal.Decimal `json:"owner_per_visit" example:"70"`
}

type CreatePlanRequest struct {
	Name     string          `json:"name" binding:"required,max=100"`
	Tier     Tier            `json:"tier" binding:"required"`
	Duration Duration        `json:"duration" binding:"required"`
	Price    decimal.Decimal `json:"price"`
}
