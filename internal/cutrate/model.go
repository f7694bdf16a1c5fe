package cutrate

import (
	"featuresgym/internal/plan"

	"github.com/shopspring/decimal"
)

// TierDurationRule grants Percentage of the plan price for an exact
// tier and duration.
type TierDurationRule struct {
	ID         int             `db:"id" json:"id"`
	GymID      *int            `db:"gym_id" json:"gym_id,omitempty"`
	Tier       plan.Tier       `db:"tier" json:"tier"`
	Duration   plan.Duration   `db:"duration" json:"duration"`
	Percentage decimal.Decimal `db:"percentage" json:"percentage"`
}

// PriceRangeRule grants Percentage to any plan priced within
// [MinPrice, MaxPrice], bounds included.
type PriceRangeRule struct {
	ID         int             `db:"id" json:"id"`
	GymID      *int            `db:"gym_id" json:"gym_id,omitempty"`
	MinPrice   decimal.Decimal `db:"min_price" json:"min_price"`
	MaxPrice   decimal.Decimal `db:"max_price" json:"max_price"`
	Percentage decimal.Decimal `db:"percentage" json:"percentage"`
}

func (r PriceRangeRule) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.MinPrice) && price.LessThanOrEqual(r.MaxPrice)
}

func (r PriceRangeRule) width() decimal.Decimal {
	return r.MaxPrice.Sub(r.MinPrice)
}

type Rules struct {
	PriceRanges   []PriceRangeRule
	TierDurations []TierDurationRule
}
