package cutrate

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) RuleRepository {
	return &repository{db: db}
}

// GetRulesForGym returns the gym's own rules of each kind, or the
// platform-wide rules (gym_id IS NULL) when the gym has none of that kind.
func (r *repository) GetRulesForGym(ctx context.Context, gymID int) (Rules, error) {
	var rules Rules

	err := r.db.SelectContext(ctx, &rules.TierDurations, `
		SELECT id, gym_id, tier, duration, percentage
		FROM cut_tier_rules
		WHERE gym_id = $1
		   OR (gym_id IS NULL AND NOT EXISTS (SELECT 1 FROM cut_tier_rules WHERE gym_id = $1))
		ORDER BY id ASC
	`, gymID)
	if err != nil {
		return Rules{}, err
	}

	err = r.db.SelectContext(ctx, &rules.PriceRanges, `
		SELECT id, gym_id, min_price, max_price, percentage
		FROM cut_price_rules
		WHERE gym_id = $1
		   OR (gym_id IS NULL AND NOT EXISTS (SELECT 1 FROM cut_price_rules WHERE gym_id = $1))
		ORDER BY id ASC
	`, gymID)
	if err != nil {
		return Rules{}, err
	}

	return rules, nil
}

func (r *repository) CreateTierDurationRule(ctx context.Context, rule TierDurationRule) (*TierDurationRule, error) {
	if err := Validate(Rules{TierDurations: []TierDurationRule{rule}}); err != nil {
		return nil, err
	}

	var created TierDurationRule
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO cut_tier_rules (gym_id, tier, duration, percentage)
		VALUES ($1, $2, $3, $4)
		RETURNING id, gym_id, tier, duration, percentage
	`, rule.GymID, rule.Tier, rule.Duration, rule.Percentage)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) CreatePriceRangeRule(ctx context.Context, rule PriceRangeRule) (*PriceRangeRule, error) {
	if err := Validate(Rules{PriceRanges: []PriceRangeRule{rule}}); err != nil {
		return nil, err
	}

	var created PriceRangeRule
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO cut_price_rules (gym_id, min_price, max_price, percentage)
		VALUES ($1, $2, $3, $4)
		RETURNING id, gym_id, min_price, max_price, percentage
	`, rule.GymID, rule.MinPrice, rule.MaxPrice, rule.Percentage)
	if err != nil {
		return nil, err
	}

	return &created, nil
}
