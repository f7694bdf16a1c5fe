package cutrate

import (
	"context"
	"errors"
	"fmt"

	"featuresgym/internal/plan"

	"github.com/shopspring/decimal"
)

var ErrNoCutRuleFound = errors.New("no cut rule found")

var hundred = decimal.NewFromInt(100)

// Resolve returns the percentage of price the gym owner keeps.
//
// Price-range rules always win over tier/duration rules. When several ranges
// contain the price, the narrowest range wins and equal widths fall back to
// the lowest rule ID, so the result never depends on row order.
func Resolve(price decimal.Decimal, tier plan.Tier, duration plan.Duration, rules Rules) (decimal.Decimal, error) {
	if err := Validate(rules); err != nil {
		return decimal.Zero, err
	}

	var best *PriceRangeRule
	for i := range rules.PriceRanges {
		r := &rules.PriceRanges[i]
		if !r.Contains(price) {
			continue
		}
		if best == nil || r.width().LessThan(best.width()) ||
			(r.width().Equal(best.width()) && r.ID < best.ID) {
			best = r
		}
	}
	if best != nil {
		return best.Percentage, nil
	}

	for _, r := range rules.TierDurations {
		if r.Tier == tier && r.Duration == duration {
			return r.Percentage, nil
		}
	}

	return decimal.Zero, fmt.Errorf("%w: price %s, %s, %s", ErrNoCutRuleFound, price, tier, duration)
}

// Validate reports the first malformed rule in the set.
func Validate(rules Rules) error {
	seen := make(map[string]int, len(rules.TierDurations))

	for _, r := range rules.TierDurations {
		if err := checkPercentage(r.Percentage); err != nil {
			return fmt.Errorf("tier/duration rule %d: %w", r.ID, err)
		}
		if !r.Tier.Valid() {
			return fmt.Errorf("%w: tier/duration rule %d has unknown tier %q", plan.ErrConfiguration, r.ID, string(r.Tier))
		}
		if !r.Duration.Valid() {
			return fmt.Errorf("%w: tier/duration rule %d has unknown duration %q", plan.ErrConfiguration, r.ID, string(r.Duration))
		}
		key := string(r.Tier) + "|" + string(r.Duration)
		if other, dup := seen[key]; dup {
			return fmt.Errorf("%w: tier/duration rules %d and %d both cover %s %s", plan.ErrConfiguration, other, r.ID, r.Tier, r.Duration)
		}
		seen[key] = r.ID
	}

	for _, r := range rules.PriceRanges {
		if err := checkPercentage(r.Percentage); err != nil {
			return fmt.Errorf("price-range rule %d: %w", r.ID, err)
		}
		if r.MinPrice.IsNegative() || r.MaxPrice.LessThan(r.MinPrice) {
			return fmt.Errorf("%w: price-range rule %d has invalid bounds [%s, %s]", plan.ErrConfiguration, r.ID, r.MinPrice, r.MaxPrice)
		}
	}

	return nil
}

func checkPercentage(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("%w: percentage %s outside [0, 100]", plan.ErrConfiguration, p)
	}
	return nil
}

// Resolver resolves cut percentages for stored plans.
type Resolver struct {
	rules RuleRepository
}

func NewResolver(rules RuleRepository) *Resolver {
	return &Resolver{rules: rules}
}

func (r *Resolver) ResolveForPlan(ctx context.Context, p plan.MembershipPlan) (decimal.Decimal, error) {
	rules, err := r.rules.GetRulesForGym(ctx, p.GymID)
	if err != nil {
		return decimal.Zero, err
	}

	pct, err := Resolve(p.Price, p.Tier, p.Duration, rules)
	if err != nil {
		return decimal.Zero, fmt.Errorf("plan %d: %w", p.ID, err)
	}

	return pct, nil
}
