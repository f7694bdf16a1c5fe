package cutrate

import (
	"context"
	"fmt"

	"featuresgym/internal/plan"

	"github.com/shopspring/decimal"
)

type PlanLookup interface {
	GetPlanByID(ctx context.Context, id int) (*plan.MembershipPlan, error)
}

// RateService answers what a gym earns per visit on one of its plans.
type RateService struct {
	plans    PlanLookup
	rules    RuleRepository
	resolver *Resolver
}

func NewRateService(plans PlanLookup, rules RuleRepository) *RateService {
	return &RateService{plans: plans, rules: rules, resolver: NewResolver(rules)}
}

func (s *RateService) PlanRate(ctx context.Context, gymID, planID int) (*plan.RateResponse, error) {
	p, err := s.plans.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p.GymID != gymID {
		return nil, plan.ErrPlanNotFound
	}

	daily, err := p.DailyRate()
	if err != nil {
		return nil, fmt.Errorf("plan %d: %w", p.ID, err)
	}

	pct, err := s.resolver.ResolveForPlan(ctx, *p)
	if err != nil {
		return nil, err
	}

	return &plan.RateResponse{
		PlanID:        p.ID,
		DailyRate:     daily.Round(2),
		CutPercentage: pct,
		OwnerPerVisit: daily.Mul(pct).Div(hundred).Round(2),
	}, nil
}

// AddTierDurationRule validates the rule against the existing set before
// storing it, so a duplicate tier/duration pair is refused up front.
func (s *RateService) AddTierDurationRule(ctx context.Context, rule TierDurationRule) (*TierDurationRule, error) {
	existing, err := s.rulesFor(ctx, rule.GymID)
	if err != nil {
		return nil, err
	}

	var scope Rules
	for _, r := range existing.TierDurations {
		if sameGym(r.GymID, rule.GymID) {
			scope.TierDurations = append(scope.TierDurations, r)
		}
	}
	scope.TierDurations = append(scope.TierDurations, rule)
	if err := Validate(scope); err != nil {
		return nil, err
	}

	return s.rules.CreateTierDurationRule(ctx, rule)
}

func sameGym(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *RateService) AddPriceRangeRule(ctx context.Context, rule PriceRangeRule) (*PriceRangeRule, error) {
	if err := Validate(Rules{PriceRanges: []PriceRangeRule{rule}}); err != nil {
		return nil, err
	}
	return s.rules.CreatePriceRangeRule(ctx, rule)
}

func (s *RateService) rulesFor(ctx context.Context, gymID *int) (Rules, error) {
	if gymID == nil {
		return s.rules.GetRulesForGym(ctx, 0)
	}
	return s.rules.GetRulesForGym(ctx, *gymID)
}

type TierDurationRuleRequest struct {
	GymID      *int            `json:"gym_id"`
	Tier       plan.Tier       `json:"tier" binding:"required"`
	Duration   plan.Duration   `json:"duration" binding:"required"`
	Percentage decimal.Decimal `json:"percentage"`
}

type PriceRangeRuleRequest struct {
	GymID      *int            `json:"gym_id"`
	MinPrice   decimal.Decimal `json:"min_price"`
	MaxPrice   decimal.Decimal `json:"max_price"`
	Percentage decimal.Decimal `json:"percentage"`
}
