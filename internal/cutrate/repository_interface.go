package cutrate

import "context"

type RuleRepository interface {
	GetRulesForGym(ctx context.Context, gymID int) (Rules, error)
	CreateTierDurationRule(ctx context.Context, rule TierDurationRule) (*TierDurationRule, error)
	CreatePriceRangeRule(ctx context.Context, rule PriceRangeRule) (*PriceRangeRule, error)
}
