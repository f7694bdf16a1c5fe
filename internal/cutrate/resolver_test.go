package cutrate

import (
	"context"
	"errors"
	"testing"

	"featuresgym/internal/plan"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type MockRuleRepo struct{ mock.Mock }

func (m *MockRuleRepo) GetRulesForGym(ctx context.Context, gymID int) (Rules, error) {
	args := m.Called(ctx, gymID)
	return args.Get(0).(Rules), args.Error(1)
}

func (m *MockRuleRepo) CreateTierDurationRule(ctx context.Context, rule TierDurationRule) (*TierDurationRule, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TierDurationRule), args.Error(1)
}

func (m *MockRuleRepo) CreatePriceRangeRule(ctx context.Context, rule PriceRangeRule) (*PriceRangeRule, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PriceRangeRule), args.Error(1)
}

func tierRules() []TierDurationRule {
	return []TierDurationRule{
		{ID: 1, Tier: plan.Tier1, Duration: plan.DurationMonthly, Percentage: d("60")},
		{ID: 2, Tier: plan.Tier2, Duration: plan.DurationMonthly, Percentage: d("70")},
		{ID: 3, Tier: plan.Tier3, Duration: plan.DurationYearly, Percentage: d("85")},
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		tier     plan.Tier
		duration plan.Duration
		rules    Rules
		want     string
		wantErr  error
	}{
		{
			name:     "tier and duration match",
			price:    "3000",
			tier:     plan.Tier2,
			duration: plan.DurationMonthly,
			rules:    Rules{TierDurations: tierRules()},
			want:     "70",
		},
		{
			name:     "price range wins over matching tier rule",
			price:    "3000",
			tier:     plan.Tier2,
			duration: plan.DurationMonthly,
			rules: Rules{
				TierDurations: tierRules(),
				PriceRanges:   []PriceRangeRule{{ID: 9, MinPrice: d("2000"), MaxPrice: d("4000"), Percentage: d("55")}},
			},
			want: "55",
		},
		{
			name:     "range bounds are inclusive",
			price:    "4000",
			tier:     plan.Tier2,
			duration: plan.DurationMonthly,
			rules: Rules{
				TierDurations: tierRules(),
				PriceRanges:   []PriceRangeRule{{ID: 9, MinPrice: d("2000"), MaxPrice: d("4000"), Percentage: d("55")}},
			},
			want: "55",
		},
		{
			name:     "price outside range falls back to tier rule",
			price:    "4000.01",
			tier:     plan.Tier2,
			duration: plan.DurationMonthly,
			rules: Rules{
				TierDurations: tierRules(),
				PriceRanges:   []PriceRangeRule{{ID: 9, MinPrice: d("2000"), MaxPrice: d("4000"), Percentage: d("55")}},
			},
			want: "70",
		},
		{
			name:     "narrowest overlapping range wins",
			price:    "500",
			tier:     plan.Tier1,
			duration: plan.DurationMonthly,
			rules: Rules{PriceRanges: []PriceRangeRule{
				{ID: 1, MinPrice: d("0"), MaxPrice: d("10000"), Percentage: d("40")},
				{ID: 2, MinPrice: d("400"), MaxPrice: d("600"), Percentage: d("65")},
			}},
			want: "65",
		},
		{
			name:     "equal width ranges pick lowest id",
			price:    "500",
			tier:     plan.Tier1,
			duration: plan.DurationMonthly,
			rules: Rules{PriceRanges: []PriceRangeRule{
				{ID: 7, MinPrice: d("450"), MaxPrice: d("550"), Percentage: d("20")},
				{ID: 3, MinPrice: d("400"), MaxPrice: d("500"), Percentage: d("30")},
			}},
			want: "30",
		},
		{
			name:     "no rule",
			price:    "3000",
			tier:     plan.Tier3,
			duration: plan.DurationWeekly,
			rules:    Rules{TierDurations: tierRules()},
			wantErr:  ErrNoCutRuleFound,
		},
		{
			name:     "empty rule set",
			price:    "3000",
			tier:     plan.Tier1,
			duration: plan.DurationMonthly,
			wantErr:  ErrNoCutRuleFound,
		},
		{
			name:     "percentage above 100",
			price:    "3000",
			tier:     plan.Tier2,
			duration: plan.DurationMonthly,
			rules:    Rules{TierDurations: []TierDurationRule{{ID: 1, Tier: plan.Tier2, Duration: plan.DurationMonthly, Percentage: d("100.5")}}},
			wantErr:  plan.ErrConfiguration,
		},
		{
			name:     "negative range percentage",
			price:    "3000",
			tier:     plan.Tier2,
			duration: plan.DurationMonthly,
			rules:    Rules{PriceRanges: []PriceRangeRule{{ID: 1, MinPrice: d("0"), MaxPrice: d("10"), Percentage: d("-1")}}},
			wantErr:  plan.ErrConfiguration,
		},
		{
			name:     "inverted range",
			price:    "3000",
			tier:     plan.Tier2,
			duration: plan.DurationMonthly,
			rules:    Rules{PriceRanges: []PriceRangeRule{{ID: 1, MinPrice: d("100"), MaxPrice: d("10"), Percentage: d("50")}}},
			wantErr:  plan.ErrConfiguration,
		},
		{
			name:     "duplicate tier rule",
			price:    "3000",
			tier:     plan.Tier2,
			duration: plan.DurationMonthly,
			rules: Rules{TierDurations: []TierDurationRule{
				{ID: 1, Tier: plan.Tier2, Duration: plan.DurationMonthly, Percentage: d("70")},
				{ID: 2, Tier: plan.Tier2, Duration: plan.DurationMonthly, Percentage: d("75")},
			}},
			wantErr: plan.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(d(tt.price), tt.tier, tt.duration, tt.rules)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestResolve_PriceRangePrecedenceIgnoresOrder(t *testing.T) {
	ranges := []PriceRangeRule{{ID: 5, MinPrice: d("1000"), MaxPrice: d("5000"), Percentage: d("50")}}
	tiers := tierRules()

	forward, err := Resolve(d("3000"), plan.Tier2, plan.DurationMonthly, Rules{PriceRanges: ranges, TierDurations: tiers})
	require.NoError(t, err)

	reversed := []TierDurationRule{tiers[2], tiers[1], tiers[0]}
	backward, err := Resolve(d("3000"), plan.Tier2, plan.DurationMonthly, Rules{TierDurations: reversed, PriceRanges: ranges})
	require.NoError(t, err)

	assert.True(t, forward.Equal(d("50")))
	assert.True(t, backward.Equal(forward))
}

func TestResolver_ResolveForPlan(t *testing.T) {
	repo := new(MockRuleRepo)
	repo.On("GetRulesForGym", mock.Anything, 4).Return(Rules{TierDurations: tierRules()}, nil)

	r := NewResolver(repo)
	pct, err := r.ResolveForPlan(context.Background(), plan.MembershipPlan{
		ID: 11, GymID: 4, Tier: plan.Tier2, Duration: plan.DurationMonthly, Price: d("3000"),
	})

	require.NoError(t, err)
	assert.True(t, pct.Equal(d("70")))
	repo.AssertExpectations(t)
}

func TestResolver_ResolveForPlan_NoRule(t *testing.T) {
	repo := new(MockRuleRepo)
	repo.On("GetRulesForGym", mock.Anything, 4).Return(Rules{}, nil)

	_, err := NewResolver(repo).ResolveForPlan(context.Background(), plan.MembershipPlan{
		ID: 11, GymID: 4, Tier: plan.Tier2, Duration: plan.DurationMonthly, Price: d("3000"),
	})

	assert.True(t, errors.Is(err, ErrNoCutRuleFound))
	assert.Contains(t, err.Error(), "plan 11")
}

func TestResolver_ResolveForPlan_RepoError(t *testing.T) {
	repo := new(MockRuleRepo)
	repo.On("GetRulesForGym", mock.Anything, 4).Return(Rules{}, errors.New("db down"))

	_, err := NewResolver(repo).ResolveForPlan(context.Background(), plan.MembershipPlan{GymID: 4})
	assert.EqualError(t, err, "db down")
}
