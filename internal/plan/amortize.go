package plan

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrConfiguration marks malformed pricing configuration. Callers must fail
// the operation instead of guessing a value.
var ErrConfiguration = errors.New("configuration error")

// Day counts are fixed buckets, not calendar days. A Monthly plan is always
// 30 days regardless of the month it was sold in, so every amortized rate can
// be reproduced from the plan row alone.
var durationDays = map[Duration]int64{
	DurationDaily:      1,
	DurationWeekly:     7,
	DurationMonthly:    30,
	DurationQuarterly:  90,
	DurationHalfYearly: 180,
	DurationYearly:     365,
}

func (d Duration) Days() (int64, error) {
	days, ok := durationDays[d]
	if !ok || days == 0 {
		return 0, fmt.Errorf("%w: unrecognized plan duration %q", ErrConfiguration, string(d))
	}
	return days, nil
}

// AmortizeDailyRate returns price / days(duration) at full decimal precision.
// Rounding to currency units happens only when an amount is credited.
func AmortizeDailyRate(price decimal.Decimal, d Duration) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative plan price %s", ErrConfiguration, price)
	}

	days, err := d.Days()
	if err != nil {
		return decimal.Zero, err
	}

	return price.Div(decimal.NewFromInt(days)), nil
}
