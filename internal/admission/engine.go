package admission

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"featuresgym/internal/gym"

	"github.com/shopspring/decimal"
)

const defaultReasonTemplate = "Booking automatically cancelled due to {condition}."

var conditionLabels = map[Condition]string{
	HighOccupancy: "high occupancy",
	Maintenance:   "scheduled maintenance",
	NonMemberPeak: "non-member booking during peak hours",
}

// Evaluate decides one pending booking. Cancel conditions are checked
// before accept conditions, so a booking that matches both is cancelled.
// A nil rule set means automatic processing is off and the booking stays
// unresolved. Evaluate never fails: a malformed window simply never
// matches.
func Evaluate(b PendingBooking, rs *RuleSet, occ gym.Occupancy) Decision {
	d := Decision{BookingID: b.BookingID, Outcome: Unresolved}
	if rs == nil {
		return d
	}

	pct := occ.Percent()

	if rs.AutoCancelEnabled {
		for _, c := range cancelOrder {
			if rs.has(rs.CancelConditions, c) && cancelMatches(c, b, rs, occ, pct) {
				d.Outcome = Cancelled
				d.Condition = c
				d.Reason = cancelReason(rs, c, b, pct)
				return d
			}
		}
	}

	if rs.AutoAcceptEnabled {
		for _, c := range acceptOrder {
			if rs.has(rs.AcceptConditions, c) && acceptMatches(c, b, rs, pct) {
				d.Outcome = Accepted
				d.Condition = c
				return d
			}
		}
	}

	return d
}

func cancelMatches(c Condition, b PendingBooking, rs *RuleSet, occ gym.Occupancy, pct decimal.Decimal) bool {
	switch c {
	case HighOccupancy:
		return pct.GreaterThanOrEqual(decimal.NewFromInt(int64(rs.CancelThreshold)))
	case Maintenance:
		return occ.Maintenance
	case NonMemberPeak:
		return !b.IsMember && inWindow(b.SlotStart, rs.PeakStart, rs.PeakEnd)
	}
	return false
}

func acceptMatches(c Condition, b PendingBooking, rs *RuleSet, pct decimal.Decimal) bool {
	switch c {
	case MembersOnly:
		return b.IsMember
	case OffPeak:
		return inWindow(b.SlotStart, rs.OffPeakStart, rs.OffPeakEnd)
	case LowOccupancy:
		return pct.LessThan(decimal.NewFromInt(int64(rs.AcceptThreshold)))
	}
	return false
}

// inWindow reports whether t's clock time is in [start, end).
func inWindow(t time.Time, start, end string) bool {
	s, ok := clockMinutes(start)
	if !ok {
		return false
	}
	e, ok := clockMinutes(end)
	if !ok || s == e {
		return false
	}

	m := t.Hour()*60 + t.Minute()
	if s < e {
		return m >= s && m < e
	}
	return m >= s || m < e
}

func clockMinutes(clock string) (int, bool) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// cancelReason fills {occupancy}, {threshold}, {slot} and {condition}.
func cancelReason(rs *RuleSet, c Condition, b PendingBooking, pct decimal.Decimal) string {
	tmpl := rs.CancelReasonTemplate
	if strings.TrimSpace(tmpl) == "" {
		tmpl = defaultReasonTemplate
	}

	return strings.NewReplacer(
		"{occupancy}", pct.Round(1).String(),
		"{threshold}", strconv.Itoa(rs.CancelThreshold),
		"{slot}", b.SlotStart.Format("Jan 2, 2006 15:04"),
		"{condition}", conditionLabels[c],
	).Replace(tmpl)
}

// Validate checks thresholds, condition names and windows. The zero rule
// set (everything disabled) is valid.
func (rs *RuleSet) Validate() error {
	if rs.AcceptThreshold < 0 || rs.AcceptThreshold > 100 {
		return fmt.Errorf("%w: accept threshold %d outside 0-100", ErrInvalidRuleSet, rs.AcceptThreshold)
	}
	if rs.CancelThreshold < 0 || rs.CancelThreshold > 100 {
		return fmt.Errorf("%w: cancel threshold %d outside 0-100", ErrInvalidRuleSet, rs.CancelThreshold)
	}
	if err := checkConditions(rs.AcceptConditions, acceptOrder); err != nil {
		return err
	}
	if err := checkConditions(rs.CancelConditions, cancelOrder); err != nil {
		return err
	}
	for _, clock := range []string{rs.OffPeakStart, rs.OffPeakEnd, rs.PeakStart, rs.PeakEnd} {
		if _, ok := clockMinutes(clock); !ok {
			return fmt.Errorf("%w: window time %q is not HH:MM", ErrInvalidRuleSet, clock)
		}
	}
	return nil
}

func checkConditions(set []string, allowed []Condition) error {
	for _, s := range set {
		known := false
		for _, c := range allowed {
			if Condition(s) == c {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: unknown condition %q", ErrInvalidRuleSet, s)
		}
	}
	return nil
}
