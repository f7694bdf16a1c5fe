package earnings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"featuresgym/internal/booking"
	"featuresgym/internal/cutrate"
	"featuresgym/internal/logger"
	"featuresgym/internal/membership"
	"featuresgym/internal/metrics"
	"featuresgym/internal/plan"

	"github.com/shopspring/decimal"
)

var ErrInvalidRange = errors.New("invalid date range")

var hundred = decimal.NewFromInt(100)

type CutResolver interface {
	ResolveForPlan(ctx context.Context, p plan.MembershipPlan) (decimal.Decimal, error)
}

type Service struct {
	ledger      Repository
	bookings    booking.Repository
	plans       plan.Repository
	resolver    CutResolver
	memberships membership.Repository
	now         func() time.Time
}

func NewService(ledger Repository, bookings booking.Repository, plans plan.Repository, resolver CutResolver, memberships membership.Repository) *Service {
	return &Service{
		ledger:      ledger,
		bookings:    bookings,
		plans:       plans,
		resolver:    resolver,
		memberships: memberships,
		now:         time.Now,
	}
}

// RecordCompletion marks a delivered session completed and credits the
// owner's cut of one amortized day to the ledger. A session whose slot has
// not started yet cannot be completed. It is the only path that
// adds withdrawable money. Any resolution failure aborts the completion, so
// a session is never completed without its credit or credited at a guessed
// rate.
func (s *Service) RecordCompletion(ctx context.Context, gymID, bookingID int) (*Credit, error) {
	b, err := s.bookings.GetDetailsByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.GymID != gymID {
		return nil, booking.ErrBookingNotFound
	}
	if b.Status != booking.StatusAccepted || b.PlanID == nil {
		metrics.RecordEarningsFailure("not_completable")
		return nil, booking.ErrNotCompletable
	}
	if s.now().Before(b.SlotStart) {
		metrics.RecordEarningsFailure("not_started")
		return nil, fmt.Errorf("%w: slot starts %s", booking.ErrNotCompletable, b.SlotStart.Format(time.RFC3339))
	}

	p, err := s.plans.GetPlanByID(ctx, *b.PlanID)
	if err != nil {
		return nil, err
	}

	rate, err := p.DailyRate()
	if err != nil {
		s.fail(bookingID, "configuration", err)
		return nil, err
	}

	pct, err := s.resolver.ResolveForPlan(ctx, *p)
	if err != nil {
		reason := "error"
		switch {
		case errors.Is(err, cutrate.ErrNoCutRuleFound):
			reason = "no_cut_rule"
		case errors.Is(err, plan.ErrConfiguration):
			reason = "configuration"
		}
		s.fail(bookingID, reason, err)
		return nil, err
	}

	amount := rate.Mul(pct).Div(hundred).Round(2)
	completedAt := s.now()

	if err := s.ledger.CompleteAndCredit(ctx, bookingID, rate, amount, completedAt); err != nil {
		if errors.Is(err, booking.ErrNotCompletable) {
			metrics.RecordEarningsFailure("not_completable")
		}
		return nil, err
	}

	metrics.RecordSessionCompleted(amount.InexactFloat64())
	logger.Info("Session completed",
		"booking_id", bookingID,
		"gym_id", gymID,
		"plan_id", p.ID,
		"daily_rate", rate.String(),
		"cut_percentage", pct.String(),
		"credited", amount.StringFixed(2),
	)

	return &Credit{
		BookingID:     bookingID,
		GymID:         gymID,
		PlanID:        p.ID,
		Date:          ledgerDate(completedAt),
		DailyRate:     rate,
		CutPercentage: pct,
		Amount:        amount,
	}, nil
}

func (s *Service) fail(bookingID int, reason string, err error) {
	metrics.RecordEarningsFailure(reason)
	logger.Error("Session completion not credited", "booking_id", bookingID, "reason", reason, "error", err)
}

// WithdrawableBalance is everything the gym has earned from completed
// sessions. Withdrawals are subtracted by the withdrawal service.
func (s *Service) WithdrawableBalance(ctx context.Context, gymID int) (decimal.Decimal, error) {
	return s.ledger.Total(ctx, gymID)
}

// TotalRevenue is informational and, like WithdrawableBalance, counts
// completed-session earnings only.
func (s *Service) TotalRevenue(ctx context.Context, gymID int) (decimal.Decimal, error) {
	return s.ledger.Total(ctx, gymID)
}

func (s *Service) DailyBreakdown(ctx context.Context, gymID int, from, to time.Time) ([]Entry, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: %s is not after %s", ErrInvalidRange, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	return s.ledger.Daily(ctx, gymID, from, to)
}

func (s *Service) Summary(ctx context.Context, gymID int) (*Summary, error) {
	earned, err := s.ledger.Total(ctx, gymID)
	if err != nil {
		return nil, err
	}

	sales, err := s.memberships.SalesRevenue(ctx, gymID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		GymID:           gymID,
		SessionEarnings: earned,
		Withdrawable:    earned,
		MembershipSales: sales,
	}, nil
}
