package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"featuresgym/internal/booking"
	"featuresgym/internal/gym"
	"featuresgym/internal/gymlock"
	"featuresgym/internal/logger"
	"featuresgym/internal/metrics"
	"featuresgym/internal/notify"

	"golang.org/x/sync/errgroup"
)

type BookingStore interface {
	ListPendingByGym(ctx context.Context, gymID int) ([]booking.BookingWithDetails, error)
	Decide(ctx context.Context, id int, status booking.Status, reason string) error
}

type SlotReader interface {
	ListGymIDs(ctx context.Context) ([]int, error)
	OccupancyForSlot(ctx context.Context, slotID int) (gym.Occupancy, error)
}

type MembershipChecker interface {
	HasActiveMembership(ctx context.Context, userID, gymID int, at time.Time) (bool, error)
}

// Windows are the platform defaults for gyms that leave theirs blank.
type Windows struct {
	OffPeakStart string
	OffPeakEnd   string
	PeakStart    string
	PeakEnd      string
}

// Report summarizes one pass over a gym's pending bookings.
type Report struct {
	GymID      int        `json:"gym_id"`
	Evaluated  int        `json:"evaluated"`
	Accepted   int        `json:"accepted"`
	Cancelled  int        `json:"cancelled"`
	Unresolved int        `json:"unresolved"`
	Decisions  []Decision `json:"decisions"`
}

type Service struct {
	repo     Repository
	bookings BookingStore
	slots    SlotReader
	members  MembershipChecker
	notifier notify.Dispatcher
	locks    *gymlock.Locker
	windows  Windows
	workers  int
	now      func() time.Time
}

func NewService(repo Repository, bookings BookingStore, slots SlotReader, members MembershipChecker, notifier notify.Dispatcher, locks *gymlock.Locker, windows Windows, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		repo:     repo,
		bookings: bookings,
		slots:    slots,
		members:  members,
		notifier: notifier,
		locks:    locks,
		windows:  windows,
		workers:  workers,
		now:      time.Now,
	}
}

// GetRuleSet returns the gym's rules, or a disabled rule set carrying the
// default windows when the gym has never configured any.
func (s *Service) GetRuleSet(ctx context.Context, gymID int) (*RuleSet, error) {
	rs, err := s.repo.GetRuleSet(ctx, gymID)
	if errors.Is(err, ErrRuleSetNotFound) {
		return s.withDefaults(RuleSet{GymID: gymID}), nil
	}
	return rs, err
}

func (s *Service) SaveRuleSet(ctx context.Context, gymID int, req RuleSetRequest) (*RuleSet, error) {
	rs := s.withDefaults(req.RuleSet(gymID))
	if err := rs.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.repo.SaveRuleSet(ctx, *rs)
	if err != nil {
		return nil, err
	}

	logger.Info("Admission rules saved", "gym_id", gymID,
		"auto_accept", saved.AutoAcceptEnabled, "auto_cancel", saved.AutoCancelEnabled)
	return saved, nil
}

func (s *Service) withDefaults(rs RuleSet) *RuleSet {
	if rs.OffPeakStart == "" {
		rs.OffPeakStart = s.windows.OffPeakStart
	}
	if rs.OffPeakEnd == "" {
		rs.OffPeakEnd = s.windows.OffPeakEnd
	}
	if rs.PeakStart == "" {
		rs.PeakStart = s.windows.PeakStart
	}
	if rs.PeakEnd == "" {
		rs.PeakEnd = s.windows.PeakEnd
	}
	if rs.AcceptConditions == nil {
		rs.AcceptConditions = []string{}
	}
	if rs.CancelConditions == nil {
		rs.CancelConditions = []string{}
	}
	return &rs
}

// EvaluateAllPending decides every pending booking of one gym, oldest
// first. Occupancy is re-read per booking so acceptances made earlier in
// the pass count against later ones. Bookings decided elsewhere in the
// meantime are skipped without side effects, which makes the pass safe
// to repeat.
func (s *Service) EvaluateAllPending(ctx context.Context, gymID int) (*Report, error) {
	report := &Report{GymID: gymID, Decisions: []Decision{}}

	rs, err := s.repo.GetRuleSet(ctx, gymID)
	if errors.Is(err, ErrRuleSetNotFound) {
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load admission rules for gym %d: %w", gymID, err)
	}
	if !rs.AutoAcceptEnabled && !rs.AutoCancelEnabled {
		return report, nil
	}

	unlock := s.locks.Lock(gymID)
	defer unlock()

	pending, err := s.bookings.ListPendingByGym(ctx, gymID)
	if err != nil {
		return nil, fmt.Errorf("list pending bookings for gym %d: %w", gymID, err)
	}

	var errs []error
	for _, b := range pending {
		d, err := s.decide(ctx, rs, b)
		if err != nil {
			errs = append(errs, fmt.Errorf("booking %d: %w", b.ID, err))
			continue
		}
		if d == nil {
			continue
		}

		report.Evaluated++
		switch d.Outcome {
		case Accepted:
			report.Accepted++
		case Cancelled:
			report.Cancelled++
		default:
			report.Unresolved++
		}
		if d.Outcome != Unresolved {
			report.Decisions = append(report.Decisions, *d)
		}
	}

	if report.Accepted+report.Cancelled > 0 {
		logger.Info("Admission pass finished", "gym_id", gymID, "accepted", report.Accepted,
			"cancelled", report.Cancelled, "unresolved", report.Unresolved)
	}

	return report, errors.Join(errs...)
}

// decide evaluates and persists one booking. A nil decision means the
// booking was already decided by someone else.
func (s *Service) decide(ctx context.Context, rs *RuleSet, b booking.BookingWithDetails) (*Decision, error) {
	occ, err := s.slots.OccupancyForSlot(ctx, b.TimeSlotID)
	if err != nil {
		return nil, err
	}

	// Membership is judged as it stands when the decision is made.
	isMember, err := s.members.HasActiveMembership(ctx, b.UserID, b.GymID, s.now())
	if err != nil {
		return nil, err
	}

	d := Evaluate(PendingBooking{
		BookingID:  b.ID,
		UserID:     b.UserID,
		GymID:      b.GymID,
		TimeSlotID: b.TimeSlotID,
		SlotStart:  b.SlotStart,
		IsMember:   isMember,
	}, rs, occ)

	if d.Outcome == Unresolved {
		metrics.RecordAdmissionDecision(string(d.Outcome), "")
		return &d, nil
	}

	status := booking.StatusAccepted
	if d.Outcome == Cancelled {
		status = booking.StatusCancelled
	}

	if err := s.bookings.Decide(ctx, b.ID, status, d.Reason); err != nil {
		if errors.Is(err, booking.ErrAlreadyDecided) {
			return nil, nil
		}
		return nil, err
	}

	metrics.RecordAdmissionDecision(string(d.Outcome), string(d.Condition))
	logger.Debug("Booking decided", "booking_id", b.ID, "outcome", string(d.Outcome), "condition", string(d.Condition))

	var n notify.Notification
	if d.Outcome == Accepted {
		n = notify.BookingAccepted(b.ID, b.UserEmail, b.UserName, b.SlotStart)
	} else {
		n = notify.BookingCancelled(b.ID, b.UserEmail, b.UserName, b.SlotStart, d.Reason)
	}
	if err := s.notifier.Dispatch(ctx, n); err != nil {
		logger.Error("Booking notification not queued", "booking_id", b.ID, "error", err)
	}

	return &d, nil
}

// EvaluateAllGyms runs one admission pass per gym, several gyms at a time.
// A failing gym is logged and does not stop the others.
func (s *Service) EvaluateAllGyms(ctx context.Context) error {
	gymIDs, err := s.slots.ListGymIDs(ctx)
	if err != nil {
		return fmt.Errorf("list gyms: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, id := range gymIDs {
		id := id
		g.Go(func() error {
			if _, err := s.EvaluateAllPending(gctx, id); err != nil {
				logger.Error("Admission pass failed", "gym_id", id, "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Run repeats EvaluateAllGyms every interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		logger.Error("Admission worker not started", "interval", interval.String())
		return
	}
	logger.Info("Admission worker started", "interval", interval.String(), "workers", s.workers)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Admission worker stopped")
			return
		case <-ticker.C:
			if err := s.EvaluateAllGyms(ctx); err != nil {
				logger.Error("Admission run failed", "error", err)
			}
		}
	}
}
