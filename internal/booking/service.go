package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"featuresgym/internal/gym"
	"featuresgym/internal/logger"
	"featuresgym/internal/membership"
	"featuresgym/internal/metrics"
	"featuresgym/internal/notify"
)

var (
	ErrSlotInPast    = errors.New("cannot book a slot in the past")
	ErrAlreadyBooked = errors.New("user already has a booking for this slot")
)

type SlotLookup interface {
	GetTimeSlotByID(ctx context.Context, id int) (*gym.TimeSlot, error)
}

type MembershipLookup interface {
	GetActiveForUserAndGym(ctx context.Context, userID, gymID int, at time.Time) (*membership.Membership, error)
}

type Service interface {
	RequestBooking(ctx context.Context, userID, slotID int) (*Booking, error)
	GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error)
	DecideManually(ctx context.Context, gymID, bookingID int, status Status, reason string) (*BookingWithDetails, error)
}

type service struct {
	bookingRepo Repository
	slots       SlotLookup
	memberships MembershipLookup
	notifier    notify.Dispatcher
	now         func() time.Time
}

func NewService(bookingRepo Repository, slots SlotLookup, memberships MembershipLookup, notifier notify.Dispatcher) Service {
	return &service{
		bookingRepo: bookingRepo,
		slots:       slots,
		memberships: memberships,
		notifier:    notifier,
		now:         time.Now,
	}
}

// RequestBooking records a pending booking. Accepting or cancelling it is
// left to admission rules or the owner. Members book under their active plan
// so the visit can be credited to the gym on completion.
func (s *service) RequestBooking(ctx context.Context, userID, slotID int) (*Booking, error) {
	slot, err := s.slots.GetTimeSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if slot.StartTime.Before(s.now()) {
		return nil, ErrSlotInPast
	}

	hasBooking, err := s.bookingRepo.UserHasBookingForSlot(ctx, userID, slotID)
	if err != nil {
		return nil, err
	}
	if hasBooking {
		return nil, ErrAlreadyBooked
	}

	var planID *int
	m, err := s.memberships.GetActiveForUserAndGym(ctx, userID, slot.GymID, slot.StartTime)
	switch {
	case err == nil:
		planID = &m.PlanID
	case !errors.Is(err, membership.ErrNoActiveMembership):
		return nil, err
	}

	b, err := s.bookingRepo.CreateBooking(ctx, userID, slot.GymID, slotID, planID)
	if err != nil {
		return nil, err
	}

	payer := "drop_in"
	if planID != nil {
		payer = "membership"
	}
	metrics.RecordBooking(string(StatusPending), payer)
	logger.Info("Booking requested", "booking_id", b.ID, "user_id", userID, "slot_id", slotID, "payer", payer)

	return b, nil
}

func (s *service) GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error) {
	return s.bookingRepo.GetBookingsByGym(ctx, gymID)
}

// DecideManually lets the owner accept or cancel a booking that admission
// rules left pending. The same pending-only guard applies, so a booking
// already decided automatically cannot be overturned here.
func (s *service) DecideManually(ctx context.Context, gymID, bookingID int, status Status, reason string) (*BookingWithDetails, error) {
	if status != StatusAccepted && status != StatusCancelled {
		return nil, fmt.Errorf("cannot decide booking as %q", status)
	}

	b, err := s.bookingRepo.GetDetailsByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.GymID != gymID {
		return nil, ErrBookingNotFound
	}

	if err := s.bookingRepo.Decide(ctx, bookingID, status, reason); err != nil {
		return nil, err
	}

	b.Status = status
	if reason != "" {
		b.DecisionReason = &reason
	}

	metrics.RecordAdmissionDecision(string(status), "manual")
	logger.Info("Booking decided by owner", "booking_id", bookingID, "gym_id", gymID, "status", string(status))

	var n notify.Notification
	if status == StatusAccepted {
		n = notify.BookingAccepted(b.ID, b.UserEmail, b.UserName, b.SlotStart)
	} else {
		n = notify.BookingCancelled(b.ID, b.UserEmail, b.UserName, b.SlotStart, reason)
	}
	if err := s.notifier.Dispatch(ctx, n); err != nil {
		logger.Error("Booking notification not queued", "booking_id", b.ID, "error", err)
	}

	return b, nil
}
