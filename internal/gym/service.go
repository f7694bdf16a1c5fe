package gym

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTimeSlotInvalid = errors.New("invalid time slot")
	ErrInvalidRange    = errors.New("invalid time range")
)

type Service interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	CreateTimeSlot(ctx context.Context, gymID int, req CreateTimeSlotRequest) (*TimeSlot, error)
	GetTimeSlots(ctx context.Context, gymID int, from, to time.Time) ([]TimeSlotWithOccupancy, error)
	SetMaintenance(ctx context.Context, gymID, slotID int, maintenance bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	return s.repo.CreateGym(ctx, req.Name, req.Location, req.OwnerName, req.OwnerEmail)
}

func (s *service) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	return s.repo.GetGymByID(ctx, id)
}

func (s *service) CreateTimeSlot(ctx context.Context, gymID int, req CreateTimeSlotRequest) (*TimeSlot, error) {
	if _, err := s.repo.GetGymByID(ctx, gymID); err != nil {
		return nil, err
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, ErrTimeSlotInvalid
	}

	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, ErrTimeSlotInvalid
	}

	if !endTime.After(startTime) || req.Capacity <= 0 {
		return nil, ErrTimeSlotInvalid
	}

	return s.repo.CreateTimeSlot(ctx, gymID, startTime, endTime, req.Capacity)
}

// GetTimeSlots lists slots starting in [from, to) with live occupancy.
func (s *service) GetTimeSlots(ctx context.Context, gymID int, from, to time.Time) ([]TimeSlotWithOccupancy, error) {
	if !to.After(from) {
		return nil, ErrInvalidRange
	}

	slots, err := s.repo.GetTimeSlotsWithOccupancy(ctx, gymID, from, to)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []TimeSlotWithOccupancy{}
	}

	return slots, nil
}

// SetMaintenance flags a slot so admission can cancel bookings for it.
func (s *service) SetMaintenance(ctx context.Context, gymID, slotID int, maintenance bool) error {
	return s.repo.SetMaintenance(ctx, gymID, slotID, maintenance)
}
