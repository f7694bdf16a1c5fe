package booking

import "context"

type Repository interface {
	CreateBooking(ctx context.Context, userID, gymID, timeSlotID int, planID *int) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	GetDetailsByID(ctx context.Context, id int) (*BookingWithDetails, error)
	UserHasBookingForSlot(ctx context.Context, userID, timeSlotID int) (bool, error)
	ListPendingByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error)
	GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error)
	Decide(ctx context.Context, id int, status Status, reason string) error
}
