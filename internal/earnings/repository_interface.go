package earnings

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	CompleteAndCredit(ctx context.Context, bookingID int, dailyRate, amount decimal.Decimal, completedAt time.Time) error
	Total(ctx context.Context, gymID int) (decimal.Decimal, error)
	Daily(ctx context.Context, gymID int, from, to time.Time) ([]Entry, error)
}
