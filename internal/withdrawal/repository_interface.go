package withdrawal

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Balance(ctx context.Context, gymID int) (Balance, error)
	CreatePending(ctx context.Context, gymID, methodID int, amount, observedAvailable decimal.Decimal) (*Request, error)
	GetByID(ctx context.Context, id int) (*Request, error)
	ListByGym(ctx context.Context, gymID int) ([]Request, error)
	Transition(ctx context.Context, id int, to Status, reason string) (*Request, error)
	CreateMethod(ctx context.Context, gymID int, kind, details string) (*Method, error)
	GetMethod(ctx context.Context, gymID, methodID int) (*Method, error)
	ListMethods(ctx context.Context, gymID int) ([]Method, error)
}
