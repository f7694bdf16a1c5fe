package withdrawal

import (
	"context"
	"errors"
	"fmt"

	"featuresgym/internal/gym"
	"featuresgym/internal/gymlock"
	"featuresgym/internal/logger"
	"featuresgym/internal/metrics"
	"featuresgym/internal/notify"

	"github.com/shopspring/decimal"
)

// OwnerDirectory resolves where withdrawal notifications go.
type OwnerDirectory interface {
	GetGymByID(ctx context.Context, id int) (*gym.Gym, error)
}

type Service struct {
	repo     Repository
	owners   OwnerDirectory
	notifier notify.Dispatcher
	locks    *gymlock.Locker
	minimum  decimal.Decimal
	currency string
}

func NewService(repo Repository, owners OwnerDirectory, notifier notify.Dispatcher, locks *gymlock.Locker, minimum decimal.Decimal, currency string) *Service {
	return &Service{
		repo:     repo,
		owners:   owners,
		notifier: notifier,
		locks:    locks,
		minimum:  minimum,
		currency: currency,
	}
}

func (s *Service) AvailableBalance(ctx context.Context, gymID int) (Balance, error) {
	return s.repo.Balance(ctx, gymID)
}

// RequestWithdrawal reserves amount from the gym's available balance as a
// pending withdrawal. Requests for the same gym run one at a time; if the
// balance still moves between the check and the write, the check is
// repeated once against a fresh balance before giving up.
func (s *Service) RequestWithdrawal(ctx context.Context, gymID int, amount decimal.Decimal, methodID int) (*Request, error) {
	if !amount.IsPositive() || amount.LessThan(s.minimum) {
		metrics.RecordWithdrawalRejection("below_minimum")
		return nil, fmt.Errorf("%w: %s %s requested, minimum is %s", ErrBelowMinimumWithdrawal, amount, s.currency, s.minimum)
	}

	unlock := s.locks.Lock(gymID)
	defer unlock()

	if _, err := s.repo.GetMethod(ctx, gymID, methodID); err != nil {
		return nil, err
	}

	var (
		req *Request
		err error
	)
	for attempt := 0; attempt < 2; attempt++ {
		var bal Balance
		bal, err = s.repo.Balance(ctx, gymID)
		if err != nil {
			return nil, err
		}

		if amount.GreaterThan(bal.Available) {
			metrics.RecordWithdrawalRejection("insufficient_balance")
			return nil, fmt.Errorf("%w: %s %s requested, %s available", ErrInsufficientBalance, amount, s.currency, bal.Available)
		}

		req, err = s.repo.CreatePending(ctx, gymID, methodID, amount, bal.Available)
		if !errors.Is(err, ErrConcurrentModification) {
			break
		}
		logger.Info("Withdrawal balance moved, re-reading", "gym_id", gymID, "attempt", attempt+1)
	}
	if err != nil {
		if errors.Is(err, ErrConcurrentModification) {
			metrics.RecordWithdrawalRejection("concurrent_modification")
		}
		if errors.Is(err, ErrInsufficientBalance) {
			metrics.RecordWithdrawalRejection("insufficient_balance")
		}
		return nil, err
	}

	metrics.RecordWithdrawal(string(StatusPending))
	logger.Info("Withdrawal requested", "withdrawal_id", req.ID, "gym_id", gymID, "amount", amount.StringFixed(2))
	s.notifyOwner(ctx, req)

	return req, nil
}

// Complete is called by the external settlement process once paid out.
func (s *Service) Complete(ctx context.Context, id int) (*Request, error) {
	return s.settle(ctx, id, StatusCompleted, "")
}

// Fail releases the reserved amount back into the available balance.
func (s *Service) Fail(ctx context.Context, id int, reason string) (*Request, error) {
	return s.settle(ctx, id, StatusFailed, reason)
}

func (s *Service) settle(ctx context.Context, id int, to Status, reason string) (*Request, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(current.GymID)
	defer unlock()

	req, err := s.repo.Transition(ctx, id, to, reason)
	if err != nil {
		return nil, err
	}

	metrics.RecordWithdrawal(string(to))
	logger.Info("Withdrawal settled", "withdrawal_id", id, "gym_id", req.GymID, "status", string(to))
	s.notifyOwner(ctx, req)

	return req, nil
}

func (s *Service) notifyOwner(ctx context.Context, req *Request) {
	owner, err := s.owners.GetGymByID(ctx, req.GymID)
	if err != nil {
		logger.Error("Cannot notify gym owner", "gym_id", req.GymID, "withdrawal_id", req.ID, "error", err)
		return
	}

	reason := ""
	if req.FailureReason != nil {
		reason = *req.FailureReason
	}

	n := notify.WithdrawalUpdate(req.ID, owner.OwnerEmail, owner.OwnerName, string(req.Status), req.Amount.StringFixed(2), s.currency, reason)
	if err := s.notifier.Dispatch(ctx, n); err != nil {
		logger.Error("Withdrawal notification not queued", "withdrawal_id", req.ID, "error", err)
	}
}

func (s *Service) List(ctx context.Context, gymID int) ([]Request, error) {
	return s.repo.ListByGym(ctx, gymID)
}

func (s *Service) AddMethod(ctx context.Context, gymID int, req CreateMethodRequest) (*Method, error) {
	return s.repo.CreateMethod(ctx, gymID, req.Kind, req.Details)
}

func (s *Service) ListMethods(ctx context.Context, gymID int) ([]Method, error) {
	return s.repo.ListMethods(ctx, gymID)
}
