package withdrawal

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"featuresgym/internal/gym"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var requestCols = []string{"id", "gym_id", "method_id", "amount", "status", "failure_reason", "created_at", "updated_at"}

func setupWithdrawalMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func balanceRows(earned, completed, pending string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"earned", "completed", "pending"}).AddRow(earned, completed, pending)
}

func TestBalance(t *testing.T) {
	repo, mock, close := setupWithdrawalMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("(SELECT COALESCE(SUM(amount), 0) FROM earnings_ledger WHERE gym_id = $1) AS earned")).
		WithArgs(2).
		WillReturnRows(balanceRows("1000.00", "0", "400.00"))

	bal, err := repo.Balance(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "600.00", bal.Available.StringFixed(2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePending(t *testing.T) {
	repo, mock, close := setupWithdrawalMock(t)
	defer close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM gyms WHERE id = $1 FOR UPDATE")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("FROM withdrawals WHERE gym_id = $1")).
		WithArgs(2).
		WillReturnRows(balanceRows("1000.00", "0", "400.00"))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO withdrawals (gym_id, method_id, amount, status) VALUES ($1, $2, $3, 'pending')")).
		WithArgs(2, 1, dec("600")).
		WillReturnRows(sqlmock.NewRows(requestCols).AddRow(7, 2, 1, "600.00", "pending", nil, now, now))
	mock.ExpectCommit()

	req, err := repo.CreatePending(context.Background(), 2, 1, dec("600"), dec("600"))
	require.NoError(t, err)
	require.Equal(t, 7, req.ID)
	require.Equal(t, StatusPending, req.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePending_StaleBalance(t *testing.T) {
	repo, mock, close := setupWithdrawalMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM gyms WHERE id = $1 FOR UPDATE")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("FROM withdrawals WHERE gym_id = $1")).
		WithArgs(2).
		WillReturnRows(balanceRows("1000.00", "0", "400.00"))
	mock.ExpectRollback()

	_, err := repo.CreatePending(context.Background(), 2, 1, dec("600"), dec("1000"))
	require.Equal(t, ErrConcurrentModification, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePending_UnknownGym(t *testing.T) {
	repo, mock, close := setupWithdrawalMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM gyms WHERE id = $1 FOR UPDATE")).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CreatePending(context.Background(), 42, 1, dec("600"), dec("600"))
	require.Equal(t, gym.ErrGymNotFound, err)
}

func TestTransition(t *testing.T) {
	repo, mock, close := setupWithdrawalMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE withdrawals SET status = $1, failure_reason = NULLIF($2, ''), updated_at = NOW() WHERE id = $3 AND status = 'pending'")).
		WithArgs(StatusFailed, "bank rejected", 7).
		WillReturnRows(sqlmock.NewRows(requestCols).AddRow(7, 2, 1, "600.00", "failed", "bank rejected", now, now))

	req, err := repo.Transition(context.Background(), 7, StatusFailed, "bank rejected")
	require.NoError(t, err)
	require.Equal(t, "bank rejected", *req.FailureReason)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE withdrawals SET status = $1")).
		WithArgs(StatusCompleted, "", 7).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Transition(context.Background(), 7, StatusCompleted, "")
	require.Equal(t, ErrNotPending, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMethod_OtherGym(t *testing.T) {
	repo, mock, close := setupWithdrawalMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM payout_methods WHERE id = $1 AND gym_id = $2")).
		WithArgs(1, 3).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetMethod(context.Background(), 3, 1)
	require.Equal(t, ErrMethodNotFound, err)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, close := setupWithdrawalMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM withdrawals WHERE id = $1")).
		WithArgs(9).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	require.Equal(t, ErrWithdrawalNotFound, err)
}
