package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestHealthy(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	dbx := sqlx.NewDb(conn, "sqlmock")
	defer dbx.Close()

	mock.ExpectPing()
	require.NoError(t, Healthy(context.Background(), dbx))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	require.Error(t, Healthy(context.Background(), dbx))

	require.NoError(t, mock.ExpectationsWereMet())
}

type deadlineChecker struct{ hadDeadline bool }

func (d *deadlineChecker) PingContext(ctx context.Context) error {
	_, d.hadDeadline = ctx.Deadline()
	return nil
}

func TestHealthy_SetsDeadline(t *testing.T) {
	p := &deadlineChecker{}
	require.NoError(t, Healthy(context.Background(), p))
	require.True(t, p.hadDeadline)
}
