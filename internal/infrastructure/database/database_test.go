package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return Wrap(sqlx.NewDb(conn, "postgres")), mock
}

func TestWithTransactionCommits(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE boards").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE boards SET title = 'x'")
		return err
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("board locked")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.WithTransaction(context.Background(), func(*sqlx.Tx) error { return boom })

	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionReportsRollbackFailure(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("board locked")
	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("connection reset"))

	err := db.WithTransaction(context.Background(), func(*sqlx.Tx) error { return boom })

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWithTransactionRollsBackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "bad graph", func() {
		_ = db.WithTransaction(context.Background(), func(*sqlx.Tx) error { panic("bad graph") })
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionCommitFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := db.WithTransaction(context.Background(), func(*sqlx.Tx) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheckAndPoolStats(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	require.NoError(t, db.HealthCheck(context.Background()))
	err := db.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database health check failed")

	stats := db.PoolStats()
	assert.Contains(t, stats, "open_connections")
	assert.Contains(t, stats, "wait_duration")
	require.NoError(t, mock.ExpectationsWereMet())
}
