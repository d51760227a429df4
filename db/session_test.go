package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) (*Pool, sqlmock.Sqlmock) {
	t.Helper()
	orm, mock := newMockORM(t)
	return NewPool(orm, "postgres"), mock
}

func TestWithSession_CommitReleasesWithoutRollback(t *testing.T) {
	pool, mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := pool.WithSession(context.Background(), func(s *Session) error {
		if err := s.DB().Exec("UPDATE users SET country = 'France'").Error; err != nil {
			return err
		}
		return s.Commit()
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSession_ReadOnlyBodyIsReleased(t *testing.T) {
	pool, mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := pool.WithSession(context.Background(), func(s *Session) error {
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSession_DataErrorRollsBackAndWraps(t *testing.T) {
	pool, mock := newMockPool(t)
	cause := errors.New("duplicate key value")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnError(cause)
	mock.ExpectRollback()

	err := pool.WithSession(context.Background(), func(s *Session) error {
		return s.DB().Exec("INSERT INTO users (firstname) VALUES ('x')").Error
	})

	var dae *DataAccessError
	require.ErrorAs(t, err, &dae)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 500, dae.StatusCode())
	assert.Equal(t, "Database connection or query failed", dae.PublicMessage())
	assert.NotContains(t, dae.PublicMessage(), "duplicate")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSession_NotFoundPassesThrough(t *testing.T) {
	pool, mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := pool.WithSession(context.Background(), func(s *Session) error {
		return ErrNotFound
	})

	assert.True(t, IsNotFound(err))
	assert.False(t, IsDataAccess(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSession_PanicStillRollsBack(t *testing.T) {
	pool, mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = pool.WithSession(context.Background(), func(s *Session) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSession_BeginFailure(t *testing.T) {
	pool, mock := newMockPool(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := pool.WithSession(context.Background(), func(s *Session) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, IsDataAccess(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSession_CommitFailureIsDataAccess(t *testing.T) {
	pool, mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := pool.WithSession(context.Background(), func(s *Session) error {
		return s.Commit()
	})

	assert.True(t, IsDataAccess(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
