package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usersvc/internal/core"
)

func TestRecordFailedAttemptBelowThreshold(t *testing.T) {
	st, mock := newMockStore(t)
	lockUntil := time.Now().Add(15 * time.Minute)

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(5, lockUntil, sqlmock.AnyArg(), "u1").
		WillReturnRows(sqlmock.NewRows([]string{"failed_login_attempts", "locked_until"}).
			AddRow(3, nil))

	attempts, lockedUntil, err := st.RecordFailedAttempt(context.Background(), "u1", 5, lockUntil)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Nil(t, lockedUntil, "third failure must not arm the lock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailedAttemptArmsLock(t *testing.T) {
	st, mock := newMockStore(t)
	lockUntil := time.Now().Add(15 * time.Minute)

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(5, lockUntil, sqlmock.AnyArg(), "u1").
		WillReturnRows(sqlmock.NewRows([]string{"failed_login_attempts", "locked_until"}).
			AddRow(5, lockUntil))

	attempts, lockedUntil, err := st.RecordFailedAttempt(context.Background(), "u1", 5, lockUntil)
	require.NoError(t, err)
	assert.Equal(t, 5, attempts)
	require.NotNil(t, lockedUntil)
	assert.True(t, lockedUntil.Equal(lockUntil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordLoginSuccessClearsLockState(t *testing.T) {
	st, mock := newMockStore(t)
	at := time.Now()

	mock.ExpectExec(`UPDATE users`).
		WithArgs(at, at, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, st.RecordLoginSuccess(context.Background(), "u1", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordHashUnknownUser(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.UpdatePasswordHash(context.Background(), "ghost", "$2a$12$x")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
