package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"usersvc/internal/core"
)

func TestDeleteSessionByToken(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "sessions"`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, st.DeleteSessionByToken(context.Background(), "tok"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSessionByTokenMissing(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "sessions"`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.DeleteSessionByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
