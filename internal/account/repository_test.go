package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/jeogi-market/internal/database"
)

var accountColumns = []string{"id", "email", "password_hash", "display_name", "nickname", "created_at"}

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepository(database.NewBunDB(sqlDB)), mock
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM "accounts" AS "a" WHERE \(email = 'kim@gachon\.ac\.kr'\)`).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id.String(), "kim@gachon.ac.kr", "hash", "Kim", "kimmy", created))

	got, err := repo.GetByEmail(context.Background(), "  Kim@Gachon.ac.kr ")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "kimmy", got.Nickname)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.GetByEmail(context.Background(), "nobody@gachon.ac.kr")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM "accounts"`).WillReturnError(errors.New("db down"))

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "db down")
}

func TestExistsByNickname(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" AS "a" WHERE \(nickname = 'kimmy'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.ExistsByNickname(context.Background(), " kimmy ")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestExistsByEmail_Free(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	taken, err := repo.ExistsByEmail(context.Background(), "new@gachon.ac.kr")
	require.NoError(t, err)
	assert.False(t, taken)
}
