package product

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/jeogi-market/internal/database"
)

var productColumns = []string{
	"id", "owner_id", "product_name", "description", "price",
	"purchase_link", "image_urls", "status", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepository(database.NewBunDB(sqlDB)), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO "products" .* RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := repo.Create(context.Background(), &Product{
		OwnerID:     ownerID,
		ProductName: "Lamp",
		Description: "d",
		Price:       100,
		ImageURLs:   []string{bucketBase + "a.jpg"},
		Status:      StatusAvailable,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM "products" AS "p" WHERE \(id = 42\)`).
		WillReturnRows(sqlmock.NewRows(productColumns).AddRow(
			42, ownerID.String(), "Lamp", "d", 100, "",
			"{https://cdn.example.com/product-images/a.jpg,https://cdn.example.com/product-images/b.jpg}",
			"available", testNow, testNow,
		))

	p, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, ownerID, p.OwnerID)
	assert.Equal(t, []string{bucketBase + "a.jpg", bucketBase + "b.jpg"}, p.ImageURLs)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM "products"`).WillReturnRows(sqlmock.NewRows(productColumns))

	_, err := repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM "products" AS "p" ORDER BY .*created_at.* DESC.* LIMIT 20`).
		WillReturnRows(sqlmock.NewRows(productColumns))

	products, err := repo.List(context.Background(), 20)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateScopedToOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	status := StatusSold

	mock.ExpectExec(`UPDATE "products" AS "p" SET updated_at = .*, status = 'sold' WHERE \(id = 42\) AND \(owner_id = '` + ownerID.String() + `'\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), 42, ownerID, Patch{Status: &status}, testNow))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateNoRows(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	name := "x"

	mock.ExpectExec(`UPDATE "products"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 42, ownerID, Patch{ProductName: &name}, testNow)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM "products" AS "p" WHERE \(id = 42\) AND \(owner_id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "products"`).WillReturnError(errors.New("db down"))

	require.NoError(t, repo.Delete(context.Background(), 42, ownerID))

	err := repo.Delete(context.Background(), 42, ownerID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
