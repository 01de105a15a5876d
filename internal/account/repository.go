package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/jeogi-market/internal/database"
)

var ErrNotFound = errors.New("account not found")

// Repository handles account persistence
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// GetByEmail retrieves an account by its (normalized) email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	row := new(database.Account)
	err := r.db.NewSelect().
		Model(row).
		Where("email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return mapDBAccountToModel(row), nil
}

// GetByID retrieves an account by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	row := new(database.Account)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	return mapDBAccountToModel(row), nil
}

// ExistsByEmail reports whether an account already uses email
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*database.Account)(nil)).
		Where("email = ?", normalizeEmail(email)).
		Count(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return count > 0, nil
}

// ExistsByNickname reports whether an account already uses nickname
func (r *Repository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*database.Account)(nil)).
		Where("nickname = ?", strings.TrimSpace(nickname)).
		Count(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check nickname: %w", err)
	}

	return count > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// mapDBAccountToModel converts database model to domain model
func mapDBAccountToModel(row *database.Account) *Account {
	return &Account{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		DisplayName:  row.DisplayName,
		Nickname:     row.Nickname,
		CreatedAt:    row.CreatedAt,
	}
}
