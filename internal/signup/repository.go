package signup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/jeogi-market/internal/account"
	"github.com/redmonkez12/jeogi-market/internal/database"
)

var (
	ErrPendingNotFound = errors.New("pending registration not found")
	ErrAccountExists   = errors.New("account already exists")
)

// Repository persists pending registrations and promotes them to accounts
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// UpsertPending stores p, replacing any earlier pending row for the same email
func (r *Repository) UpsertPending(ctx context.Context, p *PendingRegistration) error {
	row := &database.PendingRegistration{
		Email:        p.Email,
		DisplayName:  p.DisplayName,
		PasswordHash: p.PasswordHash,
		Nickname:     p.Nickname,
		Token:        p.Token,
		ExpiresAt:    p.ExpiresAt,
		CreatedAt:    p.CreatedAt,
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (email) DO UPDATE").
		Set("display_name = EXCLUDED.display_name").
		Set("password_hash = EXCLUDED.password_hash").
		Set("nickname = EXCLUDED.nickname").
		Set("token = EXCLUDED.token").
		Set("expires_at = EXCLUDED.expires_at").
		Set("created_at = EXCLUDED.created_at").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert pending registration: %w", err)
	}

	return nil
}

// GetPendingByToken retrieves a pending registration by its verification token
func (r *Repository) GetPendingByToken(ctx context.Context, token string) (*PendingRegistration, error) {
	row := new(database.PendingRegistration)
	err := r.db.NewSelect().
		Model(row).
		Where("token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPendingNotFound
		}
		return nil, fmt.Errorf("failed to get pending registration: %w", err)
	}

	return mapDBPendingToModel(row), nil
}

func (r *Repository) DeletePendingByToken(ctx context.Context, token string) error {
	_, err := r.db.NewDelete().
		Model((*database.PendingRegistration)(nil)).
		Where("token = ?", token).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete pending registration by token: %w", err)
	}
	return nil
}

func (r *Repository) DeletePendingByEmail(ctx context.Context, email string) error {
	_, err := r.db.NewDelete().
		Model((*database.PendingRegistration)(nil)).
		Where("email = ?", email).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete pending registration by email: %w", err)
	}
	return nil
}

// AccountExists reports whether email already belongs to an account
func (r *Repository) AccountExists(ctx context.Context, email string) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*database.Account)(nil)).
		Where("email = ?", email).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check account email: %w", err)
	}
	return count > 0, nil
}

// Promote creates the account and removes the pending row in one
// transaction, so a failure leaves neither half behind.
func (r *Repository) Promote(ctx context.Context, p *PendingRegistration, accountID uuid.UUID, now time.Time) (*account.Account, error) {
	row := &database.Account{
		ID:           accountID,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		DisplayName:  p.DisplayName,
		Nickname:     p.Nickname,
		CreatedAt:    now,
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(row).Returning("NULL").Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return ErrAccountExists
			}
			return fmt.Errorf("insert account: %w", err)
		}

		if _, err := tx.NewDelete().
			Model((*database.PendingRegistration)(nil)).
			Where("email = ?", p.Email).
			Where("token = ?", p.Token).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete pending registration: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to promote pending registration: %w", err)
	}

	return &account.Account{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		Nickname:    row.Nickname,
		CreatedAt:   row.CreatedAt,
	}, nil
}

// PurgeExpired deletes pending registrations that expired before now
func (r *Repository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*database.PendingRegistration)(nil)).
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired registrations: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func mapDBPendingToModel(row *database.PendingRegistration) *PendingRegistration {
	return &PendingRegistration{
		Email:        row.Email,
		DisplayName:  row.DisplayName,
		PasswordHash: row.PasswordHash,
		Nickname:     row.Nickname,
		Token:        row.Token,
		ExpiresAt:    row.ExpiresAt,
		CreatedAt:    row.CreatedAt,
	}
}
