package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is a verified marketplace user
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	DisplayName  string    `bun:"display_name,notnull"`
	Nickname     string    `bun:"nickname,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// PendingRegistration holds a signup until its emailed token is redeemed.
// At most one row exists per email.
type PendingRegistration struct {
	bun.BaseModel `bun:"table:pending_registrations,alias:pr"`

	Email        string    `bun:"email,pk"`
	DisplayName  string    `bun:"display_name,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Nickname     string    `bun:"nickname,notnull"`
	Token        string    `bun:"token,notnull,unique"`
	ExpiresAt    time.Time `bun:"expires_at,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID           int64     `bun:"id,pk,autoincrement"`
	OwnerID      uuid.UUID `bun:"owner_id,type:uuid,notnull"`
	ProductName  string    `bun:"product_name,notnull"`
	Description  string    `bun:"description,notnull"`
	Price        int64     `bun:"price,notnull"`
	PurchaseLink string    `bun:"purchase_link,notnull"`
	ImageURLs    []string  `bun:"image_urls,array"`
	Status       string    `bun:"status,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
