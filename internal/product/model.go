package product

import (
	"time"

	"github.com/google/uuid"
)

// Listing states
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
)

// ValidStatuses lists every accepted status, in display order
var ValidStatuses = []string{StatusAvailable, StatusReserved, StatusSold}

func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Product is a marketplace listing
type Product struct {
	ID           int64     `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	ProductName  string    `json:"product_name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	PurchaseLink string    `json:"purchase_link"`
	ImageURLs    []string  `json:"image_urls"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Patch carries the fields an update changes; nil means unchanged
type Patch struct {
	ProductName  *string
	Description  *string
	Price        *int64
	PurchaseLink *string
	ImageURLs    []string
	Status       *string
}

func (p Patch) Empty() bool {
	return p.ProductName == nil && p.Description == nil && p.Price == nil &&
		p.PurchaseLink == nil && p.ImageURLs == nil && p.Status == nil
}
