package product

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/redmonkez12/jeogi-market/internal/account"
	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/auth"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
	"github.com/redmonkez12/jeogi-market/internal/storage"
	"github.com/redmonkez12/jeogi-market/internal/validate"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var (
	ErrProductIDRequired = apperr.Validation(httputil.CodeProductIDRequired, "product id is required")
	ErrProductNotFound   = apperr.NotFound(httputil.CodeProductNotFound, "product not found")
	ErrNotOwner          = apperr.Forbidden(httputil.CodeNotOwner, "you can only modify your own products")
	ErrProfileNotFound   = apperr.Unauthorized(httputil.CodeProfileNotFound, "user profile not found")
	ErrPriceRequired     = apperr.Validation(httputil.CodeValidationFailed, "price: cannot be blank")
	ErrInvalidPrice      = apperr.Validation(httputil.CodeInvalidPrice, "price must be a non-negative number")
	ErrImagesRequired    = apperr.Validation(httputil.CodeImagesRequired, "at least one image url is required")
	ErrNothingToUpdate   = apperr.Validation(httputil.CodeMissingFields, "product id and fields to update are required")
	ErrInvalidStatus     = apperr.Validation(httputil.CodeInvalidStatus, "status must be one of available, reserved, sold").WithDetail("validValues", ValidStatuses)
)

// Store is the product persistence the service needs
type Store interface {
	Create(ctx context.Context, p *Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, limit int) ([]*Product, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Product, error)
	Update(ctx context.Context, id int64, ownerID uuid.UUID, patch Patch, now time.Time) error
	Delete(ctx context.Context, id int64, ownerID uuid.UUID) error
}

// AccountLookup confirms that a token subject is a real account
type AccountLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// ObjectRemover deletes stored images by their public URL
type ObjectRemover interface {
	KeyFromURL(raw string) (string, bool)
	Remove(ctx context.Context, key string) error
}

// Service implements product use cases behind the ownership gate
type Service struct {
	store              Store
	accounts           AccountLookup
	objects            ObjectRemover
	logger             *logging.Logger
	cleanupConcurrency int
	now                func() time.Time
}

// NewService builds the product service. objects may be nil, in which case
// deleted products keep their images.
func NewService(store Store, accounts AccountLookup, objects ObjectRemover, logger *logging.Logger, cleanupConcurrency int) *Service {
	return &Service{
		store:              store,
		accounts:           accounts,
		objects:            objects,
		logger:             logger,
		cleanupConcurrency: cleanupConcurrency,
		now:                time.Now,
	}
}

// CreateInput is the product registration form. Title is accepted as an
// alias of ProductName.
type CreateInput struct {
	ProductName  string   `json:"product_name"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description"`
	Price        Number   `json:"price" swaggertype:"string" example:"12,000"`
	PurchaseLink string   `json:"purchase_link,omitempty"`
	ImageURLs    []string `json:"image_urls"`
}

func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ProductName, validation.Required),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.Price, validation.Required),
		validation.Field(&in.PurchaseLink, is.URL),
	)
}

// UpdateInput holds the fields to change; empty fields are left alone
type UpdateInput struct {
	ProductName  string   `json:"product_name,omitempty"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Price        Number   `json:"price,omitempty" swaggertype:"string"`
	PurchaseLink string   `json:"purchase_link,omitempty"`
	ImageURLs    []string `json:"image_urls,omitempty"`
	Status       string   `json:"status,omitempty"`
}

// CleanupSummary reports how image removal went after a delete
type CleanupSummary struct {
	Total   int `json:"total"`
	Removed int `json:"removed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// DeleteResult is the deleted product plus its image cleanup tally
type DeleteResult struct {
	Product      *Product       `json:"product"`
	ImageCleanup CleanupSummary `json:"imageCleanup"`
}

// Create registers a product owned by the caller
func (s *Service) Create(ctx context.Context, subject auth.Subject, in CreateInput) (int64, error) {
	ownerID, err := s.requireAccount(ctx, subject)
	if err != nil {
		return 0, err
	}

	in.ProductName = strings.TrimSpace(in.ProductName)
	if in.ProductName == "" {
		in.ProductName = strings.TrimSpace(in.Title)
	}
	in.Description = strings.TrimSpace(in.Description)
	in.PurchaseLink = strings.TrimSpace(in.PurchaseLink)

	if err := validate.Check(in.Validate()); err != nil {
		return 0, err
	}

	price, err := parsePrice(in.Price)
	if err != nil {
		return 0, err
	}
	if price == 0 {
		return 0, ErrPriceRequired
	}

	urls := compactURLs(in.ImageURLs)
	if len(urls) == 0 {
		return 0, ErrImagesRequired
	}

	now := s.now()
	p := &Product{
		OwnerID:      ownerID,
		ProductName:  in.ProductName,
		Description:  in.Description,
		Price:        price,
		PurchaseLink: in.PurchaseLink,
		ImageURLs:    urls,
		Status:       StatusAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := s.store.Create(ctx, p)
	if err != nil {
		return 0, apperr.Upstream(httputil.CodeStoreError, "failed to register product", err)
	}

	s.logger.Info("product registered", "product_id", id, "owner_id", ownerID)
	return id, nil
}

// Get returns a single product
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, ErrProductIDRequired
	}

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, apperr.Upstream(httputil.CodeStoreError, "failed to load product", err)
	}
	return p, nil
}

// List returns the newest products, clamping limit to [1, MaxListLimit]
func (s *Service) List(ctx context.Context, limit int) ([]*Product, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	products, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, apperr.Upstream(httputil.CodeStoreError, "failed to list products", err)
	}
	return products, nil
}

// ListMine returns the caller's own products
func (s *Service) ListMine(ctx context.Context, subject auth.Subject) ([]*Product, error) {
	ownerID, err := uuid.Parse(subject.ID)
	if err != nil {
		return []*Product{}, nil
	}

	products, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Upstream(httputil.CodeStoreError, "failed to list products", err)
	}
	return products, nil
}

// Update changes the non-empty fields of a product the caller owns
func (s *Service) Update(ctx context.Context, subject auth.Subject, id int64, in UpdateInput) (*Product, error) {
	if id <= 0 {
		return nil, ErrProductIDRequired
	}

	patch, err := buildPatch(in)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, ErrNothingToUpdate
	}

	existing, err := s.gate(ctx, subject, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, id, existing.OwnerID, patch, s.now()); err != nil {
		return nil, s.mutationError(err, "failed to update product")
	}

	return s.Get(ctx, id)
}

// ChangeStatus moves a product the caller owns to status
func (s *Service) ChangeStatus(ctx context.Context, subject auth.Subject, id int64, status string) (*Product, error) {
	if id <= 0 {
		return nil, ErrProductIDRequired
	}

	status = strings.TrimSpace(status)
	if !IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	existing, err := s.gate(ctx, subject, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, id, existing.OwnerID, Patch{Status: &status}, s.now()); err != nil {
		return nil, s.mutationError(err, "failed to update product status")
	}

	return s.Get(ctx, id)
}

// Delete removes a product the caller owns, then removes its images on a
// best-effort basis. Image failures are reported, never returned.
func (s *Service) Delete(ctx context.Context, subject auth.Subject, id int64) (*DeleteResult, error) {
	if id <= 0 {
		return nil, ErrProductIDRequired
	}

	existing, err := s.gate(ctx, subject, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, id, existing.OwnerID); err != nil {
		return nil, s.mutationError(err, "failed to delete product")
	}

	summary := s.removeImages(ctx, existing.ImageURLs)
	s.logger.Info("product deleted",
		"product_id", id,
		"images_total", summary.Total,
		"images_removed", summary.Removed,
		"images_failed", summary.Failed,
	)

	return &DeleteResult{Product: existing, ImageCleanup: summary}, nil
}

// gate loads the product and checks that subject owns it
func (s *Service) gate(ctx context.Context, subject auth.Subject, id int64) (*Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(p.OwnerID.String(), strings.TrimSpace(subject.ID)) {
		s.logger.Warn("ownership check failed", "product_id", id, "subject", subject.ID)
		return nil, ErrNotOwner
	}
	return p, nil
}

func (s *Service) requireAccount(ctx context.Context, subject auth.Subject) (uuid.UUID, error) {
	id, err := uuid.Parse(subject.ID)
	if err != nil {
		return uuid.Nil, ErrProfileNotFound
	}

	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return uuid.Nil, ErrProfileNotFound
		}
		return uuid.Nil, apperr.Upstream(httputil.CodeStoreError, "failed to load user profile", err)
	}
	return id, nil
}

// mutationError maps a write that matched no row; the row vanished or
// changed owner between the gate and the write.
func (s *Service) mutationError(err error, msg string) error {
	if errors.Is(err, ErrNotFound) {
		return ErrProductNotFound
	}
	return apperr.Upstream(httputil.CodeStoreError, msg, err)
}

func (s *Service) removeImages(ctx context.Context, urls []string) CleanupSummary {
	if s.objects == nil || len(urls) == 0 {
		return CleanupSummary{Total: len(urls), Skipped: len(urls)}
	}

	res := storage.RunBatch(ctx, len(urls), s.cleanupConcurrency, func(ctx context.Context, i int) error {
		key, ok := s.objects.KeyFromURL(urls[i])
		if !ok {
			return storage.ErrSkipped
		}
		return s.objects.Remove(ctx, key)
	})

	for i, err := range res.Errs {
		if err != nil && !errors.Is(err, storage.ErrSkipped) {
			s.logger.Warn("failed to remove product image", "url", urls[i], "error", err.Error())
		}
	}

	t := res.Tally()
	return CleanupSummary{Total: t.Total, Removed: t.Succeeded, Failed: t.Failed, Skipped: t.Skipped}
}

func buildPatch(in UpdateInput) (Patch, error) {
	var p Patch

	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		name = strings.TrimSpace(in.Title)
	}
	if name != "" {
		p.ProductName = &name
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		p.Description = &d
	}
	if in.Price != "" {
		price, err := parsePrice(in.Price)
		if err != nil {
			return Patch{}, err
		}
		p.Price = &price
	}
	if link := strings.TrimSpace(in.PurchaseLink); link != "" {
		p.PurchaseLink = &link
	}
	if urls := compactURLs(in.ImageURLs); len(urls) > 0 {
		p.ImageURLs = urls
	}
	if status := strings.TrimSpace(in.Status); status != "" {
		if !IsValidStatus(status) {
			return Patch{}, ErrInvalidStatus
		}
		p.Status = &status
	}

	return p, nil
}

func parsePrice(n Number) (int64, error) {
	v, err := n.Int64()
	if err != nil || v < 0 {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

func compactURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
