package product

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/redmonkez12/jeogi-market/internal/apperr"
	"github.com/redmonkez12/jeogi-market/internal/auth"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
)

// Handler contains HTTP handlers for product operations
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateResponse carries the id of a new product
type CreateResponse struct {
	ProductID int64 `json:"product_id"`
}

// ProductResponse wraps a single product
type ProductResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Product *Product `json:"product"`
}

// ListResponse wraps a product list
type ListResponse struct {
	Products []*Product `json:"products"`
}

// UpdateRequest represents the update body
type UpdateRequest struct {
	ProductID   Number       `json:"productId" swaggertype:"string"`
	ProductData *UpdateInput `json:"productData"`
}

// DeleteRequest represents the delete body
type DeleteRequest struct {
	ProductID Number `json:"productId" swaggertype:"string"`
}

// StatusRequest represents the status change body
type StatusRequest struct {
	ProductID Number `json:"productId" swaggertype:"string"`
	Status    string `json:"status" enums:"available,reserved,sold"`
}

// Create handles product registration
// @Summary      Register a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateInput true "Product fields"
// @Success      200 {object} httputil.SuccessResponse{data=CreateResponse}
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized or profile missing"
// @Failure      500 {object} httputil.ErrorResponse "Store failure"
// @Router       /api/register-product [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrFail(w, r)
	if !ok {
		return
	}

	var in CreateInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.RespondError(w, err)
		return
	}

	id, err := h.service.Create(r.Context(), subject, in)
	if err != nil {
		respondServiceError(w, r, "product registration failed", err)
		return
	}

	httputil.RespondSuccess(w, "product registered", CreateResponse{ProductID: id}, http.StatusOK)
}

// Get handles product lookup
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id query string true "Product ID"
// @Success      200 {object} ProductResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing id"
// @Failure      404 {object} httputil.ErrorResponse "Not found"
// @Router       /api/update-product [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(Number(r.URL.Query().Get("id")))
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "product lookup failed", err)
		return
	}

	httputil.RespondJSON(w, ProductResponse{Success: true, Product: p}, http.StatusOK)
}

// List handles the public product feed
// @Summary      List products
// @Description  Newest first; limit defaults to 20 and is capped at 100
// @Tags         products
// @Produce      json
// @Param        limit query int false "Page size"
// @Success      200 {object} httputil.SuccessResponse{data=ListResponse}
// @Router       /api/products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.service.List(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, "product list failed", err)
		return
	}

	httputil.RespondSuccess(w, "", ListResponse{Products: products}, http.StatusOK)
}

// ListMine handles the caller's own listings
// @Summary      List my products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.SuccessResponse{data=ListResponse}
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /api/my-products [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrFail(w, r)
	if !ok {
		return
	}

	products, err := h.service.ListMine(r.Context(), subject)
	if err != nil {
		respondServiceError(w, r, "product list failed", err)
		return
	}

	httputil.RespondSuccess(w, "", ListResponse{Products: products}, http.StatusOK)
}

// Update handles partial product updates
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateRequest true "Product id and changed fields"
// @Success      200 {object} ProductResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      403 {object} httputil.ErrorResponse "Not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Not found"
// @Router       /api/update-product [post]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrFail(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}
	if req.ProductData == nil {
		httputil.RespondError(w, ErrNothingToUpdate)
		return
	}

	id, err := parseID(req.ProductID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	p, err := h.service.Update(r.Context(), subject, id, *req.ProductData)
	if err != nil {
		respondServiceError(w, r, "product update failed", err)
		return
	}

	httputil.RespondJSON(w, ProductResponse{Success: true, Message: "product updated", Product: p}, http.StatusOK)
}

// Delete handles product removal
// @Summary      Delete a product
// @Description  Removes the product, then its images on a best-effort basis
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body DeleteRequest true "Product id"
// @Success      200 {object} httputil.SuccessResponse{data=DeleteResult}
// @Failure      400 {object} httputil.ErrorResponse "Missing id"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      403 {object} httputil.ErrorResponse "Not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Not found"
// @Router       /api/delete-product [post]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrFail(w, r)
	if !ok {
		return
	}

	var req DeleteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	id, err := parseID(req.ProductID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	result, err := h.service.Delete(r.Context(), subject, id)
	if err != nil {
		respondServiceError(w, r, "product delete failed", err)
		return
	}

	httputil.RespondSuccess(w, "product deleted", result, http.StatusOK)
}

// ChangeStatus handles status transitions
// @Summary      Change product status
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body StatusRequest true "Product id and status"
// @Success      200 {object} ProductResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid status (lists validValues)"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      403 {object} httputil.ErrorResponse "Not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Not found"
// @Router       /api/update-product-status [post]
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectOrFail(w, r)
	if !ok {
		return
	}

	var req StatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	id, err := parseID(req.ProductID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	p, err := h.service.ChangeStatus(r.Context(), subject, id, req.Status)
	if err != nil {
		respondServiceError(w, r, "product status change failed", err)
		return
	}

	httputil.RespondJSON(w, ProductResponse{Success: true, Message: "product status updated", Product: p}, http.StatusOK)
}

func subjectOrFail(w http.ResponseWriter, r *http.Request) (auth.Subject, bool) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok || strings.TrimSpace(subject.ID) == "" {
		httputil.RespondError(w, auth.ErrMissingAuth)
		return auth.Subject{}, false
	}
	return subject, true
}

func parseID(n Number) (int64, error) {
	if n == "" {
		return 0, ErrProductIDRequired
	}
	id, err := n.Int64()
	if err != nil || id <= 0 {
		return 0, apperr.Validation(httputil.CodeProductIDRequired, "product id must be a positive integer")
	}
	return id, nil
}

func respondServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger := logging.GetLoggerFromContext(r.Context())
	if apperr.KindOf(err).HTTPStatus() >= http.StatusInternalServerError {
		logger.Error(msg, "error", err.Error())
	} else {
		logger.Warn(msg, "error", err.Error())
	}
	httputil.RespondError(w, err)
}
