package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	"github.com/jenfranx30/savemate-backend/internal/service"
	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
	"github.com/jenfranx30/savemate-backend/pkg/httputil"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

// DealHandler handles HTTP requests for deal endpoints.
type DealHandler struct {
	service *service.DealService
	logger  *slog.Logger
}

// NewDealHandler creates a new deal HTTP handler.
func NewDealHandler(svc *service.DealService, logger *slog.Logger) *DealHandler {
	return &DealHandler{service: svc, logger: logger}
}

// CreateDealRequest is the JSON request body for creating a deal. Prices are
// in minor currency units.
type CreateDealRequest struct {
	BusinessID        string    `json:"business_id" validate:"required,uuid"`
	Title             string    `json:"title" validate:"required,min=5,max=200"`
	Description       string    `json:"description" validate:"required,min=10,max=2000"`
	OriginalPrice     int64     `json:"original_price" validate:"gt=0"`
	DiscountedPrice   int64     `json:"discounted_price" validate:"gte=0"`
	Category          string    `json:"category" validate:"required,max=50"`
	City              string    `json:"city" validate:"max=100"`
	Tags              []string  `json:"tags" validate:"max=20,dive,max=50"`
	StartDate         time.Time `json:"start_date" validate:"required"`
	EndDate           time.Time `json:"end_date" validate:"required"`
	Status            string    `json:"status" validate:"omitempty,oneof=active expired draft"`
	IsFeatured        bool      `json:"is_featured"`
	QuantityAvailable *int      `json:"quantity_available" validate:"omitempty,gte=0"`
	Terms             *string   `json:"terms" validate:"omitempty,max=1000"`
}

// UpdateDealRequest is the JSON request body for updating a deal.
type UpdateDealRequest struct {
	Title             *string    `json:"title" validate:"omitempty,min=5,max=200"`
	Description       *string    `json:"description" validate:"omitempty,min=10,max=2000"`
	OriginalPrice     *int64     `json:"original_price" validate:"omitempty,gt=0"`
	DiscountedPrice   *int64     `json:"discounted_price" validate:"omitempty,gte=0"`
	Category          *string    `json:"category" validate:"omitempty,max=50"`
	City              *string    `json:"city" validate:"omitempty,max=100"`
	Tags              []string   `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	Status            *string    `json:"status" validate:"omitempty,oneof=active expired draft"`
	IsFeatured        *bool      `json:"is_featured"`
	QuantityAvailable *int       `json:"quantity_available" validate:"omitempty,gte=0"`
	Terms             *string    `json:"terms" validate:"omitempty,max=1000"`
}

func dealFilter(r *http.Request) (repository.DealFilter, error) {
	filter := repository.DealFilter{
		Category:   queryString(r, "category"),
		City:       queryString(r, "city"),
		BusinessID: queryString(r, "business_id"),
		Search:     queryString(r, "search"),
		Sort:       r.URL.Query().Get("sort"),
		Page:       pagination.FromRequest(r),
	}

	if filter.BusinessID != nil {
		if _, err := uuid.Parse(*filter.BusinessID); err != nil {
			return filter, apperrors.InvalidInput("business_id must be a UUID")
		}
	}

	var err error
	if filter.MinDiscount, err = queryFloat(r, "min_discount"); err != nil {
		return filter, err
	}
	if filter.MaxDiscount, err = queryFloat(r, "max_discount"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryInt64(r, "max_price"); err != nil {
		return filter, err
	}
	if filter.Featured, err = queryBool(r, "featured"); err != nil {
		return filter, err
	}

	switch filter.Sort {
	case "":
		filter.Sort = domain.DealSortNewest
	case domain.DealSortNewest, domain.DealSortDiscount, domain.DealSortPrice:
	default:
		return filter, apperrors.InvalidInput("sort must be one of: newest, discount, price")
	}
	return filter, nil
}

// Create handles POST /api/v1/deals
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDealRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	d, err := h.service.Create(r.Context(), principalFrom(r), service.CreateDealInput{
		BusinessID:        req.BusinessID,
		Title:             req.Title,
		Description:       req.Description,
		OriginalPrice:     req.OriginalPrice,
		DiscountedPrice:   req.DiscountedPrice,
		Category:          req.Category,
		City:              req.City,
		Tags:              req.Tags,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Status:            req.Status,
		IsFeatured:        req.IsFeatured,
		QuantityAvailable: req.QuantityAvailable,
		Terms:             req.Terms,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, d)
}

// List handles GET /api/v1/deals. Only active deals are listed.
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := dealFilter(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	active := domain.DealStatusActive
	filter.Status = &active

	deals, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(deals, total, filter.Page))
}

// ListMine handles GET /api/v1/deals/mine
func (h *DealHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	filter, err := dealFilter(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	filter.Status = queryString(r, "status")

	deals, total, err := h.service.ListMine(r.Context(), principalFrom(r), filter)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(deals, total, filter.Page))
}

// Get handles GET /api/v1/deals/{id}
func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	d, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, d)
}

// Update handles PUT /api/v1/deals/{id}
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateDealRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	d, err := h.service.Update(r.Context(), principalFrom(r), id, service.UpdateDealInput{
		Title:             req.Title,
		Description:       req.Description,
		OriginalPrice:     req.OriginalPrice,
		DiscountedPrice:   req.DiscountedPrice,
		Category:          req.Category,
		City:              req.City,
		Tags:              req.Tags,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Status:            req.Status,
		IsFeatured:        req.IsFeatured,
		QuantityAvailable: req.QuantityAvailable,
		Terms:             req.Terms,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, d)
}

// Delete handles DELETE /api/v1/deals/{id}
func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principalFrom(r), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
