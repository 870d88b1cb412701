package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jenfranx30/savemate-backend/internal/domain"
	"github.com/jenfranx30/savemate-backend/internal/repository"
	"github.com/jenfranx30/savemate-backend/internal/service"
	"github.com/jenfranx30/savemate-backend/pkg/httputil"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

// BusinessHandler handles HTTP requests for business endpoints.
type BusinessHandler struct {
	service *service.BusinessService
	logger  *slog.Logger
}

// NewBusinessHandler creates a new business HTTP handler.
func NewBusinessHandler(svc *service.BusinessService, logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{service: svc, logger: logger}
}

// CreateBusinessRequest is the JSON request body for creating a business.
type CreateBusinessRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Category    string  `json:"category" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required,min=6,max=20"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Address     string  `json:"address" validate:"required,max=300"`
	City        string  `json:"city" validate:"required,max=100"`
}

// UpdateBusinessRequest is the JSON request body for updating a business.
type UpdateBusinessRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Category    *string `json:"category"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,min=6,max=20"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	City        *string `json:"city" validate:"omitempty,max=100"`
}

func businessFilter(r *http.Request) repository.BusinessFilter {
	return repository.BusinessFilter{
		Category: queryString(r, "category"),
		City:     queryString(r, "city"),
		Search:   queryString(r, "search"),
		Page:     pagination.FromRequest(r),
	}
}

// Create handles POST /api/v1/businesses
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBusinessRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	b, err := h.service.Create(r.Context(), principalFrom(r), service.CreateBusinessInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Email:       req.Email,
		Phone:       req.Phone,
		Website:     req.Website,
		Address:     req.Address,
		City:        req.City,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, b)
}

// List handles GET /api/v1/businesses. Only active businesses are listed.
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := businessFilter(r)
	active := domain.BusinessStatusActive
	filter.Status = &active

	businesses, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(businesses, total, filter.Page))
}

// ListMine handles GET /api/v1/businesses/mine
func (h *BusinessHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	filter := businessFilter(r)

	businesses, total, err := h.service.ListMine(r.Context(), principalFrom(r), filter)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(businesses, total, filter.Page))
}

// Get handles GET /api/v1/businesses/{id}
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, b)
}

// Update handles PUT /api/v1/businesses/{id}
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateBusinessRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	b, err := h.service.Update(r.Context(), principalFrom(r), id, service.UpdateBusinessInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Email:       req.Email,
		Phone:       req.Phone,
		Website:     req.Website,
		Address:     req.Address,
		City:        req.City,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, b)
}

// Delete handles DELETE /api/v1/businesses/{id}
func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
