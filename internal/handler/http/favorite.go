package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jenfranx30/savemate-backend/internal/service"
	"github.com/jenfranx30/savemate-backend/pkg/httputil"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

// FavoriteHandler handles HTTP requests for the caller's saved deals.
type FavoriteHandler struct {
	service *service.FavoriteService
	logger  *slog.Logger
}

// NewFavoriteHandler creates a new favorite HTTP handler.
func NewFavoriteHandler(svc *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{service: svc, logger: logger}
}

// List handles GET /api/v1/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromRequest(r)

	deals, total, err := h.service.List(r.Context(), principalFrom(r).ID, page)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(deals, total, page))
}

// Add handles POST /api/v1/favorites/{dealId}
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	dealID, ok := httputil.ParseUUID(w, chi.URLParam(r, "dealId"))
	if !ok {
		return
	}

	if err := h.service.Add(r.Context(), principalFrom(r).ID, dealID); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, map[string]any{"deal_id": dealID, "is_favorited": true})
}

// Remove handles DELETE /api/v1/favorites/{dealId}
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	dealID, ok := httputil.ParseUUID(w, chi.URLParam(r, "dealId"))
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), principalFrom(r).ID, dealID); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Check handles GET /api/v1/favorites/{dealId}
func (h *FavoriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	dealID, ok := httputil.ParseUUID(w, chi.URLParam(r, "dealId"))
	if !ok {
		return
	}

	favorited, err := h.service.IsFavorited(r.Context(), principalFrom(r).ID, dealID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, map[string]bool{"is_favorited": favorited})
}
