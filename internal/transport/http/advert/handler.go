// Package advert exposes the advert catalog over HTTP.
package advert

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/access"
	"github.com/light-bringer/advert-catalog/internal/app/advert/domain"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/get_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/list_adverts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/list_owner_adverts"
	"github.com/light-bringer/advert-catalog/internal/app/advert/queries/list_statuses"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/change_status"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/create_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/delete_advert"
	"github.com/light-bringer/advert-catalog/internal/app/advert/usecases/edit_advert"
	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

// Commands groups the write use cases.
type Commands struct {
	Create       *create_advert.Interactor
	Edit         *edit_advert.Interactor
	ChangeStatus *change_status.Interactor
	Delete       *delete_advert.Interactor
}

// Queries groups the read use cases.
type Queries struct {
	List         *list_adverts.Query
	ListByOwner  *list_owner_adverts.Query
	Get          *get_advert.Query
	ListStatuses *list_statuses.Query
}

// Handler implements the advert HTTP endpoints.
type Handler struct {
	commands Commands
	queries  Queries
	metrics  *metrics.MetricsManager
	logger   *zap.Logger
}

// NewHandler creates a new advert handler. m may be nil.
func NewHandler(commands Commands, queries Queries, m *metrics.MetricsManager, logger *zap.Logger) *Handler {
	return &Handler{
		commands: commands,
		queries:  queries,
		metrics:  m,
		logger:   logger,
	}
}

// ListAdverts handles GET /adverts.
func (h *Handler) ListAdverts(w http.ResponseWriter, r *http.Request) {
	filter, page, limit := listParams(r)
	result, err := h.queries.List.Execute(r.Context(), &list_adverts.Request{
		Filter: filter,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.writeError(w, r, "failed to list adverts", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(result))
}

// ListOwnerAdverts handles GET /adverts/user/{ownerName}.
func (h *Handler) ListOwnerAdverts(w http.ResponseWriter, r *http.Request) {
	filter, page, limit := listParams(r)
	result, err := h.queries.ListByOwner.Execute(r.Context(), &list_owner_adverts.Request{
		OwnerName: chi.URLParam(r, "ownerName"),
		Filter:    filter,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		h.writeError(w, r, "failed to list owner adverts", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(result))
}

// GetAdvert handles GET /adverts/item/{slug}. A missing advert is a null result.
func (h *Handler) GetAdvert(w http.ResponseWriter, r *http.Request) {
	found, err := h.queries.Get.Execute(r.Context(), &get_advert.Request{Slug: chi.URLParam(r, "slug")})
	if err != nil {
		h.writeError(w, r, "failed to get advert", err)
		return
	}

	var result *AdvertResponse
	if found != nil {
		resp := toAdvertResponse(found.Advert, found.Author)
		result = &resp
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": result})
}

// ListStatuses handles GET /adverts/statuses.
func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": h.queries.ListStatuses.Execute()})
}

// CreateAdvert handles POST /adverts.
func (h *Handler) CreateAdvert(w http.ResponseWriter, r *http.Request) {
	if err := requireCaller(r); err != nil {
		h.writeError(w, r, "failed to create advert", err)
		return
	}
	fields, err := parseFields(w, r, false)
	if err != nil {
		h.writeError(w, r, "failed to create advert", err)
		return
	}

	advert, err := h.commands.Create.Execute(r.Context(), &create_advert.Request{
		Title:       fields.Title,
		Description: fields.Description,
		Price:       fields.Price,
		Category:    fields.Category,
		Tags:        fields.Tags,
		Image:       fields.Image,
	})
	if err != nil {
		h.writeError(w, r, "failed to create advert", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "advert created",
		"advert":  toAdvertResponse(advert, nil),
	})
}

// EditAdvert handles PUT /adverts/{id}.
func (h *Handler) EditAdvert(w http.ResponseWriter, r *http.Request) {
	if err := requireCaller(r); err != nil {
		h.writeError(w, r, "failed to edit advert", err)
		return
	}
	fields, err := parseFields(w, r, true)
	if err != nil {
		h.writeError(w, r, "failed to edit advert", err)
		return
	}

	advert, err := h.commands.Edit.Execute(r.Context(), &edit_advert.Request{
		AdvertID:    chi.URLParam(r, "id"),
		Title:       fields.Title,
		Description: fields.Description,
		Price:       fields.Price,
		Category:    fields.Category,
		Tags:        fields.Tags,
		Image:       fields.Image,
	})
	if err != nil {
		h.writeError(w, r, "failed to edit advert", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "advert updated",
		"advert":  toAdvertResponse(advert, nil),
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

// ChangeStatus handles PATCH /adverts/{id}/status.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	if err := requireCaller(r); err != nil {
		h.writeStatusError(w, r, err)
		return
	}
	var body statusRequest
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeStatusError(w, r, err)
		return
	}

	_, err := h.commands.ChangeStatus.Execute(r.Context(), &change_status.Request{
		AdvertID: chi.URLParam(r, "id"),
		Status:   body.Status,
	})
	if err != nil {
		h.writeStatusError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "advert status updated"})
}

// DeleteAdvert handles DELETE /adverts/{id}.
func (h *Handler) DeleteAdvert(w http.ResponseWriter, r *http.Request) {
	err := h.commands.Delete.Execute(r.Context(), &delete_advert.Request{AdvertID: chi.URLParam(r, "id")})
	if err != nil {
		h.writeError(w, r, "failed to delete advert", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("advert deleted"))
}

// requireCaller rejects anonymous mutations before the body is read.
func requireCaller(r *http.Request) error {
	if _, ok := access.CallerFrom(r.Context()); !ok {
		return domain.ErrUnauthenticated
	}
	return nil
}
