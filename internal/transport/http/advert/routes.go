package advert

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

// NewRouter mounts the advert routes and the health check.
func NewRouter(h *Handler, identity IdentityResolver, m *metrics.MetricsManager, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger, m))
	r.Use(Identity(identity, logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/adverts", func(r chi.Router) {
		r.Get("/", h.ListAdverts)
		r.Post("/", h.CreateAdvert)
		r.Get("/statuses", h.ListStatuses)
		r.Get("/user/{ownerName}", h.ListOwnerAdverts)
		r.Get("/item/{slug}", h.GetAdvert)
		r.Put("/{id}", h.EditAdvert)
		r.Delete("/{id}", h.DeleteAdvert)
		r.Patch("/{id}/status", h.ChangeStatus)
	})

	return r
}
