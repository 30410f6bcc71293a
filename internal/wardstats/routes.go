package wardstats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PalikaProfile/Profile-Backend/internal/middleware"
)

func SetupRoutes(h *Handler, guard middleware.Guard) http.Handler {
	r := chi.NewRouter()

	r.Route("/{dataset}", func(r chi.Router) {
		r.Use(withDataset)

		r.Get("/", h.List)
		r.Get("/summary", h.Summary)

		r.Group(func(r chi.Router) {
			r.Use(guard.Admin()...)

			r.Post("/", h.Create)
			r.Put("/", h.Replace)
			r.Put("/rows/{id}", h.Update)
			r.Delete("/rows/{id}", h.Delete)
		})
	})

	return r
}
