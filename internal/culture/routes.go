package culture

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PalikaProfile/Profile-Backend/internal/middleware"
)

func SetupRoutes(h *Handler, guard middleware.Guard) http.Handler {
	r := chi.NewRouter()

	r.Get("/historical-sites", h.List)
	r.Get("/historical-sites/{slug}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(guard.Admin()...)

		r.Post("/historical-sites", h.Create)
		r.Put("/historical-sites/{id}", h.Update)
		r.Delete("/historical-sites/{id}", h.Delete)
	})

	return r
}
