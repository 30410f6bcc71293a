package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PalikaProfile/Profile-Backend/internal/middleware"
)

func SetupRoutes(h *Handler, guard middleware.Guard) http.Handler {
	r := chi.NewRouter()

	r.Get("/municipality", h.GetMunicipality)
	r.Get("/wards", h.ListWards)
	r.Get("/wards/{number}", h.GetWard)
	r.Get("/datasets", h.ListDatasets)

	r.Group(func(r chi.Router) {
		r.Use(guard.Admin()...)

		r.Put("/municipality", h.PutMunicipality)
		r.Put("/wards/{number}", h.PutWard)
	})

	return r
}
