package demographics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PalikaProfile/Profile-Backend/internal/middleware"
)

func SetupRoutes(h *Handler, guard middleware.Guard) http.Handler {
	r := chi.NewRouter()

	r.Get("/summary", h.ListSummaries)
	r.Get("/summary/{ward}", h.GetSummary)
	r.Get("/municipality", h.GetMunicipality)
	r.Get("/age-pyramid", h.GetAgePyramid)

	r.Group(func(r chi.Router) {
		r.Use(guard.Admin()...)

		r.Put("/summary/{ward}", h.PutSummary)
		r.Delete("/summary/{ward}", h.DeleteSummary)
	})

	return r
}
