package education

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PalikaProfile/Profile-Backend/internal/httputil"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

type StatsLister interface {
	List(ctx context.Context, dataset string, f wardstats.Filter) ([]wardstats.WardCategoryStat, error)
}

type Handler struct {
	Stats StatsLister
}

func (h *Handler) rows(w http.ResponseWriter, r *http.Request, dataset string) ([]wardstats.WardCategoryStat, bool) {
	f, err := wardstats.ParseFilter(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return nil, false
	}
	rows, err := h.Stats.List(r.Context(), dataset, f)
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to fetch "+dataset, err)
		return nil, false
	}
	return rows, true
}

func (h *Handler) Literacy(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.rows(w, r, profile.DatasetLiteracyStatus)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LiteracyRates(rows))
}

func (h *Handler) Attainment(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.rows(w, r, profile.DatasetEducationalLevel)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EducationalAttainment(rows))
}

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/literacy", h.Literacy)
	r.Get("/attainment", h.Attainment)
	return r
}
