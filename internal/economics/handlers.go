package economics

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

func locale(r *http.Request) string {
	if r.URL.Query().Get("lang") == "ne" {
		return "ne"
	}
	return "en"
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, key string) (profile.Dataset, []wardstats.WardCategoryStat, bool) {
	f, err := wardstats.ParseFilter(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return profile.Dataset{}, nil, false
	}
	ds, _ := profile.Lookup(key)
	rows, err := h.Stats.List(r.Context(), key, f)
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to fetch "+key, err)
		return profile.Dataset{}, nil, false
	}
	return ds, rows, true
}

func (h *Handler) Remittance(w http.ResponseWriter, r *http.Request) {
	ds, rows, ok := h.load(w, r, profile.DatasetRemittance)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RemittanceEstimate(ds, rows, locale(r)))
}

func (h *Handler) IncomeDependency(w http.ResponseWriter, r *http.Request) {
	ds, rows, ok := h.load(w, r, profile.DatasetIncomeSource)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, IncomeDependency(ds, rows, locale(r)))
}

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/remittance", h.Remittance)
	r.Get("/income-dependency", h.IncomeDependency)
	return r
}
