package demographics

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PalikaProfile/Profile-Backend/internal/cache"
	"github.com/PalikaProfile/Profile-Backend/internal/httputil"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/validation"
	"github.com/PalikaProfile/Profile-Backend/internal/wardstats"
)

type Store interface {
	Summaries(ctx context.Context) ([]WardSummary, error)
	Summary(ctx context.Context, ward int) (*WardSummary, error)
	SaveSummary(ctx context.Context, row *WardSummary) (*WardSummary, error)
	DeleteSummary(ctx context.Context, ward int) error
}

// StatsLister is the slice of the ward statistics store this package reads.
type StatsLister interface {
	List(ctx context.Context, dataset string, f wardstats.Filter) ([]wardstats.WardCategoryStat, error)
}

type Handler struct {
	Store      Store
	Stats      StatsLister
	Invalidate cache.Invalidator
}

// SummaryInput carries the counted figures. Derived fields may be sent back
// unchanged by clients; they are ignored and recomputed.
type SummaryInput struct {
	MalePopulation       int      `json:"male_population" validate:"gte=0"`
	FemalePopulation     int      `json:"female_population" validate:"gte=0"`
	OtherPopulation      int      `json:"other_population" validate:"gte=0"`
	TotalHouseholds      int      `json:"total_households" validate:"gte=0"`
	TotalPopulation      *int     `json:"total_population,omitempty"`
	AverageHouseholdSize *float64 `json:"average_household_size,omitempty"`
	SexRatio             *float64 `json:"sex_ratio,omitempty"`
}

func wardParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := validation.ParseWard(chi.URLParam(r, "ward"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_WARD", err.Error())
		return 0, false
	}
	return n, true
}

func (h *Handler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.Summaries(r.Context())
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to fetch ward summaries", err)
		return
	}
	if rows == nil {
		rows = []WardSummary{}
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ward, ok := wardParam(w, r)
	if !ok {
		return
	}
	row, err := h.Store.Summary(r.Context(), ward)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No summary for this ward")
		return
	}
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to fetch ward summary", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) GetMunicipality(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.Summaries(r.Context())
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to fetch ward summaries", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SummarizeMunicipality(rows))
}

func (h *Handler) GetAgePyramid(w http.ResponseWriter, r *http.Request) {
	f, err := wardstats.ParseFilter(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}
	ds, _ := profile.Lookup(profile.DatasetAgeGroups)
	rows, err := h.Stats.List(r.Context(), ds.Key, f)
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to fetch age groups", err)
		return
	}
	locale := "en"
	if r.URL.Query().Get("lang") == "ne" {
		locale = "ne"
	}
	httputil.WriteJSON(w, http.StatusOK, BuildAgePyramid(ds, rows, locale))
}

func (h *Handler) PutSummary(w http.ResponseWriter, r *http.Request) {
	ward, ok := wardParam(w, r)
	if !ok {
		return
	}
	var in SummaryInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}

	saved, err := h.Store.SaveSummary(r.Context(), &WardSummary{
		WardNumber:       ward,
		MalePopulation:   in.MalePopulation,
		FemalePopulation: in.FemalePopulation,
		OtherPopulation:  in.OtherPopulation,
		TotalHouseholds:  in.TotalHouseholds,
	})
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to save ward summary", err)
		return
	}
	h.Invalidate.Invalidate("demographics:", "overview:")
	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteSummary(w http.ResponseWriter, r *http.Request) {
	ward, ok := wardParam(w, r)
	if !ok {
		return
	}
	if err := h.Store.DeleteSummary(r.Context(), ward); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No summary for this ward")
			return
		}
		httputil.WriteInternal(w, r, "Failed to delete ward summary", err)
		return
	}
	h.Invalidate.Invalidate("demographics:", "overview:")
	w.WriteHeader(http.StatusNoContent)
}
