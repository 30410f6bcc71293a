package wardstats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/PalikaProfile/Profile-Backend/internal/cache"
	"github.com/PalikaProfile/Profile-Backend/internal/httputil"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/validation"
)

type Store interface {
	List(ctx context.Context, dataset string, f Filter) ([]WardCategoryStat, error)
	Upsert(ctx context.Context, row *WardCategoryStat) (*WardCategoryStat, error)
	Update(ctx context.Context, dataset string, id uuid.UUID, row WardCategoryStat) (*WardCategoryStat, error)
	Delete(ctx context.Context, dataset string, id uuid.UUID) error
	Replace(ctx context.Context, dataset string, rows []WardCategoryStat) (int, error)
}

type Handler struct {
	Store      Store
	Invalidate cache.Invalidator
}

type RowInput struct {
	WardNumber int     `json:"ward_number" validate:"ward"`
	Category   string  `json:"category" validate:"required,max=80"`
	Gender     string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Value      float64 `json:"value" validate:"gte=0"`
}

type ReplaceInput struct {
	Rows []RowInput `json:"rows" validate:"dive"`
}

type datasetKey struct{}

// withDataset resolves {dataset} against the catalog and 404s unknown keys.
func withDataset(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "dataset")
		ds, ok := profile.Lookup(key)
		if !ok {
			httputil.WriteError(w, http.StatusNotFound, "UNKNOWN_DATASET", fmt.Sprintf("Dataset %q does not exist", key))
			return
		}
		ctx := context.WithValue(r.Context(), datasetKey{}, ds)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func datasetFrom(r *http.Request) profile.Dataset {
	ds, _ := r.Context().Value(datasetKey{}).(profile.Dataset)
	return ds
}

// ParseFilter reads ?ward=1&ward=2,3&category=..&gender=.. into a Filter.
func ParseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	var f Filter
	for _, s := range httputil.SplitList(q["ward"]) {
		n, err := validation.ParseWard(s)
		if err != nil {
			return Filter{}, err
		}
		f.Wards = append(f.Wards, n)
	}
	f.Categories = httputil.SplitList(q["category"])
	f.Genders = httputil.SplitList(q["gender"])
	return f, nil
}

// checkRow applies the catalog rules the struct tags cannot express.
func checkRow(ds profile.Dataset, in RowInput) *validation.RequestValidationError {
	if verr := validation.ValidateStruct(in); verr != nil {
		return verr
	}
	if !ds.HasCategory(in.Category) {
		return validation.NewFieldError("category", "catalog",
			fmt.Sprintf("category %q is not part of dataset %s", in.Category, ds.Key))
	}
	if !ds.ValidGender(in.Gender) {
		if ds.HasGender {
			return validation.NewFieldError("gender", "required", "gender must be male, female or other for "+ds.Key)
		}
		return validation.NewFieldError("gender", "excluded", ds.Key+" is not split by gender")
	}
	return nil
}

func (in RowInput) row(dataset string) WardCategoryStat {
	return WardCategoryStat{
		Dataset:    dataset,
		WardNumber: in.WardNumber,
		Category:   in.Category,
		Gender:     in.Gender,
		Value:      in.Value,
	}
}

func (h *Handler) changed(ds profile.Dataset) {
	h.Invalidate.Invalidate("stats:"+ds.Key+":", string(ds.Domain)+":", "overview:")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ds := datasetFrom(r)
	f, err := ParseFilter(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}
	rows, err := h.Store.List(r.Context(), ds.Key, f)
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to fetch dataset", err)
		return
	}
	if rows == nil {
		rows = []WardCategoryStat{}
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ds := datasetFrom(r)
	f, err := ParseFilter(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	top := 0
	if s := r.URL.Query().Get("top"); s != "" {
		top, err = strconv.Atoi(s)
		if err != nil || top < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "INVALID_TOP", "top must be a non-negative integer")
			return
		}
	}

	rows, err := h.Store.List(r.Context(), ds.Key, f)
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to fetch dataset", err)
		return
	}
	summary := SummarizeCategories(ds, rows, top)
	if r.URL.Query().Get("lang") == "ne" {
		summary = summary.Localize(ds, "ne")
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ds := datasetFrom(r)
	var in RowInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if verr := checkRow(ds, in); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}

	row := in.row(ds.Key)
	saved, err := h.Store.Upsert(r.Context(), &row)
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to save row", err)
		return
	}
	h.changed(ds)
	httputil.WriteJSON(w, http.StatusCreated, saved)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ds := datasetFrom(r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Invalid row id")
		return
	}
	var in RowInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if verr := checkRow(ds, in); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}

	saved, err := h.Store.Update(r.Context(), ds.Key, id, in.row(ds.Key))
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Row not found")
		return
	case errors.Is(err, ErrConflict):
		httputil.WriteError(w, http.StatusConflict, "CONFLICT", err.Error())
		return
	case err != nil:
		httputil.WriteInternal(w, r, "Failed to update row", err)
		return
	}
	h.changed(ds)
	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ds := datasetFrom(r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Invalid row id")
		return
	}
	if err := h.Store.Delete(r.Context(), ds.Key, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Row not found")
			return
		}
		httputil.WriteInternal(w, r, "Failed to delete row", err)
		return
	}
	h.changed(ds)
	w.WriteHeader(http.StatusNoContent)
}

// Replace swaps the dataset for the posted rows atomically.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	ds := datasetFrom(r)
	var in ReplaceInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	rows := make([]WardCategoryStat, 0, len(in.Rows))
	seen := make(map[string]int, len(in.Rows))
	for i, row := range in.Rows {
		if verr := checkRow(ds, row); verr != nil {
			httputil.WriteRowValidationError(w, i, verr)
			return
		}
		key := fmt.Sprintf("%d|%s|%s", row.WardNumber, row.Category, row.Gender)
		if prev, dup := seen[key]; dup {
			httputil.WriteError(w, http.StatusBadRequest, "DUPLICATE_ROW",
				fmt.Sprintf("rows[%d] repeats rows[%d]", i, prev))
			return
		}
		seen[key] = i
		rows = append(rows, row.row(ds.Key))
	}

	n, err := h.Store.Replace(r.Context(), ds.Key, rows)
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to replace dataset", err)
		return
	}
	h.changed(ds)
	logging.Ctx(r.Context()).Info().Str("component", "wardstats").
		Str("dataset", ds.Key).Int("rows", n).Msg("Dataset replaced")
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"dataset": ds.Key, "rows": n})
}
