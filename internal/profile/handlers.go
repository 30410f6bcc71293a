package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/PalikaProfile/Profile-Backend/internal/cache"
	"github.com/PalikaProfile/Profile-Backend/internal/geojson"
	"github.com/PalikaProfile/Profile-Backend/internal/httputil"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/slug"
	"github.com/PalikaProfile/Profile-Backend/internal/validation"
)

// Store is the persistence the profile procedures need.
type Store interface {
	Municipality(ctx context.Context) (*Municipality, error)
	SaveMunicipality(ctx context.Context, m *Municipality, boundary json.RawMessage) (*Municipality, error)
	Wards(ctx context.Context) ([]Ward, error)
	Ward(ctx context.Context, number int) (*Ward, error)
	SaveWard(ctx context.Context, w *Ward, boundary json.RawMessage) (*Ward, error)
}

type Handler struct {
	Store      Store
	Invalidate cache.Invalidator
}

type MunicipalityInput struct {
	Name      string          `json:"name" validate:"required,min=2,max=200"`
	NameNe    string          `json:"name_ne" validate:"max=200"`
	Slug      string          `json:"slug,omitempty" validate:"omitempty,slug,max=80"`
	District  string          `json:"district" validate:"max=100"`
	Province  string          `json:"province" validate:"max=100"`
	AreaSqKm  float64         `json:"area_sq_km" validate:"gte=0"`
	WardCount int             `json:"ward_count" validate:"gte=0,lte=99"`
	Website   string          `json:"website,omitempty" validate:"omitempty,url"`
	Email     string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string          `json:"phone,omitempty" validate:"max=40"`
	Latitude  *float64        `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64        `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Boundary  json.RawMessage `json:"boundary,omitempty" validate:"omitempty,geojson"`
}

type WardInput struct {
	Name     string          `json:"name" validate:"max=200"`
	NameNe   string          `json:"name_ne" validate:"max=200"`
	AreaSqKm float64         `json:"area_sq_km" validate:"gte=0"`
	Office   string          `json:"office" validate:"max=200"`
	Phone    string          `json:"phone" validate:"max=40"`
	Boundary json.RawMessage `json:"boundary,omitempty" validate:"omitempty,geojson"`
}

func (h *Handler) GetMunicipality(w http.ResponseWriter, r *http.Request) {
	m, err := h.Store.Municipality(r.Context())
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Municipality has not been configured")
		return
	}
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to load municipality", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) PutMunicipality(w http.ResponseWriter, r *http.Request) {
	var in MunicipalityInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if !geojson.Present(in.Boundary) {
		in.Boundary = nil
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}

	m := &Municipality{
		Name:      in.Name,
		NameNe:    in.NameNe,
		Slug:      in.Slug,
		District:  in.District,
		Province:  in.Province,
		AreaSqKm:  in.AreaSqKm,
		WardCount: in.WardCount,
		Website:   in.Website,
		Email:     in.Email,
		Phone:     in.Phone,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
	if m.Slug == "" {
		m.Slug = slug.Make(in.Name)
	}

	saved, err := h.Store.SaveMunicipality(r.Context(), m, in.Boundary)
	if errors.Is(err, ErrInvalidBoundary) {
		httputil.WriteValidationError(w, validation.NewFieldError("boundary", "geojson", ErrInvalidBoundary.Error()))
		return
	}
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to save municipality", err)
		return
	}
	h.Invalidate.Invalidate("")
	logging.Ctx(r.Context()).Info().Str("component", "profile").Str("slug", saved.Slug).Msg("Municipality saved")
	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) ListWards(w http.ResponseWriter, r *http.Request) {
	wards, err := h.Store.Wards(r.Context())
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to list wards", err)
		return
	}
	if wards == nil {
		wards = []Ward{}
	}
	httputil.WriteJSON(w, http.StatusOK, wards)
}

func (h *Handler) GetWard(w http.ResponseWriter, r *http.Request) {
	number, err := validation.ParseWard(chi.URLParam(r, "number"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_WARD", err.Error())
		return
	}
	ward, err := h.Store.Ward(r.Context(), number)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Ward not found")
		return
	}
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to load ward", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ward)
}

func (h *Handler) PutWard(w http.ResponseWriter, r *http.Request) {
	number, err := validation.ParseWard(chi.URLParam(r, "number"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_WARD", err.Error())
		return
	}

	var in WardInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if !geojson.Present(in.Boundary) {
		in.Boundary = nil
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}

	saved, err := h.Store.SaveWard(r.Context(), &Ward{
		Number:   number,
		Name:     in.Name,
		NameNe:   in.NameNe,
		AreaSqKm: in.AreaSqKm,
		Office:   in.Office,
		Phone:    in.Phone,
	}, in.Boundary)
	if errors.Is(err, ErrInvalidBoundary) {
		httputil.WriteValidationError(w, validation.NewFieldError("boundary", "geojson", ErrInvalidBoundary.Error()))
		return
	}
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to save ward", err)
		return
	}
	h.Invalidate.Invalidate("")
	httputil.WriteJSON(w, http.StatusOK, saved)
}

// ListDatasets exposes the catalog so clients can discover dataset keys and categories.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := Datasets()
	if d := r.URL.Query().Get("domain"); d != "" {
		domain, ok := ParseDomain(d)
		if !ok {
			httputil.WriteError(w, http.StatusBadRequest, "INVALID_DOMAIN", "Unknown domain "+d)
			return
		}
		datasets = DatasetsByDomain(domain)
	}
	httputil.WriteJSON(w, http.StatusOK, datasets)
}
