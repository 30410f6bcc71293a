package culture

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/PalikaProfile/Profile-Backend/internal/cache"
	"github.com/PalikaProfile/Profile-Backend/internal/geojson"
	"github.com/PalikaProfile/Profile-Backend/internal/httputil"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"github.com/PalikaProfile/Profile-Backend/internal/slug"
	"github.com/PalikaProfile/Profile-Backend/internal/validation"
)

type Store interface {
	List(ctx context.Context, f ListFilter) (Page, error)
	BySlug(ctx context.Context, slug string) (*HistoricalSite, error)
	ByID(ctx context.Context, id uuid.UUID) (*HistoricalSite, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, site *HistoricalSite, location, boundary json.RawMessage) (*HistoricalSite, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any, location, boundary GeometryPatch) (*HistoricalSite, error)
	Delete(ctx context.Context, id uuid.UUID) (*HistoricalSite, error)
}

type Handler struct {
	Store      Store
	Invalidate cache.Invalidator
}

type CreateInput struct {
	Name             string          `json:"name" validate:"required,min=2,max=200"`
	NameNe           string          `json:"name_ne" validate:"max=200"`
	Slug             string          `json:"slug,omitempty" validate:"omitempty,slug,max=80"`
	Type             string          `json:"type" validate:"required,oneof=temple monastery palace fort archaeological monument heritage-building other"`
	Description      string          `json:"description" validate:"max=10000"`
	WardNumber       *int            `json:"ward_number,omitempty" validate:"omitempty,ward"`
	Period           string          `json:"period" validate:"max=100"`
	YearEstablished  *int            `json:"year_established,omitempty" validate:"omitempty,gte=1,lte=2200"`
	IsHeritageListed bool            `json:"is_heritage_listed"`
	Tags             []string        `json:"tags" validate:"max=20,dive,min=1,max=50"`
	Images           []string        `json:"images" validate:"max=20,dive,url"`
	Location         json.RawMessage `json:"location,omitempty" validate:"omitempty,geojson"`
	Boundary         json.RawMessage `json:"boundary,omitempty" validate:"omitempty,geojson"`
}

// UpdateInput is a partial update; nil fields are left alone. An empty tags
// or images array clears the list.
type UpdateInput struct {
	Name             *string         `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	NameNe           *string         `json:"name_ne,omitempty" validate:"omitempty,max=200"`
	Slug             *string         `json:"slug,omitempty" validate:"omitempty,slug,max=80"`
	RegenerateSlug   bool            `json:"regenerate_slug"`
	Type             *string         `json:"type,omitempty" validate:"omitempty,oneof=temple monastery palace fort archaeological monument heritage-building other"`
	Description      *string         `json:"description,omitempty" validate:"omitempty,max=10000"`
	WardNumber       *int            `json:"ward_number,omitempty" validate:"omitempty,ward"`
	ClearWard        bool            `json:"clear_ward"`
	Period           *string         `json:"period,omitempty" validate:"omitempty,max=100"`
	YearEstablished  *int            `json:"year_established,omitempty" validate:"omitempty,gte=1,lte=2200"`
	IsHeritageListed *bool           `json:"is_heritage_listed,omitempty"`
	Tags             []string        `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	Images           []string        `json:"images,omitempty" validate:"omitempty,max=20,dive,url"`
	Location         json.RawMessage `json:"location,omitempty" validate:"omitempty,geojson"`
	Boundary         json.RawMessage `json:"boundary,omitempty" validate:"omitempty,geojson"`
	ClearLocation    bool            `json:"clear_location"`
	ClearBoundary    bool            `json:"clear_boundary"`
}

// checkGeometryKinds enforces Point locations and areal boundaries.
func checkGeometryKinds(location, boundary json.RawMessage) *validation.RequestValidationError {
	if location != nil {
		if g, err := geojson.ParseGeometry(location); err == nil && g.Type != geojson.TypePoint {
			return validation.NewFieldError("location", "geojson", "location must be a GeoJSON Point")
		}
	}
	if boundary != nil {
		if g, err := geojson.ParseGeometry(boundary); err == nil && g.Type != geojson.TypePolygon && g.Type != geojson.TypeMultiPolygon {
			return validation.NewFieldError("boundary", "geojson", "boundary must be a GeoJSON Polygon or MultiPolygon")
		}
	}
	return nil
}

func geometryFieldError(e *InvalidGeometryError) *validation.RequestValidationError {
	return validation.NewFieldError(e.Column, "geojson", e.Column+" is not a valid geometry")
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ParseListFilter reads listing query parameters.
func ParseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	f := ListFilter{
		Query: strings.TrimSpace(q.Get("q")),
		Limit: DefaultLimit,
	}

	if t := q.Get("type"); t != "" {
		if !slices.Contains(SiteTypes, SiteType(t)) {
			return ListFilter{}, fmt.Errorf("unknown site type %q", t)
		}
		f.Type = SiteType(t)
	}
	for _, s := range httputil.SplitList(q["ward"]) {
		n, err := validation.ParseWard(s)
		if err != nil {
			return ListFilter{}, err
		}
		f.Wards = append(f.Wards, n)
	}
	if h := q.Get("heritage"); h != "" {
		b, err := strconv.ParseBool(h)
		if err != nil {
			return ListFilter{}, fmt.Errorf("heritage must be true or false")
		}
		f.Heritage = &b
	}
	if near := q.Get("near"); near != "" {
		latStr, lngStr, ok := strings.Cut(near, ",")
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		lng, err2 := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
		if !ok || err1 != nil || err2 != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return ListFilter{}, fmt.Errorf("near must be lat,lng")
		}
		radius := 5000.0
		if rs := q.Get("radius_m"); rs != "" {
			v, err := strconv.ParseFloat(rs, 64)
			if err != nil || v <= 0 || v > 100000 {
				return ListFilter{}, fmt.Errorf("radius_m must be between 0 and 100000")
			}
			radius = v
		}
		f.Near = &Near{Lat: lat, Lng: lng, RadiusM: radius}
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > MaxLimit {
			return ListFilter{}, fmt.Errorf("limit must be between 1 and %d", MaxLimit)
		}
		f.Limit = n
	}
	if o := q.Get("offset"); o != "" {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 {
			return ListFilter{}, fmt.Errorf("offset must be a non-negative integer")
		}
		f.Offset = n
	}
	return f, nil
}

// changed drops every cached culture page; a rename can move a site's URL.
func (h *Handler) changed() {
	h.Invalidate.Invalidate("culture:", "overview:", "sitemap:")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, err := ParseListFilter(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}
	page, err := h.Store.List(r.Context(), f)
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to list historical sites", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	site, err := h.Store.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Historical site not found")
		return
	}
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to load historical site", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, site)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if !geojson.Present(in.Location) {
		in.Location = nil
	}
	if !geojson.Present(in.Boundary) {
		in.Boundary = nil
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}
	if verr := checkGeometryKinds(in.Location, in.Boundary); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}

	ctx := r.Context()
	exists := func(ctx context.Context, candidate string) (bool, error) {
		return h.Store.SlugExists(ctx, candidate, uuid.Nil)
	}

	siteSlug := in.Slug
	if siteSlug != "" {
		taken, err := exists(ctx, siteSlug)
		if err != nil {
			httputil.WriteInternal(w, r, "Failed to check slug", err)
			return
		}
		if taken {
			httputil.WriteError(w, http.StatusConflict, "SLUG_CONFLICT", fmt.Sprintf("Slug %q is already taken", siteSlug))
			return
		}
	} else {
		var err error
		siteSlug, err = slug.Unique(ctx, slug.Make(in.Name), exists)
		if err != nil {
			httputil.WriteInternal(w, r, "Failed to generate slug", err)
			return
		}
	}

	site := &HistoricalSite{
		Name:             strings.TrimSpace(in.Name),
		NameNe:           strings.TrimSpace(in.NameNe),
		Slug:             siteSlug,
		Type:             SiteType(in.Type),
		Description:      in.Description,
		WardNumber:       in.WardNumber,
		Period:           in.Period,
		YearEstablished:  in.YearEstablished,
		IsHeritageListed: in.IsHeritageListed,
		Tags:             normalizeTags(in.Tags),
		Images:           in.Images,
	}
	if site.Images == nil {
		site.Images = []string{}
	}

	saved, err := h.Store.Create(ctx, site, in.Location, in.Boundary)
	if errors.Is(err, ErrSlugConflict) {
		httputil.WriteError(w, http.StatusConflict, "SLUG_CONFLICT", fmt.Sprintf("Slug %q is already taken", siteSlug))
		return
	}
	var geomErr *InvalidGeometryError
	if errors.As(err, &geomErr) {
		httputil.WriteValidationError(w, geometryFieldError(geomErr))
		return
	}
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to create historical site", err)
		return
	}

	h.changed()
	logging.Ctx(ctx).Info().Str("component", "culture").Str("slug", saved.Slug).Msg("Historical site created")
	httputil.WriteJSON(w, http.StatusCreated, saved)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Invalid site id")
		return
	}

	var in UpdateInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	// An explicit null clears the geometry just like the clear_* flags.
	location := patchFor(in.Location, in.ClearLocation)
	boundary := patchFor(in.Boundary, in.ClearBoundary)
	in.Location, in.Boundary = location.Raw, boundary.Raw

	if verr := validation.ValidateStruct(in); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}
	if verr := checkGeometryKinds(location.Raw, boundary.Raw); verr != nil {
		httputil.WriteValidationError(w, verr)
		return
	}

	ctx := r.Context()
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.NameNe != nil {
		updates["name_ne"] = strings.TrimSpace(*in.NameNe)
	}
	if in.Type != nil {
		updates["type"] = *in.Type
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	switch {
	case in.ClearWard:
		updates["ward_number"] = nil
	case in.WardNumber != nil:
		updates["ward_number"] = *in.WardNumber
	}
	if in.Period != nil {
		updates["period"] = *in.Period
	}
	if in.YearEstablished != nil {
		updates["year_established"] = *in.YearEstablished
	}
	if in.IsHeritageListed != nil {
		updates["is_heritage_listed"] = *in.IsHeritageListed
	}
	if in.Tags != nil {
		updates["tags"] = pq.StringArray(normalizeTags(in.Tags))
	}
	if in.Images != nil {
		updates["images"] = pq.StringArray(in.Images)
	}

	exists := func(ctx context.Context, candidate string) (bool, error) {
		return h.Store.SlugExists(ctx, candidate, id)
	}
	switch {
	case in.Slug != nil:
		taken, err := exists(ctx, *in.Slug)
		if err != nil {
			httputil.WriteInternal(w, r, "Failed to check slug", err)
			return
		}
		if taken {
			httputil.WriteError(w, http.StatusConflict, "SLUG_CONFLICT", fmt.Sprintf("Slug %q is already taken", *in.Slug))
			return
		}
		updates["slug"] = *in.Slug
	case in.RegenerateSlug:
		var name string
		if in.Name != nil {
			name = *in.Name
		} else {
			current, err := h.Store.ByID(ctx, id)
			if errors.Is(err, ErrNotFound) {
				httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Historical site not found")
				return
			}
			if err != nil {
				httputil.WriteInternal(w, r, "Failed to load historical site", err)
				return
			}
			name = current.Name
		}
		s, err := slug.Unique(ctx, slug.Make(name), exists)
		if err != nil {
			httputil.WriteInternal(w, r, "Failed to generate slug", err)
			return
		}
		updates["slug"] = s
	}

	saved, err := h.Store.Update(ctx, id, updates, location, boundary)
	var geomErr *InvalidGeometryError
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Historical site not found")
		return
	case errors.Is(err, ErrSlugConflict):
		httputil.WriteError(w, http.StatusConflict, "SLUG_CONFLICT", "Slug is already taken")
		return
	case errors.As(err, &geomErr):
		httputil.WriteValidationError(w, geometryFieldError(geomErr))
		return
	case err != nil:
		httputil.WriteInternal(w, r, "Failed to update historical site", err)
		return
	}

	h.changed()
	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Invalid site id")
		return
	}
	_, err = h.Store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Historical site not found")
		return
	}
	if err != nil {
		httputil.WriteInternal(w, r, "Failed to delete historical site", err)
		return
	}
	h.changed()
	w.WriteHeader(http.StatusNoContent)
}

func patchFor(raw json.RawMessage, clear bool) GeometryPatch {
	switch {
	case clear:
		return GeometryPatch{Set: true}
	case raw == nil:
		return GeometryPatch{}
	case !geojson.Present(raw):
		return GeometryPatch{Set: true}
	default:
		return GeometryPatch{Set: true, Raw: raw}
	}
}
