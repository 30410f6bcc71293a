package culture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/PalikaProfile/Profile-Backend/internal/db"
)

var (
	ErrNotFound     = errors.New("historical site not found")
	ErrSlugConflict = errors.New("slug is already taken")
)

const slugIndex = "idx_historical_sites_slug"

// InvalidGeometryError names the geometry column PostGIS refused to store.
type InvalidGeometryError struct {
	Column string
	Err    error
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid %s geometry: %v", e.Column, e.Err)
}

func (e *InvalidGeometryError) Unwrap() error { return e.Err }

func isSlugConflict(err error) bool {
	return db.IsUniqueViolation(err) && db.ConstraintName(err) == slugIndex
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListFilter holds the optional listing predicates. Zero values add nothing.
type ListFilter struct {
	Query    string
	Type     SiteType
	Wards    []int
	Heritage *bool
	Near     *Near
	Limit    int
	Offset   int
}

// Near restricts results to a radius around a point, in metres.
type Near struct {
	Lat     float64
	Lng     float64
	RadiusM float64
}

// GeometryPatch describes a geometry change on update: nothing, clear, or set.
type GeometryPatch struct {
	Set bool
	Raw json.RawMessage
}

func (p GeometryPatch) clear() bool { return p.Set && p.Raw == nil }

const siteColumns = "historical_sites.*, ST_AsGeoJSON(location) AS location_geojson, ST_AsGeoJSON(boundary) AS boundary_geojson"

type Repository struct {
	db *gorm.DB
}

func NewRepository(d *gorm.DB) *Repository {
	return &Repository{db: d}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repository) List(ctx context.Context, f ListFilter) (Page, error) {
	page := Page{Limit: f.Limit, Offset: f.Offset}
	query := r.db.WithContext(ctx).Model(&HistoricalSite{})

	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + escapeLike(q) + "%"
		query = query.Where("(name ILIKE ? OR name_ne ILIKE ? OR description ILIKE ?)", like, like, like)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if len(f.Wards) > 0 {
		wards := make([]int64, len(f.Wards))
		for i, w := range f.Wards {
			wards[i] = int64(w)
		}
		query = query.Where("ward_number = ANY(?)", pq.Array(wards))
	}
	if f.Heritage != nil {
		query = query.Where("is_heritage_listed = ?", *f.Heritage)
	}
	if f.Near != nil {
		query = query.Where(
			"location IS NOT NULL AND ST_DWithin(location::geography, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)",
			f.Near.Lng, f.Near.Lat, f.Near.RadiusM)
	}

	// Count and fetch share the predicates above.
	query = query.Session(&gorm.Session{})
	if err := query.Count(&page.Total).Error; err != nil {
		return Page{}, fmt.Errorf("count historical sites: %w", err)
	}

	fetch := query.Select(siteColumns)
	if f.Near != nil {
		fetch = query.Select(siteColumns+
			", ST_Distance(location::geography, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography) AS distance_m",
			f.Near.Lng, f.Near.Lat).
			Order("distance_m ASC")
	}
	err := fetch.Order("name ASC").Limit(f.Limit).Offset(f.Offset).Find(&page.Items).Error
	if err != nil {
		return Page{}, fmt.Errorf("list historical sites: %w", err)
	}
	if page.Items == nil {
		page.Items = []HistoricalSite{}
	}
	return page, nil
}

// All returns every site without paging, for sitemaps and summaries.
func (r *Repository) All(ctx context.Context) ([]HistoricalSite, error) {
	var sites []HistoricalSite
	if err := r.db.WithContext(ctx).Select(siteColumns).Order("name ASC").Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("list all historical sites: %w", err)
	}
	return sites, nil
}

func (r *Repository) BySlug(ctx context.Context, slug string) (*HistoricalSite, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *Repository) ByID(ctx context.Context, id uuid.UUID) (*HistoricalSite, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) first(ctx context.Context, where string, arg any) (*HistoricalSite, error) {
	var site HistoricalSite
	err := r.db.WithContext(ctx).Select(siteColumns).Where(where, arg).First(&site).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load historical site: %w", err)
	}
	return &site, nil
}

// SlugExists reports whether slug is used by a site other than exclude.
func (r *Repository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	query := r.db.WithContext(ctx).Model(&HistoricalSite{}).Where("slug = ?", slug)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check slug %q: %w", slug, err)
	}
	return n > 0, nil
}

func (r *Repository) Create(ctx context.Context, site *HistoricalSite, location, boundary json.RawMessage) (*HistoricalSite, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(site).Error; err != nil {
			if isSlugConflict(err) {
				return ErrSlugConflict
			}
			return fmt.Errorf("create historical site: %w", err)
		}
		if location != nil {
			if err := setGeometry(tx, site.ID, "location", location); err != nil {
				return err
			}
		}
		if boundary != nil {
			return setGeometry(tx, site.ID, "boundary", boundary)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.ByID(ctx, site.ID)
}

// Update applies column updates and geometry patches in one transaction.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any, location, boundary GeometryPatch) (*HistoricalSite, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&HistoricalSite{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return fmt.Errorf("load historical site %s: %w", id, err)
		}
		if exists == 0 {
			return ErrNotFound
		}

		if len(updates) > 0 {
			if err := tx.Model(&HistoricalSite{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				if isSlugConflict(err) {
					return ErrSlugConflict
				}
				return fmt.Errorf("update historical site %s: %w", id, err)
			}
		}

		for column, patch := range map[string]GeometryPatch{"location": location, "boundary": boundary} {
			switch {
			case patch.clear():
				sql := fmt.Sprintf(`UPDATE profile.historical_sites SET %s = NULL, updated_at = NOW() WHERE id = ?`, column)
				if err := tx.Exec(sql, id).Error; err != nil {
					return fmt.Errorf("clear %s: %w", column, err)
				}
			case patch.Set:
				if err := setGeometry(tx, id, column, patch.Raw); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.ByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (*HistoricalSite, error) {
	site, err := r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&HistoricalSite{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("delete historical site %s: %w", id, err)
	}
	return site, nil
}

// setGeometry writes GeoJSON into a geometry column; column is never user input.
func setGeometry(tx *gorm.DB, id uuid.UUID, column string, raw json.RawMessage) error {
	sql := fmt.Sprintf(
		`UPDATE profile.historical_sites SET %s = ST_SetSRID(ST_GeomFromGeoJSON(?), 4326), updated_at = NOW() WHERE id = ?`,
		column)
	if err := tx.Exec(sql, string(raw), id).Error; err != nil {
		if db.IsInvalidGeometry(err) {
			return &InvalidGeometryError{Column: column, Err: err}
		}
		return fmt.Errorf("store %s geometry: %w", column, err)
	}
	return nil
}
