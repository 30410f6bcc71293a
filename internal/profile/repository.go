package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PalikaProfile/Profile-Backend/internal/db"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidBoundary = errors.New("boundary is not a valid geometry")
)

const withBoundary = "*, ST_AsGeoJSON(boundary) AS boundary_geojson"

type Repository struct {
	db *gorm.DB
}

func NewRepository(d *gorm.DB) *Repository {
	return &Repository{db: d}
}

// Municipality returns the one configured municipality.
func (r *Repository) Municipality(ctx context.Context) (*Municipality, error) {
	var m Municipality
	err := r.db.WithContext(ctx).Select(withBoundary).Order("created_at ASC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load municipality: %w", err)
	}
	return &m, nil
}

// SaveMunicipality creates the municipality or overwrites the existing one.
// A nil boundary leaves the stored geometry alone.
func (r *Repository) SaveMunicipality(ctx context.Context, m *Municipality, boundary json.RawMessage) (*Municipality, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Municipality
		err := tx.Order("created_at ASC").First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("create municipality: %w", err)
			}
		case err != nil:
			return fmt.Errorf("load municipality: %w", err)
		default:
			m.ID = existing.ID
			m.CreatedAt = existing.CreatedAt
			if err := tx.Select("*").Omit("created_at").Save(m).Error; err != nil {
				return fmt.Errorf("update municipality: %w", err)
			}
		}

		if boundary != nil {
			if err := setBoundary(tx, Municipality{}.TableName(), "id = ?", m.ID, boundary); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Municipality(ctx)
}

func (r *Repository) Wards(ctx context.Context) ([]Ward, error) {
	var wards []Ward
	if err := r.db.WithContext(ctx).Select(withBoundary).Order("number ASC").Find(&wards).Error; err != nil {
		return nil, fmt.Errorf("list wards: %w", err)
	}
	return wards, nil
}

func (r *Repository) Ward(ctx context.Context, number int) (*Ward, error) {
	var w Ward
	err := r.db.WithContext(ctx).Select(withBoundary).First(&w, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load ward %d: %w", number, err)
	}
	return &w, nil
}

// SaveWard upserts a ward by number.
func (r *Repository) SaveWard(ctx context.Context, w *Ward, boundary json.RawMessage) (*Ward, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "number"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "name_ne", "area_sq_km", "office", "phone", "updated_at"}),
		}).Create(w).Error
		if err != nil {
			return fmt.Errorf("upsert ward %d: %w", w.Number, err)
		}
		if boundary != nil {
			return setBoundary(tx, Ward{}.TableName(), "number = ?", w.Number, boundary)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Ward(ctx, w.Number)
}

func setBoundary(tx *gorm.DB, table, where string, key any, boundary json.RawMessage) error {
	sql := fmt.Sprintf(`UPDATE %s SET boundary = ST_SetSRID(ST_GeomFromGeoJSON(?), 4326) WHERE %s`, table, where)
	if err := tx.Exec(sql, string(boundary), key).Error; err != nil {
		if db.IsInvalidGeometry(err) {
			return fmt.Errorf("%w: %w", ErrInvalidBoundary, err)
		}
		return fmt.Errorf("store boundary on %s: %w", table, err)
	}
	return nil
}
