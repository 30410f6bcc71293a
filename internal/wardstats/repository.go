package wardstats

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PalikaProfile/Profile-Backend/internal/db"
)

var (
	ErrNotFound = errors.New("row not found")
	ErrConflict = errors.New("a row for this ward, category and gender already exists")
)

// BatchSize is the number of rows per INSERT during a replace.
const BatchSize = 500

// Filter narrows a dataset query. Empty fields add no predicate.
type Filter struct {
	Wards      []int
	Categories []string
	Genders    []string
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(d *gorm.DB) *Repository {
	return &Repository{db: d}
}

func (r *Repository) List(ctx context.Context, dataset string, f Filter) ([]WardCategoryStat, error) {
	query := r.db.WithContext(ctx).Model(&WardCategoryStat{}).Where("dataset = ?", dataset)

	if len(f.Wards) > 0 {
		wards := make([]int64, len(f.Wards))
		for i, w := range f.Wards {
			wards[i] = int64(w)
		}
		query = query.Where("ward_number = ANY(?)", pq.Array(wards))
	}
	if len(f.Categories) > 0 {
		query = query.Where("category = ANY(?)", pq.Array(f.Categories))
	}
	if len(f.Genders) > 0 {
		query = query.Where("gender = ANY(?)", pq.Array(f.Genders))
	}

	var rows []WardCategoryStat
	if err := query.Order("ward_number ASC, category ASC, gender ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", dataset, err)
	}
	return rows, nil
}

// Upsert writes one cell, overwriting the value if the cell exists.
func (r *Repository) Upsert(ctx context.Context, row *WardCategoryStat) (*WardCategoryStat, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "dataset"}, {Name: "ward_number"}, {Name: "category"}, {Name: "gender"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert %s row: %w", row.Dataset, err)
	}

	var saved WardCategoryStat
	err = r.db.WithContext(ctx).First(&saved,
		"dataset = ? AND ward_number = ? AND category = ? AND gender = ?",
		row.Dataset, row.WardNumber, row.Category, row.Gender).Error
	if err != nil {
		return nil, fmt.Errorf("reload %s row: %w", row.Dataset, err)
	}
	return &saved, nil
}

func (r *Repository) Update(ctx context.Context, dataset string, id uuid.UUID, row WardCategoryStat) (*WardCategoryStat, error) {
	res := r.db.WithContext(ctx).Model(&WardCategoryStat{}).
		Where("id = ? AND dataset = ?", id, dataset).
		Updates(map[string]any{
			"ward_number": row.WardNumber,
			"category":    row.Category,
			"gender":      row.Gender,
			"value":       row.Value,
		})
	if res.Error != nil {
		if db.IsUniqueViolation(res.Error) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update %s row %s: %w", dataset, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var saved WardCategoryStat
	if err := r.db.WithContext(ctx).First(&saved, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload %s row %s: %w", dataset, id, err)
	}
	return &saved, nil
}

func (r *Repository) Delete(ctx context.Context, dataset string, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND dataset = ?", id, dataset).Delete(&WardCategoryStat{})
	if res.Error != nil {
		return fmt.Errorf("delete %s row %s: %w", dataset, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Replace swaps the whole dataset in one transaction.
func (r *Repository) Replace(ctx context.Context, dataset string, rows []WardCategoryStat) (int, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ReplaceTx(tx, dataset, rows, nil)
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ReplaceTx deletes the dataset and inserts rows in batches inside tx.
// beforeBatch, when set, runs ahead of every batch; the importer uses it for pacing.
func ReplaceTx(tx *gorm.DB, dataset string, rows []WardCategoryStat, beforeBatch func(n int) error) error {
	if err := tx.Where("dataset = ?", dataset).Delete(&WardCategoryStat{}).Error; err != nil {
		return fmt.Errorf("clear %s: %w", dataset, err)
	}
	for start := 0; start < len(rows); start += BatchSize {
		end := min(start+BatchSize, len(rows))
		if beforeBatch != nil {
			if err := beforeBatch(end - start); err != nil {
				return err
			}
		}
		if err := tx.Create(rows[start:end]).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert %s rows %d-%d: %w", dataset, start+1, end, err)
		}
	}
	return nil
}

// DatasetCount is the row count and total of one stored dataset.
type DatasetCount struct {
	Dataset string  `json:"dataset"`
	Rows    int64   `gorm:"column:row_count" json:"rows"`
	Total   float64 `json:"total"`
}

func (r *Repository) Counts(ctx context.Context) ([]DatasetCount, error) {
	var out []DatasetCount
	err := r.db.WithContext(ctx).Model(&WardCategoryStat{}).
		Select("dataset, COUNT(*) AS row_count, COALESCE(SUM(value), 0) AS total").
		Group("dataset").
		Order("dataset ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("count datasets: %w", err)
	}
	return out, nil
}
