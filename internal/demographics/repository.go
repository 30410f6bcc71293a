package demographics

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("ward summary not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(d *gorm.DB) *Repository {
	return &Repository{db: d}
}

func (r *Repository) Summaries(ctx context.Context) ([]WardSummary, error) {
	var rows []WardSummary
	if err := r.db.WithContext(ctx).Order("ward_number ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list ward summaries: %w", err)
	}
	return rows, nil
}

func (r *Repository) Summary(ctx context.Context, ward int) (*WardSummary, error) {
	var row WardSummary
	err := r.db.WithContext(ctx).First(&row, "ward_number = ?", ward).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load ward %d summary: %w", ward, err)
	}
	return &row, nil
}

// SaveSummary upserts by ward number after recomputing derived fields.
func (r *Repository) SaveSummary(ctx context.Context, row *WardSummary) (*WardSummary, error) {
	row.Derive()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ward_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_population", "male_population", "female_population", "other_population",
			"total_households", "average_household_size", "sex_ratio", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("save ward %d summary: %w", row.WardNumber, err)
	}
	return r.Summary(ctx, row.WardNumber)
}

func (r *Repository) DeleteSummary(ctx context.Context, ward int) error {
	res := r.db.WithContext(ctx).Where("ward_number = ?", ward).Delete(&WardSummary{})
	if res.Error != nil {
		return fmt.Errorf("delete ward %d summary: %w", ward, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
