package wardstats

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WardCategoryStat is one cell of a ward x category (x gender) dataset.
type WardCategoryStat struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Dataset    string    `gorm:"not null;uniqueIndex:idx_ward_category_stat,priority:1" json:"dataset"`
	WardNumber int       `gorm:"not null;uniqueIndex:idx_ward_category_stat,priority:2;index" json:"ward_number"`
	Category   string    `gorm:"not null;uniqueIndex:idx_ward_category_stat,priority:3" json:"category"`
	Gender     string    `gorm:"not null;uniqueIndex:idx_ward_category_stat,priority:4" json:"gender,omitempty"`
	Value      float64   `gorm:"not null" json:"value"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (WardCategoryStat) TableName() string {
	return "profile.ward_category_stats"
}

func (s *WardCategoryStat) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
