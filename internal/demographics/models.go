package demographics

import (
	"time"

	"github.com/google/uuid"

	"github.com/PalikaProfile/Profile-Backend/internal/stats"
)

// WardSummary holds headline population figures for one ward.
// TotalPopulation, AverageHouseholdSize and SexRatio are derived on save.
type WardSummary struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	WardNumber           int       `gorm:"uniqueIndex;not null" json:"ward_number"`
	TotalPopulation      int       `gorm:"not null" json:"total_population"`
	MalePopulation       int       `gorm:"not null" json:"male_population"`
	FemalePopulation     int       `gorm:"not null" json:"female_population"`
	OtherPopulation      int       `gorm:"not null" json:"other_population"`
	TotalHouseholds      int       `gorm:"not null" json:"total_households"`
	AverageHouseholdSize float64   `gorm:"type:numeric(6,2)" json:"average_household_size"`
	SexRatio             float64   `gorm:"type:numeric(7,2)" json:"sex_ratio"`
	CreatedAt            time.Time `json:"-"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (WardSummary) TableName() string {
	return "profile.ward_summaries"
}

// Derive recomputes the fields that are never taken from input.
func (w *WardSummary) Derive() {
	w.TotalPopulation = w.MalePopulation + w.FemalePopulation + w.OtherPopulation
	w.AverageHouseholdSize = stats.Round(stats.AverageHouseholdSize(float64(w.TotalPopulation), float64(w.TotalHouseholds)), 2)
	w.SexRatio = stats.Round(stats.SexRatio(float64(w.MalePopulation), float64(w.FemalePopulation)), 2)
}
