package profile

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Municipality is the single local body the site describes.
type Municipality struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	NameNe    string    `json:"name_ne"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	District  string    `json:"district"`
	Province  string    `json:"province"`
	AreaSqKm  float64   `json:"area_sq_km"`
	WardCount int       `json:"ward_count"`
	Website   string    `json:"website,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Written and read through PostGIS only.
	BoundaryGeom    string          `gorm:"column:boundary;type:geometry(Geometry,4326);->:false;<-:false" json:"-"`
	BoundaryGeoJSON json.RawMessage `gorm:"column:boundary_geojson;->;-:migration" json:"boundary,omitempty"`
}

func (Municipality) TableName() string {
	return "profile.municipalities"
}

// Ward is an administrative subdivision, keyed by its number.
type Ward struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Number    int       `gorm:"uniqueIndex;not null" json:"number"`
	Name      string    `json:"name,omitempty"`
	NameNe    string    `json:"name_ne,omitempty"`
	AreaSqKm  float64   `json:"area_sq_km"`
	Office    string    `json:"office,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BoundaryGeom    string          `gorm:"column:boundary;type:geometry(Geometry,4326);->:false;<-:false" json:"-"`
	BoundaryGeoJSON json.RawMessage `gorm:"column:boundary_geojson;->;-:migration" json:"boundary,omitempty"`
}

func (Ward) TableName() string {
	return "profile.wards"
}

// Label is "Ward 4" or the ward's own name when it has one.
func (w Ward) Label() string {
	if w.Name != "" {
		return w.Name
	}
	return WardLabel(w.Number)
}
