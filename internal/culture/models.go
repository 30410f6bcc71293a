package culture

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type SiteType string

const (
	TypeTemple           SiteType = "temple"
	TypeMonastery        SiteType = "monastery"
	TypePalace           SiteType = "palace"
	TypeFort             SiteType = "fort"
	TypeArchaeological   SiteType = "archaeological"
	TypeMonument         SiteType = "monument"
	TypeHeritageBuilding SiteType = "heritage-building"
	TypeOther            SiteType = "other"
)

var SiteTypes = []SiteType{
	TypeTemple, TypeMonastery, TypePalace, TypeFort,
	TypeArchaeological, TypeMonument, TypeHeritageBuilding, TypeOther,
}

var siteTypeLabels = map[SiteType][2]string{
	TypeTemple:           {"Temple", "मन्दिर"},
	TypeMonastery:        {"Monastery", "गुम्बा"},
	TypePalace:           {"Palace", "दरबार"},
	TypeFort:             {"Fort", "गढी"},
	TypeArchaeological:   {"Archaeological site", "पुरातात्विक स्थल"},
	TypeMonument:         {"Monument", "स्मारक"},
	TypeHeritageBuilding: {"Heritage building", "सम्पदा भवन"},
	TypeOther:            {"Other", "अन्य"},
}

func (t SiteType) Label(locale string) string {
	l, ok := siteTypeLabels[t]
	if !ok {
		return string(t)
	}
	if locale == "ne" {
		return l[1]
	}
	return l[0]
}

// HistoricalSite is a temple, fort or other place of heritage value.
// Location and Boundary are GeoJSON read back from PostGIS.
type HistoricalSite struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	NameNe           string         `json:"name_ne,omitempty"`
	Slug             string         `gorm:"uniqueIndex:idx_historical_sites_slug;not null" json:"slug"`
	Type             SiteType       `gorm:"type:text;not null;index" json:"type"`
	Description      string         `gorm:"type:text" json:"description,omitempty"`
	WardNumber       *int           `gorm:"index" json:"ward_number,omitempty"`
	Period           string         `json:"period,omitempty"`
	YearEstablished  *int           `json:"year_established,omitempty"`
	IsHeritageListed bool           `gorm:"not null;default:false" json:"is_heritage_listed"`
	Tags             pq.StringArray `gorm:"type:text[]" json:"tags"`
	Images           pq.StringArray `gorm:"type:text[]" json:"images"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	LocationGeom string          `gorm:"column:location;type:geometry(Point,4326);->:false;<-:false" json:"-"`
	BoundaryGeom string          `gorm:"column:boundary;type:geometry(Geometry,4326);->:false;<-:false" json:"-"`
	Location     json.RawMessage `gorm:"column:location_geojson;->;-:migration" json:"location,omitempty"`
	Boundary     json.RawMessage `gorm:"column:boundary_geojson;->;-:migration" json:"boundary,omitempty"`
	// Set only on proximity searches.
	DistanceM *float64 `gorm:"column:distance_m;->;-:migration" json:"distance_m,omitempty"`
}

func (HistoricalSite) TableName() string {
	return "profile.historical_sites"
}

// Page is one slice of a filtered listing.
type Page struct {
	Items  []HistoricalSite `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}
