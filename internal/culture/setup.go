package culture

import (
	"gorm.io/gorm"

	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
)

func Init() {
	log := logging.Component("culture")

	if err := db.EnsureSchema(db.DB, "profile"); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema profile")
	}
	if err := db.EnsureExtensions(db.DB, "uuid-ossp", "postgis"); err != nil {
		log.Fatal().Err(err).Msg("Failed to enable extensions")
	}
	if err := Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate historical sites")
	}
	log.Info().Msg("Culture module initialized")
}

// Migrate creates the sites table and its spatial indexes.
func Migrate(d *gorm.DB) error {
	if err := d.AutoMigrate(&HistoricalSite{}); err != nil {
		return err
	}
	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_historical_sites_location ON profile.historical_sites USING GIST (location)`,
		`CREATE INDEX IF NOT EXISTS idx_historical_sites_location_geog ON profile.historical_sites USING GIST ((location::geography))`,
	} {
		if err := d.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
