package profile

import (
	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
)

func Init() {
	log := logging.Component("profile")

	if err := db.EnsureSchema(db.DB, "profile"); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema profile")
	}
	if err := db.EnsureExtensions(db.DB, "uuid-ossp", "postgis"); err != nil {
		log.Fatal().Err(err).Msg("Failed to enable extensions")
	}
	if err := db.DB.AutoMigrate(&Municipality{}, &Ward{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto-migrate profile tables")
	}

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_wards_boundary ON profile.wards USING GIST (boundary)`,
		`CREATE INDEX IF NOT EXISTS idx_municipalities_boundary ON profile.municipalities USING GIST (boundary)`,
	} {
		if err := db.DB.Exec(stmt).Error; err != nil {
			log.Fatal().Err(err).Msg("Failed to create boundary index")
		}
	}

	log.Info().Msg("Profile module initialized")
}
