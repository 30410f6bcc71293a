package demographics

import (
	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
)

func Init() {
	log := logging.Component("demographics")

	if err := db.EnsureSchema(db.DB, "profile"); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema profile")
	}
	if err := db.DB.AutoMigrate(&WardSummary{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto-migrate ward summaries")
	}
	log.Info().Msg("Demographics module initialized")
}
