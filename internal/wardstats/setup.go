package wardstats

import (
	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
)

func Init() {
	log := logging.Component("wardstats")

	if err := db.EnsureSchema(db.DB, "profile"); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema profile")
	}
	if err := db.DB.AutoMigrate(&WardCategoryStat{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto-migrate ward category stats")
	}
	log.Info().Msg("Ward statistics module initialized")
}
