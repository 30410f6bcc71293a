package auth

import (
	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
)

func Init() {
	log := logging.Component("auth")

	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema app_auth")
	}
	if err := db.DB.AutoMigrate(&User{}, &Session{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto-migrate auth tables")
	}
	log.Info().Msg("Auth module initialized")
}
