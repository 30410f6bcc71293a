package db

import (
	"errors"
	"time"

	"github.com/PalikaProfile/Profile-Backend/internal/config"
	"github.com/PalikaProfile/Profile-Backend/internal/logging"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to Postgres with the pool settings from cfg.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}

	// Slow queries surface as warnings; full SQL only at debug level.
	lg := logger.New(
		logging.GormWriter{},
		logger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: lg,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// Connect opens the global connection and exits the process on failure.
func Connect(cfg config.DatabaseConfig) {
	db, err := Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("component", "db").Msg("Failed to connect to database")
	}
	DB = db
	logging.Info().Str("component", "db").Msg("Connected to database")
}
