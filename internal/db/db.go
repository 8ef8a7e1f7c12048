package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"salon-booking-backend/config"
	"salon-booking-backend/internal/model"
)

// Init opens the configured SQL database and runs migrations.
// Only the postgres and sqlite drivers are handled here.
func Init(cfg *config.StoreConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer; queueing in database/sql beats SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Info("running database migrations", zap.String("driver", cfg.Driver))
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.EnableExclusionConstraint {
		if cfg.Driver != "postgres" {
			log.Warn("exclusion constraint requires postgres, skipping", zap.String("driver", cfg.Driver))
		} else if err := applyExclusionDDL(db); err != nil {
			log.Warn("failed to apply exclusion constraint, continuing without it", zap.Error(err))
		}
	}

	log.Info("database initialization complete")
	return db, nil
}

// Migrate creates or updates the bookings table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Booking{}); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// exclusionDDL makes postgres itself refuse overlapping confirmed bookings on
// the same date. The constraint is deferred so the full-collection upsert in
// a single transaction is only checked at commit.
var exclusionDDL = []string{
	"CREATE EXTENSION IF NOT EXISTS btree_gist;",

	"ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_duration_positive;",
	"ALTER TABLE bookings ADD CONSTRAINT bookings_duration_positive CHECK (duration_minutes > 0);",

	"ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_overlap;",
	"ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap " +
		"EXCLUDE USING GIST (date WITH =, int4range(start_minute, start_minute + duration_minutes, '[)') WITH &&) " +
		"WHERE (status = 'confirmed') DEFERRABLE INITIALLY DEFERRED;",
}

func applyExclusionDDL(db *gorm.DB) error {
	for _, ddl := range exclusionDDL {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
