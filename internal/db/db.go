package db

import (
	"fmt"
	stdlog "log"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/contract-archive/internal/config"
)

// New opens the configured store and creates the collection tables.
func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	database, err := Open(cfg.DB, cfg.Environment, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(database); err != nil {
		return nil, err
	}
	return database, nil
}

func Open(cfg config.DBConfig, environment string, log zerolog.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if environment != "development" {
		level = gormlogger.Error
	}
	gormLog := gormlogger.New(
		stdlog.New(log.With().Str("component", "gorm").Logger(), "", 0),
		gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case config.DriverPostgres, "":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	database, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Driver == config.DriverSQLite {
		// one writer; also keeps in-memory databases alive on a single connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime != "" {
			lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime)
			if err != nil {
				return nil, fmt.Errorf("parse conn max lifetime: %w", err)
			}
			sqlDB.SetConnMaxLifetime(lifetime)
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().Str("driver", database.Dialector.Name()).Msg("database connected")
	return database, nil
}
