// SPDX-License-Identifier: GPL-3.0-only

package db

import (
	"fmt"

	"authrelay-server/commons"
	"authrelay-server/config"
	"authrelay-server/migrations"
	"authrelay-server/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.DBDialect. Unique constraint
// violations are translated to gorm.ErrDuplicatedKey.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	var dbInfo string

	switch cfg.DBDialect {
	case "postgres":
		commons.Logger.Debug("Connecting to PostgreSQL database")
		dialector = postgres.Open(cfg.PostgresDSN)
		dbInfo = "PostgreSQL database (DSN hidden)"
	case "mysql":
		commons.Logger.Debug("Connecting to MySQL database")
		dialector = mysql.Open(cfg.MySQLDSN)
		dbInfo = "MySQL database (DSN hidden)"
	case "sqlite", "":
		commons.Logger.Debug("Connecting to SQLite database at ", cfg.DBPath)
		dialector = sqlite.Open(cfg.DBPath)
		dbInfo = cfg.DBPath
	default:
		return nil, fmt.Errorf("unsupported database dialect: %s", cfg.DBDialect)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	commons.Logger.Infof("Database connection established. dialect: %s, database: %s", cfg.DBDialect, dbInfo)
	return conn, nil
}

// Migrate brings the schema up to date. A fresh database gets every model in
// one step and all known migrations are recorded as applied.
func Migrate(conn *gorm.DB) error {
	commons.Logger.Info("Running database migrations")

	m := gormigrate.New(conn, gormigrate.DefaultOptions, migrations.List())
	m.InitSchema(func(tx *gorm.DB) error {
		return tx.AutoMigrate(models.AllModels...)
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	commons.Logger.Info("Database migration completed")
	return nil
}

// Close releases the underlying connection pool.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
