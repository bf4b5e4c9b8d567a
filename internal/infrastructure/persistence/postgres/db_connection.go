// Package postgres implements the repository interfaces on PostgreSQL via
// GORM. The database models keep an internal bigint key for insertion-order
// tiebreaks alongside the public identifiers.
package postgres

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cscx/riskwatch/internal/config"
	"github.com/cscx/riskwatch/pkg/errors"
	"github.com/cscx/riskwatch/pkg/logger"
)

// DBConnection manages the database handle and its pool lifecycle.
type DBConnection struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewDBConnection opens a PostgreSQL connection pool, verifies connectivity,
// and runs schema migration.
func NewDBConnection(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*DBConnection, error) {
	log = log.WithComponent("postgres")

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.ErrStorage("open database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.ErrStorage("access connection pool", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	conn := &DBConnection{db: db, logger: log}
	if err := conn.Ping(ctx); err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info(ctx, "database connection established", logger.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	})
	return conn, nil
}

// DB returns the underlying handle for repository construction.
func (c *DBConnection) DB() *gorm.DB {
	return c.db
}

// Ping verifies database connectivity.
func (c *DBConnection) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return errors.ErrStorage("access connection pool", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return errors.ErrStorage("ping database", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *DBConnection) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the schema for all engine tables. It is also
// used by the test suites against their own database handles.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&riskAssessmentDBM{},
		&riskHistoryDBM{},
		&riskAlertDBM{},
		&configEntryDBM{},
		&customerDBM{},
	); err != nil {
		return errors.ErrStorage("migrate schema", err)
	}
	return nil
}
