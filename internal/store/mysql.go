package store

import (
	"context"
	"fmt"
	"time"

	"github.com/user/streamcat/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySQLStore implements Store interface using MySQL database
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore opens the connection pool. It does not touch the schema;
// ResetSchema owns table creation.
func NewMySQLStore(cfg *config.DBConfig) (*MySQLStore, error) {
	logMode := logger.Silent
	if cfg.LogSQL {
		logMode = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, classify("connect to database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MaxConns / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &MySQLStore{db: db}, nil
}

// NewWithDB wraps an existing gorm handle
func NewWithDB(db *gorm.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// Ping checks database connectivity
func (s *MySQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return classify("ping database", sqlDB.PingContext(ctx))
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying gorm.DB instance (for testing purposes)
func (s *MySQLStore) DB() *gorm.DB {
	return s.db
}
