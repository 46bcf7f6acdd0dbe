package db

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"valid-assessment-backend/internal/config"
)

// ErrNotInitialized is returned when the hosted database is disabled or has
// not been opened yet.
var ErrNotInitialized = errors.New("database not initialized")

var (
	instance *gorm.DB
	mu       sync.RWMutex
)

// InitDBFromConfig opens the postgres connection described by cfg.DB and
// applies the pool settings.
func InitDBFromConfig(cfg *config.APIConfig) (*gorm.DB, error) {
	if !cfg.DB.Enabled {
		return nil, ErrNotInitialized
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	pool := cfg.DB.Pool
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetime) * time.Minute)
	}

	SetDB(gdb)
	return gdb, nil
}

// SetDB replaces the shared handle.
func SetDB(gdb *gorm.DB) {
	mu.Lock()
	defer mu.Unlock()
	instance = gdb
}

// GetDB returns the shared handle, or nil when no database is configured.
func GetDB() *gorm.DB {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Close releases the underlying connection pool.
func Close() error {
	gdb := GetDB()
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
