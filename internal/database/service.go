package database

import (
	"os"
	"path/filepath"
	"strings"

	"certifire/cmd/certifire/config"
	destination_types "certifire/internal/destinations/types"
	"certifire/internal/encryption"
	monitoring_types "certifire/internal/monitoring/types"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func InitDB() (*gorm.DB, error) {
	secretKey, err := config.Config.SecretKeyBytes()

	if err != nil {
		return nil, err
	}

	return Open(config.Config.DatabasePath, secretKey)
}

// Open opens the SQLite database at path and migrates every model. A
// non-nil secretKey turns on encryption of destination secrets.
func Open(path string, secretKey []byte) (*gorm.DB, error) {
	if err := encryption.SetKey(secretKey); err != nil {
		return nil, err
	}

	// Ensure the parent directory exists
	if !strings.HasPrefix(path, ":memory:") && !strings.HasPrefix(path, "file:") {
		dbDir := filepath.Dir(path)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})

	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&destination_types.Destination{}, &monitoring_types.Target{}, &monitoring_types.Worker{})

	if err != nil {
		return nil, err
	}

	return db, nil
}

func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()

	if err != nil {
		return err
	}

	return sqlDB.Close()
}
