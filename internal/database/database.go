package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Cyvadra/farewatch/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase opens the SQLite history file and creates the append-only
// tables if they do not exist yet. Calling it on an existing file is a no-op
// apart from opening the connection.
func InitDatabase(path string, l *log.Logger) (*gorm.DB, error) {
	if l == nil {
		l = log.New(os.Stdout, "", log.LstdFlags)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(l, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate the schema
	if err := db.AutoMigrate(
		&models.PriceHistory{},
		&models.AlertRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	l.Printf("Database initialized at %s", path)
	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
