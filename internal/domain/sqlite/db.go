package sqlite

import (
	"os"
	"path/filepath"
	"time"

	"notekeeper/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func Init() (*gorm.DB, error) {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(".", "notekeeper.db")
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&entity.User{}, &entity.Note{}, &entity.Attachment{})
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; pin the pool to one connection so
	// concurrent requests queue instead of hitting SQLITE_BUSY.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
