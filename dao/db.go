package dao

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"trivia_api/config"
	"trivia_api/models"
)

// Connect opens the database described by cfg and migrates the tables.
func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(cfg.Dialect, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s database %s@%s: %w", cfg.Dialect, cfg.DBName, cfg.Host, err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the categories and questions tables. There is
// no foreign key from questions.category, quiz draws on unknown categories
// simply come back empty.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Category{}, &models.Question{}).Error; err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
