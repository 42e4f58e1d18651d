package database

import (
	"fmt"

	"budgetbook/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Budget{},
		&models.Operation{},
		&models.Alert{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
