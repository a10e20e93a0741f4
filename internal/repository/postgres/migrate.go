package postgres

import (
	"ai-shopping-agent-be/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables this service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Product{}, &model.TurnLog{})
}
