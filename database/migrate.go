// File: /database/migrate.go
package database

import (
	"fmt"

	"gorm.io/gorm"

	"globe-travel-api/logging"
	"globe-travel-api/models"
)

func Migrate(db *gorm.DB) error {
	// Parents before children so foreign keys resolve on both backends.
	err := db.AutoMigrate(
		&models.Location{},
		&models.Media{},
		&models.Comment{},
		&models.Advice{},
		&models.LocationVisitor{},
		&models.Trip{},
		&models.TripRequest{},
		&models.TripResponse{},
		&models.User{},
		&models.Session{},
		&models.Group{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	addCustomIndexes(db)
	return nil
}

func addCustomIndexes(db *gorm.DB) {
	indexes := []struct {
		table, name, columns string
	}{
		{"locations", "idx_locations_created", "created_at"},
		{"trip_plans", "idx_trip_plans_created", "created_at"},
		{"advice", "idx_advice_created", "created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		stmt := fmt.Sprintf("CREATE INDEX %s ON %s(%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(stmt).Error; err != nil {
			logging.Warn().Err(err).Str("index", idx.name).Msg("Could not create index")
		}
	}
}
