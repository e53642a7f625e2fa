package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffyard/staffyard/internal/config"
	"github.com/staffyard/staffyard/internal/models"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.StaffMember{},
		&models.Vacancy{},
		&models.Unit{},
		&models.PositionCode{},
		&models.SwapTransaction{},
		&models.SwapDetail{},
		&models.BoardSnapshot{},
		&models.GroupSequence{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// DropAll drops every Staffyard table. Used by the reset command.
func DropAll(db *gorm.DB) error {
	if err := db.Migrator().DropTable(AllModels()...); err != nil {
		return fmt.Errorf("db: drop tables: %w", err)
	}
	return nil
}

// SeedReference upserts the unit and position-code reference lists from
// configuration.
func SeedReference(db *gorm.DB, ref config.ReferenceConfig) error {
	for _, name := range ref.Units {
		unit := models.Unit{Name: name}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&unit)
		if result.Error != nil {
			return fmt.Errorf("db: seed unit %q: %w", name, result.Error)
		}
	}
	for _, pc := range ref.PositionCodes {
		code := models.PositionCode{Code: pc.Code, Label: pc.Label}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"label"}),
		}).Create(&code)
		if result.Error != nil {
			return fmt.Errorf("db: seed position code %q: %w", pc.Code, result.Error)
		}
	}
	return nil
}
