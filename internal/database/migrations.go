package database

import (
	"github.com/ankitgade/greenfleet-backend/internal/emissions"
	"github.com/ankitgade/greenfleet-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.FleetVehicle{},
		&models.DriverLocation{},
		&models.Shipment{},
		&models.Payment{},
		&models.FuelEntry{},
		&models.EmissionFactor{},
		&models.DriverEcoScore{},
	)
	if err != nil {
		return err
	}

	// Update users table
	if db.Migrator().HasTable(&models.User{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS license_number text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS license_image text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS driver_status text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS user_type text DEFAULT 'client'",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE users " + column).Error; err != nil {
				return err
			}
		}

		// Update constraint
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('client', 'driver', 'admin'))`)
	}

	// Shipments gained carbon accounting columns after launch
	if db.Migrator().HasTable(&models.Shipment{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS carbon_saved_kg numeric DEFAULT 0",
			"ADD COLUMN IF NOT EXISTS proof_image text DEFAULT ''",
		}
		for _, column := range columns {
			if err := db.Exec("ALTER TABLE shipments " + column).Error; err != nil {
				return err
			}
		}
	}

	return seedEmissionFactors(db)
}

// seedEmissionFactors inserts the default factor rows once.
// Existing rows are treated as operator overrides and left alone.
func seedEmissionFactors(db *gorm.DB) error {
	for fuelType, factor := range emissions.DefaultFactors() {
		var count int64
		if err := db.Model(&models.EmissionFactor{}).Where("fuel_type = ?", fuelType).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			row := models.EmissionFactor{FuelType: fuelType, KgCO2PerLiter: factor}
			if err := db.Create(&row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyFactorOverrides upserts factor rows loaded from the config file or
// EMISSION_FACTOR_* environment variables. Explicit operator config wins
// over whatever the table currently holds.
func ApplyFactorOverrides(db *gorm.DB, overrides emissions.FactorTable) error {
	for fuelType, factor := range overrides {
		row := models.EmissionFactor{FuelType: fuelType, KgCO2PerLiter: factor}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fuel_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"kg_co2_per_liter"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}
