package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arnavshah/volunteer-hub-go/pkg/config"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

// Open connects to postgres when DATABASE_URL is set, otherwise falls
// back to a local sqlite file, and migrates the schema.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if cfg.URL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the auto migration for every domain model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Group{},
		&models.GroupUser{},
		&models.Position{},
		&models.Shift{},
		&models.ShiftPosition{},
		&models.ShiftVolunteer{},
	)
}
