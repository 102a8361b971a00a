package db

import (
	"fmt"
	"log"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/insure-assist/insure-assist/internal/catalog"
	"github.com/insure-assist/insure-assist/internal/models"
	"github.com/insure-assist/insure-assist/internal/policy"
	"github.com/insure-assist/insure-assist/internal/rag"
)

// Connect opens the database and migrates the schema.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		dialector = gormsqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	log.Printf("db: connected (%s)", driver)
	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&models.User{},
		&policy.Policy{},
		&policy.CoverageDetail{},
		&catalog.InsuranceProduct{},
		&catalog.AddonPack{},
		&catalog.PolicyAddon{},
		&rag.IndexEntry{},
	); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
