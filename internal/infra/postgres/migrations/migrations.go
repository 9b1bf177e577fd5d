// Package migrations holds the catalog schema, versioned with gormigrate.
package migrations

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// options records applied migrations in their own table and runs each one in a transaction.
var options = &gormigrate.Options{
	TableName:                 "course_migrations",
	IDColumnName:              "id",
	IDColumnSize:              255,
	UseTransaction:            true,
	ValidateUnknownMigrations: true,
}

// Migrations returns the catalog schema migrations in apply order.
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		createCoursesTable(),
	}
}

// Run applies every pending migration.
func Run(db *gorm.DB) error {
	if err := gormigrate.New(db, options, Migrations()).Migrate(); err != nil {
		return fmt.Errorf("migrating catalog schema: %w", err)
	}

	return nil
}

// Rollback reverts the most recently applied migration.
func Rollback(db *gorm.DB) error {
	if err := gormigrate.New(db, options, Migrations()).RollbackLast(); err != nil {
		return fmt.Errorf("rolling back catalog schema: %w", err)
	}

	return nil
}
