package database

import (
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration embedded in the binary.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return errors.Wrap(err, "migrate: set dialect")
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, "migrate: up")
	}
	return nil
}

// MigrationStatus logs the applied state of every migration.
func MigrationStatus(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return errors.Wrap(err, "migrate: set dialect")
	}
	return errors.Wrap(goose.Status(db, "migrations"), "migrate: status")
}

// SchemaVersion returns the latest applied migration version.
func SchemaVersion(db *sql.DB) (int64, error) {
	if err := goose.SetDialect("mysql"); err != nil {
		return 0, errors.Wrap(err, "migrate: set dialect")
	}
	v, err := goose.GetDBVersion(db)
	return v, errors.Wrap(err, "migrate: version")
}
