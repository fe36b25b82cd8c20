package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a Postgres connection and returns the handle. The
// handle is constructed once at startup and passed to repositories
// explicitly; there is no package-level connection state.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Translate driver errors (e.g. unique violations) into
		// gorm sentinel errors so callers can errors.Is on them.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}
