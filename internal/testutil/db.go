// Package testutil gives integration tests a migrated database handle. Tests
// using it are gated behind DATABASE_URL: unset means skip.
package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/fisiomanager/backend/internal/migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenDB opens a gorm handle from DATABASE_URL. Returns nil when the variable
// is unset or the database is unreachable; callers skip in that case.
func OpenDB(ctx context.Context) (*gorm.DB, string) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, ""
	}
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, url
	}
	if _, err := db.DB(); err != nil {
		return nil, url
	}
	return db, url
}

// MustMigrate brings the connected database up to the current schema.
func MustMigrate(ctx context.Context, db *gorm.DB) error {
	dir, err := findMigrationsDir()
	if err != nil {
		return err
	}
	return migrate.Run(ctx, db, dir)
}

// findMigrationsDir walks up from the working directory; tests run from their
// package directory, not the module root.
func findMigrationsDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	cur := wd
	for i := 0; i < 8; i++ {
		candidate := filepath.Join(cur, "migrations")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return "", errors.New("migrations dir not found from working directory")
}
