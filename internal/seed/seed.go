// Package seed provisions the first therapist account on an empty database so
// a fresh install can log in without touching the CLI.
package seed

import (
	"context"
	"log"
	"os"

	"github.com/fisiomanager/backend/internal/auth"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultAdminName  = "Admin"
	defaultAdminEmail = "admin@fisiomanager.local"
)

// Run creates the bootstrap account when the users table is empty. The email
// and password come from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD when set.
// A populated table means the install is live and seeding is a no-op.
func Run(ctx context.Context, db *gorm.DB) error {
	var n int
	if err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM users").Scan(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	id := uuid.New()
	if err := db.WithContext(ctx).Exec(`
		INSERT INTO users (id, name, email, password_hash)
		VALUES (?, ?, ?, ?)
	`, id, defaultAdminName, email, hash).Error; err != nil {
		return err
	}
	log.Printf("[seed] created bootstrap account %s (change the password after first login)", email)
	return nil
}
