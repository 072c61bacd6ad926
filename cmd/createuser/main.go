// Command createuser provisions or resets a therapist account from the shell:
//
//	createuser "Ana Souza" ana@clinica.com s3cret
//
// An existing email gets its password reset instead of failing.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fisiomanager/backend/internal/auth"
	"github.com/fisiomanager/backend/internal/config"
	"github.com/fisiomanager/backend/internal/repo"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <name> <email> <password>\n", os.Args[0])
		os.Exit(2)
	}
	name := strings.TrimSpace(os.Args[1])
	email := strings.ToLower(strings.TrimSpace(os.Args[2]))
	password := os.Args[3]
	if name == "" || email == "" || len(password) < 8 {
		log.Fatal("name and email are required; password must be at least 8 characters")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	id, err := repo.CreateUser(ctx, pool, name, email, hash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if err := repo.UpdateUserPassword(ctx, pool, email, hash); err != nil {
				log.Fatalf("reset password: %v", err)
			}
			fmt.Printf("password reset for %s\n", email)
			return
		}
		log.Fatalf("create user: %v", err)
	}
	fmt.Printf("created user %s (%s)\n", email, id)
}
