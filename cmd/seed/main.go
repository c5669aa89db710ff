// Package main is the explicit, operator-invoked seeding tool. It creates
// the initial admin account so a fresh deployment can log in — nothing is
// ever seeded implicitly at server boot.
//
// Usage:
//
//	DATABASE_URL=... SEED_ADMIN_EMAIL=... SEED_ADMIN_PASSWORD=... go run ./cmd/seed
//
// The tool is idempotent: if an account with SEED_ADMIN_EMAIL already
// exists it reports so and exits without changes.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/towtrack/backend/internal/domain"
	"github.com/towtrack/backend/internal/repo"
	"github.com/towtrack/backend/migrations"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if databaseURL == "" || email == "" || password == "" {
		slog.Error("DATABASE_URL, SEED_ADMIN_EMAIL, and SEED_ADMIN_PASSWORD must be set")
		os.Exit(1)
	}
	if len(password) < 8 {
		slog.Error("SEED_ADMIN_PASSWORD must be at least 8 characters")
		os.Exit(1)
	}

	ctx := context.Background()

	if err := migrate(databaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	users := repo.NewUserRepo(pool)

	if existing, err := users.GetByEmail(ctx, email); err == nil {
		slog.Info("admin account already exists, nothing to do", "email", email, "id", existing.ID)
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		slog.Error("failed to look up admin account", "error", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	admin, err := users.Create(ctx, domain.User{
		Email:        email,
		FirstName:    "Admin",
		Role:         domain.RoleAdmin,
		PasswordHash: string(hash),
	})
	if err != nil {
		slog.Error("failed to create admin account", "error", err)
		os.Exit(1)
	}

	slog.Info("admin account created", "email", admin.Email, "id", admin.ID)
}

// migrate applies all pending goose migrations from the embedded FS.
func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
