package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/sekolah-terpadu/inventaris-backend/internal/users"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/config"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/enums"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/logger"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/security"
)

const tempPasswordLength = 14

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed-user"})
	_ = godotenv.Load()

	username := flag.String("username", "", "login name for the new account")
	roleFlag := flag.String("role", "", "admin|operator_paud|operator_tk|operator_sd|operator_smp")
	fullName := flag.String("name", "", "display name (optional)")
	password := flag.String("password", "", "initial password; a temporary one is generated when empty")
	reset := flag.Bool("reset", false, "reset the password of an existing account instead of failing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	name := strings.TrimSpace(*username)
	if name == "" {
		fmt.Fprintln(os.Stderr, "missing -username")
		os.Exit(1)
	}
	role, err := enums.ParseRole(strings.TrimSpace(*roleFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -role: %v\n", err)
		os.Exit(1)
	}

	plain := *password
	generated := plain == ""
	if generated {
		plain, err = security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			logg.Error(context.Background(), "failed to generate password", err)
			os.Exit(1)
		}
	}
	if err := security.ValidatePassword(plain); err != nil {
		fmt.Fprintf(os.Stderr, "password rejected: %v\n", err)
		os.Exit(1)
	}
	hash, err := security.HashPassword(plain, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to hash password", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{"username": name, "role": role})
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	repo := users.NewRepository(dbClient.DB())
	existing, err := repo.FindByUsername(ctx, name)
	switch {
	case err == nil && *reset:
		if err := repo.UpdatePassword(ctx, existing.ID, hash); err != nil {
			logg.Error(ctx, "failed to reset password", err)
			os.Exit(1)
		}
		logg.Info(ctx, "password reset")
	case err == nil:
		fmt.Fprintf(os.Stderr, "user %q already exists; pass -reset to change the password\n", name)
		os.Exit(1)
	case errors.Is(err, gorm.ErrRecordNotFound):
		var display *string
		if n := strings.TrimSpace(*fullName); n != "" {
			display = &n
		}
		if _, err := repo.Create(ctx, users.CreateUserDTO{
			Username:     name,
			PasswordHash: hash,
			Role:         role,
			FullName:     display,
		}); err != nil {
			logg.Error(ctx, "failed to create user", err)
			os.Exit(1)
		}
		logg.Info(ctx, "user created")
	default:
		logg.Error(ctx, "failed to look up user", err)
		os.Exit(1)
	}

	if generated {
		fmt.Printf("temporary password for %s: %s\n", name, plain)
	}
}
