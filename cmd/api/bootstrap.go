package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/auth"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/01moynul/herbal-storefront/internal/store"
)

// ensureSuperAdmin creates the first super admin from ADMIN_EMAIL and
// ADMIN_PASSWORD. An existing account with that email is left as it is.
func ensureSuperAdmin(ctx context.Context, users *store.UserStore, email, password string, logger *slog.Logger) error {
	if email == "" {
		return nil
	}
	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("look up super admin: %w", err)
	}
	if len(password) < auth.MinPasswordLength {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters to create %s", auth.MinPasswordLength, email)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Super Admin",
		Role:         models.RoleSuperAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}
	logger.Info("super admin created", "user_id", admin.ID, "email", admin.Email)
	return nil
}
