package seeders

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bookshelf/app/models"
	"github.com/shashiranjanraj/bookshelf/app/repositories"
	"github.com/shashiranjanraj/bookshelf/config"
	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin makes sure the account named by ADMIN_EMAIL exists and is an
// admin. A new account gets ADMIN_PASSWORD; an existing one keeps its
// password. Without ADMIN_EMAIL it does nothing.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, out io.Writer) error {
	if cfg.AdminEmail == "" {
		fmt.Fprint(out, "(ADMIN_EMAIL not set, skipped) ")
		return nil
	}
	users := repositories.NewUserRepository(db)

	_, err := users.FindByEmail(ctx, cfg.AdminEmail)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		if cfg.AdminPassword == "" {
			return fmt.Errorf("ADMIN_PASSWORD is required to create %s", cfg.AdminEmail)
		}
		hash, err := auth.HashPasswordWithCost(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			return err
		}
		return users.Create(ctx, &models.User{Email: cfg.AdminEmail, Password: hash, IsAdmin: true})
	case err != nil:
		return err
	}

	_, err = users.SetAdmin(ctx, cfg.AdminEmail, true)
	return err
}
