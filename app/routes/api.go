// Package routes maps the HTTP surface onto controllers.
package routes

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bookshelf/app/controllers"
	"github.com/shashiranjanraj/bookshelf/app/repositories"
	"github.com/shashiranjanraj/bookshelf/app/schema"
	"github.com/shashiranjanraj/bookshelf/app/services"
	"github.com/shashiranjanraj/bookshelf/config"
	"github.com/shashiranjanraj/bookshelf/pkg/auth"
	"github.com/shashiranjanraj/bookshelf/pkg/ctx"
	"github.com/shashiranjanraj/bookshelf/pkg/database"
	"github.com/shashiranjanraj/bookshelf/pkg/graphql"
	"github.com/shashiranjanraj/bookshelf/pkg/metrics"
	"github.com/shashiranjanraj/bookshelf/pkg/middleware"
	"github.com/shashiranjanraj/bookshelf/pkg/rbac"
	"github.com/shashiranjanraj/bookshelf/pkg/router"
)

// RegisterAPI builds the services over db and mounts every route on r.
// db may be nil when only the route table is wanted.
func RegisterAPI(r *router.Router, db *gorm.DB, cfg *config.Config) error {
	userRepo := repositories.NewUserRepository(db)
	bookRepo := repositories.NewBookRepository(db)

	authSvc := services.NewAuthService(userRepo, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL))
	userSvc := services.NewUserService(userRepo, cfg.BcryptCost)
	bookSvc := services.NewBookService(bookRepo)

	authCtl := controllers.NewAuthController(authSvc)
	userCtl := controllers.NewUserController(userSvc)
	bookCtl := controllers.NewBookController(bookSvc)
	healthCtl := controllers.NewHealthController(func(c context.Context) error {
		return database.Ping(c, db)
	})

	gqlSchema, err := schema.New(userSvc, bookSvc)
	if err != nil {
		return fmt.Errorf("routes: graphql schema: %w", err)
	}

	basic := middleware.BasicAuth(authCtl.VerifyPassword)
	token := middleware.TokenAuth(authCtl.VerifyToken)

	r.Get("/login", "auth.login", ctx.Wrap(authCtl.Login), basic)
	r.Get("/token", "auth.token", ctx.Wrap(authCtl.Token), basic)

	users := r.Group("/user")
	users.Get("/", "users.index", ctx.Wrap(userCtl.Index))
	users.Post("/", "users.store", ctx.Wrap(userCtl.Store))
	users.Get("/{id}", "users.show", ctx.Wrap(userCtl.Show))
	users.Put("/{id}", "users.update", ctx.Wrap(userCtl.Update))
	users.Delete("/{id}", "users.destroy", ctx.Wrap(userCtl.Destroy))

	books := r.Group("/book")
	books.Get("/", "books.index", ctx.Wrap(bookCtl.Index))
	books.Post("/", "books.store", ctx.Wrap(bookCtl.Store))
	books.Get("/{id}", "books.show", ctx.Wrap(bookCtl.Show))
	books.Get("/user/{id}", "books.by_user", ctx.Wrap(bookCtl.ByUser))

	admin := books.Group("/", token, rbac.Admin)
	admin.Put("/{id}", "books.update", ctx.Wrap(bookCtl.Update))
	admin.Delete("/{id}", "books.destroy", ctx.Wrap(bookCtl.Destroy))

	r.Get("/health", "health", ctx.Wrap(healthCtl.Show))
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Post("/graphql", "graphql", graphql.Handler(gqlSchema))

	return nil
}
