// Package app is the bookshelf application runner: it owns the config, the
// logger, the database connection and the server lifecycle, and hands the
// router to route-registration callbacks.
//
//	a := app.New(cfg).Routes(routes.RegisterAPI)
//	defer a.Close()
//	err := a.Serve(ctx)
package app

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bookshelf/config"
	"github.com/shashiranjanraj/bookshelf/pkg/database"
	"github.com/shashiranjanraj/bookshelf/pkg/logger"
	"github.com/shashiranjanraj/bookshelf/pkg/router"
)

// RouteFunc mounts routes on r. db is nil when only the route table is
// being built.
type RouteFunc func(r *router.Router, db *gorm.DB, cfg *config.Config) error

// Application is built with New, configured with the builder methods and
// released with Close.
type Application struct {
	cfg       *config.Config
	routesFns []RouteFunc

	mu     sync.Mutex
	db     *gorm.DB
	ownsDB bool
	mongo  *logger.MongoHandler
}

func New(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// Routes adds a route-registration callback. Callbacks run in order.
func (a *Application) Routes(fn RouteFunc) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// WithDB uses db instead of opening one from the config. Close leaves it
// open.
func (a *Application) WithDB(db *gorm.DB) *Application {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.db = db
	a.ownsDB = false
	return a
}

func (a *Application) Config() *config.Config { return a.cfg }

// DB returns the connection, opening it on first use.
func (a *Application) DB() (*gorm.DB, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.Open(database.OptionsFrom(a.cfg))
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", "driver", a.cfg.DBDriver)
	a.db, a.ownsDB = db, true
	return db, nil
}

// SetupLogging installs the base logger and, when LOG_MONGO_URI is set,
// tees every record into the MongoDB log collection.
func (a *Application) SetupLogging() error {
	base := logger.NewHandler(logger.Options{Env: a.cfg.AppEnv, Level: a.cfg.LogLevel})
	if a.cfg.LogMongoURI == "" {
		logger.Install(base)
		return nil
	}

	mh, err := logger.DialMongo(a.cfg.LogMongoURI, a.cfg.LogMongoDB, a.cfg.LogMongoCollection,
		logger.ParseLevel(a.cfg.LogLevel))
	if err != nil {
		logger.Install(base)
		return fmt.Errorf("app: mongo log sink: %w", err)
	}
	a.mu.Lock()
	a.mongo = mh
	a.mu.Unlock()
	logger.Install(logger.NewMultiHandler(base, mh))
	return nil
}

// Close flushes the log sink and closes a connection New opened.
func (a *Application) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	if a.db != nil && a.ownsDB {
		errs = append(errs, database.Close(a.db))
		a.db = nil
	}
	if a.mongo != nil {
		a.mongo.Close()
		a.mongo = nil
	}
	return errors.Join(errs...)
}
