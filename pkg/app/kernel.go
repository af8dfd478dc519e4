package app

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bookshelf/pkg/metrics"
	"github.com/shashiranjanraj/bookshelf/pkg/middleware"
	"github.com/shashiranjanraj/bookshelf/pkg/reqid"
	"github.com/shashiranjanraj/bookshelf/pkg/response"
	"github.com/shashiranjanraj/bookshelf/pkg/router"
)

// Handler builds the HTTP handler: the global middleware stack, then every
// registered route callback.
func (a *Application) Handler() (http.Handler, error) {
	db, err := a.DB()
	if err != nil {
		return nil, err
	}
	r, err := a.buildRouter(db)
	if err != nil {
		return nil, err
	}
	return r.Handler(), nil
}

// RouteTable lists the routes without touching the database.
func (a *Application) RouteTable() ([]router.RouteInfo, error) {
	r, err := a.buildRouter(nil)
	if err != nil {
		return nil, err
	}
	return r.Routes(), nil
}

func (a *Application) buildRouter(db *gorm.DB) (*router.Router, error) {
	r := router.New()

	// Outermost first:
	//  1. Prometheus metrics, so latency covers everything below
	//  2. Request ID before anything logs
	//  3. Logger, which puts the tagged logger on the context
	//  4. Recovery, which logs through it
	//  5. CORS answers preflights before auth runs
	//  6. Request bounds
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(a.cfg.CORSOrigins...)))
	r.Use(middleware.Timeout(a.cfg.RequestTimeout))
	r.Use(middleware.BodyLimit(a.cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	for _, fn := range a.routesFns {
		if err := fn(r, db, a.cfg); err != nil {
			return nil, fmt.Errorf("app: register routes: %w", err)
		}
	}
	return r, nil
}
