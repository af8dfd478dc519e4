package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shashiranjanraj/bookshelf/pkg/database"
	"github.com/shashiranjanraj/bookshelf/pkg/grpc"
	"github.com/shashiranjanraj/bookshelf/pkg/logger"
)

const shutdownGrace = 10 * time.Second

// Serve listens on APP_PORT (and GRPC_PORT when set) until ctx is done,
// then drains in-flight requests.
func (a *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.cfg.AppPort)
	if err != nil {
		return fmt.Errorf("app: listen on :%s: %w", a.cfg.AppPort, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (a *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := a.Handler()
	if err != nil {
		ln.Close()
		return err
	}
	db, _ := a.DB()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      a.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var gsrv *grpc.Server
	if a.cfg.GRPCPort != "" {
		gsrv, err = grpc.Start(a.cfg.GRPCPort, func(c context.Context) error { return database.Ping(c, db) })
		if err != nil {
			ln.Close()
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", ln.Addr().String(), "env", a.cfg.AppEnv)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		gsrv.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	gsrv.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return nil
}
