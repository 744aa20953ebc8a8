package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Serve listens on Config.Addr until ctx is cancelled, then shuts down
// gracefully.
func (app *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.Config.Addr)
	if err != nil {
		return err
	}
	return app.ServeListener(ctx, ln)
}

// ServeListener serves on an existing listener.
func (app *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           app.Routes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       app.Config.ReadTimeout,
		WriteTimeout:      app.Config.WriteTimeout,
	}
	shutdownErr := make(chan error, 1)

	go func() {
		<-ctx.Done()
		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info("starting server", "addr", ln.Addr().String())

	err := srv.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", ln.Addr().String())
	return nil
}
