package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// NewRouter - registers the HTTP routes. A nil stats disables the results endpoints.
func NewRouter(logger *slog.Logger, stats stats) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)

	statsHandler := NewStatsHandler(logger, stats)
	mux.HandleFunc("GET /stats", statsHandler.Totals)
	mux.HandleFunc("GET /stats/recent", statsHandler.Recent)

	return mux
}

func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
