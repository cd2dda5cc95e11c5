package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
)

type Server struct {
	logger    *slog.Logger
	handlers  *handlers
	clientURL string
}

// New - archive may be nil when the result archive is disabled.
func New(logger *slog.Logger, clientURL string, archive resultArchive) *Server {
	logger = logger.With("component", "rest")

	return &Server{
		logger:    logger,
		handlers:  &handlers{logger: logger, archive: archive},
		clientURL: clientURL,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.handlers.PingHandler)
	mux.HandleFunc("GET /stats", that.handlers.StatsHandler)
	mux.HandleFunc("GET /results/{sessionId}", that.handlers.ResultsHandler)

	origins := []string{"*"}
	if that.clientURL != "" {
		origins = []string{that.clientURL}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(mux)
}

// Start - serves until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("Failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
