package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/rocketscienceinc/tictactoe-duel/internal/engine"
)

type submitter interface {
	Submit(ctx context.Context, event engine.Event) error
}

// Server accepts websocket clients on /ws and feeds their actions to the engine.
type Server struct {
	logger   *slog.Logger
	manager  *ConnectionManager
	events   submitter
	config   Config
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, manager *ConnectionManager, events submitter, config Config) *Server {
	that := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		events:  events,
		config:  config,
	}

	that.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return config.allowOrigin(r.Header.Get("Origin"))
		},
	}

	return that
}

// Handler - the /ws endpoint wrapped with the CORS policy. Connections live until ctx is canceled.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return cors.New(cors.Options{
		AllowedOrigins: that.config.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet},
	}).Handler(mux)
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
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

		that.manager.CloseAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and starts its pumps.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Warn("Failed to upgrade connection", "origin", req.Header.Get("Origin"), "error", err)
		return
	}

	conn := newConnection(that.logger, ws, that.config)
	that.manager.register(conn)

	log.Info("WebSocket connection established", "conn_id", conn.ID)

	go conn.writePump()
	go that.serve(ctx, conn)
}

func (that *Server) serve(ctx context.Context, conn *Connection) {
	conn.readPump(ctx, that.events)

	if !that.manager.unregister(conn) {
		return
	}

	conn.close()

	that.logger.Info("WebSocket connection closed", "conn_id", conn.ID)

	if err := that.events.Submit(ctx, engine.Disconnected{ConnID: conn.ID}); err != nil {
		that.logger.Debug("Disconnect not delivered", "conn_id", conn.ID, "error", err)
	}
}
