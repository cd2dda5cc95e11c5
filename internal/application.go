package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
	"github.com/rocketscienceinc/tictactoe-duel/internal/engine"
	"github.com/rocketscienceinc/tictactoe-duel/internal/registry"
	"github.com/rocketscienceinc/tictactoe-duel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-duel/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-duel/internal/transport/rest"
	"github.com/rocketscienceinc/tictactoe-duel/internal/transport/websocket"
	"github.com/rocketscienceinc/tictactoe-duel/internal/usecase"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	opts := engine.Options{
		TurnTimeout: conf.Game.TurnTimeout,
		EventBuffer: conf.Game.EventBuffer,
		Clock:       clockwork.NewRealClock(),
	}

	restServer := rest.New(logger, conf.ClientURL, nil)

	errCh := make(chan error, 4)

	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		archive := usecase.NewArchive(logger, repository.NewResultRepository(redisStorage.Connection), usecase.DefaultArchiveBuffer)
		opts.Recorder = archive
		restServer = rest.New(logger, conf.ClientURL, archive)

		archiveDone := make(chan struct{})
		go func() {
			defer close(archiveDone)

			log.Info("Starting result archive", "redis", conf.Redis.GetRedisAddr())
			errCh <- archive.Run(ctx)
		}()

		// storage is closed only after the archive flushed
		defer func() {
			cancel()
			<-archiveDone
		}()
	}

	manager := websocket.NewConnectionManager(logger)
	gameEngine := engine.New(logger, registry.New(), manager, opts)
	wsServer := websocket.New(logger, manager, gameEngine, websocket.DefaultConfig(conf.ClientURL))

	go func() {
		errCh <- gameEngine.Run(ctx)
	}()

	// run HTTP server
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if err := restServer.Start(ctx, conf.HTTPPort); err != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// run Websocket server
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if err := wsServer.Start(ctx, conf.SocketPort); err != nil {
			errCh <- fmt.Errorf("WebSocket server error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}

		log.Info("Component stopped, shutting down")

		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
