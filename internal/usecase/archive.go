package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const (
	DefaultArchiveBuffer = 128

	saveTimeout = 3 * time.Second
)

type resultRepo interface {
	Save(ctx context.Context, result entity.Result) error
	ListBySession(ctx context.Context, sessionID string) ([]entity.Result, error)
	Stats(ctx context.Context) (entity.OutcomeStats, error)
}

// Archive persists finished rounds off the engine loop.
type Archive struct {
	logger  *slog.Logger
	repo    resultRepo
	results chan entity.Result
}

func NewArchive(logger *slog.Logger, repo resultRepo, buffer int) *Archive {
	if buffer <= 0 {
		buffer = DefaultArchiveBuffer
	}

	return &Archive{
		logger:  logger.With("component", "archive"),
		repo:    repo,
		results: make(chan entity.Result, buffer),
	}
}

// Record - queues result for saving. Never blocks: when the queue is full the result is dropped.
func (that *Archive) Record(result entity.Result) {
	select {
	case that.results <- result:
	default:
		that.logger.Warn("Archive queue full, result dropped", "session_id", result.SessionID, "round", result.Round)
	}
}

// Run - saves queued results until ctx is canceled, then flushes what is left.
func (that *Archive) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			that.flush()
			return nil
		case result := <-that.results:
			that.save(ctx, result)
		}
	}
}

func (that *Archive) Stats(ctx context.Context) (entity.OutcomeStats, error) {
	return that.repo.Stats(ctx)
}

// Results - archived rounds of a session, oldest first.
func (that *Archive) Results(ctx context.Context, sessionID string) ([]entity.Result, error) {
	return that.repo.ListBySession(ctx, sessionID)
}

func (that *Archive) flush() {
	for {
		select {
		case result := <-that.results:
			that.save(context.Background(), result)
		default:
			return
		}
	}
}

func (that *Archive) save(ctx context.Context, result entity.Result) {
	log := that.logger.With("method", "save", "session_id", result.SessionID, "round", result.Round)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := that.repo.Save(ctx, result); err != nil {
		log.Error("Failed to archive result", "error", err)
		return
	}

	log.Debug("Result archived", "winner", result.Winner, "reason", result.Reason)
}
