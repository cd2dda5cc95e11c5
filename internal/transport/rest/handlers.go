package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const archiveTimeout = 3 * time.Second

type resultArchive interface {
	Stats(ctx context.Context) (entity.OutcomeStats, error)
	Results(ctx context.Context, sessionID string) ([]entity.Result, error)
}

type handlers struct {
	logger  *slog.Logger
	archive resultArchive
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Debug("Failed to write ping response", "error", err)
	}
}

// StatsHandler - archived outcome counters. 404 when the archive is disabled.
func (that *handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "StatsHandler")

	if that.archive == nil {
		http.Error(w, apperror.ErrArchiveDisabled.Error(), http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), archiveTimeout)
	defer cancel()

	stats, err := that.archive.Stats(ctx)
	if err != nil {
		log.Error("Failed to read stats", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	writeJSON(log, w, stats)
}

// ResultsHandler - archived rounds of one session. 404 when the archive is disabled.
func (that *handlers) ResultsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ResultsHandler")

	if that.archive == nil {
		http.Error(w, apperror.ErrArchiveDisabled.Error(), http.StatusNotFound)
		return
	}

	sessionID := r.PathValue("sessionId")

	ctx, cancel := context.WithTimeout(r.Context(), archiveTimeout)
	defer cancel()

	results, err := that.archive.Results(ctx, sessionID)
	if err != nil {
		log.Error("Failed to read results", "session_id", sessionID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	writeJSON(log, w, results)
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug("Failed to write response", "error", err)
	}
}
