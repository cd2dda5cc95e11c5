package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const (
	resultsKeyPrefix = "results:"
	statsKey         = "stats:outcomes"

	resultsTTL = 24 * time.Hour
)

const (
	fieldRounds     = "rounds"
	fieldXWins      = "x_wins"
	fieldOWins      = "o_wins"
	fieldDraws      = "draws"
	fieldTimeouts   = "timeouts"
	fieldSurrenders = "surrenders"
)

type ResultRepository interface {
	Save(ctx context.Context, result entity.Result) error
	ListBySession(ctx context.Context, sessionID string) ([]entity.Result, error)
	Stats(ctx context.Context) (entity.OutcomeStats, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

// Save - appends the round to its session history and bumps the outcome counters in one transaction.
func (that *dbResult) Save(ctx context.Context, result entity.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	resultsKey := resultsKeyPrefix + result.SessionID

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, resultsKey, resultJSON)
		pipe.Expire(ctx, resultsKey, resultsTTL)

		for _, field := range outcomeFields(result) {
			pipe.HIncrBy(ctx, statsKey, field, 1)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (that *dbResult) ListBySession(ctx context.Context, sessionID string) ([]entity.Result, error) {
	response, err := that.client.LRange(ctx, resultsKeyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	results := make([]entity.Result, 0, len(response))
	for _, item := range response {
		var result entity.Result
		if err = json.Unmarshal([]byte(item), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}

		results = append(results, result)
	}

	return results, nil
}

func (that *dbResult) Stats(ctx context.Context) (entity.OutcomeStats, error) {
	response, err := that.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return entity.OutcomeStats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	var stats entity.OutcomeStats

	counters := map[string]*int64{
		fieldRounds:     &stats.Rounds,
		fieldXWins:      &stats.XWins,
		fieldOWins:      &stats.OWins,
		fieldDraws:      &stats.Draws,
		fieldTimeouts:   &stats.Timeouts,
		fieldSurrenders: &stats.Surrenders,
	}

	for field, value := range response {
		counter, ok := counters[field]
		if !ok {
			continue
		}

		if *counter, err = strconv.ParseInt(value, 10, 64); err != nil {
			return entity.OutcomeStats{}, fmt.Errorf("failed to parse %s counter: %w", field, err)
		}
	}

	return stats, nil
}

func outcomeFields(result entity.Result) []string {
	fields := []string{fieldRounds}

	switch result.Winner {
	case string(entity.SymbolX):
		fields = append(fields, fieldXWins)
	case string(entity.SymbolO):
		fields = append(fields, fieldOWins)
	case entity.WinnerDraw:
		fields = append(fields, fieldDraws)
	}

	switch result.Reason {
	case entity.EndReasonTimeout:
		fields = append(fields, fieldTimeouts)
	case entity.EndReasonSurrender:
		fields = append(fields, fieldSurrenders)
	case entity.EndReasonNormal:
	}

	return fields
}
