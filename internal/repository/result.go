package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const (
	resultsWinsXKey = "results:wins:X"
	resultsWinsOKey = "results:wins:O"
	resultsDrawsKey = "results:draws"
	resultsRecent   = "results:recent"

	recentLimit = 50
)

var ErrUnknownWinner = errors.New("unknown winner mark")

type ResultRepository interface {
	Save(ctx context.Context, result *entity.MatchResult) error
	Totals(ctx context.Context) (*entity.Totals, error)
	Recent(ctx context.Context, limit int) ([]*entity.MatchResult, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.MatchResult) error {
	counterKey, err := counterKeyFor(result.Winner)
	if err != nil {
		return err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, counterKey)
		pipe.LPush(ctx, resultsRecent, resultJSON)
		pipe.LTrim(ctx, resultsRecent, 0, recentLimit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (that *dbResult) Totals(ctx context.Context) (*entity.Totals, error) {
	values, err := that.client.MGet(ctx, resultsWinsXKey, resultsWinsOKey, resultsDrawsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get totals: %w", err)
	}

	counters := make([]int64, len(values))
	for i, value := range values {
		if value == nil {
			continue
		}

		raw, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected counter type %T", value)
		}

		if counters[i], err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse counter: %w", err)
		}
	}

	return &entity.Totals{
		XWins: counters[0],
		OWins: counters[1],
		Draws: counters[2],
	}, nil
}

func (that *dbResult) Recent(ctx context.Context, limit int) ([]*entity.MatchResult, error) {
	if limit <= 0 || limit > recentLimit {
		limit = recentLimit
	}

	response, err := that.client.LRange(ctx, resultsRecent, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results: %w", err)
	}

	results := make([]*entity.MatchResult, 0, len(response))
	for _, raw := range response {
		var result entity.MatchResult
		if err = json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, &result)
	}

	return results, nil
}

func counterKeyFor(winner entity.Mark) (string, error) {
	switch winner {
	case entity.PlayerX:
		return resultsWinsXKey, nil
	case entity.PlayerO:
		return resultsWinsOKey, nil
	case entity.PlayerTie:
		return resultsDrawsKey, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownWinner, winner)
	}
}
