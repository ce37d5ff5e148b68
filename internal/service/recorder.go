package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const (
	DefaultRecorderBuffer = 64

	drainTimeout = 5 * time.Second
)

type resultRepo interface {
	Save(ctx context.Context, result *entity.MatchResult) error
}

// ResultRecorder queues finished games and writes them to the repository from its own goroutine,
// so game handlers never wait on storage.
type ResultRecorder struct {
	logger *slog.Logger
	repo   resultRepo
	queue  chan *entity.MatchResult
}

func NewResultRecorder(logger *slog.Logger, repo resultRepo, buffer int) *ResultRecorder {
	if buffer <= 0 {
		buffer = DefaultRecorderBuffer
	}

	return &ResultRecorder{
		logger: logger.With("component", "recorder"),
		repo:   repo,
		queue:  make(chan *entity.MatchResult, buffer),
	}
}

// Record enqueues result. A full queue drops it.
func (that *ResultRecorder) Record(result *entity.MatchResult) {
	select {
	case that.queue <- result:
	default:
		that.logger.Warn("result queue is full, dropping result", "sessionID", result.SessionID)
	}
}

// Run saves queued results until ctx is canceled, then flushes what is left.
func (that *ResultRecorder) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	for {
		select {
		case result := <-that.queue:
			that.save(ctx, result)
		case <-ctx.Done():
			that.drain()
			log.Info("result recorder stopped")
			return
		}
	}
}

func (that *ResultRecorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case result := <-that.queue:
			that.save(ctx, result)
		default:
			return
		}
	}
}

func (that *ResultRecorder) save(ctx context.Context, result *entity.MatchResult) {
	if err := that.repo.Save(ctx, result); err != nil {
		that.logger.Error("failed to save result", "sessionID", result.SessionID, "error", err)
	}
}

// NopRecorder discards results; used when Redis is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(*entity.MatchResult) {}
