package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Dispatcher routes inbound events to the session handlers. It must be driven from a single
// goroutine: handlers mutate sessions without locking.
type Dispatcher struct {
	logger *slog.Logger

	matchmaker *Matchmaker
	gamePlay   *GamePlay
	reconciler *Reconciler

	handlers map[string]func(ctx context.Context, in *entity.Inbound) error
}

func NewDispatcher(logger *slog.Logger, matchmaker *Matchmaker, gamePlay *GamePlay, reconciler *Reconciler) *Dispatcher {
	dispatcher := &Dispatcher{
		logger:     logger.With("component", "dispatcher"),
		matchmaker: matchmaker,
		gamePlay:   gamePlay,
		reconciler: reconciler,

		handlers: make(map[string]func(context.Context, *entity.Inbound) error),
	}

	dispatcher.handlers[entity.ActionCreateSession] = dispatcher.handleCreateSession
	dispatcher.handlers[entity.ActionJoinSession] = dispatcher.handleJoinSession
	dispatcher.handlers[entity.ActionMakeMove] = dispatcher.handleMakeMove
	dispatcher.handlers[entity.ActionResetSession] = dispatcher.handleResetSession
	dispatcher.handlers[entity.ActionDisconnected] = dispatcher.handleDisconnected

	return dispatcher
}

// Dispatch runs the handler for in.Action to completion.
func (that *Dispatcher) Dispatch(ctx context.Context, in *entity.Inbound) error {
	handler, ok := that.handlers[in.Action]
	if !ok {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownAction, in.Action)
	}

	return handler(ctx, in)
}

func (that *Dispatcher) handleCreateSession(ctx context.Context, in *entity.Inbound) error {
	_, err := that.matchmaker.CreateSession(ctx, in.ConnectionID)
	return err
}

func (that *Dispatcher) handleJoinSession(ctx context.Context, in *entity.Inbound) error {
	_, _, err := that.matchmaker.JoinOpenSession(ctx, in.ConnectionID)
	return err
}

func (that *Dispatcher) handleMakeMove(ctx context.Context, in *entity.Inbound) error {
	if in.Payload.Cell == nil {
		that.logger.Debug("move without cell ignored", "connectionID", in.ConnectionID)
		return nil
	}

	that.gamePlay.ApplyMove(ctx, in.Payload.SessionID, in.ConnectionID, *in.Payload.Cell)

	return nil
}

func (that *Dispatcher) handleResetSession(ctx context.Context, in *entity.Inbound) error {
	that.gamePlay.ResetSession(ctx, in.Payload.SessionID)
	return nil
}

func (that *Dispatcher) handleDisconnected(ctx context.Context, in *entity.Inbound) error {
	that.reconciler.OnDisconnect(ctx, in.ConnectionID)
	return nil
}
