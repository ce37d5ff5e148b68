package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

// GamePlay applies moves and resets to sessions. Requests that do not fit the session state
// are dropped without telling anyone, so stale or duplicated client messages are harmless.
type GamePlay struct {
	logger   *slog.Logger
	sessions sessionRepo
	notifier notifier
	recorder resultRecorder

	// strictTurns binds each participant to the mark of their slot.
	strictTurns bool
	now         func() time.Time
}

func NewGamePlay(logger *slog.Logger, sessions sessionRepo, notifier notifier, recorder resultRecorder, strictTurns bool) *GamePlay {
	return &GamePlay{
		logger:      logger.With("component", "gameplay"),
		sessions:    sessions,
		notifier:    notifier,
		recorder:    recorder,
		strictTurns: strictTurns,
		now:         time.Now,
	}
}

// ApplyMove plays cell for connectionID in sessionID. It returns nil when the move was ignored.
func (that *GamePlay) ApplyMove(_ context.Context, sessionID, connectionID string, cell int) *entity.MoveOutcome {
	log := that.logger.With("method", "ApplyMove", "sessionID", sessionID, "connectionID", connectionID, "cell", cell)

	session, err := that.sessions.GetByID(sessionID)
	if err != nil {
		log.Debug("move ignored", "reason", err)
		return nil
	}

	if !session.HasParticipant(connectionID) {
		log.Debug("move ignored", "reason", "not a participant")
		return nil
	}

	if !session.IsFull() {
		log.Debug("move ignored", "reason", "waiting for opponent")
		return nil
	}

	mark := session.Turn
	if that.strictTurns {
		mark = session.SlotMark(connectionID)
	}

	outcome, err := tictactoe.MakeTurn(session, mark, cell)
	if err != nil {
		log.Debug("move ignored", "reason", err)
		return nil
	}

	broadcast(that.notifier, session, entity.NewMoveApplied(outcome.Cell, outcome.Mark))

	switch outcome.Outcome {
	case entity.OutcomeWin:
		broadcast(that.notifier, session, entity.NewGameWon(outcome.Winner))
	case entity.OutcomeDraw:
		broadcast(that.notifier, session, entity.NewGameDrawn())
	}

	if outcome.IsTerminal() {
		that.recorder.Record(&entity.MatchResult{
			SessionID:  session.ID,
			Winner:     outcome.Winner,
			Board:      outcome.Board,
			FinishedAt: that.now().UTC(),
		})

		log.Info("game finished", "outcome", outcome.Outcome, "winner", outcome.Winner)
	}

	return outcome
}

// ResetSession clears the board and gives the first move back to X, whatever the session state.
func (that *GamePlay) ResetSession(_ context.Context, sessionID string) bool {
	log := that.logger.With("method", "ResetSession", "sessionID", sessionID)

	session, err := that.sessions.GetByID(sessionID)
	if err != nil {
		log.Debug("reset ignored", "reason", err)
		return false
	}

	session.Reset()
	broadcast(that.notifier, session, entity.NewBoardReset())

	log.Info("session reset")

	return true
}
