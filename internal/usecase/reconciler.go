package usecase

import (
	"context"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type Reconciler struct {
	logger   *slog.Logger
	sessions sessionRepo
	notifier notifier
}

func NewReconciler(logger *slog.Logger, sessions sessionRepo, notifier notifier) *Reconciler {
	return &Reconciler{
		logger:   logger.With("component", "reconciler"),
		sessions: sessions,
		notifier: notifier,
	}
}

// OnDisconnect removes connectionID from every session that lists it. Emptied sessions are
// deleted; the players left behind are told to wait for a new opponent.
func (that *Reconciler) OnDisconnect(_ context.Context, connectionID string) {
	log := that.logger.With("method", "OnDisconnect", "connectionID", connectionID)

	for sessionID, session := range that.sessions.All() {
		if !session.RemoveParticipant(connectionID) {
			continue
		}

		if len(session.Participants) == 0 {
			that.sessions.DeleteByID(sessionID)
			log.Info("session closed", "sessionID", sessionID)
			continue
		}

		broadcast(that.notifier, session, entity.NewStatusNotice(statusOpponentLeft))
		log.Info("opponent left session", "sessionID", sessionID)
	}
}
