package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const (
	statusNoRooms      = "No rooms available"
	statusAllRoomsFull = "All rooms are full"
	statusOpponentLeft = "Opponent disconnected. Waiting for new opponent..."
)

type Matchmaker struct {
	logger     *slog.Logger
	sessions   sessionRepo
	notifier   notifier
	generateID func() string
}

func NewMatchmaker(logger *slog.Logger, sessions sessionRepo, notifier notifier, generateID func() string) *Matchmaker {
	return &Matchmaker{
		logger:     logger.With("component", "matchmaker"),
		sessions:   sessions,
		notifier:   notifier,
		generateID: generateID,
	}
}

// CreateSession opens a new room holding only the requester.
func (that *Matchmaker) CreateSession(_ context.Context, requesterID string) (string, error) {
	log := that.logger.With("method", "CreateSession", "connectionID", requesterID)

	sessionID := that.generateID()
	session := entity.NewSession(sessionID, requesterID)

	if err := that.sessions.Create(sessionID, session); err != nil {
		log.Error("failed to create session", "error", err)
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	that.notifier.Send(requesterID, entity.NewSessionCreated(sessionID))

	log.Info("session created", "sessionID", sessionID)

	return sessionID, nil
}

// JoinOpenSession seats the requester in the first room waiting for an opponent.
func (that *Matchmaker) JoinOpenSession(_ context.Context, requesterID string) (string, entity.Mark, error) {
	log := that.logger.With("method", "JoinOpenSession", "connectionID", requesterID)

	for sessionID, session := range that.sessions.All() {
		if !session.IsOpen() {
			continue
		}

		session.AddParticipant(requesterID)

		// the mark follows the participant count after the join, so a joiner always gets the second slot's mark
		mark := entity.MarkForSlot(len(session.Participants))

		that.notifier.Send(requesterID, entity.NewSessionCreated(sessionID))
		that.notifier.Send(requesterID, entity.NewAssignedMark(mark))
		broadcast(that.notifier, session, entity.NewMatchStarted())

		log.Info("player joined session", "sessionID", sessionID, "mark", mark)

		return sessionID, mark, nil
	}

	if that.sessions.Len() == 0 {
		that.notifier.Send(requesterID, entity.NewStatusNotice(statusNoRooms))
		log.Info("no rooms to join")

		return "", entity.EmptyCell, apperror.ErrNoRoomsExist
	}

	that.notifier.Send(requesterID, entity.NewStatusNotice(statusAllRoomsFull))
	log.Info("all rooms are full")

	return "", entity.EmptyCell, apperror.ErrNoRoomAvailable
}
