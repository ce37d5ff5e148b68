package usecase

import (
	"iter"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type sessionRepo interface {
	Create(id string, session *entity.Session) error
	GetByID(id string) (*entity.Session, error)
	DeleteByID(id string)
	Len() int
	All() iter.Seq2[string, *entity.Session]
}

// notifier delivers an event to one connection without blocking.
type notifier interface {
	Send(connectionID string, event *entity.Event)
}

type resultRecorder interface {
	Record(result *entity.MatchResult)
}

// broadcast sends event to every participant of session.
func broadcast(notifier notifier, session *entity.Session, event *entity.Event) {
	for _, connectionID := range session.Participants {
		notifier.Send(connectionID, event)
	}
}
