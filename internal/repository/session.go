package repository

import (
	"fmt"
	"iter"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// SessionStore keeps every live session in memory, in insertion order.
// It is not safe for concurrent use; callers serialize access.
type SessionStore struct {
	sessions map[string]*entity.Session
	order    []string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entity.Session),
	}
}

func (that *SessionStore) Create(id string, session *entity.Session) error {
	if _, ok := that.sessions[id]; ok {
		return fmt.Errorf("%w: %s", apperror.ErrDuplicateSession, id)
	}

	that.sessions[id] = session
	that.order = append(that.order, id)

	return nil
}

func (that *SessionStore) GetByID(id string) (*entity.Session, error) {
	session, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return session, nil
}

func (that *SessionStore) DeleteByID(id string) {
	if _, ok := that.sessions[id]; !ok {
		return
	}

	delete(that.sessions, id)

	// a fresh slice so that running traversals keep their own view
	order := make([]string, 0, len(that.order))
	for _, existing := range that.order {
		if existing != id {
			order = append(order, existing)
		}
	}
	that.order = order
}

func (that *SessionStore) Len() int {
	return len(that.sessions)
}

// All yields sessions in insertion order. Sessions deleted mid-traversal are skipped.
func (that *SessionStore) All() iter.Seq2[string, *entity.Session] {
	return func(yield func(string, *entity.Session) bool) {
		for _, id := range that.order {
			session, ok := that.sessions[id]
			if !ok {
				continue
			}

			if !yield(id, session) {
				return
			}
		}
	}
}
