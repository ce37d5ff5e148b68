package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sentEvent struct {
	To    string
	Event *entity.Event
}

// recordingNotifier keeps every event in send order.
type recordingNotifier struct {
	sent []sentEvent
}

func (that *recordingNotifier) Send(connectionID string, event *entity.Event) {
	that.sent = append(that.sent, sentEvent{To: connectionID, Event: event})
}

func (that *recordingNotifier) actionsFor(connectionID string) []string {
	var actions []string
	for _, sent := range that.sent {
		if sent.To == connectionID {
			actions = append(actions, sent.Event.Action)
		}
	}
	return actions
}

func (that *recordingNotifier) reset() {
	that.sent = nil
}

type mockRecorder struct {
	mock.Mock
}

func (that *mockRecorder) Record(result *entity.MatchResult) {
	that.Called(result)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedIDs(ids ...string) func() string {
	next := 0
	return func() string {
		id := ids[next%len(ids)]
		next++
		return id
	}
}

type fixture struct {
	store      *repository.SessionStore
	notifier   *recordingNotifier
	recorder   *mockRecorder
	matchmaker *Matchmaker
	gamePlay   *GamePlay
	reconciler *Reconciler
}

func newFixture(t *testing.T, strictTurns bool, ids ...string) *fixture {
	t.Helper()

	if len(ids) == 0 {
		ids = []string{"room-1", "room-2", "room-3"}
	}

	store := repository.NewSessionStore()
	notifier := &recordingNotifier{}
	recorder := &mockRecorder{}
	t.Cleanup(func() { recorder.AssertExpectations(t) })

	return &fixture{
		store:      store,
		notifier:   notifier,
		recorder:   recorder,
		matchmaker: NewMatchmaker(discardLogger(), store, notifier, fixedIDs(ids...)),
		gamePlay:   NewGamePlay(discardLogger(), store, notifier, recorder, strictTurns),
		reconciler: NewReconciler(discardLogger(), store, notifier),
	}
}

// startMatch creates a session for creator and seats joiner in it.
func (that *fixture) startMatch(t *testing.T, creator, joiner string) *entity.Session {
	t.Helper()

	sessionID, err := that.matchmaker.CreateSession(context.Background(), creator)
	require.NoError(t, err)

	joinedID, _, err := that.matchmaker.JoinOpenSession(context.Background(), joiner)
	require.NoError(t, err)
	require.Equal(t, sessionID, joinedID)

	session, err := that.store.GetByID(sessionID)
	require.NoError(t, err)

	that.notifier.reset()

	return session
}
