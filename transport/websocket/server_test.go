package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/service"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startGateway runs a gateway wired to the real session handlers behind an httptest server.
func startGateway(t *testing.T, allowedOrigins ...string) string {
	t.Helper()

	logger := discardLogger()
	server := New(logger, allowedOrigins)

	store := repository.NewSessionStore()
	dispatcher := usecase.NewDispatcher(
		logger,
		usecase.NewMatchmaker(logger, store, server, pkg.GenerateSessionID),
		usecase.NewGamePlay(logger, store, server, service.NopRecorder{}, false),
		usecase.NewReconciler(logger, store, server),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go server.Run(ctx, dispatcher)

	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		cancel()
		httpServer.Close()
	})

	return "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()

	message := map[string]any{"action": action}
	if payload != nil {
		message["payload"] = payload
	}

	require.NoError(t, conn.WriteJSON(message))
}

func readEvent(t *testing.T, conn *websocket.Conn) *entity.Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event entity.Event
	require.NoError(t, json.Unmarshal(data, &event))

	return &event
}

// startMatch connects two clients and pairs them, draining the setup events.
func startMatch(t *testing.T, url string) (*websocket.Conn, *websocket.Conn, string) {
	t.Helper()

	creator := dial(t, url)
	send(t, creator, entity.ActionCreateSession, nil)
	created := readEvent(t, creator)
	require.Equal(t, entity.ActionSessionCreated, created.Action)
	sessionID := created.Payload.SessionID

	joiner := dial(t, url)
	send(t, joiner, entity.ActionJoinSession, nil)
	require.Equal(t, entity.ActionSessionCreated, readEvent(t, joiner).Action)
	require.Equal(t, entity.ActionAssignedMark, readEvent(t, joiner).Action)
	require.Equal(t, entity.ActionMatchStarted, readEvent(t, joiner).Action)
	require.Equal(t, entity.ActionMatchStarted, readEvent(t, creator).Action)

	return creator, joiner, sessionID
}

func TestServer_Match(t *testing.T) {
	t.Run("Pairs two clients and relays moves", func(t *testing.T) {
		url := startGateway(t)

		// Given: a creator waiting in a room
		creator := dial(t, url)
		send(t, creator, entity.ActionCreateSession, nil)
		created := readEvent(t, creator)
		require.Equal(t, entity.ActionSessionCreated, created.Action)
		require.True(t, strings.HasPrefix(created.Payload.SessionID, "room-"))

		// When: a second client joins
		joiner := dial(t, url)
		send(t, joiner, entity.ActionJoinSession, nil)

		// Then: the joiner learns the room and its mark, and both see the start
		assert.Equal(t, entity.NewSessionCreated(created.Payload.SessionID), readEvent(t, joiner))
		assert.Equal(t, entity.NewAssignedMark(entity.PlayerO), readEvent(t, joiner))
		assert.Equal(t, entity.NewMatchStarted(), readEvent(t, joiner))
		assert.Equal(t, entity.NewMatchStarted(), readEvent(t, creator))

		// When: the centre cell is played
		send(t, creator, entity.ActionMakeMove, map[string]any{"session_id": created.Payload.SessionID, "cell": 4})

		// Then: both sides receive the move
		assert.Equal(t, entity.NewMoveApplied(4, entity.PlayerX), readEvent(t, creator))
		assert.Equal(t, entity.NewMoveApplied(4, entity.PlayerX), readEvent(t, joiner))
	})

	t.Run("Reset reaches both participants", func(t *testing.T) {
		url := startGateway(t)
		creator, joiner, sessionID := startMatch(t, url)

		send(t, joiner, entity.ActionResetSession, map[string]any{"session_id": sessionID})

		assert.Equal(t, entity.NewBoardReset(), readEvent(t, creator))
		assert.Equal(t, entity.NewBoardReset(), readEvent(t, joiner))
	})

	t.Run("Malformed frames are skipped", func(t *testing.T) {
		url := startGateway(t)
		conn := dial(t, url)

		// Given: garbage followed by a valid request
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"payload":{}}`)))
		send(t, conn, entity.ActionCreateSession, nil)

		// Then: the connection is still served
		assert.Equal(t, entity.ActionSessionCreated, readEvent(t, conn).Action)
	})
}

func TestServer_Join(t *testing.T) {
	t.Run("Closes the connection when no rooms exist", func(t *testing.T) {
		url := startGateway(t)
		conn := dial(t, url)

		// When: joining an empty server
		send(t, conn, entity.ActionJoinSession, nil)

		// Then: a status notice arrives and the server closes the socket
		assert.Equal(t, entity.NewStatusNotice("No rooms available"), readEvent(t, conn))

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, _, err := conn.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	})

	t.Run("Closes the connection when every room is full", func(t *testing.T) {
		url := startGateway(t)
		startMatch(t, url)

		late := dial(t, url)
		send(t, late, entity.ActionJoinSession, nil)

		assert.Equal(t, entity.NewStatusNotice("All rooms are full"), readEvent(t, late))

		require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, _, err := late.ReadMessage()
		assert.Error(t, err)
	})
}

func TestServer_Disconnect(t *testing.T) {
	t.Run("Remaining participant is told the opponent left", func(t *testing.T) {
		url := startGateway(t)
		creator, joiner, _ := startMatch(t, url)

		// When: the joiner goes away
		require.NoError(t, joiner.Close())

		// Then: the creator is notified
		assert.Equal(t, entity.NewStatusNotice("Opponent disconnected. Waiting for new opponent..."), readEvent(t, creator))
	})

	t.Run("Clients cannot forge a disconnect", func(t *testing.T) {
		url := startGateway(t)
		creator, joiner, sessionID := startMatch(t, url)

		// Given: a client sending the reserved action, then a reset
		send(t, joiner, entity.ActionDisconnected, nil)
		send(t, joiner, entity.ActionResetSession, map[string]any{"session_id": sessionID})

		// Then: the reset is the next event, no status notice came first
		assert.Equal(t, entity.NewBoardReset(), readEvent(t, creator))
		assert.Equal(t, entity.NewBoardReset(), readEvent(t, joiner))
	})
}

func TestServer_CheckOrigin(t *testing.T) {
	t.Run("Rejects origins outside the list", func(t *testing.T) {
		url := startGateway(t, "http://localhost:8000")

		header := http.Header{"Origin": []string{"http://evil.example"}}
		_, resp, err := websocket.DefaultDialer.Dial(url, header)

		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		require.NotNil(t, resp)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Accepts listed origins", func(t *testing.T) {
		url := startGateway(t, "http://localhost:8000")

		header := http.Header{"Origin": []string{"http://localhost:8000"}}
		conn, resp, err := websocket.DefaultDialer.Dial(url, header)

		require.NoError(t, err)
		resp.Body.Close()
		conn.Close()
	})
}

func TestServer_Send(t *testing.T) {
	t.Run("Drops events when the client buffer is full", func(t *testing.T) {
		// Given: a client with room for a single frame
		server := New(discardLogger(), nil)
		c := &client{id: "conn-a", send: make(chan []byte, 1)}
		server.clients[c.id] = c

		// When: two events are sent
		server.Send("conn-a", entity.NewMatchStarted())
		server.Send("conn-a", entity.NewGameDrawn())

		// Then: only the first one is queued
		require.Len(t, c.send, 1)
		assert.JSONEq(t, `{"action":"game:start"}`, string(<-c.send))
	})

	t.Run("Ignores unknown connections", func(t *testing.T) {
		server := New(discardLogger(), nil)

		assert.NotPanics(t, func() { server.Send("nobody", entity.NewMatchStarted()) })
	})
}

func TestDecodeInbound(t *testing.T) {
	t.Run("Reads session and cell", func(t *testing.T) {
		in, err := decodeInbound("conn-a", []byte(`{"action":"game:move","payload":{"session_id":"room-1","cell":0}}`))

		require.NoError(t, err)
		assert.Equal(t, "conn-a", in.ConnectionID)
		assert.Equal(t, entity.ActionMakeMove, in.Action)
		assert.Equal(t, "room-1", in.Payload.SessionID)
		require.NotNil(t, in.Payload.Cell)
		assert.Equal(t, 0, *in.Payload.Cell)
	})

	t.Run("Payload is optional", func(t *testing.T) {
		in, err := decodeInbound("conn-a", []byte(`{"action":"room:create"}`))

		require.NoError(t, err)
		assert.Nil(t, in.Payload.Cell)
	})

	t.Run("Rejects frames without action", func(t *testing.T) {
		_, err := decodeInbound("conn-a", []byte(`{"payload":{}}`))

		assert.ErrorIs(t, err, errEmptyAction)
	})
}
