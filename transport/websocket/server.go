package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/pkg"
)

type dispatcher interface {
	Dispatch(ctx context.Context, in *entity.Inbound) error
}

// Server is the connection gateway. Run owns the client table and is the only goroutine that
// dispatches events, so Send must only be called from inside a dispatch.
type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	clients map[string]*client

	register   chan *client
	unregister chan *client
	inbound    chan *entity.Inbound
	done       chan struct{}
}

func New(logger *slog.Logger, allowedOrigins []string) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		clients: make(map[string]*client),

		register:   make(chan *client),
		unregister: make(chan *client),
		inbound:    make(chan *entity.Inbound),
		done:       make(chan struct{}),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(allowedOrigins),
	}

	return server
}

// checkOrigin accepts everything when allowed is empty.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}

		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		return slices.Contains(allowed, origin)
	}
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.ServeWS)

	return mux
}

// ServeWS upgrades the request and registers the connection with the hub.
func (that *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := pkg.GenerateConnectionID()
	c := &client{
		id:     id,
		server: that,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: that.logger.With("connectionID", id),
	}

	select {
	case that.register <- c:
	case <-that.done:
		conn.Close()
		return
	}

	log.Info("WebSocket connection established", "connectionID", id)

	go c.writePump()
	go c.readPump()
}

// Run is the hub loop. It returns when ctx is done, closing every connection.
func (that *Server) Run(ctx context.Context, dispatcher dispatcher) {
	log := that.logger.With("method", "Run")

	defer func() {
		close(that.done)
		for id, c := range that.clients {
			delete(that.clients, id)
			close(c.send)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("hub stopped")
			return

		case c := <-that.register:
			that.clients[c.id] = c

		case c := <-that.unregister:
			if that.remove(c.id) {
				that.dispatch(ctx, dispatcher, &entity.Inbound{ConnectionID: c.id, Action: entity.ActionDisconnected})
			}

		case in := <-that.inbound:
			if _, ok := that.clients[in.ConnectionID]; !ok {
				continue
			}

			if in.Action == entity.ActionDisconnected {
				log.Debug("client sent reserved action", "connectionID", in.ConnectionID)
				continue
			}

			that.dispatch(ctx, dispatcher, in)
		}
	}
}

func (that *Server) dispatch(ctx context.Context, dispatcher dispatcher, in *entity.Inbound) {
	log := that.logger.With("method", "dispatch", "connectionID", in.ConnectionID, "action", in.Action)

	err := dispatcher.Dispatch(ctx, in)
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrNoRoomsExist), errors.Is(err, apperror.ErrNoRoomAvailable):
		log.Info("closing connection", "reason", err)
		that.kick(ctx, dispatcher, in.ConnectionID)
	case errors.Is(err, apperror.ErrUnknownAction):
		log.Warn("unknown action", "error", err)
	default:
		log.Error("error processing message", "error", err)
	}
}

// kick closes a connection after its queued events are flushed.
func (that *Server) kick(ctx context.Context, dispatcher dispatcher, connectionID string) {
	if !that.remove(connectionID) {
		return
	}

	that.dispatch(ctx, dispatcher, &entity.Inbound{ConnectionID: connectionID, Action: entity.ActionDisconnected})
}

func (that *Server) remove(connectionID string) bool {
	c, ok := that.clients[connectionID]
	if !ok {
		return false
	}

	delete(that.clients, connectionID)
	close(c.send)

	return true
}

// Send queues event for connectionID. Unknown connections are ignored and a full buffer drops
// the event.
func (that *Server) Send(connectionID string, event *entity.Event) {
	log := that.logger.With("method", "Send", "connectionID", connectionID)

	c, ok := that.clients[connectionID]
	if !ok {
		log.Debug("send to unknown connection", "action", event.Action)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to marshal event", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Warn("send buffer full, event dropped", "action", event.Action)
	}
}
