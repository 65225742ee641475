package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tunesync/server/internal/domain"
)

// Output is the wire envelope for every outbound message.
type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type iConnResolver interface {
	ConnectionIds(roomCode string) []string
}

// wsConn serializes writes: gorilla/websocket allows one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(v)
}

// dispatcher is the broadcast fan-out: it resolves an event's audience to the
// room's live connections and delivers. Connections are registered at upgrade
// time and dropped on disconnect; a send to a connection that vanished in
// between is quietly skipped.
type dispatcher struct {
	mu       sync.RWMutex
	conns    map[string]*wsConn
	resolver iConnResolver
	logger   *slog.Logger
}

func newDispatcher(resolver iConnResolver, logger *slog.Logger) *dispatcher {
	return &dispatcher{
		conns:    make(map[string]*wsConn),
		resolver: resolver,
		logger:   logger,
	}
}

func (d *dispatcher) Register(connectionId string, conn *websocket.Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.conns[connectionId] = &wsConn{conn: conn}
}

func (d *dispatcher) Unregister(connectionId string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.conns, connectionId)
}

// Dispatch delivers events produced by one command. senderId is the
// connection the command arrived on; roomCode scopes the room-wide audiences.
// Delayed events are scheduled, with their audience resolved at delivery time
// so a connection that left in the meantime is not written to.
func (d *dispatcher) Dispatch(ctx context.Context, roomCode, senderId string, events []domain.Event) {
	for _, event := range events {
		if event.Delay > 0 {
			event := event
			deliveryCtx := context.WithoutCancel(ctx)
			time.AfterFunc(event.Delay, func() {
				d.deliver(deliveryCtx, roomCode, senderId, event)
			})
			continue
		}

		d.deliver(ctx, roomCode, senderId, event)
	}
}

// SendToConn delivers a single message to one connection, outside the event
// pipeline. Used for protocol-level errors.
func (d *dispatcher) SendToConn(ctx context.Context, connectionId string, out Output) {
	d.send(ctx, connectionId, out)
}

func (d *dispatcher) deliver(ctx context.Context, roomCode, senderId string, event domain.Event) {
	out := Output{Type: event.Type, Payload: event.Payload}

	switch event.Audience {
	case domain.AudienceSender:
		d.send(ctx, senderId, out)
	case domain.AudienceRoom:
		for _, connectionId := range d.resolver.ConnectionIds(roomCode) {
			d.send(ctx, connectionId, out)
		}
	case domain.AudienceRoomExceptSender:
		for _, connectionId := range d.resolver.ConnectionIds(roomCode) {
			if connectionId == senderId {
				continue
			}
			d.send(ctx, connectionId, out)
		}
	}
}

func (d *dispatcher) send(ctx context.Context, connectionId string, out Output) {
	d.mu.RLock()
	conn, ok := d.conns[connectionId]
	d.mu.RUnlock()
	if !ok {
		return
	}

	if err := conn.writeJSON(out); err != nil {
		d.logger.DebugContext(ctx, "failed to write to connection",
			"connection_id", connectionId, "event_type", out.Type, "error", err)
	}
}
