// Package wsrouter routes typed JSON messages read from a websocket
// connection to registered handlers, the way an HTTP mux routes paths.
package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

type WSRouter struct {
	routes       map[string]HandlerFunc
	notFound     func(ctx context.Context, conn *websocket.Conn, messageType string)
	errorHandler func(ctx context.Context, err error)
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// NotFound sets the handler invoked for message types with no route.
func (r *WSRouter) NotFound(handler func(ctx context.Context, conn *websocket.Conn, messageType string)) {
	r.notFound = handler
}

// OnError sets the callback invoked when a route handler returns an error.
// Handler errors never terminate the connection.
func (r *WSRouter) OnError(handler func(ctx context.Context, err error)) {
	r.errorHandler = handler
}

// ServeConn reads messages from conn until the read side fails (the peer
// disconnected) and dispatches each to its handler. The read error is
// returned so the caller can run its disconnect pipeline.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, ok := r.routes[msg.Type]
		if !ok {
			if r.notFound != nil {
				r.notFound(ctx, conn, msg.Type)
			}
			continue
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if err := handler(msgCtx, conn, msg.Payload); err != nil && r.errorHandler != nil {
			r.errorHandler(msgCtx, err)
		}
	}
}
