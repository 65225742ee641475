package wsrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestServer(t *testing.T, router *WSRouter) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		router.ServeConn(r.Context(), conn)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

func TestServeConnRoutesByType(t *testing.T) {
	router := New()
	router.Handle("ping", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		assert.Equal(t, "ping", GetMessageTypeFromCtx(ctx))
		return conn.WriteJSON(map[string]string{"type": "pong", "payload": string(payload)})
	})

	client := dialTestServer(t, router)

	require.NoError(t, client.WriteJSON(map[string]any{"type": "ping", "payload": "hi"}))

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var reply map[string]string
	require.NoError(t, client.ReadJSON(&reply))
	assert.Equal(t, "pong", reply["type"])
}

func TestServeConnNotFound(t *testing.T) {
	notFound := make(chan string, 1)

	router := New()
	router.NotFound(func(ctx context.Context, conn *websocket.Conn, messageType string) {
		notFound <- messageType
	})

	client := dialTestServer(t, router)
	require.NoError(t, client.WriteJSON(map[string]any{"type": "no-such-type"}))

	select {
	case got := <-notFound:
		assert.Equal(t, "no-such-type", got)
	case <-time.After(2 * time.Second):
		t.Fatal("not-found handler was not invoked")
	}
}

func TestServeConnHandlerErrorKeepsConnection(t *testing.T) {
	handled := make(chan struct{}, 2)

	router := New()
	router.Handle("boom", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		handled <- struct{}{}
		return assert.AnError
	})
	router.OnError(func(ctx context.Context, err error) {
		assert.ErrorIs(t, err, assert.AnError)
	})

	client := dialTestServer(t, router)

	require.NoError(t, client.WriteJSON(map[string]any{"type": "boom"}))
	require.NoError(t, client.WriteJSON(map[string]any{"type": "boom"}))

	for i := 0; i < 2; i++ {
		select {
		case <-handled:
		case <-time.After(2 * time.Second):
			t.Fatal("handler error must not terminate the read loop")
		}
	}
}
