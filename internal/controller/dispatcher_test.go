package controller

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunesync/server/internal/domain"
)

type stubResolver struct {
	mu  sync.Mutex
	ids map[string][]string
}

func (r *stubResolver) ConnectionIds(roomCode string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.ids[roomCode]...)
}

func (r *stubResolver) set(roomCode string, ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ids[roomCode] = ids
}

func newTestDispatcher(t *testing.T) (*dispatcher, *stubResolver) {
	t.Helper()

	resolver := &stubResolver{ids: make(map[string][]string)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return newDispatcher(resolver, logger), resolver
}

// newConnPair returns a live server-side connection (the kind the dispatcher
// writes to) and the client end reading from it.
func newConnPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConns <- conn
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	serverConn := <-serverConns
	t.Cleanup(func() { serverConn.Close() })

	return serverConn, client
}

func readType(t *testing.T, client *websocket.Conn) string {
	t.Helper()

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var out struct {
		Type string `json:"type"`
	}
	require.NoError(t, client.ReadJSON(&out))

	return out.Type
}

func TestDispatcherDelayedDelivery(t *testing.T) {
	d, resolver := newTestDispatcher(t)

	senderConn, senderClient := newConnPair(t)
	d.Register("conn-1", senderConn)
	resolver.set("ROOM01", "conn-1")

	d.Dispatch(context.Background(), "ROOM01", "conn-1", []domain.Event{
		{
			Type:     domain.EventVideoChanged,
			Payload:  map[string]int{"videoIndex": 0},
			Audience: domain.AudienceSender,
			Delay:    30 * time.Millisecond,
		},
	})

	assert.Equal(t, domain.EventVideoChanged, readType(t, senderClient),
		"a delayed sender-only event must still reach the joiner")
}

func TestDispatcherDelayedDeliverySkipsDeparted(t *testing.T) {
	d, resolver := newTestDispatcher(t)

	leaverConn, leaverClient := newConnPair(t)
	stayerConn, stayerClient := newConnPair(t)
	d.Register("conn-1", leaverConn)
	d.Register("conn-2", stayerConn)
	resolver.set("ROOM01", "conn-1", "conn-2")

	d.Dispatch(context.Background(), "ROOM01", "conn-1", []domain.Event{
		{
			Type:     domain.EventSyncVideoTimestamp,
			Audience: domain.AudienceRoom,
			Delay:    50 * time.Millisecond,
		},
	})

	// conn-1 leaves before the scheduled delivery fires; the audience is
	// resolved at delivery time, so only conn-2 may be written to
	d.Unregister("conn-1")
	resolver.set("ROOM01", "conn-2")

	assert.Equal(t, domain.EventSyncVideoTimestamp, readType(t, stayerClient))

	leaverClient.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	var none struct{}
	err := leaverClient.ReadJSON(&none)
	assert.Error(t, err, "a departed connection must not receive the delayed event")
}

func TestDispatcherRoomExceptSender(t *testing.T) {
	d, resolver := newTestDispatcher(t)

	senderConn, senderClient := newConnPair(t)
	otherConn, otherClient := newConnPair(t)
	d.Register("conn-1", senderConn)
	d.Register("conn-2", otherConn)
	resolver.set("ROOM01", "conn-1", "conn-2")

	d.Dispatch(context.Background(), "ROOM01", "conn-1", []domain.Event{
		{Type: domain.EventTabChanged, Audience: domain.AudienceRoomExceptSender},
	})

	assert.Equal(t, domain.EventTabChanged, readType(t, otherClient))

	senderClient.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	var none struct{}
	err := senderClient.ReadJSON(&none)
	assert.Error(t, err, "the sender is excluded from this audience")
}
