package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tunesync/server/pkg/ctxlogger"
	"github.com/tunesync/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	// lifecycle
	mux.Handle("create-room", c.handleCreateRoom)
	mux.Handle("join-room", c.handleJoinRoom)

	// audio transport
	mux.Handle("play", c.handlePlay)
	mux.Handle("pause", c.handlePause)
	mux.Handle("change-track", c.handleChangeTrack)
	mux.Handle("next-track", c.handleNextTrack)
	mux.Handle("add-to-queue", c.handleAddToQueue)
	mux.Handle("volume-change", c.handleVolumeChange)
	mux.Handle("toggle-shuffle", c.handleToggleShuffle)
	mux.Handle("change-repeat", c.handleChangeRepeat)
	mux.Handle("sync-tab-change", c.handleTabChange)

	// video transport
	mux.Handle("sync-video", c.handleSyncVideo)
	mux.Handle("video-play", c.handleVideoPlay)
	mux.Handle("video-pause", c.handleVideoPause)
	mux.Handle("video-timestamp-update", c.handleVideoTimestampUpdate)
	mux.Handle("add-video-to-queue", c.handleAddVideoToQueue)
	mux.Handle("user-buffering", c.handleUserBuffering)

	// social
	mux.Handle("transfer-host", c.handleTransferHost)
	mux.Handle("chat-message", c.handleChatMessage)
	mux.Handle("add-reaction", c.handleAddReaction)

	mux.NotFound(func(ctx context.Context, _ *websocket.Conn, messageType string) {
		c.logger.DebugContext(ctx, "unknown message type", "message_type", messageType)
		c.sendError(ctx, "Unknown message type")
	})
	mux.OnError(func(ctx context.Context, err error) {
		c.logger.InfoContext(ctx, "failed to handle message",
			"message_type", wsrouter.GetMessageTypeFromCtx(ctx), "error", err)
	})

	return mux
}

// handleWS upgrades the connection and serves it until the peer goes away,
// then runs the disconnect pipeline. The connection id minted here is the
// volatile identity every other layer keys on.
func (c *controller) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	connectionId := uuid.NewString()
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("connection_id", connectionId))
	ctx = context.WithValue(ctx, connectionIdCtxKey, connectionId)

	c.dispatcher.Register(connectionId, conn)
	c.logger.InfoContext(ctx, "client connected")

	err = c.wsRouter.ServeConn(ctx, conn)

	c.dispatcher.Unregister(connectionId)
	conn.Close()
	c.logger.InfoContext(ctx, "client disconnected", "reason", err)

	roomCode, events, err := c.roomService.Disconnect(ctx, connectionId)
	if err != nil {
		c.logger.ErrorContext(ctx, "disconnect handling failed", "error", err)
		return
	}
	c.dispatcher.Dispatch(ctx, roomCode, connectionId, events)
}
