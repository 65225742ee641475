package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/tunesync/server/internal/domain"
	"github.com/tunesync/server/internal/service/room"
)

// parse decodes and validates an inbound payload. A payload the client got
// wrong is answered with a sender-only error and reported to the router's
// error hook; it never takes the connection down.
func (c *controller) parse(ctx context.Context, payload json.RawMessage, input any) error {
	if err := json.Unmarshal(payload, input); err != nil {
		c.sendError(ctx, "Invalid payload")
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.sendError(ctx, "Invalid payload")
		return fmt.Errorf("payload validation failed: %v", validationErrors)
	}

	return nil
}

func (c *controller) sendError(ctx context.Context, message string) {
	c.dispatcher.SendToConn(ctx, c.getConnectionIdFromCtx(ctx), Output{
		Type:    domain.EventError,
		Payload: ErrorPayload{Message: message},
	})
}

// mapServiceError turns a service error into the client-visible reaction.
// Host-gating failures are deliberately absent: which of those speak and
// which stay silent is per-command, see the individual handlers.
func (c *controller) mapServiceError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		c.sendError(ctx, "Room not found")
		return nil
	case errors.Is(err, room.ErrRoomAlreadyExists):
		c.sendError(ctx, "Room code already in use")
		return nil
	case errors.Is(err, room.ErrRoomFull):
		c.sendError(ctx, "Room is full")
		return nil
	case errors.Is(err, room.ErrQueueLimitReached):
		c.sendError(ctx, "Queue limit reached")
		return nil
	default:
		return err
	}
}

type RoomDataInput struct {
	Name string `json:"name" validate:"max=64"`
}

type CreateRoomInput struct {
	RoomCode string        `json:"roomCode" validate:"omitempty,len=6"`
	RoomData RoomDataInput `json:"roomData"`
	UserId   int64         `json:"userId" validate:"required"`
	UserName string        `json:"userName" validate:"required,max=32"`
	Avatar   string        `json:"avatar"`
}

func (c *controller) handleCreateRoom(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input CreateRoomInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	connectionId := c.getConnectionIdFromCtx(ctx)
	roomCode, events, err := c.roomService.CreateRoom(ctx, &room.CreateRoomParams{
		RoomCode:     input.RoomCode,
		RoomName:     input.RoomData.Name,
		UserId:       input.UserId,
		UserName:     input.UserName,
		Avatar:       input.Avatar,
		ConnectionId: connectionId,
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, roomCode, connectionId, events)

	return nil
}

type JoinRoomInput struct {
	RoomCode string `json:"roomCode" validate:"required"`
	UserId   int64  `json:"userId" validate:"required"`
	UserName string `json:"userName" validate:"required,max=32"`
	Avatar   string `json:"avatar"`
}

func (c *controller) handleJoinRoom(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input JoinRoomInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	connectionId := c.getConnectionIdFromCtx(ctx)
	events, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		RoomCode:     input.RoomCode,
		UserId:       input.UserId,
		UserName:     input.UserName,
		Avatar:       input.Avatar,
		ConnectionId: connectionId,
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, connectionId, events)

	return nil
}

type RoomCodeInput struct {
	RoomCode string `json:"roomCode" validate:"required"`
}

func (c *controller) handlePlay(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input RoomCodeInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.Play(ctx, input.RoomCode)
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

func (c *controller) handlePause(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input RoomCodeInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.Pause(ctx, input.RoomCode)
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

type ChangeTrackInput struct {
	RoomCode   string `json:"roomCode" validate:"required"`
	TrackIndex int    `json:"trackIndex"`
}

func (c *controller) handleChangeTrack(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input ChangeTrackInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.ChangeTrack(ctx, &room.ChangeTrackParams{
		RoomCode:   input.RoomCode,
		TrackIndex: input.TrackIndex,
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

func (c *controller) handleNextTrack(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input RoomCodeInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.NextTrack(ctx, input.RoomCode)
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

type AddToQueueInput struct {
	RoomCode string       `json:"roomCode" validate:"required"`
	Track    domain.Track `json:"track"`
}

func (c *controller) handleAddToQueue(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input AddToQueueInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.AddToQueue(ctx, &room.AddToQueueParams{
		RoomCode: input.RoomCode,
		Track:    input.Track,
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

type VolumeChangeInput struct {
	RoomCode string `json:"roomCode" validate:"required"`
	Volume   int    `json:"volume" validate:"min=0,max=100"`
}

func (c *controller) handleVolumeChange(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input VolumeChangeInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.SetVolume(ctx, &room.SetVolumeParams{
		RoomCode: input.RoomCode,
		Volume:   input.Volume,
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

type ToggleShuffleInput struct {
	RoomCode  string `json:"roomCode" validate:"required"`
	IsShuffle bool   `json:"isShuffle"`
}

func (c *controller) handleToggleShuffle(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input ToggleShuffleInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.ToggleShuffle(ctx, &room.ToggleShuffleParams{
		RoomCode:  input.RoomCode,
		IsShuffle: input.IsShuffle,
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

type ChangeRepeatInput struct {
	RoomCode   string `json:"roomCode" validate:"required"`
	RepeatMode string `json:"repeatMode" validate:"oneof=off all one"`
}

func (c *controller) handleChangeRepeat(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input ChangeRepeatInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.ChangeRepeat(ctx, &room.ChangeRepeatParams{
		RoomCode:   input.RoomCode,
		RepeatMode: domain.RepeatMode(input.RepeatMode),
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

type TabChangeInput struct {
	RoomCode string `json:"roomCode" validate:"required"`
	Tab      string `json:"tab" validate:"oneof=music video"`
}

func (c *controller) handleTabChange(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input TabChangeInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.ChangeTab(ctx, &room.ChangeTabParams{
		RoomCode: input.RoomCode,
		Tab:      domain.Tab(input.Tab),
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

type SyncVideoInput struct {
	RoomCode   string `json:"roomCode" validate:"required"`
	VideoIndex int    `json:"videoIndex"`
}

func (c *controller) handleSyncVideo(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input SyncVideoInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	connectionId := c.getConnectionIdFromCtx(ctx)
	events, err := c.roomService.SyncVideo(ctx, &room.SyncVideoParams{
		RoomCode:     input.RoomCode,
		ConnectionId: connectionId,
		VideoIndex:   input.VideoIndex,
	})
	if err != nil {
		// the one gated command that talks back to a non-host
		if errors.Is(err, room.ErrNotHost) {
			c.sendError(ctx, "Only host can change videos")
			return nil
		}
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, connectionId, events)

	return nil
}

func (c *controller) handleVideoPlay(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input RoomCodeInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	connectionId := c.getConnectionIdFromCtx(ctx)
	events, err := c.roomService.VideoPlay(ctx, &room.VideoTransportParams{
		RoomCode:     input.RoomCode,
		ConnectionId: connectionId,
	})
	if err != nil {
		if errors.Is(err, room.ErrNotHost) {
			return nil
		}
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, connectionId, events)

	return nil
}

func (c *controller) handleVideoPause(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input RoomCodeInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	connectionId := c.getConnectionIdFromCtx(ctx)
	events, err := c.roomService.VideoPause(ctx, &room.VideoTransportParams{
		RoomCode:     input.RoomCode,
		ConnectionId: connectionId,
	})
	if err != nil {
		if errors.Is(err, room.ErrNotHost) {
			return nil
		}
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, connectionId, events)

	return nil
}

type VideoTimestampInput struct {
	RoomCode    string  `json:"roomCode" validate:"required"`
	CurrentTime float64 `json:"currentTime" validate:"min=0"`
	IsPlaying   bool    `json:"isPlaying"`
}

func (c *controller) handleVideoTimestampUpdate(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input VideoTimestampInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	connectionId := c.getConnectionIdFromCtx(ctx)
	events, err := c.roomService.UpdateVideoTimestamp(ctx, &room.UpdateVideoTimestampParams{
		RoomCode:     input.RoomCode,
		ConnectionId: connectionId,
		CurrentTime:  input.CurrentTime,
		IsPlaying:    input.IsPlaying,
	})
	if err != nil {
		if errors.Is(err, room.ErrNotHost) {
			return nil
		}
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, connectionId, events)

	return nil
}

type AddVideoToQueueInput struct {
	RoomCode string       `json:"roomCode" validate:"required"`
	Video    domain.Video `json:"video"`
}

func (c *controller) handleAddVideoToQueue(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input AddVideoToQueueInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.AddVideoToQueue(ctx, &room.AddVideoToQueueParams{
		RoomCode: input.RoomCode,
		Video:    input.Video,
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

type UserBufferingInput struct {
	RoomCode    string `json:"roomCode" validate:"required"`
	IsBuffering bool   `json:"isBuffering"`
	UserId      int64  `json:"userId" validate:"required"`
	UserName    string `json:"userName"`
}

func (c *controller) handleUserBuffering(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input UserBufferingInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.SetBuffering(ctx, &room.SetBufferingParams{
		RoomCode:    input.RoomCode,
		UserId:      input.UserId,
		IsBuffering: input.IsBuffering,
	})
	if err != nil {
		// reports for untracked participants are dropped on the floor
		if errors.Is(err, room.ErrParticipantNotFound) {
			return nil
		}
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

type TransferHostInput struct {
	RoomCode  string `json:"roomCode" validate:"required"`
	NewHostId int64  `json:"newHostId" validate:"required"`
}

func (c *controller) handleTransferHost(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input TransferHostInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	connectionId := c.getConnectionIdFromCtx(ctx)
	events, err := c.roomService.TransferHost(ctx, &room.TransferHostParams{
		RoomCode:     input.RoomCode,
		ConnectionId: connectionId,
		NewHostId:    input.NewHostId,
	})
	if err != nil {
		// an unauthorized or mistargeted transfer is silently ignored
		if errors.Is(err, room.ErrNotHost) || errors.Is(err, room.ErrParticipantNotFound) {
			return nil
		}
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, connectionId, events)

	return nil
}

type ChatMessageInput struct {
	RoomCode string          `json:"roomCode" validate:"required"`
	Message  json.RawMessage `json:"message" validate:"required"`
}

func (c *controller) handleChatMessage(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input ChatMessageInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.ChatMessage(ctx, &room.ChatMessageParams{
		RoomCode: input.RoomCode,
		Message:  input.Message,
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}

type AddReactionInput struct {
	RoomCode string          `json:"roomCode" validate:"required"`
	Reaction json.RawMessage `json:"reaction" validate:"required"`
}

func (c *controller) handleAddReaction(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input AddReactionInput
	if err := c.parse(ctx, payload, &input); err != nil {
		return err
	}

	events, err := c.roomService.AddReaction(ctx, &room.AddReactionParams{
		RoomCode: input.RoomCode,
		Reaction: input.Reaction,
	})
	if err != nil {
		return c.mapServiceError(ctx, err)
	}

	c.dispatcher.Dispatch(ctx, input.RoomCode, c.getConnectionIdFromCtx(ctx), events)

	return nil
}
