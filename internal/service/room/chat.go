package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tunesync/server/internal/domain"
	roomrepo "github.com/tunesync/server/internal/repository/room"
)

// Chat and reactions are opaque relays: the engine checks the room exists and
// fans the payload out unchanged, it never interprets the content.

type ChatMessageParams struct {
	RoomCode string
	Message  json.RawMessage
}

func (s *service) ChatMessage(ctx context.Context, params *ChatMessageParams) ([]domain.Event, error) {
	if err := s.checkRoomExists(ctx, params.RoomCode); err != nil {
		return nil, err
	}

	return []domain.Event{
		{Type: domain.EventChatMessage, Payload: params.Message, Audience: domain.AudienceRoom},
	}, nil
}

type AddReactionParams struct {
	RoomCode string
	Reaction json.RawMessage
}

func (s *service) AddReaction(ctx context.Context, params *AddReactionParams) ([]domain.Event, error) {
	if err := s.checkRoomExists(ctx, params.RoomCode); err != nil {
		return nil, err
	}

	return []domain.Event{
		{Type: domain.EventReactionAdded, Payload: params.Reaction, Audience: domain.AudienceRoom},
	}, nil
}

func (s *service) checkRoomExists(ctx context.Context, roomCode string) error {
	if _, err := s.roomRepo.Get(ctx, roomCode); err != nil {
		if errors.Is(err, roomrepo.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to get room: %w", err)
	}

	return nil
}
