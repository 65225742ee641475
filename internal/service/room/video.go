package room

import (
	"context"

	"github.com/tunesync/server/internal/domain"
)

// Video transport is host-gated: the engine verifies the sender's connection
// maps to the recorded host before any mutation. Gating failures leave the
// room untouched and produce no broadcast; how loudly they are reported is a
// transport-layer decision.

type SyncVideoParams struct {
	RoomCode     string
	ConnectionId string
	VideoIndex   int
}

func (s *service) SyncVideo(ctx context.Context, params *SyncVideoParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		if err := requireHost(r, params.ConnectionId); err != nil {
			return err
		}

		r.CurrentVideoIndex = params.VideoIndex
		r.IsPlaying = true
		events = append(events, domain.Event{
			Type:     domain.EventVideoChanged,
			Payload:  VideoChangedPayload{VideoIndex: params.VideoIndex},
			Audience: domain.AudienceRoom,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

type VideoTransportParams struct {
	RoomCode     string
	ConnectionId string
}

func (s *service) VideoPlay(ctx context.Context, params *VideoTransportParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		if err := requireHost(r, params.ConnectionId); err != nil {
			return err
		}

		r.IsPlaying = true
		events = append(events, domain.Event{Type: domain.EventSyncPlay, Audience: domain.AudienceRoom})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (s *service) VideoPause(ctx context.Context, params *VideoTransportParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		if err := requireHost(r, params.ConnectionId); err != nil {
			return err
		}

		r.IsPlaying = false
		events = append(events, domain.Event{Type: domain.EventSyncPause, Audience: domain.AudienceRoom})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

type UpdateVideoTimestampParams struct {
	RoomCode     string
	ConnectionId string
	CurrentTime  float64
	IsPlaying    bool
}

// UpdateVideoTimestamp records the host's playback position so late joiners
// can be caught up, and relays it to everyone else.
func (s *service) UpdateVideoTimestamp(ctx context.Context, params *UpdateVideoTimestampParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		if err := requireHost(r, params.ConnectionId); err != nil {
			return err
		}

		r.CurrentVideoTime = params.CurrentTime
		r.IsPlaying = params.IsPlaying
		events = append(events, domain.Event{
			Type: domain.EventSyncVideoTimestamp,
			Payload: VideoTimestampPayload{
				CurrentTime: params.CurrentTime,
				IsPlaying:   params.IsPlaying,
			},
			Audience: domain.AudienceRoomExceptSender,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

type AddVideoToQueueParams struct {
	RoomCode string
	Video    domain.Video
}

// AddVideoToQueue appends to the video queue. Like its audio counterpart it is
// open to every participant and broadcasts the full resulting queue.
func (s *service) AddVideoToQueue(ctx context.Context, params *AddVideoToQueueParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		if s.cfg.QueueLimit > 0 && len(r.VideoQueue) >= s.cfg.QueueLimit {
			return ErrQueueLimitReached
		}

		r.VideoQueue = append(r.VideoQueue, params.Video)
		events = append(events, domain.Event{
			Type:     domain.EventVideoQueueUpdated,
			Payload:  append([]domain.Video(nil), r.VideoQueue...),
			Audience: domain.AudienceRoom,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}
