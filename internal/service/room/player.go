package room

import (
	"context"

	"github.com/tunesync/server/internal/domain"
)

// Audio transport is deliberately not host-gated, matching the protocol every
// deployed client expects. Video transport is the gated surface, see video.go.

func (s *service) Play(ctx context.Context, roomCode string) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, roomCode, func(r *domain.Room) error {
		r.IsPlaying = true
		events = append(events, domain.Event{Type: domain.EventSyncPlay, Audience: domain.AudienceRoom})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (s *service) Pause(ctx context.Context, roomCode string) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, roomCode, func(r *domain.Room) error {
		r.IsPlaying = false
		events = append(events, domain.Event{Type: domain.EventSyncPause, Audience: domain.AudienceRoom})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

type ChangeTrackParams struct {
	RoomCode   string
	TrackIndex int
}

// ChangeTrack moves the audio cursor and starts playback. The index is stored
// verbatim: keeping it inside the queue bounds is the caller's concern, and an
// out-of-range cursor simply reads as "no current track".
func (s *service) ChangeTrack(ctx context.Context, params *ChangeTrackParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		r.CurrentTrackIndex = params.TrackIndex
		r.IsPlaying = true
		events = append(events, domain.Event{
			Type:     domain.EventSyncTrackChange,
			Payload:  TrackChangePayload{TrackIndex: params.TrackIndex},
			Audience: domain.AudienceRoom,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

// NextTrack advances the audio cursor by the room's playback rules:
// repeat-one replays the current track, shuffle picks uniformly from the
// whole queue, otherwise the cursor increments, wrapping to the start only
// under repeat-all. At the end of the queue without repeat nothing changes
// and nothing is emitted.
func (s *service) NextTrack(ctx context.Context, roomCode string) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, roomCode, func(r *domain.Room) error {
		if len(r.Queue) == 0 {
			return nil
		}

		next := r.CurrentTrackIndex
		switch {
		case r.RepeatMode == domain.RepeatModeOne:
			// replay the same index
		case r.IsShuffle:
			next = s.randIndex(len(r.Queue))
		default:
			next++
			if next >= len(r.Queue) {
				if r.RepeatMode != domain.RepeatModeAll {
					return nil
				}
				next = 0
			}
		}

		r.CurrentTrackIndex = next
		r.IsPlaying = true
		events = append(events, domain.Event{
			Type:     domain.EventSyncTrackChange,
			Payload:  TrackChangePayload{TrackIndex: next},
			Audience: domain.AudienceRoom,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

type AddToQueueParams struct {
	RoomCode string
	Track    domain.Track
}

// AddToQueue appends a track and broadcasts the full resulting queue, not a
// delta.
func (s *service) AddToQueue(ctx context.Context, params *AddToQueueParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		if s.cfg.QueueLimit > 0 && len(r.Queue) >= s.cfg.QueueLimit {
			return ErrQueueLimitReached
		}

		r.Queue = append(r.Queue, params.Track)
		events = append(events, domain.Event{
			Type:     domain.EventQueueUpdated,
			Payload:  append([]domain.Track(nil), r.Queue...),
			Audience: domain.AudienceRoom,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

type SetVolumeParams struct {
	RoomCode string
	Volume   int
}

func (s *service) SetVolume(ctx context.Context, params *SetVolumeParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		r.Volume = params.Volume
		events = append(events, domain.Event{
			Type:     domain.EventVolumeChanged,
			Payload:  VolumeChangedPayload{Volume: params.Volume},
			Audience: domain.AudienceRoom,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

type ToggleShuffleParams struct {
	RoomCode  string
	IsShuffle bool
}

func (s *service) ToggleShuffle(ctx context.Context, params *ToggleShuffleParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		r.IsShuffle = params.IsShuffle
		events = append(events, domain.Event{
			Type:     domain.EventShuffleToggled,
			Payload:  ShuffleToggledPayload{IsShuffle: params.IsShuffle},
			Audience: domain.AudienceRoom,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

type ChangeRepeatParams struct {
	RoomCode   string
	RepeatMode domain.RepeatMode
}

func (s *service) ChangeRepeat(ctx context.Context, params *ChangeRepeatParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		r.RepeatMode = params.RepeatMode
		events = append(events, domain.Event{
			Type:     domain.EventRepeatChanged,
			Payload:  RepeatChangedPayload{RepeatMode: params.RepeatMode},
			Audience: domain.AudienceRoom,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

type ChangeTabParams struct {
	RoomCode string
	Tab      domain.Tab
}

// ChangeTab switches the active playback surface. The sender already shows
// the new tab, so this is the one broadcast that excludes it.
func (s *service) ChangeTab(ctx context.Context, params *ChangeTabParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		r.ActiveTab = params.Tab
		events = append(events, domain.Event{
			Type:     domain.EventTabChanged,
			Payload:  TabChangedPayload{Tab: params.Tab},
			Audience: domain.AudienceRoomExceptSender,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}
