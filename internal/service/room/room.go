package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/tunesync/server/internal/domain"
	"github.com/tunesync/server/internal/repository/connection"
	roomrepo "github.com/tunesync/server/internal/repository/room"
)

type CreateRoomParams struct {
	RoomCode     string
	RoomName     string
	UserId       int64
	UserName     string
	Avatar       string
	ConnectionId string
}

// CreateRoom registers a new room with the creator as its sole participant and
// host. An empty room code gets a server-generated one. It returns the
// effective room code and the events to deliver.
func (s *service) CreateRoom(ctx context.Context, params *CreateRoomParams) (string, []domain.Event, error) {
	code := params.RoomCode
	if code == "" {
		code = s.generator.GenerateRandomString(roomCodeLength)
	}

	creator := &domain.Participant{
		UserId:       params.UserId,
		UserName:     params.UserName,
		Avatar:       params.Avatar,
		ConnectionId: params.ConnectionId,
		IsHost:       true,
	}

	newRoom := &domain.Room{
		Code:              code,
		Name:              params.RoomName,
		Participants:      []*domain.Participant{creator},
		HostId:            params.UserId,
		Queue:             append([]domain.Track(nil), s.cfg.DefaultQueue...),
		CurrentTrackIndex: 0,
		IsPlaying:         false,
		Volume:            70,
		IsShuffle:         false,
		RepeatMode:        domain.RepeatModeOff,
		VideoQueue:        []domain.Video{},
		CurrentVideoIndex: 0,
		ActiveTab:         domain.TabMusic,
		CurrentVideoTime:  0,
		BufferingUsers:    []string{},
	}
	snapshot := newRoom.Snapshot()

	// the directory entry is reserved first: a connection already bound to a
	// room cannot create another, and a failed create releases the entry, so
	// neither store ends up half-updated
	if err := s.connRepo.Add(params.ConnectionId, connection.Location{
		RoomCode: code,
		UserId:   params.UserId,
	}); err != nil {
		return "", nil, fmt.Errorf("failed to register connection: %w", err)
	}

	if err := s.roomRepo.Create(ctx, newRoom); err != nil {
		_, _ = s.connRepo.Remove(params.ConnectionId)
		if errors.Is(err, roomrepo.ErrRoomAlreadyExists) {
			return "", nil, ErrRoomAlreadyExists
		}
		return "", nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.logger.InfoContext(ctx, "room created", "room_code", code, "host_id", params.UserId)

	return code, []domain.Event{
		{Type: domain.EventRoomState, Payload: snapshot, Audience: domain.AudienceSender},
	}, nil
}

type JoinRoomParams struct {
	RoomCode     string
	UserId       int64
	UserName     string
	Avatar       string
	ConnectionId string
}

// JoinRoom adds a participant to an existing room. A join with a user id
// already present is a reconnect: the stored connection id is replaced in
// place and the roster does not grow.
func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) ([]domain.Event, error) {
	loc := connection.Location{
		RoomCode: params.RoomCode,
		UserId:   params.UserId,
	}

	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		// the directory entry is taken before the roster changes: a connection
		// already bound to another room fails here with the room untouched
		if existing := r.FindParticipant(params.UserId); existing != nil {
			// a resent join on the same connection changes nothing
			if existing.ConnectionId != params.ConnectionId {
				if err := s.connRepo.Add(params.ConnectionId, loc); err != nil {
					return fmt.Errorf("failed to register connection: %w", err)
				}
				if _, err := s.connRepo.Remove(existing.ConnectionId); err != nil &&
					!errors.Is(err, connection.ErrConnectionNotFound) {
					return fmt.Errorf("failed to drop stale connection: %w", err)
				}
				existing.ConnectionId = params.ConnectionId
			}
		} else {
			if s.cfg.MembersLimit > 0 && len(r.Participants) >= s.cfg.MembersLimit {
				return ErrRoomFull
			}
			if err := s.connRepo.Add(params.ConnectionId, loc); err != nil {
				return fmt.Errorf("failed to register connection: %w", err)
			}
			r.Participants = append(r.Participants, &domain.Participant{
				UserId:       params.UserId,
				UserName:     params.UserName,
				Avatar:       params.Avatar,
				ConnectionId: params.ConnectionId,
				IsHost:       false,
			})
		}

		events = append(events,
			domain.Event{Type: domain.EventRoomState, Payload: r.Snapshot(), Audience: domain.AudienceSender},
		)

		// catch a late joiner up on the running video, delayed so its player
		// finishes mounting first
		if _, ok := r.CurrentVideo(); ok {
			events = append(events, domain.Event{
				Type:     domain.EventVideoChanged,
				Payload:  VideoChangedPayload{VideoIndex: r.CurrentVideoIndex},
				Audience: domain.AudienceSender,
				Delay:    s.cfg.LateJoinSyncDelay,
			})
			if r.CurrentVideoTime > 0 {
				events = append(events, domain.Event{
					Type: domain.EventSyncVideoTimestamp,
					Payload: VideoTimestampPayload{
						CurrentTime: r.CurrentVideoTime,
						IsPlaying:   r.IsPlaying,
					},
					Audience: domain.AudienceSender,
					Delay:    s.cfg.LateJoinSyncDelay,
				})
			}
		}

		events = append(events, domain.Event{
			Type:     domain.EventParticipantsUpdated,
			Payload:  r.ParticipantsSnapshot(),
			Audience: domain.AudienceRoom,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "participant joined", "room_code", params.RoomCode, "user_id", params.UserId)

	return events, nil
}

// Disconnect runs the connection-loss pipeline: resolve the connection through
// the directory, drop the participant, fail the host over if needed, clear its
// buffering state, and delete the room when it empties. An unknown connection
// is a no-op.
func (s *service) Disconnect(ctx context.Context, connectionId string) (string, []domain.Event, error) {
	loc, err := s.connRepo.Remove(connectionId)
	if err != nil {
		if errors.Is(err, connection.ErrConnectionNotFound) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("failed to resolve connection: %w", err)
	}

	var events []domain.Event
	err = s.update(ctx, loc.RoomCode, func(r *domain.Room) error {
		p := r.FindParticipant(loc.UserId)
		if p == nil {
			return nil
		}
		// a reconnect replaced this participant's connection already; the
		// stale close must not kick the live session
		if p.ConnectionId != connectionId {
			return nil
		}

		removed := r.RemoveParticipant(loc.UserId)

		if removed.IsHost && len(r.Participants) > 0 {
			events = append(events, s.promoteEarliest(r))
		}

		if removed.IsBuffering && r.RemoveBufferingUser(removed.UserName) {
			events = append(events, domain.Event{
				Type: domain.EventBufferingStatusUpdate,
				Payload: BufferingStatusPayload{
					BufferingUsers: append([]string(nil), r.BufferingUsers...),
					ShouldPause:    len(r.BufferingUsers) > 0,
				},
				Audience: domain.AudienceRoom,
			})
		}

		if len(r.Participants) > 0 {
			events = append(events, domain.Event{
				Type:     domain.EventParticipantsUpdated,
				Payload:  r.ParticipantsSnapshot(),
				Audience: domain.AudienceRoom,
			})
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return "", nil, nil
		}
		return "", nil, err
	}

	s.logger.InfoContext(ctx, "participant disconnected",
		"room_code", loc.RoomCode, "user_id", loc.UserId)

	return loc.RoomCode, events, nil
}
