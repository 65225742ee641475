package room

import (
	"context"

	"github.com/tunesync/server/internal/domain"
)

type TransferHostParams struct {
	RoomCode     string
	ConnectionId string
	NewHostId    int64
}

// TransferHost hands host authority to another present participant. Only the
// current host may transfer, and the whole transition is validated before any
// flag flips: an invalid target leaves the room, including the sender's host
// status, untouched.
func (s *service) TransferHost(ctx context.Context, params *TransferHostParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		sender := r.FindParticipantByConnection(params.ConnectionId)
		if sender == nil || !sender.IsHost {
			return ErrNotHost
		}

		target := r.FindParticipant(params.NewHostId)
		if target == nil {
			return ErrParticipantNotFound
		}

		sender.IsHost = false
		target.IsHost = true
		r.HostId = target.UserId

		events = append(events, domain.Event{
			Type: domain.EventHostChanged,
			Payload: HostChangedPayload{
				NewHostId:    target.UserId,
				NewHostName:  target.UserName,
				Participants: r.ParticipantsSnapshot(),
			},
			Audience: domain.AudienceRoom,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "host transferred",
		"room_code", params.RoomCode, "new_host_id", params.NewHostId)

	return events, nil
}

// promoteEarliest makes the earliest-joined remaining participant host. The
// caller must have already removed the departing host and verified the roster
// is non-empty.
func (s *service) promoteEarliest(r *domain.Room) domain.Event {
	promoted := r.Participants[0]
	promoted.IsHost = true
	r.HostId = promoted.UserId

	return domain.Event{
		Type: domain.EventHostChanged,
		Payload: HostChangedPayload{
			NewHostId:    promoted.UserId,
			NewHostName:  promoted.UserName,
			Participants: r.ParticipantsSnapshot(),
		},
		Audience: domain.AudienceRoom,
	}
}
