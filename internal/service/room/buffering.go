package room

import (
	"context"

	"github.com/tunesync/server/internal/domain"
)

type SetBufferingParams struct {
	RoomCode    string
	UserId      int64
	IsBuffering bool
}

// SetBuffering records a participant's stall report and rebroadcasts the
// room's buffering consensus: playback should pause while anyone at all is
// buffering. Reports for untracked participants are dropped.
func (s *service) SetBuffering(ctx context.Context, params *SetBufferingParams) ([]domain.Event, error) {
	var events []domain.Event
	err := s.update(ctx, params.RoomCode, func(r *domain.Room) error {
		p := r.FindParticipant(params.UserId)
		if p == nil {
			return ErrParticipantNotFound
		}

		p.IsBuffering = params.IsBuffering
		if params.IsBuffering {
			r.AddBufferingUser(p.UserName)
		} else {
			r.RemoveBufferingUser(p.UserName)
		}

		events = append(events, domain.Event{
			Type: domain.EventBufferingStatusUpdate,
			Payload: BufferingStatusPayload{
				BufferingUsers: append([]string(nil), r.BufferingUsers...),
				ShouldPause:    len(r.BufferingUsers) > 0,
			},
			Audience: domain.AudienceRoom,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}
