package domain

// Room is the authoritative state of a single session. It is never accessed
// concurrently: the room repository serializes all mutation per room code.
type Room struct {
	Code              string         `json:"code"`
	Name              string         `json:"name"`
	Participants      []*Participant `json:"participants"`
	HostId            int64          `json:"hostId"`
	Queue             []Track        `json:"queue"`
	CurrentTrackIndex int            `json:"currentTrackIndex"`
	IsPlaying         bool           `json:"isPlaying"`
	Volume            int            `json:"volume"`
	IsShuffle         bool           `json:"isShuffle"`
	RepeatMode        RepeatMode     `json:"repeatMode"`
	VideoQueue        []Video        `json:"videoQueue"`
	CurrentVideoIndex int            `json:"currentVideoIndex"`
	ActiveTab         Tab            `json:"activeTab"`
	CurrentVideoTime  float64        `json:"currentVideoTime"`
	BufferingUsers    []string       `json:"bufferingUsers"`
}

func (r *Room) FindParticipant(userId int64) *Participant {
	for _, p := range r.Participants {
		if p.UserId == userId {
			return p
		}
	}

	return nil
}

func (r *Room) FindParticipantByConnection(connectionId string) *Participant {
	for _, p := range r.Participants {
		if p.ConnectionId == connectionId {
			return p
		}
	}

	return nil
}

func (r *Room) Host() *Participant {
	return r.FindParticipant(r.HostId)
}

// RemoveParticipant removes the participant with the given user id preserving
// join order. It returns the removed participant, or nil if it was not present.
func (r *Room) RemoveParticipant(userId int64) *Participant {
	for i, p := range r.Participants {
		if p.UserId == userId {
			r.Participants = append(r.Participants[:i], r.Participants[i+1:]...)
			return p
		}
	}

	return nil
}

// CurrentTrack resolves the track cursor. A cursor outside the queue bounds is
// not an error, it reads as "no current track".
func (r *Room) CurrentTrack() (Track, bool) {
	if r.CurrentTrackIndex < 0 || r.CurrentTrackIndex >= len(r.Queue) {
		return Track{}, false
	}

	return r.Queue[r.CurrentTrackIndex], true
}

// CurrentVideo resolves the video cursor with the same out-of-bounds rule as
// CurrentTrack.
func (r *Room) CurrentVideo() (Video, bool) {
	if r.CurrentVideoIndex < 0 || r.CurrentVideoIndex >= len(r.VideoQueue) {
		return Video{}, false
	}

	return r.VideoQueue[r.CurrentVideoIndex], true
}

// AddBufferingUser records a display name in the buffering set. It reports
// whether the set changed.
func (r *Room) AddBufferingUser(userName string) bool {
	for _, name := range r.BufferingUsers {
		if name == userName {
			return false
		}
	}

	r.BufferingUsers = append(r.BufferingUsers, userName)

	return true
}

// RemoveBufferingUser removes a display name from the buffering set. It
// reports whether the set changed.
func (r *Room) RemoveBufferingUser(userName string) bool {
	for i, name := range r.BufferingUsers {
		if name == userName {
			r.BufferingUsers = append(r.BufferingUsers[:i], r.BufferingUsers[i+1:]...)
			return true
		}
	}

	return false
}

// Snapshot returns a deep copy safe to hand to the transport layer after the
// room lock is released.
func (r *Room) Snapshot() Room {
	snapshot := *r
	snapshot.Participants = r.ParticipantsSnapshot()
	snapshot.Queue = append([]Track(nil), r.Queue...)
	snapshot.VideoQueue = append([]Video(nil), r.VideoQueue...)
	snapshot.BufferingUsers = append([]string(nil), r.BufferingUsers...)

	return snapshot
}

func (r *Room) ParticipantsSnapshot() []*Participant {
	participants := make([]*Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		copied := *p
		participants = append(participants, &copied)
	}

	return participants
}
