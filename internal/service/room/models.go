package room

import "github.com/tunesync/server/internal/domain"

// Outbound event payloads. Shapes are part of the client protocol, field
// names must not change.

type HostChangedPayload struct {
	NewHostId    int64                 `json:"newHostId"`
	NewHostName  string                `json:"newHostName"`
	Participants []*domain.Participant `json:"participants"`
}

type TrackChangePayload struct {
	TrackIndex int `json:"trackIndex"`
}

type VolumeChangedPayload struct {
	Volume int `json:"volume"`
}

type ShuffleToggledPayload struct {
	IsShuffle bool `json:"isShuffle"`
}

type RepeatChangedPayload struct {
	RepeatMode domain.RepeatMode `json:"repeatMode"`
}

type TabChangedPayload struct {
	Tab domain.Tab `json:"tab"`
}

type VideoChangedPayload struct {
	VideoIndex int `json:"videoIndex"`
}

type VideoTimestampPayload struct {
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
}

type BufferingStatusPayload struct {
	BufferingUsers []string `json:"bufferingUsers"`
	ShouldPause    bool     `json:"shouldPause"`
}
