package domain

type RepeatMode string

const (
	RepeatModeOff RepeatMode = "off"
	RepeatModeAll RepeatMode = "all"
	RepeatModeOne RepeatMode = "one"
)

type Tab string

const (
	TabMusic Tab = "music"
	TabVideo Tab = "video"
)

type Track struct {
	Id         int64  `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Duration   string `json:"duration"`
	AlbumArt   string `json:"albumArt,omitempty"`
	PreviewUrl string `json:"previewUrl,omitempty"`
	Type       string `json:"type"`
	AddedBy    string `json:"addedBy,omitempty"`
}

type Video struct {
	Id       string `json:"id"`
	VideoId  string `json:"videoId"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	AlbumArt string `json:"albumArt"`
	Type     string `json:"type"`
	Duration string `json:"duration,omitempty"`
	AddedBy  string `json:"addedBy,omitempty"`
}

type Participant struct {
	UserId       int64  `json:"userId"`
	UserName     string `json:"userName"`
	Avatar       string `json:"avatar,omitempty"`
	ConnectionId string `json:"connectionId"`
	IsHost       bool   `json:"isHost"`
	IsBuffering  bool   `json:"isBuffering"`
}
