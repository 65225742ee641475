package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/tunesync/server/internal/domain"
	"github.com/tunesync/server/internal/service/room"
	"github.com/tunesync/server/pkg/validator"
	"github.com/tunesync/server/pkg/wsrouter"
)

type iRoomService interface {
	CreateRoom(ctx context.Context, params *room.CreateRoomParams) (string, []domain.Event, error)
	JoinRoom(ctx context.Context, params *room.JoinRoomParams) ([]domain.Event, error)
	Disconnect(ctx context.Context, connectionId string) (string, []domain.Event, error)
	Play(ctx context.Context, roomCode string) ([]domain.Event, error)
	Pause(ctx context.Context, roomCode string) ([]domain.Event, error)
	ChangeTrack(ctx context.Context, params *room.ChangeTrackParams) ([]domain.Event, error)
	NextTrack(ctx context.Context, roomCode string) ([]domain.Event, error)
	AddToQueue(ctx context.Context, params *room.AddToQueueParams) ([]domain.Event, error)
	SetVolume(ctx context.Context, params *room.SetVolumeParams) ([]domain.Event, error)
	ToggleShuffle(ctx context.Context, params *room.ToggleShuffleParams) ([]domain.Event, error)
	ChangeRepeat(ctx context.Context, params *room.ChangeRepeatParams) ([]domain.Event, error)
	ChangeTab(ctx context.Context, params *room.ChangeTabParams) ([]domain.Event, error)
	SyncVideo(ctx context.Context, params *room.SyncVideoParams) ([]domain.Event, error)
	VideoPlay(ctx context.Context, params *room.VideoTransportParams) ([]domain.Event, error)
	VideoPause(ctx context.Context, params *room.VideoTransportParams) ([]domain.Event, error)
	UpdateVideoTimestamp(ctx context.Context, params *room.UpdateVideoTimestampParams) ([]domain.Event, error)
	AddVideoToQueue(ctx context.Context, params *room.AddVideoToQueueParams) ([]domain.Event, error)
	SetBuffering(ctx context.Context, params *room.SetBufferingParams) ([]domain.Event, error)
	TransferHost(ctx context.Context, params *room.TransferHostParams) ([]domain.Event, error)
	ChatMessage(ctx context.Context, params *room.ChatMessageParams) ([]domain.Event, error)
	AddReaction(ctx context.Context, params *room.AddReactionParams) ([]domain.Event, error)
	RoomCount(ctx context.Context) int
}

type iSearchService interface {
	SearchSongs(ctx context.Context, query string) ([]domain.Track, error)
	SearchVideos(ctx context.Context, query string) ([]domain.Video, error)
	LookupVideo(ctx context.Context, videoId string) (domain.Video, error)
}

type Config struct {
	// SearchRatePerMinute caps search requests per client IP.
	SearchRatePerMinute int
}

type controller struct {
	roomService   iRoomService
	searchService iSearchService
	dispatcher    *dispatcher
	wsRouter      *wsrouter.WSRouter
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	searchLimiter *rateLimiter
	logger        *slog.Logger
}

func NewController(roomService iRoomService, searchService iSearchService, resolver iConnResolver, logger *slog.Logger, cfg *Config) *controller {
	c := &controller{
		roomService:   roomService,
		searchService: searchService,
		dispatcher:    newDispatcher(resolver, logger),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:      validator.NewValidator(),
		searchLimiter: newRateLimiter(cfg.SearchRatePerMinute),
		logger:        logger,
	}
	c.wsRouter = c.getWSRouter()

	return c
}

// Close releases the controller's background resources.
func (c *controller) Close() {
	c.searchLimiter.Stop()
}
