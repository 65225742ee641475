package room

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/tunesync/server/internal/domain"
	"github.com/tunesync/server/internal/repository/connection"
	roomrepo "github.com/tunesync/server/internal/repository/room"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomAlreadyExists   = errors.New("room already exists")
	ErrRoomFull            = errors.New("room is full")
	ErrNotHost             = errors.New("sender is not the host")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrQueueLimitReached   = errors.New("queue limit reached")
)

const roomCodeLength = 6

type iRoomRepo interface {
	Create(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, code string, fn func(*domain.Room) error) error
	Get(ctx context.Context, code string) (domain.Room, error)
	Count(ctx context.Context) int
}

type iConnRepo interface {
	Add(connectionId string, loc connection.Location) error
	Remove(connectionId string) (connection.Location, error)
	Resolve(connectionId string) (connection.Location, error)
	ConnectionIds(roomCode string) []string
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	MembersLimit int
	QueueLimit   int
	// LateJoinSyncDelay is how long to wait before sending catch-up video
	// events to a joiner, giving its player time to mount.
	LateJoinSyncDelay time.Duration
	// DefaultQueue seeds the audio queue of every new room. What the defaults
	// are is a collaborator concern, the engine only copies them in.
	DefaultQueue []domain.Track
}

type service struct {
	roomRepo  iRoomRepo
	connRepo  iConnRepo
	generator iGenerator
	logger    *slog.Logger
	cfg       *Config
	// randIndex picks the shuffle target, uniform over [0, n). Injectable so
	// tests can pin it.
	randIndex func(n int) int
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, generator iGenerator, logger *slog.Logger, cfg *Config) *service {
	return &service{
		roomRepo:  roomRepo,
		connRepo:  connRepo,
		generator: generator,
		logger:    logger,
		cfg:       cfg,
		randIndex: rand.Intn,
	}
}

// update wraps the repository's serialized per-room update, translating the
// repository's not-found into the service error the transport layer maps.
func (s *service) update(ctx context.Context, code string, fn func(*domain.Room) error) error {
	err := s.roomRepo.Update(ctx, code, fn)
	if errors.Is(err, roomrepo.ErrRoomNotFound) {
		return ErrRoomNotFound
	}

	return err
}

// requireHost gates a command on the sender being the recorded host of the
// room. The sender is identified by connection, never by a client-supplied id.
func requireHost(r *domain.Room, connectionId string) error {
	sender := r.FindParticipantByConnection(connectionId)
	if sender == nil || !sender.IsHost {
		return ErrNotHost
	}

	return nil
}

func (s *service) RoomCount(ctx context.Context) int {
	return s.roomRepo.Count(ctx)
}
