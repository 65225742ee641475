package inmemory

import (
	"context"
	"sync"

	"github.com/tunesync/server/internal/domain"
	"github.com/tunesync/server/internal/repository/room"
)

type entry struct {
	mu     sync.Mutex
	room   *domain.Room
	closed bool
}

// repo is the in-memory room store. Rooms live for the duration of the
// process, there is no durability across restarts.
//
// Every mutation of a room goes through Update, which holds that room's lock
// for the whole transition. Commands targeting the same room are therefore
// processed one at a time; rooms never share a lock.
type repo struct {
	mu    sync.RWMutex
	rooms map[string]*entry
}

func NewRepo() *repo {
	return &repo{
		rooms: make(map[string]*entry),
	}
}

// Create registers a new room under its code. The room must already contain
// its creator so the "non-empty room has a host" invariant holds from the
// first observable instant.
func (r *repo) Create(_ context.Context, newRoom *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[newRoom.Code]; ok {
		return room.ErrRoomAlreadyExists
	}

	r.rooms[newRoom.Code] = &entry{room: newRoom}

	return nil
}

// Update runs fn with exclusive access to the room. If fn returns an error the
// room is assumed untouched (callers validate before mutating). A room whose
// roster is empty after fn returns is deleted before Update returns: a room
// with zero participants must never be observable in the store.
func (r *repo) Update(_ context.Context, code string, fn func(*domain.Room) error) error {
	r.mu.RLock()
	e, ok := r.rooms[code]
	r.mu.RUnlock()
	if !ok {
		return room.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// the entry was deleted while we waited for its lock
	if e.closed {
		return room.ErrRoomNotFound
	}

	if err := fn(e.room); err != nil {
		return err
	}

	if len(e.room.Participants) == 0 {
		e.closed = true
		r.mu.Lock()
		delete(r.rooms, code)
		r.mu.Unlock()
	}

	return nil
}

func (r *repo) Get(_ context.Context, code string) (domain.Room, error) {
	r.mu.RLock()
	e, ok := r.rooms[code]
	r.mu.RUnlock()
	if !ok {
		return domain.Room{}, room.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return domain.Room{}, room.ErrRoomNotFound
	}

	return e.room.Snapshot(), nil
}

func (r *repo) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}
