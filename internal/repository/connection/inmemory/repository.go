package inmemory

import (
	"sync"

	"github.com/tunesync/server/internal/repository/connection"
)

// repo is the participant directory: a reverse index from connection id to
// (room code, user id), maintained incrementally on every join and leave so
// that disconnect handling never scans the room store. A per-room index is
// kept alongside for broadcast fan-out.
type repo struct {
	mu     sync.RWMutex
	byConn map[string]connection.Location
	byRoom map[string]map[string]struct{}
}

func NewRepo() *repo {
	return &repo{
		byConn: make(map[string]connection.Location),
		byRoom: make(map[string]map[string]struct{}),
	}
}

func (r *repo) Add(connectionId string, loc connection.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byConn[connectionId]; ok {
		return connection.ErrConnectionAlreadyExists
	}

	r.byConn[connectionId] = loc
	if r.byRoom[loc.RoomCode] == nil {
		r.byRoom[loc.RoomCode] = make(map[string]struct{})
	}
	r.byRoom[loc.RoomCode][connectionId] = struct{}{}

	return nil
}

func (r *repo) Remove(connectionId string) (connection.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, ok := r.byConn[connectionId]
	if !ok {
		return connection.Location{}, connection.ErrConnectionNotFound
	}

	delete(r.byConn, connectionId)
	if conns, ok := r.byRoom[loc.RoomCode]; ok {
		delete(conns, connectionId)
		if len(conns) == 0 {
			delete(r.byRoom, loc.RoomCode)
		}
	}

	return loc, nil
}

func (r *repo) Resolve(connectionId string) (connection.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.byConn[connectionId]
	if !ok {
		return connection.Location{}, connection.ErrConnectionNotFound
	}

	return loc, nil
}

func (r *repo) ConnectionIds(roomCode string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]string, 0, len(r.byRoom[roomCode]))
	for connectionId := range r.byRoom[roomCode] {
		conns = append(conns, connectionId)
	}

	return conns
}
