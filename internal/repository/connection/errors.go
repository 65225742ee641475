package connection

import "errors"

var (
	ErrConnectionNotFound      = errors.New("connection not found")
	ErrConnectionAlreadyExists = errors.New("connection already exists")
)

// Location is what a connection id resolves to: the room it joined and the
// participant it authenticates as.
type Location struct {
	RoomCode string
	UserId   int64
}
