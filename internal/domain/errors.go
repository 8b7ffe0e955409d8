package domain

import "errors"

var (
	// ErrNotFound indicates an operation referenced a column or task id that
	// does not exist on the board.
	ErrNotFound = errors.New("not found")

	// ErrCorruptState indicates stored or received board data could not be
	// parsed into a board.
	ErrCorruptState = errors.New("corrupt board state")

	// ErrChannelUnavailable indicates the peer channel was not connected when
	// a broadcast was attempted.
	ErrChannelUnavailable = errors.New("peer channel unavailable")
)
