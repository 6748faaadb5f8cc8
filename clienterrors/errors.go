package clienterrors

import "errors"

// Sentinel errors shared by the reconcile, interaction, session and api
// packages. Kept in their own package to avoid import cycles.
var (
	ErrMalformedPayload = errors.New("malformed game payload")
	ErrNotInteractive   = errors.New("cell is not interactive")
	ErrNoBoard          = errors.New("no game board is shown")
	ErrDisconnected     = errors.New("connection to server closed")
	ErrRoomFull         = errors.New("room is full")
	ErrInvalidSettings  = errors.New("invalid game settings")
)
