package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidMatch    = errors.New("invalid match")
	ErrUnknownTeam     = errors.New("unknown team")
	ErrUnknownMeet     = errors.New("unknown meet")
	ErrUnknownCategory = errors.New("unknown match category")
	ErrInvalidBoard    = errors.New("invalid alliance board")
	ErrNoRefresher     = errors.New("refresh not configured")
)
