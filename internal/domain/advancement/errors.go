package advancement

import "errors"

// Sentinel kinds for advancement errors.
var (
	ErrInvalidSelection = errors.New("invalid advancement selection")
)
