package export

import "errors"

// Sentinel kinds for workbook errors.
var (
	ErrNoSheet       = errors.New("workbook has no sheets")
	ErrMissingColumn = errors.New("missing worksheet column")
)
