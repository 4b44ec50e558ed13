package ftcscout

import "errors"

// Sentinel kinds for upstream errors.
var (
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	ErrGraphQL        = errors.New("graphql error")
	ErrEventNotFound  = errors.New("event not found")
)
