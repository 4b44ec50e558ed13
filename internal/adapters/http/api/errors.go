package api

import (
	"errors"
	"net/http"

	"github.com/okian/ebladvance/internal/adapters/repository"
	service "github.com/okian/ebladvance/internal/app"
	"github.com/okian/ebladvance/internal/domain/advancement"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	ErrRateLimited = errors.New("rate limited")
)

// Error tags a failure with the handler operation and a kind.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	default:
		return e.Op
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of the given kind with no cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap tags err with op, classifying it by the domain errors it carries.
func Wrap(op string, err error) error {
	return &Error{Op: op, Kind: classify(err), Err: err}
}

// WrapKind tags err with op and an explicit kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func classify(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidMatch),
		errors.Is(err, service.ErrUnknownTeam),
		errors.Is(err, service.ErrInvalidBoard),
		errors.Is(err, advancement.ErrInvalidSelection):
		return ErrBadRequest
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrUnknownMeet),
		errors.Is(err, service.ErrUnknownCategory):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateMatch):
		return ErrConflict
	case errors.Is(err, service.ErrNoRefresher):
		return ErrUnavailable
	default:
		return nil
	}
}

// status maps an error kind to its HTTP status and response code.
func status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
