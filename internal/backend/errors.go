package backend

import (
	"errors"
	"fmt"
)

// Failure classes of a backend call.
var (
	// ErrTransport marks network failures: the backend could not be reached
	// or the connection broke before a response was read.
	ErrTransport = errors.New("backend unreachable")
	// ErrDecode marks responses that are not the JSON the caller expected.
	ErrDecode = errors.New("malformed backend response")
)

// APIError is a failure reported by the backend itself, either with a
// non-2xx status or inside a successful body.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Status >= 300 {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Path)
	}
	return e.Message
}

// Kind is the error taxonomy used by the view and action layers.
type Kind int

const (
	KindNone Kind = iota
	KindTransport
	KindDecode
	KindAPI
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindAPI:
		return "api"
	default:
		return "other"
	}
}

// KindOf classifies err.
func KindOf(err error) Kind {
	var apiErr *APIError
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrTransport):
		return KindTransport
	default:
		return KindOther
	}
}
