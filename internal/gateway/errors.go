package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericFailure is reported when neither the server nor the transport gave a usable message.
const GenericFailure = "network request failed"

// RequestError is returned by every gateway call that did not complete with a 2xx.
type RequestError struct {
	Op            string
	Status        int // zero for transport failures
	ServerMessage string
	Transport     bool
	Err           error
}

func (e *RequestError) Error() string {
	switch {
	case e.Transport:
		return fmt.Sprintf("%s: %s: %v", e.Op, GenericFailure, e.Err)
	case e.ServerMessage != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.ServerMessage)
	case e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, http.StatusText(e.Status))
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// UserMessage returns the server-provided text, if any.
func (e *RequestError) UserMessage() string { return e.ServerMessage }

// IsTransport reports whether err is a network-level failure (unreachable, timeout).
func IsTransport(err error) bool {
	var rerr *RequestError
	return errors.As(err, &rerr) && rerr.Transport
}

// StatusOf returns the HTTP status carried by err, or zero.
func StatusOf(err error) int {
	var rerr *RequestError
	if errors.As(err, &rerr) {
		return rerr.Status
	}
	return 0
}
