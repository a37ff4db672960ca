// Package apperror holds the client's error taxonomy and the translation of
// errors into user-facing alerts.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is raised by local checks before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Session failure reasons.
const (
	ReasonInvalidBarcode = "invalid barcode"
	ReasonProfileFetch   = "profile fetch failed"
)

// SessionError reports a failed scan-to-chat handoff.
type SessionError struct {
	Reason string
	Err    error
}

func (e *SessionError) Error() string {
	if e.Err == nil {
		return "session: " + e.Reason
	}
	return fmt.Sprintf("session: %s: %v", e.Reason, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// Alert is what the presentation layer shows for a failed action.
type Alert struct {
	Title   string
	Message string
}

// userMessager is implemented by errors that carry a message meant for people,
// e.g. the server-provided text of a failed request.
type userMessager interface {
	UserMessage() string
}

// AlertFor translates err into an Alert. Validation errors show their own
// message; request errors show the server message when present; everything
// else falls back to fallback.
func AlertFor(err error, title, fallback string) Alert {
	alert := Alert{Title: title, Message: fallback}
	if err == nil {
		return alert
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		alert.Title = "Error"
		alert.Message = verr.Message
		return alert
	}

	var um userMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			alert.Message = msg
		}
	}
	return alert
}
