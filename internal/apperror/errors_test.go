package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type serverErr struct{ msg string }

func (e serverErr) Error() string       { return "server: " + e.msg }
func (e serverErr) UserMessage() string { return e.msg }

func TestAlertForValidation(t *testing.T) {
	alert := AlertFor(Invalid("password", "Passwords do not match."), "Signup Failed", "Something went wrong")
	assert.Equal(t, Alert{Title: "Error", Message: "Passwords do not match."}, alert)
}

func TestAlertForServerMessage(t *testing.T) {
	err := fmt.Errorf("login: %w", serverErr{msg: "Email not registered"})
	alert := AlertFor(err, "Login Failed", "Invalid credentials")
	assert.Equal(t, "Login Failed", alert.Title)
	assert.Equal(t, "Email not registered", alert.Message)
}

func TestAlertForFallback(t *testing.T) {
	assert.Equal(t, "Invalid credentials", AlertFor(serverErr{}, "Login Failed", "Invalid credentials").Message)
	assert.Equal(t, "Invalid credentials", AlertFor(errors.New("dial tcp: refused"), "Login Failed", "Invalid credentials").Message)
}

func TestSessionErrorUnwraps(t *testing.T) {
	cause := errors.New("timeout")
	err := &SessionError{Reason: ReasonProfileFetch, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "profile fetch failed")
	assert.Equal(t, "session: invalid barcode", (&SessionError{Reason: ReasonInvalidBarcode}).Error())
}
