package scan

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/apperror"
	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/model/restaurant"
	"github.com/tableside/concierge/internal/model/session"
)

// ErrScanSuppressed is returned while a previous scan is resolving or after
// one has been handed off and the scanner was not re-armed.
var ErrScanSuppressed = errors.New("scan suppressed")

// State of the scan surface.
type State int

const (
	Armed State = iota
	Resolving
	Resolved
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// ProfileFetcher resolves a restaurant's capability profile.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, restaurantID, tableID string) (restaurant.Profile, error)
}

// TokenSource supplies the current bearer token for the new session.
type TokenSource interface {
	Token() string
}

// Scanner turns scanned payloads into chat sessions, one resolution at a time.
type Scanner struct {
	mu      sync.Mutex
	state   State
	fetcher ProfileFetcher
	tokens  TokenSource
	decode  Decoder
	logger  *zap.Logger
}

// NewScanner returns an armed Scanner. A nil decode uses ParsePayload.
func NewScanner(fetcher ProfileFetcher, tokens TokenSource, decode Decoder, logger *zap.Logger) *Scanner {
	if decode == nil {
		decode = ParsePayload
	}
	return &Scanner{
		fetcher: fetcher,
		tokens:  tokens,
		decode:  decode,
		logger:  logging.OrNop(logger).Named("scan"),
	}
}

// State returns the current state.
func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Rearm allows scanning again after a handoff ("tap to scan again").
// It has no effect while a resolution is in flight.
func (s *Scanner) Rearm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Resolved {
		s.state = Armed
	}
}

// Handle resolves raw into a session. A payload without a restaurant id, or a
// failed profile fetch, returns a *apperror.SessionError and leaves the
// scanner armed.
func (s *Scanner) Handle(ctx context.Context, raw string) (session.Session, error) {
	s.mu.Lock()
	if s.state != Armed {
		s.mu.Unlock()
		return session.Session{}, ErrScanSuppressed
	}

	payload := s.decode(raw)
	if payload.RestaurantID == "" {
		s.mu.Unlock()
		s.logger.Info("invalid barcode", zap.String("payload", raw))
		return session.Session{}, &apperror.SessionError{Reason: apperror.ReasonInvalidBarcode}
	}
	s.state = Resolving
	s.mu.Unlock()

	profile, err := s.fetcher.GetProfile(ctx, payload.RestaurantID, payload.TableID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = Armed
		s.logger.Warn("profile fetch failed",
			zap.String("restaurant_id", payload.RestaurantID),
			zap.Error(err))
		return session.Session{}, &apperror.SessionError{Reason: apperror.ReasonProfileFetch, Err: err}
	}
	s.state = Resolved

	var token string
	if s.tokens != nil {
		token = s.tokens.Token()
	}
	s.logger.Info("scan resolved",
		zap.String("restaurant_id", payload.RestaurantID),
		zap.String("table_id", payload.TableID),
		zap.String("agent_id", payload.AgentID))

	return session.Session{
		Token:        token,
		RestaurantID: payload.RestaurantID,
		TableID:      payload.TableID,
		AgentID:      payload.AgentID,
		Profile:      &profile,
	}, nil
}

// FailureAlert renders a Handle error for the scan screen.
func FailureAlert(err error) apperror.Alert {
	var serr *apperror.SessionError
	if errors.As(err, &serr) && serr.Reason == apperror.ReasonInvalidBarcode {
		return apperror.Alert{
			Title:   "Invalid Barcode",
			Message: "The scanned barcode does not contain the required information.",
		}
	}
	if errors.Is(err, ErrScanSuppressed) {
		return apperror.Alert{Title: "Please wait", Message: "A scan is already being processed."}
	}
	return apperror.Alert{Title: "Error", Message: "Failed to retrieve user information."}
}
