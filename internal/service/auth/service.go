package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/apperror"
	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/model/account"
	"github.com/tableside/concierge/internal/model/session"
)

// Gateway is the subset of the backend the auth flows use.
type Gateway interface {
	Signup(ctx context.Context, email, password string) (account.TokenResponse, error)
	Login(ctx context.Context, email, password string) (account.TokenResponse, error)
}

// SignupForm mirrors the signup screen.
type SignupForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	AgreeTerms      bool
}

// LoginForm mirrors the login screen.
type LoginForm struct {
	Email    string
	Password string
}

// Result tells the presentation layer where to go next and what, if
// anything, to show. Alert is set on failures and on partial successes.
type Result struct {
	Next  session.Route
	Alert *apperror.Alert
}

// Service runs the signup, login and logout flows.
type Service struct {
	gw     Gateway
	tokens *Tokens
	logger *zap.Logger
}

// NewService wires the flows to gw and the token owner.
func NewService(gw Gateway, tokens *Tokens, logger *zap.Logger) *Service {
	return &Service{gw: gw, tokens: tokens, logger: logging.OrNop(logger).Named("auth")}
}

// Signup validates the form, registers the account and stores the token.
func (s *Service) Signup(ctx context.Context, form SignupForm) (Result, error) {
	email := strings.TrimSpace(form.Email)
	if err := validateSignup(email, form); err != nil {
		return s.failure(session.RouteSignup, err, "Signup Failed", "Something went wrong")
	}

	resp, err := s.gw.Signup(ctx, email, form.Password)
	if err != nil {
		s.logger.Warn("signup failed", zap.String("email", email), zap.Error(err))
		return s.failure(session.RouteSignup, err, "Signup Failed", "Something went wrong")
	}

	if resp.Token == "" {
		return Result{
			Next:  session.RouteLogin,
			Alert: &apperror.Alert{Title: "Signup Successful", Message: "Account created, but no token received."},
		}, nil
	}

	if err := s.tokens.Set(resp.Token); err != nil {
		return s.failure(session.RouteSignup, err, "Signup Failed", "Something went wrong")
	}
	s.logger.Info("signed up", zap.String("email", email))
	return Result{Next: session.RouteScanner}, nil
}

// Login validates the form, authenticates and stores the token.
func (s *Service) Login(ctx context.Context, form LoginForm) (Result, error) {
	email := strings.TrimSpace(form.Email)
	if email == "" || form.Password == "" {
		return s.failure(session.RouteLogin, apperror.Invalid("", "Please fill in all fields."), "Login Failed", "Invalid credentials")
	}

	resp, err := s.gw.Login(ctx, email, form.Password)
	if err != nil {
		s.logger.Warn("login failed", zap.String("email", email), zap.Error(err))
		return s.failure(session.RouteLogin, err, "Login Failed", "Invalid credentials")
	}

	if resp.Token == "" {
		return Result{
			Next:  session.RouteScanner,
			Alert: &apperror.Alert{Title: "Login Successful", Message: "Logged in, but no token received."},
		}, nil
	}

	if err := s.tokens.Set(resp.Token); err != nil {
		return s.failure(session.RouteLogin, err, "Login Failed", "Invalid credentials")
	}
	s.logger.Info("logged in", zap.String("email", email))
	return Result{Next: session.RouteScanner}, nil
}

// Logout drops the stored token.
func (s *Service) Logout() (Result, error) {
	if err := s.tokens.Clear(); err != nil {
		return s.failure(session.RouteScanner, err, "Logout Failed", "Could not clear saved credentials")
	}
	return Result{Next: session.RouteLogin}, nil
}

// Authenticated reports whether a token is currently held.
func (s *Service) Authenticated() bool {
	return s.tokens.Token() != ""
}

func (s *Service) failure(stay session.Route, err error, title, fallback string) (Result, error) {
	alert := apperror.AlertFor(err, title, fallback)
	return Result{Next: stay, Alert: &alert}, err
}

func validateSignup(email string, form SignupForm) error {
	if email == "" || form.Password == "" || form.ConfirmPassword == "" {
		return apperror.Invalid("", "Please fill in all fields.")
	}
	if form.Password != form.ConfirmPassword {
		return apperror.Invalid("confirmPassword", "Passwords do not match.")
	}
	if !form.AgreeTerms {
		return apperror.Invalid("agreeTerms", "Please agree to the terms and conditions.")
	}
	return nil
}
