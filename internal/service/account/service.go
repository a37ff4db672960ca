// Package account manages the development backend's patron accounts and
// bearer tokens.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tableside/concierge/internal/model/account"
)

var (
	ErrInvalidInput       = errors.New("email and password are required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownToken       = errors.New("unknown token")
)

// Service keeps accounts and issued tokens in memory.
type Service struct {
	mu       sync.RWMutex
	byEmail  map[string]account.Account
	byID     map[string]account.Account
	tokens   map[string]string // token -> account id
	hashCost int
}

// NewService returns an empty Service. cost <= 0 uses bcrypt.DefaultCost.
func NewService(cost int) *Service {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		byEmail:  make(map[string]account.Account),
		byID:     make(map[string]account.Account),
		tokens:   make(map[string]string),
		hashCost: cost,
	}
}

// Register creates an account and issues a token for it.
func (s *Service) Register(_ context.Context, creds account.Credentials) (account.TokenResponse, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return account.TokenResponse{}, ErrInvalidInput
	}
	role := creds.Role
	if role == "" {
		role = account.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.hashCost)
	if err != nil {
		return account.TokenResponse{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[email]; exists {
		return account.TokenResponse{}, ErrEmailTaken
	}

	acct := account.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	s.byEmail[email] = acct
	s.byID[acct.ID] = acct
	return account.TokenResponse{Token: s.issueLocked(acct.ID)}, nil
}

// Login checks the password and issues a fresh token.
func (s *Service) Login(_ context.Context, creds account.Credentials) (account.TokenResponse, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return account.TokenResponse{}, ErrInvalidInput
	}

	s.mu.RLock()
	acct, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return account.TokenResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(creds.Password)); err != nil {
		return account.TokenResponse{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return account.TokenResponse{Token: s.issueLocked(acct.ID)}, nil
}

// Authenticate resolves a bearer token to its account.
func (s *Service) Authenticate(_ context.Context, token string) (account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	if !ok {
		return account.Account{}, ErrUnknownToken
	}
	acct, ok := s.byID[id]
	if !ok {
		return account.Account{}, ErrUnknownToken
	}
	return acct, nil
}

func (s *Service) issueLocked(accountID string) string {
	token := uuid.NewString()
	s.tokens[token] = accountID
	return token
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
