package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
)

// Service guards the HTTP surface with a single operator password.
// The scanner runs on one machine for one operator, so there is no
// user database: the bcrypt hash comes from configuration and every
// successful login mints an in-memory session token.
type Service struct {
	passwordHash  string
	sessions      map[string]time.Time
	loginAttempts int
	mu            sync.RWMutex
	sessionTTL    time.Duration
}

func NewService(passwordHash string) *Service {
	return &Service{
		passwordHash: passwordHash,
		sessions:     make(map[string]time.Time),
		sessionTTL:   24 * time.Hour,
	}
}

// HashPassword produces the bcrypt hash to place in configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login validates the operator password and returns a session token.
func (s *Service) Login(ctx context.Context, password string) (string, error) {
	if err := s.checkRateLimit(); err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.incrementAttempts()
		return "", ErrInvalidCredentials
	}
	s.resetAttempts()

	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = time.Now().Add(s.sessionTTL)
	s.mu.Unlock()

	return token, nil
}

// Validate reports whether the token belongs to a live session.
// Expired sessions are pruned on sight.
func (s *Service) Validate(token string) bool {
	s.mu.RLock()
	expiresAt, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		s.Logout(token)
		return false
	}
	return true
}

// Logout invalidates a session token.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func (s *Service) checkRateLimit() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loginAttempts >= 5 {
		return ErrRateLimitExceeded
	}
	return nil
}

func (s *Service) incrementAttempts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginAttempts++
}

func (s *Service) resetAttempts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginAttempts = 0
}
