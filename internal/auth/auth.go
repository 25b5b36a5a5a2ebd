// Package auth handles users, password hashing and login sessions.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/database/repository"
)

// CookieName carries the session token for browser clients.
const CookieName = "finsight_session"

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit in bytes
	tokenBytes     = 32
	defaultTTL     = 720 * time.Hour
)

// Service resolves credentials and tokens into user ids.
type Service struct {
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	TTL      time.Duration
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int

	now func() time.Time
}

// NewService wires a Service with the given session lifetime.
func NewService(users *repository.UserRepo, sessions *repository.SessionRepo, ttl time.Duration) *Service {
	return &Service{Users: users, Sessions: sessions, TTL: ttl}
}

func (s *Service) Register(ctx context.Context, email, password string) (repository.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return repository.User{}, apperr.Validation("a valid email is required")
	}
	if len(password) < minPasswordLen {
		return repository.User{}, apperr.Validation("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return repository.User{}, apperr.Validation("password must be at most %d bytes", maxPasswordLen)
	}
	existing, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return repository.User{}, apperr.Storage("auth.register", err)
	}
	if existing != nil {
		return repository.User{}, apperr.Validation("email %s is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return repository.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := repository.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock().UTC().Truncate(time.Second),
	}
	if err := s.Users.Insert(ctx, u); err != nil {
		return repository.User{}, apperr.Storage("auth.register", err)
	}
	return u, nil
}

// Login checks credentials and opens a session. Unknown email and wrong password
// produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (repository.Session, error) {
	u, err := s.Users.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return repository.Session{}, apperr.Storage("auth.login", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return repository.Session{}, apperr.Unauthenticated("invalid email or password")
	}

	token, err := newToken()
	if err != nil {
		return repository.Session{}, err
	}
	now := s.clock().UTC().Truncate(time.Second)
	sess := repository.Session{Token: token, UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(s.ttl())}
	if err := s.Sessions.Insert(ctx, sess); err != nil {
		return repository.Session{}, apperr.Storage("auth.login", err)
	}
	return sess, nil
}

// Authenticate returns the user id owning token. Expired sessions are deleted.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperr.Unauthenticated("")
	}
	sess, err := s.Sessions.Get(ctx, token)
	if err != nil {
		return "", apperr.Storage("auth.authenticate", err)
	}
	if sess == nil {
		return "", apperr.Unauthenticated("")
	}
	if !s.clock().Before(sess.ExpiresAt) {
		if err := s.Sessions.Delete(ctx, token); err != nil {
			return "", apperr.Storage("auth.authenticate", err)
		}
		return "", apperr.Unauthenticated("session expired")
	}
	return sess.UserID, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return apperr.Storage("auth.logout", s.Sessions.Delete(ctx, token))
}

// PurgeExpired drops every expired session.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.Sessions.DeleteExpired(ctx, s.clock())
	if err != nil {
		return 0, apperr.Storage("auth.purge", err)
	}
	return n, nil
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return defaultTTL
}

func (s *Service) cost() int {
	if s.Cost > 0 {
		return s.Cost
	}
	return bcrypt.DefaultCost
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(errors.New("auth: generate token"), err)
	}
	return hex.EncodeToString(b), nil
}
