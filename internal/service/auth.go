package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/facturafacil/facturafacil/internal/auth"
	"github.com/facturafacil/facturafacil/internal/cache"
	"github.com/facturafacil/facturafacil/internal/metrics"
	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/facturafacil/facturafacil/internal/repository"
	"github.com/oklog/ulid/v2"
)

// DefaultSessionTTL is how long a session lives when no TTL is configured.
const DefaultSessionTTL = 30 * 24 * time.Hour

// AuthService handles registration, login and session lookup.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	ttl      time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, sessions SessionStore, ttl time.Duration, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		metrics:  recorder,
		logger:   logger,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines input for logging in.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned on a successful login. Token is shown only once.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()
	return user, nil
}

// Login verifies credentials and opens a new session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginAttempt(metrics.LoginFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := auth.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		s.metrics.IncLoginAttempt(metrics.LoginFailure)
		return nil, ErrInvalidCredentials
	}

	if auth.IsLegacyHash(user.PasswordHash) {
		s.upgradePasswordHash(ctx, user, input.Password)
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, err
	}
	key, err := auth.SessionKey(token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &model.Session{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.SaveSession(ctx, key, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.metrics.IncLoginAttempt(metrics.LoginSuccess)
	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// upgradePasswordHash replaces a bcrypt hash with Argon2id. Failure leaves
// the legacy hash in place, which still verifies on the next login.
func (s *AuthService) upgradePasswordHash(ctx context.Context, user *model.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Warn("failed to rehash legacy password",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.users.UpdateUserPasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.Warn("failed to store upgraded password hash",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	user.PasswordHash = hash
}

// Logout ends the session identified by token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	key, err := auth.SessionKey(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, key); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a session token.
// Returns ErrUnauthorized when the token is malformed, unknown or expired.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	key, err := auth.SessionKey(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.IsExpired() {
		return nil, ErrUnauthorized
	}

	return session, nil
}

// CurrentUser returns the account behind an authenticated session.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
