package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"addressbook/internal/domain"
	"addressbook/internal/repository"
	"addressbook/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidSession the token is missing, expired, or fabricated.
var ErrInvalidSession = errors.New("invalid session")

const sessionTTL = 24 * time.Hour

// Fixed demo account, created at startup when absent (idempotent).
const (
	DemoUserEmail    = "demologin@addressbook.com"
	demoUserPassword = "Abc&123!"
)

// AuthService login, logout and session resolution.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error

	// ResolveSession maps a session token to the signed-in user. Every scoped
	// query downstream takes the resolved user id explicitly.
	ResolveSession(ctx context.Context, token string) (*Session, error)

	// SeedDemoUser ensures the demo account exists. Logs and returns the error
	// on failure.
	SeedDemoUser(ctx context.Context) error
}

type authService struct {
	usersRepo repository.UsersRepository
	kv        store.KV
	logger    *zap.Logger
}

// NewAuthService creates the AuthService.
func NewAuthService(usersRepo repository.UsersRepository, kv store.KV, logger *zap.Logger) AuthService {
	return &authService{
		usersRepo: usersRepo,
		kv:        kv,
		logger:    logger,
	}
}

// LoginRequest credentials plus client metadata for the audit log.
type LoginRequest struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// LoginResponse issued session.
type LoginResponse struct {
	Token     string `json:"token"`
	CSRFToken string `json:"csrf_token"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
}

// Session server-side session state kept in the KV store.
type Session struct {
	UserID    string `json:"user_id"`
	CSRFToken string `json:"csrf_token"`
}

func sessionKey(token string) string { return "session:" + token }

// Login verifies credentials and issues a session token.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		s.logger.Warn("Login failed: missing credentials",
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent),
		)
		return nil, fmt.Errorf("missing credentials")
	}

	user, err := s.usersRepo.FindUserByEmailHash(ctx, HashEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Login failed: invalid credentials",
				zap.String("ip_address", req.IPAddress),
				zap.String("user_agent", req.UserAgent),
				zap.String("reason", "unknown_account"),
			)
			return nil, fmt.Errorf("invalid credentials")
		}
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	if !bytes.Equal(user.PasswordHash, HashPassword(req.Password)) {
		s.logger.Warn("Login failed: invalid credentials",
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent),
			zap.String("reason", "bad_password"),
		)
		return nil, fmt.Errorf("invalid credentials")
	}

	session := Session{
		UserID:    user.UserID,
		CSRFToken: uuid.NewString(),
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	token := uuid.NewString()
	if err := s.kv.Set(ctx, sessionKey(token), string(payload), sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.UserID),
		zap.String("ip_address", req.IPAddress),
	)

	return &LoginResponse{
		Token:     token,
		CSRFToken: session.CSRFToken,
		UserID:    user.UserID,
		Email:     user.Email,
		FullName:  user.FullName(),
	}, nil
}

// Logout drops the session; missing tokens are a no-op.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.kv.Del(ctx, sessionKey(token))
}

// ResolveSession loads the session for a token.
func (s *authService) ResolveSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	payload, err := s.kv.Get(ctx, sessionKey(token))
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, ErrInvalidSession
	}
	if session.UserID == "" {
		return nil, ErrInvalidSession
	}
	return &session, nil
}

// SeedDemoUser creates the demo login when it does not exist yet.
func (s *authService) SeedDemoUser(ctx context.Context) error {
	_, err := s.usersRepo.FindUserByEmailHash(ctx, HashEmail(DemoUserEmail))
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Error seeding demo login user", zap.Error(err))
		return fmt.Errorf("failed to check demo user: %w", err)
	}

	user := &domain.AppUser{
		Email:        DemoUserEmail,
		FirstName:    "Demo",
		LastName:     "User",
		EmailHash:    HashEmail(DemoUserEmail),
		PasswordHash: HashPassword(demoUserPassword),
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.usersRepo.CreateUser(ctx, user); err != nil {
		// Lost a race with another instance seeding the same account.
		if errors.Is(err, repository.ErrConflict) {
			return nil
		}
		s.logger.Error("Error seeding demo login user", zap.Error(err))
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	s.logger.Info("Seeded demo login user", zap.String("email", DemoUserEmail))
	return nil
}
