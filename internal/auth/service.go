package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "team-task-backend/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims represents the claims carried by a session token
type SessionClaims struct {
	UserID   uuid.UUID `json:"user_id" example:"7b1c2f4e-8c1a-4d5e-9f1b-2a3c4d5e6f70"`
	Username string    `json:"username" example:"alice"`
	// Standard JWT fields
	jwt.RegisteredClaims `swaggerignore:"true"`
}

// Session is an issued session token
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionService issues, validates and revokes session tokens
type SessionService struct {
	config *SessionConfig
	store  TokenStore
	now    func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(config *SessionConfig, store TokenStore) (*SessionService, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	return &SessionService{
		config: config,
		store:  store,
		now:    time.Now,
	}, nil
}

// Config returns the session settings
func (s *SessionService) Config() *SessionConfig {
	return s.config
}

// Issue creates a signed session token for the user
func (s *SessionService) Issue(userID uuid.UUID, username string) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.config.TTL)
	claims := &SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Validate parses a session token and checks it has not been revoked
func (s *SessionService) Validate(ctx context.Context, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewAuthenticationError("session has expired")
		}
		return nil, apperrors.NewAuthenticationError("invalid session token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" || claims.UserID == uuid.Nil {
		return nil, apperrors.NewAuthenticationError("invalid session token")
	}

	revoked, err := s.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrSessionRevoked
	}
	return claims, nil
}

// Revoke invalidates the session for the rest of its lifetime
func (s *SessionService) Revoke(ctx context.Context, claims *SessionClaims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.store.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
