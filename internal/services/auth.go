package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
	"github.com/spinshelf/spinshelf-backend/internal/repos"
	"github.com/spinshelf/spinshelf-backend/internal/sanitize"
)

type AuthService struct {
	log    *logger.Logger
	users  *repos.UserRepo
	secret []byte
	ttl    time.Duration
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func NewAuthService(log *logger.Logger, users *repos.UserRepo) (*AuthService, error) {
	secret := envutil.Str("JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return &AuthService{
		log:    log,
		users:  users,
		secret: []byte(secret),
		ttl:    envutil.Dur("JWT_TTL", 24*time.Hour),
	}, nil
}

func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.BadRequest("invalid_email", fmt.Errorf("invalid email"))
	}
	if len(password) < 8 {
		return nil, apierr.BadRequest("weak_password", fmt.Errorf("password must be at least 8 characters"))
	}
	if err := sanitize.StringLength(displayName, 200, "display_name"); err != nil {
		return nil, apierr.BadRequest("display_name_too_long", err)
	}
	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, apierr.BadRequest("email_taken", fmt.Errorf("email already registered"))
	} else if !errors.Is(err, repos.ErrNotFound) {
		return nil, apierr.Internal("user_lookup", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Internal("hash_password", err)
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, apierr.Internal("create_user", err)
	}
	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, apierr.Internal("issue_token", err)
	}
	s.log.Info("user registered", "user_id", u.ID.String())
	return &AuthResult{Token: token, User: u}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.ByEmail(ctx, email)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, apierr.Unauthorized("invalid_credentials", fmt.Errorf("invalid email or password"))
	}
	if err != nil {
		return nil, apierr.Internal("user_lookup", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apierr.Unauthorized("invalid_credentials", fmt.Errorf("invalid email or password"))
	}
	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, apierr.Internal("issue_token", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates an HS256 bearer token and returns the user id.
func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}
	claims, ok := tok.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token subject")
	}
	return id, nil
}
