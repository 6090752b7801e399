package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSessionAlreadyActive = errors.New("another login is already active on this account")
	ErrSessionInvalidated   = errors.New("login session invalidated")
)

// TokenType distinguishes candidate tokens from back-office tokens.
type TokenType string

const (
	TokenTypeUser  TokenType = "user"
	TokenTypeAdmin TokenType = "admin"
)

// Claims is the JWT payload. Permissions are only present on admin tokens;
// candidate authorization needs nothing beyond the user id.
type Claims struct {
	jwt.RegisteredClaims
	TokenType   TokenType `json:"token_type"`
	UserID      int64     `json:"user_id"`
	Permissions []string  `json:"permissions,omitempty"`
}

// AuthService owns password hashing, token issuance and the single-device
// login registry in Redis.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService wires the auth service to its config and Redis client.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// HashPassword derives a bcrypt hash at the configured cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a stored hash. The
// mismatch reason is deliberately not surfaced.
func (s *AuthService) CheckPassword(hash, password string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateUserToken issues a candidate JWT and records its JTI as the one
// active login. A second login while the registry entry lives is rejected
// until logout, expiry, or an admin reset.
func (s *AuthService) GenerateUserToken(ctx context.Context, userID int64) (string, error) {
	loginKey := config.CacheKey.UserLoginKey(userID)

	active, err := s.rdb.Get(ctx, loginKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("check login: %w", err)
	}
	if active != "" {
		return "", ErrSessionAlreadyActive
	}

	jti := uuid.New().String()
	signed, err := s.signClaims(userID, jti, TokenTypeUser, nil)
	if err != nil {
		return "", err
	}

	// The registry entry expires together with the JWT.
	if err := s.rdb.Set(ctx, loginKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store login: %w", err)
	}
	return signed, nil
}

// GenerateAdminToken issues a back-office JWT with permission codes baked
// in. Admin logins are not single-device.
func (s *AuthService) GenerateAdminToken(adminID int64, permissions []string) (string, error) {
	return s.signClaims(adminID, uuid.New().String(), TokenTypeAdmin, permissions)
}

func (s *AuthService) signClaims(id int64, jti string, typ TokenType, permissions []string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType:   typ,
		UserID:      id,
		Permissions: permissions,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a JWT and returns its claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateUserSession confirms the token's JTI is still the registered
// login for this user. A missing or different JTI means the login was
// superseded or reset.
func (s *AuthService) ValidateUserSession(ctx context.Context, userID int64, jti string) error {
	stored, err := s.rdb.Get(ctx, config.CacheKey.UserLoginKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionInvalidated
		}
		return fmt.Errorf("check login: %w", err)
	}
	if stored != jti {
		return ErrSessionInvalidated
	}
	return nil
}

// ResetUserSession clears a user's login registry entry so they can sign in
// again (logout, or an admin unlocking a stuck account).
func (s *AuthService) ResetUserSession(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, config.CacheKey.UserLoginKey(userID)).Err()
}
