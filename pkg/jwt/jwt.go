package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// ErrTokenExpired is returned when a token has expired.
var ErrTokenExpired = errors.New("token is expired")

// ErrTokenRevoked is returned when a refresh token was blacklisted after rotation.
var ErrTokenRevoked = errors.New("refresh token is revoked")

// Claims defines the custom JWT claims structure.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenManager provides methods for generating, validating and revoking JWT tokens.
type TokenManager interface {
	// GenerateTokens returns an access token and a refresh token for the user.
	GenerateTokens(userID uint, email string, accessTokenExp, refreshTokenExp time.Duration) (string, string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	// RevokeRefreshToken blacklists a superseded refresh token until it would
	// naturally expire. A no-op when Redis is not configured.
	RevokeRefreshToken(tokenString string) error
}

// NewTokenManager creates a TokenManager backed by Redis for refresh-token revocation.
func NewTokenManager(secretKey string, redisClient *redis.Client) TokenManager {
	return &tokenManager{secretKey: secretKey, redis: redisClient}
}

// NewTokenManagerWithoutRedis creates a TokenManager without a revocation
// blacklist (useful in tests).
func NewTokenManagerWithoutRedis(secretKey string) TokenManager {
	return &tokenManager{secretKey: secretKey}
}

type tokenManager struct {
	secretKey string
	redis     *redis.Client
}

// GenerateTokens creates a new access and refresh JWT token pair for a user.
func (j *tokenManager) GenerateTokens(userID uint, email string, accessTokenExp, refreshTokenExp time.Duration) (string, string, error) {
	accessTokenStr, err := j.sign(userID, email, tokenTypeAccess, accessTokenExp)
	if err != nil {
		return "", "", err
	}
	refreshTokenStr, err := j.sign(userID, email, tokenTypeRefresh, refreshTokenExp)
	if err != nil {
		return "", "", err
	}
	return accessTokenStr, refreshTokenStr, nil
}

func (j *tokenManager) sign(userID uint, email, tokenType string, exp time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(exp)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ValidateAccessToken parses and validates an access token.
func (j *tokenManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, tokenTypeAccess)
}

// ValidateRefreshToken parses and validates a refresh token and checks the
// Redis blacklist when configured.
func (j *tokenManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	if j.redis != nil {
		revoked, err := j.isRevoked(tokenString)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return j.validate(tokenString, tokenTypeRefresh)
}

func (j *tokenManager) validate(tokenString, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != expectedType {
		return nil, errors.New("invalid token type")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now().UTC()) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

// RevokeRefreshToken stores the refresh token in the Redis blacklist until it expires.
func (j *tokenManager) RevokeRefreshToken(tokenString string) error {
	if j.redis == nil {
		return nil
	}
	claims, err := j.validate(tokenString, tokenTypeRefresh)
	if err != nil {
		// Already invalid tokens need no blacklist entry.
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return j.redis.Set(context.Background(), j.redisKey(tokenString), "revoked", ttl).Err()
}

func (j *tokenManager) isRevoked(tokenString string) (bool, error) {
	res, err := j.redis.Exists(context.Background(), j.redisKey(tokenString)).Result()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// redisKey generates a Redis key for a blacklisted token.
func (j *tokenManager) redisKey(tokenString string) string {
	return "jwt:blacklist:" + tokenString
}
