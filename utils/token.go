package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// AuthClaims is the payload embedded in both access and refresh tokens.
type AuthClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair is the access/refresh pair issued on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func AccessTokenTTL() time.Duration {
	return ttlFromEnv("ACCESS_TOKEN_EXPIRES_IN", DefaultAccessTokenTTL)
}

func RefreshTokenTTL() time.Duration {
	return ttlFromEnv("REFRESH_TOKEN_EXPIRES_IN", DefaultRefreshTokenTTL)
}

func ttlFromEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := ParseExpiry(v); err == nil {
			return d
		}
	}
	return fallback
}

// ParseExpiry parses expiry strings like "30m", "1h", "7d", "2w".
// Day and week suffixes are accepted on top of time.ParseDuration
// because token lifetimes are configured in those units.
func ParseExpiry(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty expiry")
	}
	unit := s[len(s)-1]
	if unit == 'd' || unit == 'w' {
		value, err := strconv.Atoi(strings.TrimSpace(s[:len(s)-1]))
		if err != nil {
			return 0, fmt.Errorf("invalid expiry %q", s)
		}
		d := time.Duration(value) * 24 * time.Hour
		if unit == 'w' {
			d *= 7
		}
		return d, nil
	}
	return time.ParseDuration(s)
}

// GenerateToken signs an HS256 token for the given identity.
func GenerateToken(userID, email, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(tokenString, secret string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GenerateTokenPair issues the access/refresh pair for a user, each
// signed with its own secret and lifetime.
func GenerateTokenPair(userID, email, role string) (*TokenPair, error) {
	accessToken, err := GenerateToken(userID, email, role, os.Getenv("ACCESS_TOKEN_SECRET"), AccessTokenTTL())
	if err != nil {
		return nil, err
	}
	refreshToken, err := GenerateToken(userID, email, role, os.Getenv("REFRESH_TOKEN_SECRET"), RefreshTokenTTL())
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func ParseAccessToken(tokenString string) (*AuthClaims, error) {
	return ParseToken(tokenString, os.Getenv("ACCESS_TOKEN_SECRET"))
}

func ParseRefreshToken(tokenString string) (*AuthClaims, error) {
	return ParseToken(tokenString, os.Getenv("REFRESH_TOKEN_SECRET"))
}
