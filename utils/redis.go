package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis only has string type, there is no boolean or int, so we use "1"
// to represent true.
const redisTrue = "1"

var redisClient *redis.Client

var redisCtx = context.Background()

// InitRedis connects the refresh-token allowlist store. When REDIS_HOST
// is unset the allowlist is disabled and refresh tokens are validated
// by signature and expiry alone.
func InitRedis() {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
}

func refreshTokenKey(token string) string {
	return "refresh_" + token
}

// StoreRefreshToken adds a freshly issued refresh token to the
// allowlist for its full lifetime.
func StoreRefreshToken(token string, ttl time.Duration) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Set(redisCtx, refreshTokenKey(token), redisTrue, ttl).Err()
}

// IsRefreshTokenAllowed reports whether a refresh token is still on the
// allowlist. Tokens rotated away or revoked by logout are rejected.
func IsRefreshTokenAllowed(token string) bool {
	if redisClient == nil {
		return true
	}
	v, err := redisClient.Get(redisCtx, refreshTokenKey(token)).Result()
	return err == nil && v == redisTrue
}

// RevokeRefreshToken drops a refresh token from the allowlist. Called
// on logout and on rotation.
func RevokeRefreshToken(token string) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Del(redisCtx, refreshTokenKey(token)).Err()
}
