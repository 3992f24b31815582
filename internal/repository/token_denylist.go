package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked refresh tokens until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type redisDenylist struct {
	client *redis.Client
}

// NewTokenDenylist returns a Redis-backed implementation. Tokens are stored
// by digest, never verbatim.
func NewTokenDenylist(client *redis.Client) TokenDenylist {
	return &redisDenylist{client: client}
}

func (d *redisDenylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already past expiry; verification will reject it anyway.
		return nil
	}
	return d.client.Set(ctx, denylistKey(token), "revoked", ttl).Err()
}

func (d *redisDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	count, err := d.client.Exists(ctx, denylistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revoked:" + hex.EncodeToString(sum[:])
}
