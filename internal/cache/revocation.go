package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	// revokedPrefix is the Redis key prefix for revoked token ids.
	revokedPrefix = "token:revoked:"
	// defaultRevocationTTL bounds denylist entries for unexpiring tokens.
	// Expiring tokens only need to stay on the list until their exp claim.
	defaultRevocationTTL = 30 * 24 * time.Hour
)

// RevokeToken adds a token id (jti) to the revocation list.
// ttl should match the remaining token lifetime; pass zero for tokens
// issued without an exp claim.
func (c *Cache) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultRevocationTTL
	}

	key := revokedPrefix + tokenID
	if err := c.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether a token id is on the revocation list.
func (c *Cache) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := revokedPrefix + tokenID

	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}
