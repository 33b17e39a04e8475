package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:access:"

// Blacklist records revoked access tokens in Redis until they would have
// expired anyway. A Blacklist with a nil client is a no-op.
type Blacklist struct {
	client *redis.Client
}

func NewBlacklist(client *redis.Client) *Blacklist {
	return &Blacklist{client: client}
}

// Enabled reports whether revocations are persisted.
func (b *Blacklist) Enabled() bool {
	return b != nil && b.client != nil
}

// Revoke blacklists token until the given expiry. Tokens already past their
// expiry are kept for one second so a racing request is still rejected.
func (b *Blacklist) Revoke(ctx context.Context, token string, until time.Time) error {
	if !b.Enabled() {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		ttl = time.Second
	}
	return b.client.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
}

// IsRevoked returns true when token is on the blacklist.
func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	if !b.Enabled() {
		return false, nil
	}
	exists, err := b.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Ping checks the Redis connection; used by the readiness probe.
func (b *Blacklist) Ping(ctx context.Context) error {
	if !b.Enabled() {
		return nil
	}
	return b.client.Ping(ctx).Err()
}
