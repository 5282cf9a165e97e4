package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// minLedgerTTL keeps an entry alive for tokens that are about to expire.
const minLedgerTTL = time.Second

// ResetLedger records redeemed password-reset tokens until they expire.
// Key format: reset:used:<token id>
type ResetLedger struct {
	client redis.UniversalClient
}

// NewResetLedger creates a ResetLedger wrapping the given Redis client.
func NewResetLedger(client redis.UniversalClient) *ResetLedger {
	return &ResetLedger{client: client}
}

// IsUsed reports whether the token has already been redeemed.
func (l *ResetLedger) IsUsed(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, ledgerKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("reset ledger check: %w", err)
	}
	return n > 0, nil
}

// MarkUsed records the token as redeemed for ttl, the token's remaining lifetime.
func (l *ResetLedger) MarkUsed(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl < minLedgerTTL {
		ttl = minLedgerTTL
	}
	if err := l.client.Set(ctx, ledgerKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("reset ledger mark: %w", err)
	}
	return nil
}

func ledgerKey(tokenID string) string {
	return "reset:used:" + tokenID
}
