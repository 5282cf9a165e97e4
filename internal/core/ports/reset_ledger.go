package ports

import (
	"context"
	"time"
)

// ResetLedger records password-reset tokens that have been redeemed so a
// signed token cannot be replayed before it expires.
type ResetLedger interface {
	IsUsed(ctx context.Context, tokenID string) (bool, error)
	MarkUsed(ctx context.Context, tokenID string, ttl time.Duration) error
}
