package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/agroledger/internal/domain"
)

// DefaultLockTTL bounds how long a crashed holder can keep a party locked.
const DefaultLockTTL = 30 * time.Second

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PartyGuard implements usecase.PartyGuard with SET NX PX locks shared by
// every service instance.
type PartyGuard struct {
	client     *redis.Client
	lockPrefix string
	haltPrefix string
	ttl        time.Duration
	logger     zerolog.Logger
}

// NewPartyGuard creates a new PartyGuard.
func NewPartyGuard(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *PartyGuard {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &PartyGuard{
		client:     client,
		lockPrefix: "agroledger:lock:party:",
		haltPrefix: "agroledger:halt:party:",
		ttl:        ttl,
		logger:     logger,
	}
}

// Acquire takes the party lock without waiting. A held lock yields
// domain.ErrConcurrentModification.
func (g *PartyGuard) Acquire(ctx context.Context, partyID string) (func(), error) {
	key := g.lockPrefix + partyID
	token := ulid.Make().String()

	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire party lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: party %s is locked", domain.ErrConcurrentModification, partyID)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// The caller's context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.client, []string{key}, token).Err(); err != nil {
			g.logger.Warn().Err(err).Str("party_id", partyID).Msg("failed to release party lock")
		}
	}, nil
}

// Halt records the party as refusing writes until Release.
func (g *PartyGuard) Halt(ctx context.Context, partyID, reason string) error {
	value := time.Now().UTC().Format(time.RFC3339) + " " + reason
	return g.client.Set(ctx, g.haltPrefix+partyID, value, 0).Err()
}

// IsHalted reports whether the party refuses writes.
func (g *PartyGuard) IsHalted(ctx context.Context, partyID string) (bool, error) {
	err := g.client.Get(ctx, g.haltPrefix+partyID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HaltReason returns the recorded reason, empty when the party is not halted.
func (g *PartyGuard) HaltReason(ctx context.Context, partyID string) (string, error) {
	reason, err := g.client.Get(ctx, g.haltPrefix+partyID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return reason, err
}

// Release lifts a halt.
func (g *PartyGuard) Release(ctx context.Context, partyID string) error {
	return g.client.Del(ctx, g.haltPrefix+partyID).Err()
}
