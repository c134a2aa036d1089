package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/agroledger/internal/domain"
)

func TestPartyGuardAcquireIsExclusive(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	guard := NewPartyGuard(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	release, err := guard.Acquire(ctx, "party-1")
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	if _, err := guard.Acquire(ctx, "party-1"); !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	other, err := guard.Acquire(ctx, "party-2")
	if err != nil {
		t.Fatalf("other party must not be blocked: %v", err)
	}
	other()

	release()
	release()

	again, err := guard.Acquire(ctx, "party-1")
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	again()
}

func TestPartyGuardLockExpires(t *testing.T) {
	guard, mr := newTestGuard(t)
	ctx := context.Background()

	stale, err := guard.Acquire(ctx, "party-1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	mr.FastForward(3 * time.Second)

	fresh, err := guard.Acquire(ctx, "party-1")
	if err != nil {
		t.Fatalf("expected expired lock to be free, got %v", err)
	}

	// The stale holder must not delete the new holder's lock.
	stale()
	if _, err := guard.Acquire(ctx, "party-1"); !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("stale release removed a foreign lock: %v", err)
	}
	fresh()
}

func TestPartyGuardHaltAndRelease(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	guard := NewPartyGuard(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	halted, err := guard.IsHalted(ctx, "party-1")
	if err != nil || halted {
		t.Fatalf("expected party not halted, got halted=%v err=%v", halted, err)
	}

	if err := guard.Halt(ctx, "party-1", "serial 4 balance mismatch"); err != nil {
		t.Fatalf("halt failed: %v", err)
	}

	halted, err = guard.IsHalted(ctx, "party-1")
	if err != nil || !halted {
		t.Fatalf("expected party halted, got halted=%v err=%v", halted, err)
	}

	reason, err := guard.HaltReason(ctx, "party-1")
	if err != nil || reason == "" {
		t.Fatalf("expected halt reason, got %q err=%v", reason, err)
	}

	if err := guard.Release(ctx, "party-1"); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	halted, err = guard.IsHalted(ctx, "party-1")
	if err != nil || halted {
		t.Fatalf("expected party released, got halted=%v err=%v", halted, err)
	}
}
