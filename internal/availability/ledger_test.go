package availability

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tably/internal/shared/faults"
	"tably/internal/tables"

	"github.com/google/uuid"
)

func testKey() Key {
	return Key{
		TableID: uuid.MustParse("3f2c9a10-58b1-4c6e-9f7d-2a4b8c1d0e11"),
		Date:    "2026-09-12",
		Shift:   tables.ShiftDinnerFirst,
	}
}

func TestHoldThenRelease(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	key := testKey()

	free, err := ledger.IsFree(ctx, key)
	if err != nil || !free {
		t.Fatalf("expected fresh key to be free, got free=%v err=%v", free, err)
	}

	if err := ledger.Hold(ctx, key, "res-1"); err != nil {
		t.Fatalf("hold failed: %v", err)
	}

	free, _ = ledger.IsFree(ctx, key)
	if free {
		t.Fatal("held key reported free")
	}

	if err := ledger.Release(ctx, key); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	free, _ = ledger.IsFree(ctx, key)
	if !free {
		t.Fatal("released key still reported held")
	}
}

func TestHoldOnHeldKeyFails(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	key := testKey()

	if err := ledger.Hold(ctx, key, "res-1"); err != nil {
		t.Fatalf("first hold failed: %v", err)
	}

	err := ledger.Hold(ctx, key, "res-2")
	if !errors.Is(err, faults.ErrHoldConflict) {
		t.Fatalf("expected hold conflict, got %v", err)
	}

	// The original holder must survive the failed attempt.
	ref, held := ledger.Holder(key)
	if !held || ref != "res-1" {
		t.Fatalf("expected holder res-1, got %q held=%v", ref, held)
	}
}

func TestConcurrentHoldsExactlyOneWinner(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	key := testKey()

	const callers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			if err := ledger.Hold(ctx, key, "caller"); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	close(start)
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestDistinctKeysDoNotConflict(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	base := testKey()
	other := base
	other.Shift = tables.ShiftDinnerSecond

	if err := ledger.Hold(ctx, base, "res-1"); err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	if err := ledger.Hold(ctx, other, "res-2"); err != nil {
		t.Fatalf("hold on distinct shift failed: %v", err)
	}
}
