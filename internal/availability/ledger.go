package availability

import (
	"context"
	"fmt"
	"sync"

	"tably/internal/shared/faults"
	"tably/internal/tables"

	"github.com/google/uuid"
)

// Key identifies one occupancy slot of the venue.
type Key struct {
	TableID uuid.UUID
	Date    string // local date, 2006-01-02
	Shift   tables.Shift
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.TableID, k.Date, k.Shift)
}

// Ledger is the occupancy ledger. A key has at most one holder at any
// time; Hold is a compare-and-set and fails with faults.ErrHoldConflict
// when the key is already held, never overwriting silently.
type Ledger interface {
	IsFree(ctx context.Context, key Key) (bool, error)
	Hold(ctx context.Context, key Key, referenceID string) error
	Release(ctx context.Context, key Key) error
}

// MemoryLedger is the in-process ledger: a keyed map guarded by a
// mutex so check-then-hold is atomic per call.
type MemoryLedger struct {
	mu      sync.Mutex
	holders map[Key]string
}

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{holders: make(map[Key]string)}
}

func (l *MemoryLedger) IsFree(ctx context.Context, key Key) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, held := l.holders[key]
	return !held, nil
}

func (l *MemoryLedger) Hold(ctx context.Context, key Key, referenceID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if holder, held := l.holders[key]; held {
		return fmt.Errorf("%w: key %s held by %s", faults.ErrHoldConflict, key, holder)
	}
	l.holders[key] = referenceID
	return nil
}

func (l *MemoryLedger) Release(ctx context.Context, key Key) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.holders, key)
	return nil
}

// Holder returns the reference holding a key, for diagnostics.
func (l *MemoryLedger) Holder(key Key) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ref, held := l.holders[key]
	return ref, held
}
