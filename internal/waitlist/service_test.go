package waitlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"tably/internal/shared/clock"
	"tably/internal/shared/faults"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository with the same compare-and-set
// transition semantics as the gorm implementation.
type fakeRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*WaitlistEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[uuid.UUID]*WaitlistEntry)}
}

func (r *fakeRepo) CreateEntry(ctx context.Context, entry *WaitlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxPosition := 0
	for _, e := range r.entries {
		if e.Date == entry.Date && e.Position > maxPosition {
			maxPosition = e.Position
		}
	}
	entry.ID = uuid.New()
	entry.Position = maxPosition + 1
	entry.Status = StatusWaiting

	stored := *entry
	r.entries[entry.ID] = &stored
	return nil
}

func (r *fakeRepo) GetEntryByID(ctx context.Context, id uuid.UUID) (*WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *e
	return &out, nil
}

func (r *fakeRepo) NextWaiting(ctx context.Context, date string, capacity int) (*WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *WaitlistEntry
	for _, e := range r.entries {
		if e.Date != date || e.Status != StatusWaiting || e.PartySize > capacity {
			continue
		}
		if best == nil || e.Position < best.Position {
			best = e
		}
	}
	if best == nil {
		return nil, nil
	}
	out := *best
	return &out, nil
}

func (r *fakeRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	for key, value := range updates {
		switch key {
		case "notified_at":
			if value == nil {
				e.NotifiedAt = nil
			} else {
				t := value.(time.Time)
				e.NotifiedAt = &t
			}
		case "resolved_at":
			t := value.(time.Time)
			e.ResolvedAt = &t
		case "channel_ref":
			e.ChannelRef = value.(string)
		}
	}
	return true, nil
}

func (r *fakeRepo) ListNotifiedBefore(ctx context.Context, cutoff time.Time, limit int) ([]WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []WaitlistEntry
	for _, e := range r.entries {
		if e.Status == StatusNotified && e.NotifiedAt != nil && e.NotifiedAt.Before(cutoff) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NotifiedAt.Before(*out[j].NotifiedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) CountByStatus(ctx context.Context, date string) (map[Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[Status]int)
	for _, e := range r.entries {
		if e.Date == date {
			out[e.Status]++
		}
	}
	return out, nil
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	calls int
}

func (s *fakeSender) SendMessage(ctx context.Context, destination, body string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return "", fmt.Errorf("%w: broker down", faults.ErrServiceUnavailable)
	}
	s.sent = append(s.sent, destination)
	return fmt.Sprintf("msg-%d", s.calls), nil
}

const testDate = "2026-09-18"

func newTestService(t *testing.T) (Service, *fakeRepo, *fakeSender, *clock.Fake) {
	t.Helper()
	repo := newFakeRepo()
	sender := &fakeSender{}
	clk := clock.NewFake(time.Date(2026, 9, 18, 18, 0, 0, 0, time.UTC))
	svc := NewService(repo, sender, clk, nil, DefaultConfirmWindow, 100)
	return svc, repo, sender, clk
}

func addEntry(t *testing.T, svc Service, name string, partySize int) *WaitlistEntry {
	t.Helper()
	entry, err := svc.Add(context.Background(), AddInput{
		CustomerName: name,
		Contact:      "+34600000000",
		Date:         testDate,
		Time:         "21:00",
		PartySize:    partySize,
	})
	if err != nil {
		t.Fatalf("add %s failed: %v", name, err)
	}
	return entry
}

func TestAddAssignsSequentialPositionsPerDate(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	first := addEntry(t, svc, "Ana", 2)
	second := addEntry(t, svc, "Luis", 4)
	third := addEntry(t, svc, "Marta", 3)

	if first.Position != 1 || second.Position != 2 || third.Position != 3 {
		t.Errorf("positions must grow monotonically per date: %d %d %d",
			first.Position, second.Position, third.Position)
	}

	other, err := svc.Add(context.Background(), AddInput{
		CustomerName: "Pedro", Contact: "+34611111111",
		Date: "2026-09-19", PartySize: 2,
	})
	if err != nil {
		t.Fatalf("add on other date failed: %v", err)
	}
	if other.Position != 1 {
		t.Errorf("a new date starts at position 1, got %d", other.Position)
	}
}

func TestAddValidatesInput(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	cases := []AddInput{
		{Contact: "+34", Date: testDate, PartySize: 2},
		{CustomerName: "Ana", Date: testDate, PartySize: 2},
		{CustomerName: "Ana", Contact: "+34", Date: "bad", PartySize: 2},
		{CustomerName: "Ana", Contact: "+34", Date: testDate, PartySize: 0},
	}
	for i, input := range cases {
		if _, err := svc.Add(context.Background(), input); !errors.Is(err, faults.ErrInvalidRequest) {
			t.Errorf("case %d: expected invalid request, got %v", i, err)
		}
	}
}

func TestNotifyNextPicksLowestFittingPosition(t *testing.T) {
	svc, repo, sender, _ := newTestService(t)

	big := addEntry(t, svc, "Grupo", 8)
	small := addEntry(t, svc, "Pareja", 2)

	notified, err := svc.NotifyNext(context.Background(), testDate, "21:00", 4)
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if notified == nil || notified.ID != small.ID {
		t.Fatalf("expected the fitting party of 2 to be notified, got %+v", notified)
	}
	if notified.Status != StatusNotified || notified.NotifiedAt == nil {
		t.Errorf("notified entry must carry status and timestamp: %+v", notified)
	}
	if notified.ChannelRef == "" {
		t.Error("notified entry must record the channel reference")
	}
	if len(sender.sent) != 1 {
		t.Errorf("expected one message, got %d", len(sender.sent))
	}

	stored, _ := repo.GetEntryByID(context.Background(), big.ID)
	if stored.Status != StatusWaiting {
		t.Errorf("the larger party must stay WAITING, got %s", stored.Status)
	}
}

func TestNotifyNextWithEmptyQueueReturnsNil(t *testing.T) {
	svc, _, sender, _ := newTestService(t)

	notified, err := svc.NotifyNext(context.Background(), testDate, "21:00", 4)
	if err != nil || notified != nil {
		t.Fatalf("empty queue should yield nil, got %+v %v", notified, err)
	}
	if sender.calls != 0 {
		t.Error("no message should be sent for an empty queue")
	}
}

func TestNotifyNextSendFailureRevertsEntry(t *testing.T) {
	svc, repo, sender, _ := newTestService(t)
	sender.fail = true

	entry := addEntry(t, svc, "Ana", 2)

	_, err := svc.NotifyNext(context.Background(), testDate, "21:00", 4)
	if !errors.Is(err, faults.ErrServiceUnavailable) {
		t.Fatalf("expected service unavailable, got %v", err)
	}

	stored, _ := repo.GetEntryByID(context.Background(), entry.ID)
	if stored.Status != StatusWaiting || stored.NotifiedAt != nil {
		t.Errorf("failed send must leave the entry WAITING: %+v", stored)
	}
}

func TestConfirmOnlyFromNotified(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	entry := addEntry(t, svc, "Ana", 2)

	// Confirming a WAITING entry is an invalid transition.
	if _, err := svc.Confirm(context.Background(), entry.ID); !errors.Is(err, faults.ErrInvalidTransition) {
		t.Fatalf("confirm from WAITING must fail: %v", err)
	}

	if _, err := svc.NotifyNext(context.Background(), testDate, "21:00", 4); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	done, err := svc.Confirm(context.Background(), entry.ID)
	if err != nil || !done {
		t.Fatalf("confirm from NOTIFIED should succeed: %v", err)
	}

	// Terminal states are immutable; repeated calls fail the same way.
	for i := 0; i < 2; i++ {
		if _, err := svc.Confirm(context.Background(), entry.ID); !errors.Is(err, faults.ErrInvalidTransition) {
			t.Errorf("repeat confirm %d must keep failing with invalid transition: %v", i, err)
		}
	}
	if _, err := svc.Cancel(context.Background(), entry.ID); !errors.Is(err, faults.ErrInvalidTransition) {
		t.Errorf("cancel after confirm must fail: %v", err)
	}
}

func TestCancelFromNotified(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	entry := addEntry(t, svc, "Ana", 2)
	if _, err := svc.NotifyNext(context.Background(), testDate, "21:00", 4); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	done, err := svc.Cancel(context.Background(), entry.ID)
	if err != nil || !done {
		t.Fatalf("cancel from NOTIFIED should succeed: %v", err)
	}

	stored, _ := repo.GetEntryByID(context.Background(), entry.ID)
	if stored.Status != StatusCancelled || stored.ResolvedAt == nil {
		t.Errorf("cancelled entry must be terminal with a timestamp: %+v", stored)
	}
}

func TestExpiryBoundary(t *testing.T) {
	svc, repo, _, clk := newTestService(t)

	entry := addEntry(t, svc, "Ana", 2)
	if _, err := svc.NotifyNext(context.Background(), testDate, "21:00", 4); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	// One second before the window closes nothing expires.
	clk.Advance(14*time.Minute + 59*time.Second)
	expired, err := svc.SweepExpired(context.Background())
	if err != nil || expired != 0 {
		t.Fatalf("nothing should expire at 14:59, got %d %v", expired, err)
	}
	stored, _ := repo.GetEntryByID(context.Background(), entry.ID)
	if stored.Status != StatusNotified {
		t.Fatalf("entry must still be NOTIFIED at 14:59, got %s", stored.Status)
	}

	// Two seconds later the window has fully elapsed.
	clk.Advance(2 * time.Second)
	expired, err = svc.SweepExpired(context.Background())
	if err != nil || expired != 1 {
		t.Fatalf("expected one expiry at 15:01, got %d %v", expired, err)
	}
	stored, _ = repo.GetEntryByID(context.Background(), entry.ID)
	if stored.Status != StatusExpired {
		t.Fatalf("entry must be EXPIRED after the sweep, got %s", stored.Status)
	}

	// The expired offer can no longer be confirmed, repeatably.
	for i := 0; i < 2; i++ {
		if _, err := svc.Confirm(context.Background(), entry.ID); !errors.Is(err, faults.ErrInvalidTransition) {
			t.Errorf("confirm %d after expiry must fail with invalid transition: %v", i, err)
		}
	}

	// A second sweep finds nothing left to do.
	if expired, _ := svc.SweepExpired(context.Background()); expired != 0 {
		t.Errorf("repeat sweep must expire nothing, got %d", expired)
	}
}

func TestSweepLeavesConcurrentlyConfirmedAlone(t *testing.T) {
	svc, repo, _, clk := newTestService(t)

	confirmed := addEntry(t, svc, "Ana", 2)
	expiring := addEntry(t, svc, "Luis", 2)
	for i := 0; i < 2; i++ {
		if _, err := svc.NotifyNext(context.Background(), testDate, "21:00", 4); err != nil {
			t.Fatalf("notify %d failed: %v", i, err)
		}
	}

	clk.Advance(16 * time.Minute)

	// The customer confirms just before the sweep reaches their entry.
	if _, err := svc.Confirm(context.Background(), confirmed.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	expired, err := svc.SweepExpired(context.Background())
	if err != nil || expired != 1 {
		t.Fatalf("expected exactly one expiry, got %d %v", expired, err)
	}

	storedConfirmed, _ := repo.GetEntryByID(context.Background(), confirmed.ID)
	if storedConfirmed.Status != StatusConfirmed {
		t.Errorf("sweep must not demote a confirmed entry, got %s", storedConfirmed.Status)
	}
	storedExpired, _ := repo.GetEntryByID(context.Background(), expiring.ID)
	if storedExpired.Status != StatusExpired {
		t.Errorf("unconfirmed entry must expire, got %s", storedExpired.Status)
	}
}

func TestStatsCountsByStatus(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	addEntry(t, svc, "Ana", 2)
	addEntry(t, svc, "Luis", 2)
	if _, err := svc.NotifyNext(context.Background(), testDate, "21:00", 4); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	stats, err := svc.Stats(context.Background(), testDate)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats[StatusWaiting] != 1 || stats[StatusNotified] != 1 {
		t.Errorf("unexpected stats: %v", stats)
	}
}
