package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tably/internal/notifications"
	"tably/internal/shared/clock"
	"tably/internal/shared/faults"
	"tably/internal/tables"
	"tably/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddInput is the data needed to join the waitlist.
type AddInput struct {
	CustomerName   string
	Contact        string
	Date           string // 2006-01-02
	Time           string // HH:MM
	PartySize      int
	ZonePreference *tables.Zone
}

type Service interface {
	Add(ctx context.Context, input AddInput) (*WaitlistEntry, error)
	NotifyNext(ctx context.Context, date, timeStr string, capacity int) (*WaitlistEntry, error)
	Confirm(ctx context.Context, id uuid.UUID) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
	SweepExpired(ctx context.Context) (int, error)
	Stats(ctx context.Context, date string) (map[Status]int, error)
}

type service struct {
	repo          Repository
	sender        notifications.Sender
	clock         clock.Clock
	logger        *logger.Logger
	confirmWindow time.Duration
	sweepBatch    int
}

// NewService creates the waitlist manager.
func NewService(repo Repository, sender notifications.Sender, clk clock.Clock, log *logger.Logger, confirmWindow time.Duration, sweepBatch int) Service {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = logger.GetDefault()
	}
	if confirmWindow <= 0 {
		confirmWindow = DefaultConfirmWindow
	}
	if sweepBatch <= 0 {
		sweepBatch = 100
	}
	return &service{
		repo:          repo,
		sender:        sender,
		clock:         clk,
		logger:        log,
		confirmWindow: confirmWindow,
		sweepBatch:    sweepBatch,
	}
}

func (s *service) Add(ctx context.Context, input AddInput) (*WaitlistEntry, error) {
	if input.CustomerName == "" {
		return nil, faults.Invalidf("customer name is required")
	}
	if input.Contact == "" {
		return nil, faults.Invalidf("contact is required")
	}
	if input.PartySize < 1 {
		return nil, faults.Invalidf("party size must be at least 1, got %d", input.PartySize)
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, faults.Invalidf("date %q is not a valid YYYY-MM-DD date", input.Date)
	}
	if input.Time != "" {
		if _, err := time.Parse("15:04", input.Time); err != nil {
			return nil, faults.Invalidf("time %q is not a valid HH:MM time", input.Time)
		}
	}
	if input.ZonePreference != nil && !input.ZonePreference.IsValid() {
		return nil, faults.Invalidf("unknown zone %q", *input.ZonePreference)
	}

	entry := &WaitlistEntry{
		CustomerName:   input.CustomerName,
		Contact:        input.Contact,
		Date:           input.Date,
		Time:           input.Time,
		PartySize:      input.PartySize,
		ZonePreference: input.ZonePreference,
	}
	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create waitlist entry: %w", err)
	}
	return entry, nil
}

// NotifyNext picks the lowest-position fitting WAITING entry for the
// date, opens its confirmation window and sends the offer. Entries
// raced away by a concurrent notify are skipped. Returns nil when the
// queue holds no fitting entry.
func (s *service) NotifyNext(ctx context.Context, date, timeStr string, capacity int) (*WaitlistEntry, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, faults.Invalidf("date %q is not a valid YYYY-MM-DD date", date)
	}
	if capacity < 1 {
		return nil, faults.Invalidf("capacity must be at least 1, got %d", capacity)
	}

	for {
		entry, err := s.repo.NextWaiting(ctx, date, capacity)
		if err != nil {
			return nil, fmt.Errorf("failed to read waitlist queue: %w", err)
		}
		if entry == nil {
			return nil, nil
		}

		now := s.clock.Now()
		moved, err := s.repo.TransitionStatus(ctx, entry.ID, StatusWaiting, StatusNotified,
			map[string]interface{}{"notified_at": now})
		if err != nil {
			return nil, fmt.Errorf("failed to notify entry: %w", err)
		}
		if !moved {
			// Lost the race for this entry; try the next one.
			continue
		}
		entry.Status = StatusNotified
		entry.NotifiedAt = &now

		when := entry.Time
		if timeStr != "" {
			when = timeStr
		}
		body := fmt.Sprintf("Hola %s, tenemos mesa para %d el %s a las %s. Confirma en %d minutos o perderás el turno.",
			entry.CustomerName, entry.PartySize, entry.Date, when, int(s.confirmWindow.Minutes()))

		ref, err := s.sender.SendMessage(ctx, entry.Contact, body)
		if err != nil {
			// Undo the window; the customer never saw the offer.
			if _, revertErr := s.repo.TransitionStatus(ctx, entry.ID, StatusNotified, StatusWaiting,
				map[string]interface{}{"notified_at": nil}); revertErr != nil {
				s.logger.LogDegraded(ctx, "waitlist_notify_revert", revertErr)
			}
			return nil, fmt.Errorf("failed to send waitlist offer: %w", err)
		}

		if _, err := s.repo.TransitionStatus(ctx, entry.ID, StatusNotified, StatusNotified,
			map[string]interface{}{"channel_ref": ref}); err != nil {
			s.logger.LogDegraded(ctx, "waitlist_channel_ref", err)
		}
		entry.ChannelRef = ref

		s.logger.LogWaitlistNotified(ctx, entry.ID.String(), entry.Position, ref)
		return entry, nil
	}
}

func (s *service) Confirm(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.resolve(ctx, id, StatusConfirmed)
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.resolve(ctx, id, StatusCancelled)
}

// resolve finalizes a NOTIFIED entry. Any other starting status fails
// with an invalid transition, and repeated calls keep failing the same
// way; the compare-and-set protects against the concurrent sweep.
func (s *service) resolve(ctx context.Context, id uuid.UUID, target Status) (bool, error) {
	entry, err := s.repo.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, faults.Invalidf("unknown waitlist entry %s", id)
		}
		return false, fmt.Errorf("failed to load waitlist entry: %w", err)
	}
	if !entry.Status.CanTransitionTo(target) {
		return false, fmt.Errorf("%w: %s from %s", faults.ErrInvalidTransition, target, entry.Status)
	}

	now := s.clock.Now()
	moved, err := s.repo.TransitionStatus(ctx, id, StatusNotified, target,
		map[string]interface{}{"resolved_at": now})
	if err != nil {
		return false, fmt.Errorf("failed to finalize waitlist entry: %w", err)
	}
	if !moved {
		return false, fmt.Errorf("%w: %s, entry no longer notified", faults.ErrInvalidTransition, target)
	}
	return true, nil
}

// SweepExpired expires every NOTIFIED entry whose confirmation window
// has fully elapsed. Entries confirmed or cancelled mid-sweep are left
// alone by the per-entry compare-and-set.
func (s *service) SweepExpired(ctx context.Context) (int, error) {
	cutoff := s.clock.Now().Add(-s.confirmWindow)
	entries, err := s.repo.ListNotifiedBefore(ctx, cutoff, s.sweepBatch)
	if err != nil {
		return 0, fmt.Errorf("failed to scan notified entries: %w", err)
	}

	expired := 0
	now := s.clock.Now()
	for _, entry := range entries {
		moved, err := s.repo.TransitionStatus(ctx, entry.ID, StatusNotified, StatusExpired,
			map[string]interface{}{"resolved_at": now})
		if err != nil {
			return expired, fmt.Errorf("failed to expire entry %s: %w", entry.ID, err)
		}
		if moved {
			expired++
		}
	}

	if expired > 0 {
		s.logger.LogWaitlistSweep(ctx, expired)
	}
	return expired, nil
}

func (s *service) Stats(ctx context.Context, date string) (map[Status]int, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, faults.Invalidf("date %q is not a valid YYYY-MM-DD date", date)
	}
	return s.repo.CountByStatus(ctx, date)
}
