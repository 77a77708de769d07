package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateEntry stores the entry with the next sequential position
	// for its date.
	CreateEntry(ctx context.Context, entry *WaitlistEntry) error
	GetEntryByID(ctx context.Context, id uuid.UUID) (*WaitlistEntry, error)

	// NextWaiting returns the lowest-position WAITING entry for the
	// date whose party fits the capacity, or nil when none does.
	NextWaiting(ctx context.Context, date string, capacity int) (*WaitlistEntry, error)

	// TransitionStatus moves an entry from one status to another with a
	// per-entry compare-and-set: it reports whether the row actually
	// changed, so concurrent transitions cannot clobber each other.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) (bool, error)

	// ListNotifiedBefore returns NOTIFIED entries whose window opened
	// before the cutoff, oldest first, bounded by limit.
	ListNotifiedBefore(ctx context.Context, cutoff time.Time, limit int) ([]WaitlistEntry, error)

	CountByStatus(ctx context.Context, date string) (map[Status]int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateEntry(ctx context.Context, entry *WaitlistEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPosition int
		err := tx.Model(&WaitlistEntry{}).
			Where("date = ?", entry.Date).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPosition).Error
		if err != nil {
			return err
		}
		entry.Position = maxPosition + 1
		entry.Status = StatusWaiting
		return tx.Create(entry).Error
	})
}

func (r *repository) GetEntryByID(ctx context.Context, id uuid.UUID) (*WaitlistEntry, error) {
	var entry WaitlistEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) NextWaiting(ctx context.Context, date string, capacity int) (*WaitlistEntry, error) {
	var entry WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("date = ? AND status = ? AND party_size <= ?", date, StatusWaiting, capacity).
		Order("position ASC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&WaitlistEntry{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListNotifiedBefore(ctx context.Context, cutoff time.Time, limit int) ([]WaitlistEntry, error) {
	var entries []WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("status = ? AND notified_at < ?", StatusNotified, cutoff).
		Order("notified_at ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) CountByStatus(ctx context.Context, date string) (map[Status]int, error) {
	type row struct {
		Status Status
		Count  int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&WaitlistEntry{}).
		Select("status, COUNT(*) as count").
		Where("date = ?", date).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[Status]int, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}
