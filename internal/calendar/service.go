package calendar

import (
	"context"
	"sync"
	"time"

	"tably/pkg/logger"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Service answers holiday and demand questions for arbitrary dates.
// Years are computed once and cached; curated high-demand windows from
// the store are layered over the computed set.
type Service interface {
	IsHoliday(date time.Time) bool
	IsHighDemand(date time.Time) bool
	GetHoliday(date time.Time) (Holiday, bool)
	AddDemandWindow(ctx context.Context, window *DemandWindow) error
	ListDemandWindows(year int) []DemandWindow
}

// holidays is immutable once the year is computed; windows grows when
// curated entries are added and is guarded by service.mu.
type yearData struct {
	holidays map[string]Holiday
	windows  []DemandWindow
}

type service struct {
	db *gorm.DB // nil disables curated windows

	mu    sync.RWMutex
	years map[int]*yearData
}

// NewService creates a demand calendar. db may be nil; the computed
// fixed and movable holidays work without a store.
func NewService(db *gorm.DB) Service {
	return &service{
		db:    db,
		years: make(map[int]*yearData),
	}
}

func (s *service) IsHoliday(date time.Time) bool {
	_, ok := s.GetHoliday(date)
	return ok
}

func (s *service) GetHoliday(date time.Time) (Holiday, bool) {
	data := s.year(date.Year())
	h, ok := data.holidays[dateOnly(date).Format(dateLayout)]
	return h, ok
}

func (s *service) IsHighDemand(date time.Time) bool {
	data := s.year(date.Year())

	if h, ok := data.holidays[dateOnly(date).Format(dateLayout)]; ok && h.HighDemand {
		return true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range data.windows {
		if data.windows[i].Contains(date) {
			return true
		}
	}
	return false
}

func (s *service) AddDemandWindow(ctx context.Context, window *DemandWindow) error {
	if s.db != nil {
		if err := s.db.WithContext(ctx).Create(window).Error; err != nil {
			return err
		}
	}

	s.mu.RLock()
	_, cached := s.years[window.Year]
	s.mu.RUnlock()

	if !cached && s.db != nil {
		// Lazy load picks the persisted window up from the store.
		s.year(window.Year)
		return nil
	}

	data := s.year(window.Year)
	s.mu.Lock()
	data.windows = append(data.windows, *window)
	s.mu.Unlock()
	return nil
}

func (s *service) ListDemandWindows(year int) []DemandWindow {
	data := s.year(year)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DemandWindow, len(data.windows))
	copy(out, data.windows)
	return out
}

// year returns the cached data for a year, computing it lazily.
func (s *service) year(y int) *yearData {
	s.mu.RLock()
	data, ok := s.years[y]
	s.mu.RUnlock()
	if ok {
		return data
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if data, ok := s.years[y]; ok {
		return data
	}

	data = &yearData{holidays: computeYear(y)}
	if s.db != nil {
		var windows []DemandWindow
		if err := s.db.Where("year = ?", y).Find(&windows).Error; err != nil {
			// Degrade to the computed set; the curated layer is additive.
			logger.GetDefault().LogDegraded(context.Background(), "demand_windows", err)
		} else {
			data.windows = windows
		}
	}
	s.years[y] = data
	return data
}
