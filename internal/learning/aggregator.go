package learning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tably/internal/tables"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Smoothing factor for the exponential moving average.
const alpha = 0.15

// Duration defaults in minutes by party-size tier.
const (
	defaultDurationTier1 = 75  // 1-2 covers
	defaultDurationTier2 = 90  // 3-4 covers
	defaultDurationTier3 = 105 // 5-6 covers
	defaultDurationTier4 = 120 // 7+ covers
)

// No-show probability defaults by booking channel.
var defaultNoShowByChannel = map[string]float64{
	"PHONE":    0.05,
	"WEB":      0.10,
	"WHATSAPP": 0.08,
	"WALK_IN":  0.02,
}

const defaultNoShow = 0.10

type stat struct {
	value float64
	count int
}

// Aggregator keeps online estimates of dining duration and no-show
// probability. Each keyed statistic starts from its documented default
// and is updated with new = α·observed + (1-α)·old.
type Aggregator struct {
	db *gorm.DB // nil disables snapshot persistence

	mu        sync.Mutex
	durations map[string]*stat
	noShows   map[string]*stat
}

// NewAggregator creates an aggregator, loading persisted snapshots
// when a store is available.
func NewAggregator(ctx context.Context, db *gorm.DB) *Aggregator {
	a := &Aggregator{
		db:        db,
		durations: make(map[string]*stat),
		noShows:   make(map[string]*stat),
	}
	if db != nil {
		a.load(ctx)
	}
	return a
}

func durationKey(partySize int, weekday time.Weekday, shift tables.Shift, zone tables.Zone) string {
	return fmt.Sprintf("t%d:%s:%s:%s", partyTier(partySize), dayType(weekday), shift, zone)
}

func noShowKey(channel string, leadTimeDays int, weekday time.Weekday) string {
	return fmt.Sprintf("%s:%s:%s", channel, leadBucket(leadTimeDays), dayType(weekday))
}

func partyTier(partySize int) int {
	switch {
	case partySize <= 2:
		return 1
	case partySize <= 4:
		return 2
	case partySize <= 6:
		return 3
	default:
		return 4
	}
}

func dayType(weekday time.Weekday) string {
	if weekday == time.Saturday || weekday == time.Sunday {
		return "weekend"
	}
	return "weekday"
}

func leadBucket(days int) string {
	switch {
	case days <= 1:
		return "short"
	case days <= 7:
		return "medium"
	default:
		return "long"
	}
}

func defaultDuration(partySize int) float64 {
	switch partyTier(partySize) {
	case 1:
		return defaultDurationTier1
	case 2:
		return defaultDurationTier2
	case 3:
		return defaultDurationTier3
	default:
		return defaultDurationTier4
	}
}

// ExpectedDuration returns the estimated dining duration in minutes.
func (a *Aggregator) ExpectedDuration(partySize int, weekday time.Weekday, shift tables.Shift, zone tables.Zone) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s, ok := a.durations[durationKey(partySize, weekday, shift, zone)]; ok {
		return s.value
	}
	return defaultDuration(partySize)
}

// UpdateDuration folds one observed dining duration into the estimate.
func (a *Aggregator) UpdateDuration(partySize int, weekday time.Weekday, shift tables.Shift, zone tables.Zone, observedMinutes float64) float64 {
	key := durationKey(partySize, weekday, shift, zone)

	a.mu.Lock()
	s, ok := a.durations[key]
	if !ok {
		s = &stat{value: defaultDuration(partySize)}
		a.durations[key] = s
	}
	updateStat(s, observedMinutes)
	value := s.value
	count := s.count
	a.mu.Unlock()

	a.persist(StatKindDuration, key, value, count)
	return value
}

// NoShowRate returns the estimated no-show probability.
func (a *Aggregator) NoShowRate(channel string, leadTimeDays int, weekday time.Weekday) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s, ok := a.noShows[noShowKey(channel, leadTimeDays, weekday)]; ok {
		return s.value
	}
	if v, ok := defaultNoShowByChannel[channel]; ok {
		return v
	}
	return defaultNoShow
}

// UpdateNoShowRate folds one outcome (1 = no-show, 0 = showed) into
// the estimate.
func (a *Aggregator) UpdateNoShowRate(channel string, leadTimeDays int, weekday time.Weekday, noShow bool) float64 {
	key := noShowKey(channel, leadTimeDays, weekday)
	observed := 0.0
	if noShow {
		observed = 1.0
	}

	fallback := defaultNoShow
	if v, ok := defaultNoShowByChannel[channel]; ok {
		fallback = v
	}

	a.mu.Lock()
	s, ok := a.noShows[key]
	if !ok {
		s = &stat{value: fallback}
		a.noShows[key] = s
	}
	updateStat(s, observed)
	value := s.value
	count := s.count
	a.mu.Unlock()

	a.persist(StatKindNoShow, key, value, count)
	return value
}

// updateStat applies the EMA rule. A fresh key is seeded with its
// documented default before the first blend, so one observation of
// 120 against a 90 default lands on 94.5 at α=0.15.
func updateStat(s *stat, observed float64) {
	s.value = alpha*observed + (1-alpha)*s.value
	s.count++
}

// load restores persisted snapshots into the in-memory maps.
func (a *Aggregator) load(ctx context.Context) {
	var snapshots []StatSnapshot
	if err := a.db.WithContext(ctx).Find(&snapshots).Error; err != nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, snap := range snapshots {
		s := &stat{value: snap.Value, count: snap.Observations}
		switch snap.Kind {
		case StatKindDuration:
			a.durations[snap.Key] = s
		case StatKindNoShow:
			a.noShows[snap.Key] = s
		}
	}
}

// persist upserts one estimate; best effort, learning is not durable
// without a store.
func (a *Aggregator) persist(kind StatKind, key string, value float64, count int) {
	if a.db == nil {
		return
	}
	snap := StatSnapshot{Kind: kind, Key: key, Value: value, Observations: count}
	a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "observations", "updated_at"}),
	}).Create(&snap)
}
