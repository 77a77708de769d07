package calendar

import (
	"time"

	"github.com/google/uuid"
)

// HolidayClass classifies a holiday by scope.
type HolidayClass string

const (
	ClassNational HolidayClass = "NACIONAL"
	ClassRegional HolidayClass = "REGIONAL"
	ClassLocal    HolidayClass = "LOCAL"
)

// Holiday is one computed calendar holiday.
type Holiday struct {
	Date       time.Time    `json:"date"`
	Name       string       `json:"name"`
	Class      HolidayClass `json:"class"`
	HighDemand bool         `json:"high_demand"`
}

// DemandWindow is a manually curated high-demand date range (for
// example a week-long local festival), layered over the computed
// holiday set and revisable without touching the fixed/movable logic.
type DemandWindow struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Year      int       `json:"year" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	StartDate time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate   time.Time `json:"end_date" gorm:"type:date;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the curated overrides
func (DemandWindow) TableName() string { return "demand_windows" }

// Contains reports whether d falls inside the window, inclusive.
func (w *DemandWindow) Contains(d time.Time) bool {
	day := dateOnly(d)
	return !day.Before(dateOnly(w.StartDate)) && !day.After(dateOnly(w.EndDate))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
