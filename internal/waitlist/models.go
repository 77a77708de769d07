package waitlist

import (
	"time"

	"tably/internal/tables"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a waitlist entry
type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusNotified  Status = "NOTIFIED"
	StatusConfirmed Status = "CONFIRMED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the waitlist status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusNotified, StatusConfirmed, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the status can transition to the target
// status. Confirmed, expired and cancelled are terminal.
func (s Status) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusWaiting:  {StatusNotified},
		StatusNotified: {StatusConfirmed, StatusExpired, StatusCancelled},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusExpired || s == StatusCancelled
}

// DefaultConfirmWindow is how long a notified customer has to confirm.
const DefaultConfirmWindow = 15 * time.Minute

// WaitlistEntry represents one customer waiting for a table
type WaitlistEntry struct {
	ID             uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName   string       `json:"customer_name" gorm:"type:varchar(100);not null"`
	Contact        string       `json:"contact" gorm:"type:varchar(100);not null"`
	Date           string       `json:"date" gorm:"type:varchar(10);not null;index;uniqueIndex:idx_date_position"`
	Time           string       `json:"time" gorm:"type:varchar(5);not null"`
	PartySize      int          `json:"party_size" gorm:"not null"`
	ZonePreference *tables.Zone `json:"zone_preference,omitempty" gorm:"type:varchar(10)"`
	Position       int          `json:"position" gorm:"not null;uniqueIndex:idx_date_position"`
	Status         Status       `json:"status" gorm:"type:varchar(20);not null;index;default:'WAITING'"`
	ChannelRef     string       `json:"channel_ref,omitempty" gorm:"type:varchar(64)"`
	NotifiedAt     *time.Time   `json:"notified_at,omitempty"`
	ResolvedAt     *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for WaitlistEntry
func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}
