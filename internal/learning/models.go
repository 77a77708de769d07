package learning

import (
	"time"

	"github.com/google/uuid"
)

// StatKind separates the two learned statistics.
type StatKind string

const (
	StatKindDuration StatKind = "DURATION"
	StatKindNoShow   StatKind = "NO_SHOW"
)

// StatSnapshot persists one keyed estimate so learned values survive a
// restart when the store is configured. Only the latest value per
// (kind, key) is kept.
type StatSnapshot struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind         StatKind  `json:"kind" gorm:"type:varchar(20);not null;uniqueIndex:idx_kind_key"`
	Key          string    `json:"key" gorm:"type:varchar(80);not null;uniqueIndex:idx_kind_key"`
	Value        float64   `json:"value" gorm:"not null"`
	Observations int       `json:"observations" gorm:"not null;default:0"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for learned statistics
func (StatSnapshot) TableName() string { return "learning_stats" }
