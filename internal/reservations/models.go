package reservations

import (
	"time"

	"tably/internal/tables"

	"github.com/google/uuid"
)

// Status is the reservation lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusSeated    Status = "SEATED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusNoShow    Status = "NO_SHOW"
)

// CanTransitionTo defines the allowed lifecycle moves. Cancellation and
// no-show branch off before completion; terminal states are immutable.
func (s Status) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusSeated, StatusCancelled, StatusNoShow},
		StatusSeated:    {StatusCompleted, StatusCancelled},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Channel is the origin of the booking.
type Channel string

const (
	ChannelPhone    Channel = "PHONE"
	ChannelWeb      Channel = "WEB"
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelWalkIn   Channel = "WALK_IN"
)

// IsValid checks if the channel is part of the closed set
func (c Channel) IsValid() bool {
	switch c {
	case ChannelPhone, ChannelWeb, ChannelWhatsApp, ChannelWalkIn:
		return true
	default:
		return false
	}
}

// Special-request flags carried on a reservation. Escalation and
// assignment read these; unknown flags pass through untouched.
const (
	FlagPet             = "PET"
	FlagWheelchair      = "WHEELCHAIR"
	FlagAllergyProtocol = "ALLERGY_PROTOCOL"
	FlagCelebration     = "CELEBRATION"
	FlagPrivateEvent    = "PRIVATE_EVENT"
	FlagCustomMenu      = "CUSTOM_MENU"
	FlagMultiAllergy    = "MULTI_ALLERGY"
	FlagCustomDecor     = "CUSTOM_DECOR"
)

// Reservation is one confirmed or in-flight dining booking.
type Reservation struct {
	ID              uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PartySize       int          `json:"party_size" gorm:"not null"`
	Date            string       `json:"date" gorm:"type:varchar(10);not null;index"`
	Time            string       `json:"time" gorm:"type:varchar(5);not null"`
	Shift           tables.Shift `json:"shift" gorm:"type:varchar(10);not null"`
	ZonePreference  *tables.Zone `json:"zone_preference,omitempty" gorm:"type:varchar(10)"`
	SpecialRequests []string     `json:"special_requests,omitempty" gorm:"serializer:json"`
	Channel         Channel      `json:"channel" gorm:"type:varchar(10);not null"`
	Status          Status       `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TableID         *uuid.UUID   `json:"table_id,omitempty" gorm:"type:uuid"`
	AuxTableID      *uuid.UUID   `json:"aux_table_id,omitempty" gorm:"type:uuid"`
	UsesAux         bool         `json:"uses_aux" gorm:"not null;default:false"`
	HoldID          string       `json:"hold_id,omitempty" gorm:"type:varchar(40);index"`
	CreatedAt       time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

// HasFlag reports whether a special-request flag is present.
func (r *Reservation) HasFlag(flag string) bool {
	return HasFlag(r.SpecialRequests, flag)
}

// HasFlag reports whether flag appears in the given request set.
func HasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
