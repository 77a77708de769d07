package tables

import (
	"time"

	"github.com/google/uuid"
)

// Zone is the seating area a table belongs to.
type Zone string

const (
	ZoneIndoor  Zone = "INDOOR"
	ZoneOutdoor Zone = "OUTDOOR"
)

// IsValid checks if the zone is part of the closed set
func (z Zone) IsValid() bool {
	return z == ZoneIndoor || z == ZoneOutdoor
}

// Shift is one of the two fixed seating windows per service period.
type Shift string

const (
	ShiftLunchFirst   Shift = "LUNCH_1"
	ShiftLunchSecond  Shift = "LUNCH_2"
	ShiftDinnerFirst  Shift = "DINNER_1"
	ShiftDinnerSecond Shift = "DINNER_2"
)

// IsValid checks if the shift code is part of the closed set
func (s Shift) IsValid() bool {
	switch s {
	case ShiftLunchFirst, ShiftLunchSecond, ShiftDinnerFirst, ShiftDinnerSecond:
		return true
	default:
		return false
	}
}

// TableStatus is the mutable operational status of a table.
type TableStatus string

const (
	TableStatusFree     TableStatus = "FREE"
	TableStatusOccupied TableStatus = "OCCUPIED"
	TableStatusReserved TableStatus = "RESERVED"
	TableStatusBlocked  TableStatus = "BLOCKED"
)

// IsValid checks if the table status is valid
func (ts TableStatus) IsValid() bool {
	switch ts {
	case TableStatusFree, TableStatusOccupied, TableStatusReserved, TableStatusBlocked:
		return true
	default:
		return false
	}
}

// Table represents one physical seating resource of the venue.
type Table struct {
	ID               uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code             string      `json:"code" gorm:"type:varchar(20);not null;uniqueIndex"`
	Zone             Zone        `json:"zone" gorm:"type:varchar(10);not null;index"`
	CapacityMin      int         `json:"capacity_min" gorm:"not null"`
	CapacityMax      int         `json:"capacity_max" gorm:"not null"`
	Ampliable        bool        `json:"ampliable" gorm:"not null;default:false"`
	AuxTableID       *uuid.UUID  `json:"aux_table_id,omitempty" gorm:"type:uuid"`
	ExtendedCapacity *int        `json:"extended_capacity,omitempty"`
	Priority         int         `json:"priority" gorm:"not null;default:100"`
	Note             string      `json:"note,omitempty" gorm:"type:text"`
	Status           TableStatus `json:"status" gorm:"type:varchar(20);not null;default:'FREE'"`
	CreatedAt        time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// Fits reports whether a party fits the ordinary capacity window.
func (t *Table) Fits(partySize int) bool {
	return partySize >= t.CapacityMin && partySize <= t.CapacityMax
}

// FitsExtended reports whether a party fits when paired with the aux table.
func (t *Table) FitsExtended(partySize int) bool {
	if !t.Ampliable || t.AuxTableID == nil || t.ExtendedCapacity == nil {
		return false
	}
	return partySize >= t.CapacityMin && partySize <= *t.ExtendedCapacity
}

// Waste is the unused ordinary capacity for a party of the given size.
// Lower is a tighter fit.
func (t *Table) Waste(partySize int) int {
	return t.CapacityMax - partySize
}
