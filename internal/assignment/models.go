package assignment

import (
	"time"

	"tably/internal/reservations"
	"tably/internal/shared/faults"
	"tably/internal/tables"

	"github.com/google/uuid"
)

// Failure reason codes carried on a failed Result.
const (
	FailureCapacityExceeded = "CAPACITY_EXCEEDED"
	FailureNoAvailability   = "NO_AVAILABILITY"
)

// Request is one table-assignment request after transport decoding.
type Request struct {
	PartySize       int
	Date            string // local date, 2006-01-02
	Time            string // HH:MM, optional
	Shift           tables.Shift
	ZonePreference  *tables.Zone
	HasPet          bool
	TerraceClosed   bool
	SpecialRequests []string
	Channel         reservations.Channel
}

func (r Request) validate() error {
	if r.PartySize < 1 {
		return faults.Invalidf("party size must be at least 1, got %d", r.PartySize)
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return faults.Invalidf("date %q is not a valid YYYY-MM-DD date", r.Date)
	}
	if !r.Shift.IsValid() {
		return faults.Invalidf("unknown shift %q", r.Shift)
	}
	if r.Time != "" {
		if _, err := time.Parse("15:04", r.Time); err != nil {
			return faults.Invalidf("time %q is not a valid HH:MM time", r.Time)
		}
	}
	if r.ZonePreference != nil && !r.ZonePreference.IsValid() {
		return faults.Invalidf("unknown zone %q", *r.ZonePreference)
	}
	if r.Channel != "" && !r.Channel.IsValid() {
		return faults.Invalidf("unknown channel %q", r.Channel)
	}
	return nil
}

// weekday returns the weekday of the requested date. Callers run this
// after validate so the parse cannot fail.
func (r Request) weekday() time.Weekday {
	d, _ := time.Parse("2006-01-02", r.Date)
	return d.Weekday()
}

// Result is the outcome of one assignment attempt. Business failures
// are encoded here rather than as errors so callers branch on fields.
type Result struct {
	Success                 bool        `json:"success"`
	TableID                 *uuid.UUID  `json:"table_id,omitempty"`
	AuxTableID              *uuid.UUID  `json:"aux_table_id,omitempty"`
	UsesAux                 bool        `json:"uses_aux"`
	Zone                    tables.Zone `json:"zone,omitempty"`
	FitScore                int         `json:"fit_score"`
	Warnings                []string    `json:"warnings,omitempty"`
	FailureReason           string      `json:"failure_reason,omitempty"`
	EscalationRequired      bool        `json:"escalation_required"`
	HoldID                  string      `json:"hold_id,omitempty"`
	ExpectedDurationMinutes float64     `json:"expected_duration_minutes,omitempty"`
}
