package waitlist

import "tably/internal/tables"

// AddWaitlistRequest is the HTTP payload for joining the waitlist.
type AddWaitlistRequest struct {
	CustomerName   string `json:"customer_name" validate:"required,max=100"`
	Contact        string `json:"contact" validate:"required,max=100"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string `json:"time" validate:"omitempty,datetime=15:04"`
	PartySize      int    `json:"party_size" validate:"required,min=1,max=20"`
	ZonePreference string `json:"zone_preference" validate:"omitempty,oneof=INDOOR OUTDOOR"`
}

func (r AddWaitlistRequest) toInput() AddInput {
	input := AddInput{
		CustomerName: r.CustomerName,
		Contact:      r.Contact,
		Date:         r.Date,
		Time:         r.Time,
		PartySize:    r.PartySize,
	}
	if r.ZonePreference != "" {
		zone := tables.Zone(r.ZonePreference)
		input.ZonePreference = &zone
	}
	return input
}

// NotifyNextRequest asks for the next fitting entry to be offered a
// freed table.
type NotifyNextRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"omitempty,datetime=15:04"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}
