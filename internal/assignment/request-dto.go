package assignment

import (
	"tably/internal/reservations"
	"tably/internal/tables"
)

// AssignRequest is the HTTP payload for an assignment attempt.
type AssignRequest struct {
	PartySize       int      `json:"party_size" validate:"required,min=1,max=20"`
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string   `json:"time" validate:"omitempty,datetime=15:04"`
	Shift           string   `json:"shift" validate:"required,oneof=LUNCH_1 LUNCH_2 DINNER_1 DINNER_2"`
	ZonePreference  string   `json:"zone_preference" validate:"omitempty,oneof=INDOOR OUTDOOR"`
	HasPet          bool     `json:"has_pet"`
	TerraceClosed   bool     `json:"terrace_closed"`
	SpecialRequests []string `json:"special_requests"`
	Channel         string   `json:"channel" validate:"omitempty,oneof=PHONE WEB WHATSAPP WALK_IN"`
}

// toRequest maps the transport payload onto the engine request.
func (r AssignRequest) toRequest() Request {
	req := Request{
		PartySize:       r.PartySize,
		Date:            r.Date,
		Time:            r.Time,
		Shift:           tables.Shift(r.Shift),
		HasPet:          r.HasPet,
		TerraceClosed:   r.TerraceClosed,
		SpecialRequests: r.SpecialRequests,
		Channel:         reservations.Channel(r.Channel),
	}
	if r.ZonePreference != "" {
		zone := tables.Zone(r.ZonePreference)
		req.ZonePreference = &zone
	}
	return req
}
