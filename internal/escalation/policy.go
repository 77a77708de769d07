package escalation

import (
	"strings"
	"time"

	"tably/internal/calendar"
	"tably/internal/reservations"
)

// Reason identifies why a request must be routed to a human.
type Reason string

const (
	ReasonLargeGroup      Reason = "GROUP_GRANDE"
	ReasonHighDemand      Reason = "ALTA_DEMANDA"
	ReasonPrivateEvent    Reason = "EVENTO_PRIVADO"
	ReasonNoAvailability  Reason = "SIN_DISPONIBILIDAD"
	ReasonComplexRequest  Reason = "SOLICITUD_COMPLEJA"
	ReasonExplicitRequest Reason = "PETICION_EXPLICITA"
)

// Priority orders escalations for the staff queue. Lower is more urgent.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// AutoAssignCeiling is the largest party the engine will seat without
// human review.
const AutoAssignCeiling = 10

// Input carries everything the policy inspects. All rules are
// independent; a request can trigger several at once.
type Input struct {
	PartySize            int
	Date                 time.Time
	SpecialRequests      []string
	HadNoAvailability    bool
	ExplicitHumanRequest bool
}

// Result is the policy verdict.
type Result struct {
	MustEscalate bool     `json:"must_escalate"`
	Reasons      []Reason `json:"reasons"`
	Message      string   `json:"message"`
	Priority     Priority `json:"priority"`
}

// Special-request flags that mark a private event.
var eventFlags = []string{
	reservations.FlagCelebration,
	reservations.FlagPrivateEvent,
}

// Special-request flags that need manual coordination.
var complexFlags = []string{
	reservations.FlagCustomMenu,
	reservations.FlagMultiAllergy,
	reservations.FlagCustomDecor,
}

var reasonMessages = map[Reason]string{
	ReasonLargeGroup:      "grupo grande, requiere coordinación de sala",
	ReasonHighDemand:      "fecha de alta demanda, revisión manual obligatoria",
	ReasonPrivateEvent:    "evento o celebración privada",
	ReasonNoAvailability:  "sin disponibilidad automática",
	ReasonComplexRequest:  "solicitud compleja, necesita coordinación",
	ReasonExplicitRequest: "el cliente pide hablar con una persona",
}

// Policy decides whether a request bypasses automatic assignment.
type Policy struct {
	calendar calendar.Service
	ceiling  int
}

// NewPolicy creates an escalation policy. ceiling <= 0 falls back to
// the default automatic-assignment ceiling.
func NewPolicy(cal calendar.Service, ceiling int) *Policy {
	if ceiling <= 0 {
		ceiling = AutoAssignCeiling
	}
	return &Policy{calendar: cal, ceiling: ceiling}
}

// Evaluate runs every rule and accumulates the triggered reasons. The
// reported priority is the most urgent among them.
func (p *Policy) Evaluate(input Input) Result {
	var reasons []Reason
	priority := PriorityLow

	trigger := func(reason Reason, pr Priority) {
		reasons = append(reasons, reason)
		if pr < priority {
			priority = pr
		}
	}

	if input.PartySize > p.ceiling {
		trigger(ReasonLargeGroup, PriorityHigh)
	}
	if p.calendar != nil && p.calendar.IsHighDemand(input.Date) {
		trigger(ReasonHighDemand, PriorityHigh)
	}
	if hasAnyFlag(input.SpecialRequests, eventFlags) {
		trigger(ReasonPrivateEvent, PriorityMedium)
	}
	if input.HadNoAvailability {
		trigger(ReasonNoAvailability, PriorityMedium)
	}
	if hasAnyFlag(input.SpecialRequests, complexFlags) {
		trigger(ReasonComplexRequest, PriorityMedium)
	}
	if input.ExplicitHumanRequest {
		trigger(ReasonExplicitRequest, PriorityHigh)
	}

	return Result{
		MustEscalate: len(reasons) > 0,
		Reasons:      reasons,
		Message:      buildMessage(reasons),
		Priority:     priority,
	}
}

func hasAnyFlag(flags []string, wanted []string) bool {
	for _, w := range wanted {
		if reservations.HasFlag(flags, w) {
			return true
		}
	}
	return false
}

func buildMessage(reasons []Reason) string {
	if len(reasons) == 0 {
		return ""
	}
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, reasonMessages[r])
	}
	return "Derivado a un agente: " + strings.Join(parts, "; ")
}
