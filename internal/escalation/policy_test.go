package escalation

import (
	"testing"
	"time"

	"tably/internal/calendar"
	"tably/internal/reservations"
)

func quietTuesday() time.Time {
	return time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
}

func newTestPolicy() *Policy {
	return NewPolicy(calendar.NewService(nil), 0)
}

func hasReason(result Result, reason Reason) bool {
	for _, r := range result.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

func TestNoTriggersYieldsNonEscalating(t *testing.T) {
	result := newTestPolicy().Evaluate(Input{PartySize: 4, Date: quietTuesday()})

	if result.MustEscalate {
		t.Errorf("plain request should not escalate: %+v", result)
	}
	if len(result.Reasons) != 0 {
		t.Errorf("expected no reasons, got %v", result.Reasons)
	}
	if result.Priority != PriorityLow {
		t.Errorf("expected lowest priority, got %v", result.Priority)
	}
	if result.Message != "" {
		t.Errorf("expected empty message, got %q", result.Message)
	}
}

func TestLargeGroupEscalatesHigh(t *testing.T) {
	result := newTestPolicy().Evaluate(Input{PartySize: 11, Date: quietTuesday()})

	if !result.MustEscalate || !hasReason(result, ReasonLargeGroup) {
		t.Fatalf("party of 11 must escalate as large group: %+v", result)
	}
	if result.Priority != PriorityHigh {
		t.Errorf("large group is high priority, got %v", result.Priority)
	}
}

func TestHighDemandDateEscalates(t *testing.T) {
	// Christmas is a computed high-demand holiday.
	christmas := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)
	result := newTestPolicy().Evaluate(Input{PartySize: 2, Date: christmas})

	if !result.MustEscalate || !hasReason(result, ReasonHighDemand) {
		t.Fatalf("high-demand date must escalate: %+v", result)
	}
	if result.Priority != PriorityHigh {
		t.Errorf("expected high priority, got %v", result.Priority)
	}
}

func TestReasonsAccumulateAndPriorityIsMostUrgent(t *testing.T) {
	result := newTestPolicy().Evaluate(Input{
		PartySize:         12,
		Date:              quietTuesday(),
		SpecialRequests:   []string{reservations.FlagCustomMenu, reservations.FlagCelebration},
		HadNoAvailability: true,
	})

	want := []Reason{ReasonLargeGroup, ReasonPrivateEvent, ReasonNoAvailability, ReasonComplexRequest}
	for _, r := range want {
		if !hasReason(result, r) {
			t.Errorf("missing reason %s in %v", r, result.Reasons)
		}
	}
	if len(result.Reasons) != len(want) {
		t.Errorf("expected %d reasons, got %v", len(want), result.Reasons)
	}
	if result.Priority != PriorityHigh {
		t.Errorf("mixed reasons must report the most urgent priority, got %v", result.Priority)
	}
	if result.Message == "" {
		t.Error("escalating result must carry a message")
	}
}

func TestMediumOnlyReasonsReportMedium(t *testing.T) {
	result := newTestPolicy().Evaluate(Input{
		PartySize:         4,
		Date:              quietTuesday(),
		HadNoAvailability: true,
	})

	if !result.MustEscalate || !hasReason(result, ReasonNoAvailability) {
		t.Fatalf("no-availability signal must escalate: %+v", result)
	}
	if result.Priority != PriorityMedium {
		t.Errorf("expected medium priority, got %v", result.Priority)
	}
}

func TestExplicitHumanRequestEscalatesHigh(t *testing.T) {
	result := newTestPolicy().Evaluate(Input{
		PartySize:            2,
		Date:                 quietTuesday(),
		ExplicitHumanRequest: true,
	})

	if !result.MustEscalate || !hasReason(result, ReasonExplicitRequest) {
		t.Fatalf("explicit human request must escalate: %+v", result)
	}
	if result.Priority != PriorityHigh {
		t.Errorf("expected high priority, got %v", result.Priority)
	}
}
