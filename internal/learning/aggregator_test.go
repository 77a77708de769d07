package learning

import (
	"context"
	"math"
	"testing"
	"time"

	"tably/internal/tables"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	return NewAggregator(context.Background(), nil)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDurationDefaultsByPartyTier(t *testing.T) {
	agg := newTestAggregator(t)

	cases := []struct {
		partySize int
		want      float64
	}{
		{1, 75},
		{2, 75},
		{3, 90},
		{4, 90},
		{5, 105},
		{6, 105},
		{7, 120},
		{10, 120},
	}
	for _, tc := range cases {
		got := agg.ExpectedDuration(tc.partySize, time.Wednesday, tables.ShiftDinnerFirst, tables.ZoneIndoor)
		if got != tc.want {
			t.Errorf("party %d: expected default %.0f, got %.0f", tc.partySize, tc.want, got)
		}
	}
}

func TestDurationBlendsAgainstDefault(t *testing.T) {
	agg := newTestAggregator(t)

	// First observation blends with the tier default, not replaces it.
	got := agg.UpdateDuration(4, time.Wednesday, tables.ShiftDinnerFirst, tables.ZoneIndoor, 120)
	if !almostEqual(got, 94.5) {
		t.Fatalf("expected 0.15*120 + 0.85*90 = 94.5, got %v", got)
	}

	if v := agg.ExpectedDuration(4, time.Wednesday, tables.ShiftDinnerFirst, tables.ZoneIndoor); !almostEqual(v, 94.5) {
		t.Errorf("expected the updated estimate to be readable, got %v", v)
	}

	got = agg.UpdateDuration(4, time.Wednesday, tables.ShiftDinnerFirst, tables.ZoneIndoor, 60)
	want := 0.15*60 + 0.85*94.5
	if !almostEqual(got, want) {
		t.Errorf("second blend: expected %v, got %v", want, got)
	}
}

func TestDurationKeysAreIndependent(t *testing.T) {
	agg := newTestAggregator(t)

	agg.UpdateDuration(4, time.Saturday, tables.ShiftDinnerFirst, tables.ZoneIndoor, 150)

	// Weekday key for the same party size stays at its default.
	if v := agg.ExpectedDuration(4, time.Tuesday, tables.ShiftDinnerFirst, tables.ZoneIndoor); v != 90 {
		t.Errorf("weekday key should be untouched, got %v", v)
	}
	// Same day type on a different weekend day shares the key.
	if v := agg.ExpectedDuration(4, time.Sunday, tables.ShiftDinnerFirst, tables.ZoneIndoor); v == 90 {
		t.Error("Saturday and Sunday should share the weekend bucket")
	}
}

func TestNoShowDefaultsByChannel(t *testing.T) {
	agg := newTestAggregator(t)

	cases := []struct {
		channel string
		want    float64
	}{
		{"PHONE", 0.05},
		{"WEB", 0.10},
		{"WHATSAPP", 0.08},
		{"WALK_IN", 0.02},
		{"CARRIER_PIGEON", 0.10},
	}
	for _, tc := range cases {
		if got := agg.NoShowRate(tc.channel, 3, time.Friday); got != tc.want {
			t.Errorf("channel %s: expected %v, got %v", tc.channel, tc.want, got)
		}
	}
}

func TestNoShowUpdateBlendsOutcome(t *testing.T) {
	agg := newTestAggregator(t)

	got := agg.UpdateNoShowRate("WEB", 3, time.Friday, true)
	want := 0.15*1.0 + 0.85*0.10
	if !almostEqual(got, want) {
		t.Fatalf("expected %v after one no-show, got %v", want, got)
	}

	got = agg.UpdateNoShowRate("WEB", 3, time.Friday, false)
	want = 0.85 * want
	if !almostEqual(got, want) {
		t.Errorf("expected %v after a show, got %v", want, got)
	}
}

func TestLeadBuckets(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{0, "short"},
		{1, "short"},
		{2, "medium"},
		{7, "medium"},
		{8, "long"},
		{30, "long"},
	}
	for _, tc := range cases {
		if got := leadBucket(tc.days); got != tc.want {
			t.Errorf("leadBucket(%d) = %s, want %s", tc.days, got, tc.want)
		}
	}
}
