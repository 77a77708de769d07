package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tably/internal/shared/clock"
	"tably/pkg/logger"
)

// Terrace suitability thresholds.
const (
	minTerraceTempC  = 12.0
	maxTerraceTempC  = 38.0
	maxTerraceWind   = 30.0 // km/h
	maxTerraceClouds = 95.0 // percent
)

// Advisor turns the external weather signal into a terrace verdict.
// The observation is memoized for the configured freshness window and
// any provider failure degrades to favorable-with-no-data: assignment
// never blocks on weather.
type Advisor struct {
	provider Provider
	cacheTTL time.Duration
	clock    clock.Clock

	mu        sync.Mutex
	fetchedAt time.Time
	verdict   bool
	warnings  []string
	hasData   bool
}

// NewAdvisor creates a terrace advisor. provider may be nil (absent
// configuration), in which case the neutral default is always returned.
func NewAdvisor(provider Provider, cacheTTL time.Duration, clk clock.Clock) *Advisor {
	if clk == nil {
		clk = clock.New()
	}
	return &Advisor{
		provider: provider,
		cacheTTL: cacheTTL,
		clock:    clk,
	}
}

// TerraceFavorable reports whether the terrace is currently suitable
// plus human-readable warnings for staff.
func (a *Advisor) TerraceFavorable(ctx context.Context) (bool, []string) {
	if a.provider == nil || interfaceIsNil(a.provider) {
		return true, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()
	if a.hasData && now.Sub(a.fetchedAt) <= a.cacheTTL {
		return a.verdict, append([]string(nil), a.warnings...)
	}

	conditions, err := a.provider.CurrentConditions(ctx)
	if err != nil {
		logger.GetDefault().LogDegraded(ctx, "weather", err)
		// Neutral default; do not cache so the next call retries.
		return true, nil
	}

	verdict, warnings := evaluate(conditions)
	a.fetchedAt = now
	a.verdict = verdict
	a.warnings = warnings
	a.hasData = true
	return verdict, append([]string(nil), warnings...)
}

// evaluate applies the terrace thresholds to one observation.
func evaluate(c *Conditions) (bool, []string) {
	var warnings []string

	if c.Precipitation {
		warnings = append(warnings, "lluvia prevista, terraza desaconsejada")
	}
	if c.WindSpeedKmh >= maxTerraceWind {
		warnings = append(warnings, fmt.Sprintf("viento fuerte (%.0f km/h)", c.WindSpeedKmh))
	}
	if c.TemperatureC < minTerraceTempC {
		warnings = append(warnings, fmt.Sprintf("temperatura baja (%.0f°C)", c.TemperatureC))
	}
	if c.TemperatureC > maxTerraceTempC {
		warnings = append(warnings, fmt.Sprintf("temperatura alta (%.0f°C)", c.TemperatureC))
	}
	if c.CloudCoverPct >= maxTerraceClouds {
		warnings = append(warnings, "cielo muy cubierto")
	}

	return len(warnings) == 0, warnings
}

// interfaceIsNil guards against a typed-nil *HTTPProvider stored in
// the Provider interface.
func interfaceIsNil(p Provider) bool {
	v, ok := p.(*HTTPProvider)
	return ok && v == nil
}
