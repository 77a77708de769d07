package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"tably/internal/shared/config"
	"tably/internal/shared/faults"
)

// Conditions is one point observation from the external provider.
type Conditions struct {
	TemperatureC  float64 `json:"temperature_c"`
	WindSpeedKmh  float64 `json:"wind_speed_kmh"`
	CloudCoverPct float64 `json:"cloud_cover_pct"`
	Precipitation bool    `json:"precipitation"`
}

// Provider fetches current conditions for the venue location.
type Provider interface {
	CurrentConditions(ctx context.Context) (*Conditions, error)
}

// HTTPProvider calls a REST weather endpoint.
type HTTPProvider struct {
	baseURL   string
	latitude  float64
	longitude float64
	client    *http.Client
}

// NewHTTPProvider creates a provider from config. Returns nil when no
// endpoint is configured; the advisor treats a nil provider as absent.
func NewHTTPProvider(cfg config.WeatherConfig) *HTTPProvider {
	if cfg.BaseURL == "" {
		return nil
	}
	return &HTTPProvider{
		baseURL:   cfg.BaseURL,
		latitude:  cfg.Latitude,
		longitude: cfg.Longitude,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *HTTPProvider) CurrentConditions(ctx context.Context) (*Conditions, error) {
	endpoint, err := url.Parse(p.baseURL + "/current")
	if err != nil {
		return nil, fmt.Errorf("invalid weather endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("lat", strconv.FormatFloat(p.latitude, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(p.longitude, 'f', 4, 64))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: weather fetch: %v", faults.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: weather provider returned %d", faults.ErrServiceUnavailable, resp.StatusCode)
	}

	var conditions Conditions
	if err := json.NewDecoder(resp.Body).Decode(&conditions); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	return &conditions, nil
}
