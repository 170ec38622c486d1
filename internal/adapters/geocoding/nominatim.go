package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/pkg/metrics"
)

// Nominatim implements ports.Geocoder against the Nominatim search API.
// One result is requested; an empty result set is a failed geocode.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatim creates a client for the given endpoint. The user agent
// is mandatory per the Nominatim usage policy.
func NewNominatim(baseURL, userAgent string, timeout time.Duration) *Nominatim {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a postal address to a coordinate.
func (n *Nominatim) Geocode(ctx context.Context, addr domain.Address) (domain.GeoPoint, error) {
	start := time.Now()
	pt, err := n.lookup(ctx, addr)
	metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GeocodeLookups.WithLabelValues("failed").Inc()
	} else {
		metrics.GeocodeLookups.WithLabelValues("ok").Inc()
	}
	return pt, err
}

func (n *Nominatim) lookup(ctx context.Context, addr domain.Address) (domain.GeoPoint, error) {
	parts := make([]string, 0, 4)
	for _, p := range []string{addr.Street, addr.City, addr.State, addr.Zip} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("empty address")
	}

	q := url.Values{
		"q":      {strings.Join(parts, ", ")},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeoPoint{}, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("no match for address")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("parse lon: %w", err)
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}
