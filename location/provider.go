package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Static always reports the same coordinate. It backs the -lat/-lon flags.
type Static struct {
	Coord Coordinate
}

// Locate returns the configured coordinate.
func (s Static) Locate(ctx context.Context, _ Request) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	if err := s.Coord.Validate(); err != nil {
		return Fix{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Fix{Coordinate: s.Coord, Timestamp: time.Now(), Source: "static"}, nil
}

// Unsupported is used when no position source is configured.
type Unsupported struct{}

// Locate always fails with ErrUnsupported.
func (Unsupported) Locate(context.Context, Request) (Fix, error) {
	return Fix{}, ErrUnsupported
}

// DefaultIPLookupURL is an ip-api.com compatible JSON endpoint.
const DefaultIPLookupURL = "http://ip-api.com/json/"

// ipLookupAccuracy is the radius reported for IP based fixes; they are city level at best.
const ipLookupAccuracy = 5000.0

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLookup resolves an approximate position from the public IP address.
type IPLookup struct {
	URL       string
	UserAgent string
	Client    *http.Client
}

// Locate queries the lookup endpoint.
func (l *IPLookup) Locate(ctx context.Context, _ Request) (Fix, error) {
	endpoint := strings.TrimSpace(l.URL)
	if endpoint == "" {
		endpoint = DefaultIPLookupURL
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Fix{}, fmt.Errorf("ip lookup: create request: %w", err)
	}
	if l.UserAgent != "" {
		req.Header.Set("User-Agent", l.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Fix{}, fmt.Errorf("ip lookup: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Fix{}, fmt.Errorf("%w: ip lookup status %s", ErrPermissionDenied, resp.Status)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return Fix{}, fmt.Errorf("%w: ip lookup status %s: %s", ErrUnavailable, resp.Status, strings.TrimSpace(string(body)))
	}

	var payload ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Fix{}, fmt.Errorf("%w: decode ip lookup: %v", ErrUnavailable, err)
	}
	if payload.Status != "success" {
		return Fix{}, fmt.Errorf("%w: ip lookup: %s", ErrUnavailable, payload.Message)
	}

	return Fix{
		Coordinate: Coordinate{
			Latitude:       payload.Lat,
			Longitude:      payload.Lon,
			AccuracyMeters: ipLookupAccuracy,
		},
		Timestamp: time.Now(),
		Source:    "ip",
	}, nil
}

// Cached reuses the last fix from Provider while it is younger than the
// request's MaximumAge.
type Cached struct {
	Provider Provider
	Now      func() time.Time

	mu   sync.Mutex
	last *Fix
}

// Locate returns a cached fix when allowed, otherwise asks the wrapped provider.
func (c *Cached) Locate(ctx context.Context, req Request) (Fix, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	c.mu.Lock()
	if c.last != nil && req.MaximumAge > 0 && now().Sub(c.last.Timestamp) <= req.MaximumAge {
		fix := *c.last
		c.mu.Unlock()
		return fix, nil
	}
	c.mu.Unlock()

	fix, err := c.Provider.Locate(ctx, req)
	if err != nil {
		return Fix{}, err
	}
	if fix.Timestamp.IsZero() {
		fix.Timestamp = now()
	}

	c.mu.Lock()
	c.last = &fix
	c.mu.Unlock()
	return fix, nil
}
