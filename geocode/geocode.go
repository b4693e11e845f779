// Package geocode turns a coordinate into a human readable address.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geostamp/geostamp/location"
)

const (
	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	// DefaultUserAgent identifies the client as required by the Nominatim usage policy.
	DefaultUserAgent = "geostamp/1.0"
	// DefaultTimeout bounds a single reverse lookup.
	DefaultTimeout = 5 * time.Second

	// Unavailable replaces the address when the lookup fails.
	Unavailable = "Address unavailable"
	// Unknown replaces the address when the lookup succeeds without a display name.
	Unknown = "Unknown location"
)

// ErrNoAddress is returned when the service answers without a display name.
var ErrNoAddress = errors.New("no display name in response")

// Geocoder resolves a coordinate to a display address.
type Geocoder interface {
	Reverse(ctx context.Context, c location.Coordinate) (string, error)
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Nominatim is a reverse geocoding client for the OpenStreetMap Nominatim API.
type Nominatim struct {
	BaseURL   string
	UserAgent string
	Language  string
	Timeout   time.Duration
	Client    *http.Client
}

// NewNominatim returns a client using the public endpoint and default timeout.
func NewNominatim() *Nominatim {
	return &Nominatim{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Language:  "en",
		Timeout:   DefaultTimeout,
		Client:    http.DefaultClient,
	}
}

// Reverse looks up the display name of the coordinate.
// Non-2xx and malformed responses are errors; an answer without a
// display_name, including a service "error" document, is ErrNoAddress.
func (n *Nominatim) Reverse(ctx context.Context, c location.Coordinate) (string, error) {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	base := strings.TrimRight(strings.TrimSpace(n.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	reqURL := fmt.Sprintf("%s/reverse?%s", base, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: create request: %w", err)
	}
	ua := n.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	if n.Language != "" {
		req.Header.Set("Accept-Language", n.Language)
	}

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("reverse geocode: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("reverse geocode: decode response: %w", err)
	}
	if payload.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrNoAddress, payload.Error)
	}
	name := strings.TrimSpace(payload.DisplayName)
	if name == "" {
		return "", ErrNoAddress
	}
	return name, nil
}

// Address resolves c with g and never fails: lookup errors map to
// Unavailable and an empty answer maps to Unknown. The lookup is bounded by
// the deadline of ctx, or DefaultTimeout when ctx has none; a geocoder that
// overruns it is abandoned and its late answer discarded.
func Address(ctx context.Context, g Geocoder, c location.Coordinate) string {
	if g == nil {
		return Unavailable
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	type result struct {
		name string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		name, err := g.Reverse(ctx, c)
		done <- result{name, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	switch {
	case errors.Is(res.err, ErrNoAddress):
		return Unknown
	case res.err != nil:
		if isDebugLogging() {
			log.Printf("geocode: falling back to %q: %v", Unavailable, res.err)
		}
		return Unavailable
	}
	return res.name
}
