// Package location acquires a single position fix from a pluggable provider.
//
// Providers stand in for the host platform's "get current position"
// capability. A failed fix is reported through one of the sentinel errors
// so callers can surface a status message and keep capturing with
// placeholder values.
package location

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnsupported      = errors.New("location is not supported")
	ErrTimeout          = errors.New("location request timed out")
	ErrUnavailable      = errors.New("location unavailable")
)

// DefaultTimeout is applied when a Request carries no timeout.
const DefaultTimeout = 10 * time.Second

// Coordinate is a WGS84 position with its horizontal accuracy radius.
type Coordinate struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy"`
}

// Validate checks the coordinate ranges.
func (c Coordinate) Validate() error {
	switch {
	case c.Latitude < -90 || c.Latitude > 90:
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Latitude)
	case c.Longitude < -180 || c.Longitude > 180:
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Longitude)
	case c.AccuracyMeters < 0:
		return fmt.Errorf("accuracy %v must not be negative", c.AccuracyMeters)
	}
	return nil
}

// Fix is a single resolved coordinate reading.
type Fix struct {
	Coordinate
	Timestamp time.Time
	Source    string
}

// Request describes the accuracy and freshness policy of a position request.
type Request struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaximumAge allows a cached fix younger than this to be reused.
	// Zero always asks for a fresh reading.
	MaximumAge time.Duration
}

// Provider resolves the current position.
type Provider interface {
	Locate(ctx context.Context, req Request) (Fix, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, req Request) (Fix, error)

// Locate calls f(ctx, req).
func (f ProviderFunc) Locate(ctx context.Context, req Request) (Fix, error) {
	return f(ctx, req)
}

// Locate asks p for a fix, bounding the wait by req.Timeout.
// A provider that overruns the deadline yields ErrTimeout.
func Locate(ctx context.Context, p Provider, req Request) (Fix, error) {
	if p == nil {
		return Fix{}, ErrUnsupported
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		fix Fix
		err error
	}
	done := make(chan result, 1)
	go func() {
		fix, err := p.Locate(ctx, req)
		done <- result{fix, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				return Fix{}, fmt.Errorf("%w: %v", ErrTimeout, res.err)
			}
			return Fix{}, res.err
		}
		if err := res.fix.Validate(); err != nil {
			return Fix{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if res.fix.Timestamp.IsZero() {
			res.fix.Timestamp = time.Now()
		}
		return res.fix, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Fix{}, ErrTimeout
		}
		return Fix{}, ctx.Err()
	}
}

// StatusMessage returns the user visible message for a failed fix.
func StatusMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return "Location permission denied"
	case errors.Is(err, ErrUnsupported):
		return "Location is not supported"
	case errors.Is(err, ErrTimeout):
		return "Location request timed out"
	default:
		return "Location unavailable"
	}
}
