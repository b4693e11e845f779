package location

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocate_Static(t *testing.T) {
	assert := assert.New(t)

	p := Static{Coord: Coordinate{Latitude: 37.422, Longitude: -122.084, AccuracyMeters: 5}}
	fix, err := Locate(context.Background(), p, Request{HighAccuracy: true, Timeout: time.Second})
	assert.NoError(err)
	assert.Equal(37.422, fix.Latitude)
	assert.Equal(-122.084, fix.Longitude)
	assert.Equal(5.0, fix.AccuracyMeters)
	assert.Equal("static", fix.Source)
	assert.False(fix.Timestamp.IsZero())
}

func TestLocate_InvalidCoordinate(t *testing.T) {
	p := Static{Coord: Coordinate{Latitude: 91}}
	_, err := Locate(context.Background(), p, Request{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLocate_Unsupported(t *testing.T) {
	_, err := Locate(context.Background(), Unsupported{}, Request{})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Locate(context.Background(), nil, Request{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLocate_Timeout(t *testing.T) {
	blocking := ProviderFunc(func(ctx context.Context, _ Request) (Fix, error) {
		<-ctx.Done()
		return Fix{}, ctx.Err()
	})

	start := time.Now()
	_, err := Locate(context.Background(), blocking, Request{Timeout: 20 * time.Millisecond})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLocate_ProviderIgnoringContext(t *testing.T) {
	stuck := ProviderFunc(func(context.Context, Request) (Fix, error) {
		time.Sleep(200 * time.Millisecond)
		return Fix{}, nil
	})
	_, err := Locate(context.Background(), stuck, Request{Timeout: 10 * time.Millisecond})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestStatusMessage(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", StatusMessage(nil))
	assert.Equal("Location permission denied", StatusMessage(fmt.Errorf("wrapped: %w", ErrPermissionDenied)))
	assert.Equal("Location is not supported", StatusMessage(ErrUnsupported))
	assert.Equal("Location request timed out", StatusMessage(ErrTimeout))
	assert.Equal("Location unavailable", StatusMessage(errors.New("boom")))
}

func TestIPLookup(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"status":"success","lat":48.8566,"lon":2.3522}`,
		},
		{
			name:    "forbidden maps to permission denied",
			status:  http.StatusForbidden,
			body:    `denied`,
			wantErr: ErrPermissionDenied,
		},
		{
			name:    "failed lookup",
			status:  http.StatusOK,
			body:    `{"status":"fail","message":"private range"}`,
			wantErr: ErrUnavailable,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"status":`,
			wantErr: ErrUnavailable,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "geostamp-test", r.Header.Get("User-Agent"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			l := &IPLookup{URL: srv.URL, UserAgent: "geostamp-test"}
			fix, err := Locate(context.Background(), l, Request{Timeout: time.Second})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 48.8566, fix.Latitude)
			assert.Equal(t, 2.3522, fix.Longitude)
			assert.Equal(t, ipLookupAccuracy, fix.AccuracyMeters)
			assert.Equal(t, "ip", fix.Source)
		})
	}
}

func TestCached_MaximumAge(t *testing.T) {
	assert := assert.New(t)

	calls := 0
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	inner := ProviderFunc(func(context.Context, Request) (Fix, error) {
		calls++
		return Fix{Coordinate: Coordinate{Latitude: float64(calls)}, Timestamp: now}, nil
	})
	c := &Cached{Provider: inner, Now: func() time.Time { return now }}

	fix, err := c.Locate(context.Background(), Request{MaximumAge: time.Minute})
	assert.NoError(err)
	assert.Equal(1.0, fix.Latitude)

	now = now.Add(30 * time.Second)
	fix, err = c.Locate(context.Background(), Request{MaximumAge: time.Minute})
	assert.NoError(err)
	assert.Equal(1.0, fix.Latitude, "fix younger than MaximumAge should be reused")

	fix, err = c.Locate(context.Background(), Request{})
	assert.NoError(err)
	assert.Equal(2.0, fix.Latitude, "zero MaximumAge always asks for a fresh fix")
	assert.Equal(2, calls)
}
