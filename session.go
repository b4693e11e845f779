package geostamp

import (
	"fmt"

	"github.com/geostamp/geostamp/export"
	"github.com/geostamp/geostamp/location"
)

// Phase is the step a capture session is in.
type Phase int

const (
	Idle Phase = iota
	Locating
	Located
	LocationFailed
	Capturing
	Exported
	CaptureFailed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Locating:
		return "locating"
	case Located:
		return "located"
	case LocationFailed:
		return "location-failed"
	case Capturing:
		return "capturing"
	case Exported:
		return "exported"
	case CaptureFailed:
		return "capture-failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Session is the state of one capture. It is a value: every transition
// returns an updated copy and leaves the receiver untouched.
type Session struct {
	Phase Phase
	// Fix is nil until a position was resolved.
	Fix *location.Fix
	// LocationErr is the reason the last fix failed, if it did.
	LocationErr error
	Address     string
	Artifact    export.Artifact
	Err         error
}

// NewSession returns an idle session.
func NewSession() Session {
	return Session{Phase: Idle}
}

// Locating marks the start of a position request.
func (s Session) Locating() Session {
	s.Phase = Locating
	return s
}

// Located records a resolved fix.
func (s Session) Located(fix location.Fix) Session {
	s.Phase = Located
	s.Fix = &fix
	s.LocationErr = nil
	return s
}

// LocationFailed records a failed position request. Any earlier fix is dropped.
func (s Session) LocationFailed(err error) Session {
	s.Phase = LocationFailed
	s.Fix = nil
	s.LocationErr = err
	return s
}

// Capturing marks the start of a frame capture.
func (s Session) Capturing() Session {
	s.Phase = Capturing
	s.Err = nil
	s.Artifact = export.Artifact{}
	return s
}

// Geocoded records the display address used for the overlay.
func (s Session) Geocoded(address string) Session {
	s.Address = address
	return s
}

// Exported records the delivered artifact.
func (s Session) Exported(a export.Artifact) Session {
	s.Phase = Exported
	s.Artifact = a
	s.Err = nil
	return s
}

// CaptureFailed records why the capture was aborted.
func (s Session) CaptureFailed(err error) Session {
	s.Phase = CaptureFailed
	s.Err = err
	return s
}

// Status is the message shown to the user for the current state.
func (s Session) Status() string {
	switch s.Phase {
	case Idle:
		return "Ready"
	case Locating:
		return "Getting location..."
	case Located:
		return "Location acquired"
	case LocationFailed:
		return location.StatusMessage(s.LocationErr)
	case Capturing:
		return "Capturing..."
	case Exported:
		return "Saved " + s.Artifact.Name
	case CaptureFailed:
		if s.Err != nil {
			return "Capture failed: " + s.Err.Error()
		}
		return "Capture failed"
	}
	return ""
}
