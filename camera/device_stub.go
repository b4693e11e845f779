//go:build !gocv

package camera

import (
	"context"
	"fmt"
	"image"
)

// Device is unavailable in builds without the gocv tag.
type Device struct{}

// OpenDevice always fails without the gocv build tag.
func OpenDevice(id int) (*Device, error) {
	return nil, fmt.Errorf("%w: video device %d requires a build with -tags gocv", ErrNotReady, id)
}

// Frame reports that no device is available.
func (d *Device) Frame(context.Context) (image.Image, error) {
	return nil, ErrNotReady
}

// Close is a no-op.
func (d *Device) Close() error { return nil }
