//go:build gocv

package camera

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// DefaultWarmup is the number of frames discarded after the device opens,
// while exposure and white balance settle.
const DefaultWarmup = 5

// Device captures frames from a video device through OpenCV.
type Device struct {
	mu     sync.Mutex
	webcam *gocv.VideoCapture
	mat    gocv.Mat
	warmup int
}

// OpenDevice opens the video device with the given index.
func OpenDevice(id int) (*Device, error) {
	webcam, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, fmt.Errorf("%w: opening video device %d: %v", ErrNotReady, id, err)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return nil, fmt.Errorf("%w: video device %d is not open", ErrNotReady, id)
	}
	return &Device{webcam: webcam, mat: gocv.NewMat(), warmup: DefaultWarmup}, nil
}

// Frame grabs the next frame from the device.
func (d *Device) Frame(ctx context.Context) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.webcam == nil {
		return nil, ErrNotReady
	}
	for ; d.warmup > 0; d.warmup-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d.webcam.Read(&d.mat)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if ok := d.webcam.Read(&d.mat); !ok || d.mat.Empty() {
		return nil, fmt.Errorf("%w: no frame from device", ErrNotReady)
	}
	img, err := d.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	return img, nil
}

// Close releases the device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.webcam == nil {
		return nil
	}
	d.mat.Close()
	err := d.webcam.Close()
	d.webcam = nil
	return err
}
