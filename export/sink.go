package export

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Artifact describes an exported capture.
type Artifact struct {
	Name string
	// Location is where the file can be fetched from: a path or a URL.
	Location string
	Size     int64
}

// Sink delivers encoded captures to the user.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (Artifact, error)
}

// DirSink writes captures into a download directory.
type DirSink struct {
	Dir string
}

// Save writes data to Dir/name. Existing files are never overwritten.
func (s DirSink) Save(ctx context.Context, name string, data []byte) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifact{}, errors.Wrap(err, "creating download directory")
	}

	path := filepath.Join(dir, filepath.Base(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "creating %s", path)
	}
	n, err := f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "writing %s", path)
	}
	return Artifact{Name: name, Location: path, Size: int64(n)}, nil
}

// WriterSink streams captures to a writer, typically stdout.
type WriterSink struct {
	W io.Writer
}

// Save copies data to the underlying writer.
func (s WriterSink) Save(_ context.Context, name string, data []byte) (Artifact, error) {
	n, err := s.W.Write(data)
	if err != nil {
		return Artifact{}, errors.Wrap(err, "writing capture")
	}
	return Artifact{Name: name, Location: "-", Size: int64(n)}, nil
}
