// Package export encodes stamped frames and hands them to a download sink.
package export

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultPrefix is the file name prefix of exported captures.
const DefaultPrefix = "geostamp"

// Namer produces download file names of the form <prefix>-<epoch millis>.jpg.
// Names from the same Namer are strictly increasing, even when two captures
// land in the same millisecond.
type Namer struct {
	Prefix string
	Ext    string
	// Now is the clock; nil means time.Now.
	Now func() time.Time

	mu   sync.Mutex
	last int64
}

// NewNamer returns a Namer for JPEG files with the given prefix.
func NewNamer(prefix string) *Namer {
	return &Namer{Prefix: prefix}
}

// Next returns the next file name.
func (n *Namer) Next() string {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	n.mu.Lock()
	ms := now().UnixMilli()
	if ms <= n.last {
		ms = n.last + 1
	}
	n.last = ms
	n.mu.Unlock()

	prefix := strings.TrimSpace(n.Prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	ext := n.Ext
	if ext == "" {
		ext = ".jpg"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s-%d%s", prefix, ms, ext)
}
