// Package progress provides the per-file progress indicator for batch
// extraction. The tracker is a plain value owned by the caller's loop; it
// holds no process-wide state and a nil or disabled tracker is a no-op.
package progress

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// Tracker reports coarse per-file progress to a writer.
type Tracker struct {
	out     io.Writer
	total   int
	current int
	enabled bool
}

// New creates a tracker for a batch of total files. When enabled is false
// every method is a no-op.
func New(out io.Writer, total int, enabled bool) *Tracker {
	return &Tracker{out: out, total: total, enabled: enabled}
}

// Start announces that the next file is being processed.
func (t *Tracker) Start(name string, size int64) {
	if t == nil || !t.enabled {
		return
	}
	t.current++
	fmt.Fprintf(t.out, "[%d/%d] %s (%s)\n", t.current, t.total, name, humanize.IBytes(uint64(size)))
}

// Done reports the outcome of the file announced by the last Start.
func (t *Tracker) Done(name string, records int, err error) {
	if t == nil || !t.enabled {
		return
	}
	if err != nil {
		fmt.Fprintf(t.out, "[%d/%d] %s: failed: %v\n", t.current, t.total, name, err)
		return
	}
	fmt.Fprintf(t.out, "[%d/%d] %s: %d records\n", t.current, t.total, name, records)
}
