// Package extract partitions BLX source buffers into delimiter-bounded
// records and writes each record to an output sink.
package extract

import (
	"github.com/vicschmitt/blxtract/pkg/delim"
	"github.com/vicschmitt/blxtract/pkg/scan"
)

// Options configures an Extractor.
type Options struct {
	Set        *delim.Set // delimiter candidates; required
	Ordered    bool       // cross-check candidates before extracting
	Decode     bool       // ROT-decode payloads and trim at the end marker
	KeepDelims bool       // emit raw ranges instead of payloads
	Rotation   int        // byte rotation applied by Decode
	EndMarker  []byte     // decoded end-of-record marker; defaults to the BLX marker
}

// Extractor splits source buffers into records.
type Extractor struct {
	opts Options
}

// NewExtractor validates options and creates an extractor.
func NewExtractor(opts Options) (*Extractor, error) {
	if opts.Set == nil {
		return nil, ErrNoDelims
	}
	if opts.EndMarker == nil {
		opts.EndMarker = []byte(delim.BLXEndMarker)
	}
	return &Extractor{opts: opts}, nil
}

// Extract partitions buf into records. When Ordered is set, delimiter
// candidates are first validated against each other; disagreement returns a
// *scan.FormatMismatchError and nothing is extracted. The returned iterator
// is lazy, finite and single-pass. The buffer must not be modified until
// the iterator is exhausted: records alias it.
func (e *Extractor) Extract(buf []byte) (*Iterator, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyBuffer
	}
	if e.opts.Ordered {
		if err := scan.ValidateOrdered(buf, e.opts.Set); err != nil {
			return nil, err
		}
	}
	offsets := scan.ScanBuffer(buf, e.opts.Set)
	return &Iterator{buf: buf, offsets: offsets, set: e.opts.Set}, nil
}

// Iterator yields the records of one source buffer in discovery order.
// Next/Record follow the usual streaming-iterator shape; Close is a no-op
// kept for symmetry with record sinks.
type Iterator struct {
	buf     []byte
	offsets scan.OffsetList
	set     *delim.Set

	pos     int // next offset index
	started bool
	done    bool
	cur     Record
	index   int
}

// Next advances to the next record. It returns false once the buffer is
// exhausted.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	if !it.started {
		it.started = true
		if len(it.offsets) == 0 {
			// No delimiters: the whole buffer is a single record.
			it.cur = Record{Index: 0, Start: 0, End: int64(len(it.buf)), buf: it.buf}
			it.index = 1
			it.done = true
			return true
		}
		if it.offsets[0] > 0 {
			// Leading partial before the first delimiter.
			it.cur = Record{Index: 0, Start: 0, End: it.offsets[0], buf: it.buf}
			it.index = 1
			return true
		}
	}

	if it.pos >= len(it.offsets) {
		it.done = true
		return false
	}

	start := it.offsets[it.pos]
	end := int64(len(it.buf))
	if it.pos+1 < len(it.offsets) {
		end = it.offsets[it.pos+1]
	}
	dl := 0
	if d, ok := it.set.MatchAt(it.buf, int(start)); ok {
		dl = d.Len()
	}
	if int64(dl) > end-start {
		dl = int(end - start)
	}
	it.cur = Record{Index: it.index, Start: start, End: end, DelimLen: dl, buf: it.buf}
	it.index++
	it.pos++
	if it.pos >= len(it.offsets) {
		it.done = true
	}
	return true
}

// Record returns the current record. Valid only after Next reported true.
func (it *Iterator) Record() Record {
	return it.cur
}

// Close releases nothing; it exists so callers can treat the iterator like
// other single-pass readers.
func (it *Iterator) Close() error {
	return nil
}
