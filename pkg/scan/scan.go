// Package scan locates delimiter occurrences in BLX source buffers and
// streams. Scanning is pure: the same buffer and candidate set always
// produce the same offset list.
package scan

import (
	"bytes"
	"io"
	"sort"

	"github.com/vicschmitt/blxtract/pkg/delim"
)

// DefaultChunkSize is the read size used when scanning a stream.
const DefaultChunkSize = 16 * 1024 * 1024

// OffsetList is an ascending, de-duplicated list of byte offsets where a
// delimiter match starts.
type OffsetList []int64

// Errors
var (
	ErrUnordered = &ScanError{"offset list is not strictly increasing"}
)

// ScanError represents an offset discovery error
type ScanError struct {
	Message string
}

func (e *ScanError) Error() string {
	return e.Message
}

// Validate checks the strictly-increasing invariant.
func (l OffsetList) Validate() error {
	for i := 1; i < len(l); i++ {
		if l[i] <= l[i-1] {
			return ErrUnordered
		}
	}
	return nil
}

// Equal reports whether two offset lists hold the same offsets.
func (l OffsetList) Equal(o OffsetList) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i] != o[i] {
			return false
		}
	}
	return true
}

// Merge combines offset lists into one ascending list, dropping coincident
// offsets reported by more than one candidate.
func Merge(lists ...OffsetList) OffsetList {
	var out OffsetList
	for _, l := range lists {
		out = append(out, l...)
	}
	if len(out) < 2 {
		return out
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	dedup := out[:1]
	for _, off := range out[1:] {
		if off != dedup[len(dedup)-1] {
			dedup = append(dedup, off)
		}
	}
	return dedup
}

// ScanBuffer finds every delimiter occurrence in buf, all candidates in one
// left-to-right pass. A first-byte table gates the inner comparison; after
// a match the scan resumes past the matched pattern, so occurrences do not
// overlap. Coincident matches from different candidates yield one offset.
func ScanBuffer(buf []byte, set *delim.Set) OffsetList {
	offsets, _ := scanWindow(buf, 0, len(buf), set, nil)
	return offsets
}

// ScanCandidate finds every non-overlapping occurrence of a single
// candidate in buf, leftmost first.
func ScanCandidate(buf []byte, d delim.Delimiter) OffsetList {
	pat := d.Bytes()
	var offsets OffsetList
	for i := 0; i+len(pat) <= len(buf); {
		j := bytes.Index(buf[i:], pat)
		if j < 0 {
			break
		}
		offsets = append(offsets, int64(i+j))
		i += j + len(pat)
	}
	return offsets
}

// scanWindow scans window[from:limit) for matches, appending window-relative
// offsets. It returns the updated list and the position where the scan
// stopped, which may exceed limit when a match starting before limit ends
// past it.
func scanWindow(window []byte, from, limit int, set *delim.Set, offsets OffsetList) (OffsetList, int) {
	i := from
	for i < limit {
		if !set.FirstByte(window[i]) {
			i++
			continue
		}
		if d, ok := set.MatchAt(window, i); ok {
			offsets = append(offsets, int64(i))
			i += d.Len()
			continue
		}
		i++
	}
	return offsets, i
}

// ScanReader scans a stream in chunks of chunkSize bytes, carrying the
// trailing MaxLen()-1 bytes into the next chunk so matches crossing a chunk
// boundary are found exactly once. It returns the offsets, the total number
// of bytes read, and any read error.
func ScanReader(r io.Reader, set *delim.Set, chunkSize int) (OffsetList, int64, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize < set.MaxLen() {
		chunkSize = set.MaxLen()
	}

	var (
		offsets OffsetList
		window  []byte
		base    int64 // absolute offset of window[0]
		from    int   // next unscanned position within window
		total   int64
	)
	carry := set.MaxLen() - 1
	chunk := make([]byte, chunkSize)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			total += int64(n)
			window = append(window, chunk[:n]...)
		}
		eof := err == io.EOF
		if err != nil && !eof {
			return nil, total, err
		}

		// Positions within the carry tail are re-examined on the next
		// round once the following chunk has arrived.
		limit := len(window)
		if !eof && limit > carry {
			limit -= carry
		} else if !eof {
			limit = 0
		}

		rel, next := scanWindow(window, from, limit, set, nil)
		for _, p := range rel {
			offsets = append(offsets, base+p)
		}

		if eof {
			return offsets, total, nil
		}

		keep := len(window) - carry
		if keep < 0 {
			keep = 0
		}
		copy(window, window[keep:])
		window = window[:len(window)-keep]
		base += int64(keep)
		from = next - keep
		if from < 0 {
			from = 0
		}
	}
}
