package extract

import (
	"bytes"

	"github.com/vicschmitt/blxtract/pkg/delim"
)

// Record is one contiguous [Start, End) range of a source buffer. Each
// record after a leading partial begins with the delimiter that bounded it;
// DelimLen is that delimiter's length (0 for a leading partial). Raw ranges
// of the records of one buffer tile it exactly: every Start equals the
// previous record's End.
type Record struct {
	Index    int   // discovery order within the source buffer
	Start    int64 // inclusive
	End      int64 // exclusive
	DelimLen int   // leading delimiter bytes included in the raw range

	buf []byte
}

// Raw returns the full [Start, End) range, leading delimiter included.
func (r Record) Raw() []byte {
	return r.buf[r.Start:r.End]
}

// Payload returns the range with the leading delimiter stripped.
func (r Record) Payload() []byte {
	return r.buf[r.Start+int64(r.DelimLen) : r.End]
}

// Len returns the raw length in bytes.
func (r Record) Len() int64 {
	return r.End - r.Start
}

// Decode rotates the payload left by rotation and trims it at the first
// occurrence of the end-of-record marker. BLX records are stored rotated
// right by 3 and terminated by ".dev@7964" in decoded form.
func (r Record) Decode(rotation int, marker []byte) ([]byte, error) {
	decoded := delim.Rot(r.Payload(), -rotation)
	end := bytes.Index(decoded, marker)
	if end < 0 {
		return nil, ErrNoEndMarker
	}
	return decoded[:end], nil
}
