// Package delim models the delimiter byte sequences that mark record
// boundaries inside BLX container files. The format is undocumented; the
// patterns below were recovered by inspection and are stored in the files
// rotated right by 3, so the plaintext candidates are rotated at
// construction and record payloads are rotated back to decode.
package delim

import (
	"bytes"
	"fmt"
	"strconv"
)

// BLXRotation is the byte rotation applied to delimiters and record
// payloads inside BLX files.
const BLXRotation = 3

// BLXEndMarker terminates a decoded record payload.
const BLXEndMarker = ".dev@7964"

// BLXStartMarks are the known start-of-record delimiter candidates, in
// plaintext (pre-rotation) form.
var BLXStartMarks = []string{"xT1y22", "tx16!!", "eTreppid1!", "shaitan123"}

// Errors
var (
	ErrEmptyPattern = &Error{"empty delimiter pattern"}
	ErrEmptySet     = &Error{"delimiter set has no candidates"}
)

// Error represents a delimiter construction error
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Delimiter is an immutable fixed byte sequence used as a record boundary
// marker. The name identifies the candidate in diagnostics; for the BLX
// marks it is the plaintext form of the rotated on-disk pattern.
type Delimiter struct {
	name string
	pat  []byte
}

// New creates a delimiter from a name and its on-disk byte pattern.
func New(name string, pat []byte) (Delimiter, error) {
	if len(pat) == 0 {
		return Delimiter{}, ErrEmptyPattern
	}
	p := make([]byte, len(pat))
	copy(p, pat)
	return Delimiter{name: name, pat: p}, nil
}

// Name returns the diagnostic name of the delimiter.
func (d Delimiter) Name() string {
	return d.name
}

// Bytes returns the on-disk byte pattern.
func (d Delimiter) Bytes() []byte {
	return d.pat
}

// Len returns the pattern length in bytes.
func (d Delimiter) Len() int {
	return len(d.pat)
}

// Equal reports whether two delimiters have the same byte pattern.
func (d Delimiter) Equal(o Delimiter) bool {
	return bytes.Equal(d.pat, o.pat)
}

// MatchesAt reports whether the pattern occurs in buf starting at off.
func (d Delimiter) MatchesAt(buf []byte, off int) bool {
	if off < 0 || off+len(d.pat) > len(buf) {
		return false
	}
	return bytes.Equal(buf[off:off+len(d.pat)], d.pat)
}

// Rotate returns a new delimiter with every pattern byte rotated by n
// (modulo 256). The name is preserved.
func (d Delimiter) Rotate(n int) Delimiter {
	return Delimiter{name: d.name, pat: Rot(d.pat, n)}
}

func (d Delimiter) String() string {
	return fmt.Sprintf("%s=%s", d.name, strconv.Quote(string(d.pat)))
}

// Rot returns a copy of data with every byte rotated by n, wrapping modulo
// 256. Rot(x, n) followed by Rot(x, -n) is the identity.
func Rot(data []byte, n int) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = byte(int(b) + n)
	}
	return out
}

// Set is an ordered collection of delimiter candidates sharing a first-byte
// lookup table that gates the scan loop. Candidates are checked in
// insertion order; the first match at a position wins.
type Set struct {
	cands   []Delimiter
	isFirst [256]bool
	maxLen  int
}

// NewSet creates a set from one or more candidates.
func NewSet(cands ...Delimiter) (*Set, error) {
	if len(cands) == 0 {
		return nil, ErrEmptySet
	}
	s := &Set{cands: make([]Delimiter, len(cands))}
	copy(s.cands, cands)
	for _, d := range s.cands {
		if d.Len() == 0 {
			return nil, ErrEmptyPattern
		}
		s.isFirst[d.pat[0]] = true
		if d.Len() > s.maxLen {
			s.maxLen = d.Len()
		}
	}
	return s, nil
}

// BLXSet returns the default candidate set: the four known BLX start marks
// in their rotated on-disk form.
func BLXSet() *Set {
	cands := make([]Delimiter, 0, len(BLXStartMarks))
	for _, m := range BLXStartMarks {
		cands = append(cands, Delimiter{name: m, pat: Rot([]byte(m), BLXRotation)})
	}
	s, err := NewSet(cands...)
	if err != nil {
		// The built-in marks are never empty.
		panic(err)
	}
	return s
}

// Candidates returns the candidates in insertion order.
func (s *Set) Candidates() []Delimiter {
	return s.cands
}

// MaxLen returns the length of the longest candidate pattern.
func (s *Set) MaxLen() int {
	return s.maxLen
}

// FirstByte reports whether b starts any candidate pattern.
func (s *Set) FirstByte(b byte) bool {
	return s.isFirst[b]
}

// MatchAt returns the first candidate whose pattern occurs in buf at off.
func (s *Set) MatchAt(buf []byte, off int) (Delimiter, bool) {
	for _, d := range s.cands {
		if d.MatchesAt(buf, off) {
			return d, true
		}
	}
	return Delimiter{}, false
}
