package scan

import (
	"fmt"

	"github.com/vicschmitt/blxtract/pkg/delim"
)

// FormatMismatchError reports that two delimiter candidates disagree about
// the record boundaries of a file. The offsets are the first point of
// divergence; -1 means the candidate has no offset at that position.
type FormatMismatchError struct {
	Path       string
	CandidateA string
	CandidateB string
	OffsetA    int64
	OffsetB    int64
}

func (e *FormatMismatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: format mismatch: candidates %q and %q disagree (offset %d vs %d)",
			e.Path, e.CandidateA, e.CandidateB, e.OffsetA, e.OffsetB)
	}
	return fmt.Sprintf("format mismatch: candidates %q and %q disagree (offset %d vs %d)",
		e.CandidateA, e.CandidateB, e.OffsetA, e.OffsetB)
}

// ValidateOrdered scans each candidate independently and checks that every
// candidate with at least one match reports the same offset list.
// Candidates absent from the buffer are ignored: a file normally carries
// only one variant of the format. Validation only flags; it never picks an
// authoritative candidate.
func ValidateOrdered(buf []byte, set *delim.Set) error {
	var (
		ref     OffsetList
		refName string
		have    bool
	)
	for _, d := range set.Candidates() {
		offs := ScanCandidate(buf, d)
		if len(offs) == 0 {
			continue
		}
		if !have {
			ref, refName, have = offs, d.Name(), true
			continue
		}
		if !ref.Equal(offs) {
			a, b := firstDivergence(ref, offs)
			return &FormatMismatchError{
				CandidateA: refName,
				CandidateB: d.Name(),
				OffsetA:    a,
				OffsetB:    b,
			}
		}
	}
	return nil
}

// firstDivergence returns the earliest pair of offsets where the two lists
// differ, using -1 for the exhausted side when one list is a prefix of the
// other.
func firstDivergence(a, b OffsetList) (int64, int64) {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i], b[i]
		}
	}
	if len(a) > len(b) {
		return a[len(b)], -1
	}
	if len(b) > len(a) {
		return -1, b[len(a)]
	}
	return -1, -1
}
