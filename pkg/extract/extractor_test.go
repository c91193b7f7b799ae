package extract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vicschmitt/blxtract/pkg/delim"
	"github.com/vicschmitt/blxtract/pkg/scan"
)

func mustSet(t *testing.T, patterns ...string) *delim.Set {
	t.Helper()
	cands := make([]delim.Delimiter, 0, len(patterns))
	for _, p := range patterns {
		d, err := delim.New(p, []byte(p))
		require.NoError(t, err)
		cands = append(cands, d)
	}
	set, err := delim.NewSet(cands...)
	require.NoError(t, err)
	return set
}

func collect(t *testing.T, it *Iterator) []Record {
	t.Helper()
	var recs []Record
	for it.Next() {
		recs = append(recs, it.Record())
	}
	require.NoError(t, it.Close())
	return recs
}

func TestExtract_Payloads(t *testing.T) {
	set := mustSet(t, "<DELIM>")
	ex, err := NewExtractor(Options{Set: set})
	require.NoError(t, err)

	it, err := ex.Extract([]byte("AAA<DELIM>BBB<DELIM>CCC"))
	require.NoError(t, err)

	recs := collect(t, it)
	require.Len(t, recs, 3)
	assert.Equal(t, []byte("AAA"), recs[0].Payload())
	assert.Equal(t, []byte("BBB"), recs[1].Payload())
	assert.Equal(t, []byte("CCC"), recs[2].Payload())
	for i, rec := range recs {
		assert.Equal(t, i, rec.Index)
	}
}

func TestExtract_PartitionIsExhaustive(t *testing.T) {
	set := mustSet(t, "ab", "wxyz")
	buf := []byte("leading ab one wxyz two ab ab trailing")

	ex, err := NewExtractor(Options{Set: set})
	require.NoError(t, err)
	it, err := ex.Extract(buf)
	require.NoError(t, err)

	var reassembled []byte
	var prevEnd int64
	for _, rec := range collect(t, it) {
		assert.Equal(t, prevEnd, rec.Start, "records must tile without gaps")
		prevEnd = rec.End
		reassembled = append(reassembled, rec.Raw()...)
	}
	assert.Equal(t, int64(len(buf)), prevEnd)
	assert.Equal(t, buf, reassembled, "raw ranges must reconstruct the buffer")
}

func TestExtract_NoDelimiter(t *testing.T) {
	set := mustSet(t, "<DELIM>")
	ex, err := NewExtractor(Options{Set: set})
	require.NoError(t, err)

	buf := []byte("no delimiter anywhere")
	it, err := ex.Extract(buf)
	require.NoError(t, err)

	recs := collect(t, it)
	require.Len(t, recs, 1)
	assert.Equal(t, buf, recs[0].Raw())
	assert.Zero(t, recs[0].DelimLen)
}

func TestExtract_DelimiterAtStart(t *testing.T) {
	set := mustSet(t, "<D>")
	ex, err := NewExtractor(Options{Set: set})
	require.NoError(t, err)

	it, err := ex.Extract([]byte("<D>only"))
	require.NoError(t, err)

	recs := collect(t, it)
	require.Len(t, recs, 1, "no leading partial when the buffer starts with a delimiter")
	assert.Equal(t, []byte("only"), recs[0].Payload())
	assert.Equal(t, 3, recs[0].DelimLen)
}

func TestExtract_DelimiterAtEnd(t *testing.T) {
	set := mustSet(t, "<D>")
	ex, err := NewExtractor(Options{Set: set})
	require.NoError(t, err)

	it, err := ex.Extract([]byte("data<D>"))
	require.NoError(t, err)

	recs := collect(t, it)
	require.Len(t, recs, 2)
	assert.Equal(t, []byte("data"), recs[0].Raw())
	assert.Equal(t, []byte("<D>"), recs[1].Raw())
	assert.Empty(t, recs[1].Payload())
}

func TestExtract_EmptyBuffer(t *testing.T) {
	ex, err := NewExtractor(Options{Set: mustSet(t, "<D>")})
	require.NoError(t, err)

	_, err = ex.Extract(nil)
	assert.ErrorIs(t, err, ErrEmptyBuffer)
}

func TestNewExtractor_NoSet(t *testing.T) {
	_, err := NewExtractor(Options{})
	assert.ErrorIs(t, err, ErrNoDelims)
}

func TestExtract_OrderedMismatch(t *testing.T) {
	set := mustSet(t, "ab", "abc")
	ex, err := NewExtractor(Options{Set: set, Ordered: true})
	require.NoError(t, err)

	_, err = ex.Extract([]byte("..ab..abc.."))
	require.Error(t, err)

	var mismatch *scan.FormatMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestExtract_OrderedAgreement(t *testing.T) {
	set := mustSet(t, "ab", "abc")
	ex, err := NewExtractor(Options{Set: set, Ordered: true})
	require.NoError(t, err)

	it, err := ex.Extract([]byte("..abc..abc.."))
	require.NoError(t, err)
	assert.Len(t, collect(t, it), 3)
}

func TestIterator_SinglePass(t *testing.T) {
	set := mustSet(t, "<D>")
	ex, err := NewExtractor(Options{Set: set})
	require.NoError(t, err)

	it, err := ex.Extract([]byte("a<D>b"))
	require.NoError(t, err)

	n := 0
	for it.Next() {
		n++
	}
	assert.Equal(t, 2, n)
	assert.False(t, it.Next(), "iterator is not restartable")
}

func TestRecordDecode(t *testing.T) {
	// Payload stored rotated right by 3, with the marker appearing after
	// decoding.
	plain := []byte("record body" + delim.BLXEndMarker + "slack")
	stored := delim.Rot(plain, delim.BLXRotation)

	rec := Record{Start: 0, End: int64(len(stored)), buf: stored}
	decoded, err := rec.Decode(delim.BLXRotation, []byte(delim.BLXEndMarker))
	require.NoError(t, err)
	assert.Equal(t, []byte("record body"), decoded)
}

func TestRecordDecode_NoMarker(t *testing.T) {
	stored := delim.Rot([]byte("no terminator here"), delim.BLXRotation)
	rec := Record{Start: 0, End: int64(len(stored)), buf: stored}

	_, err := rec.Decode(delim.BLXRotation, []byte(delim.BLXEndMarker))
	assert.ErrorIs(t, err, ErrNoEndMarker)
}

func TestExtract_BLXDefaults(t *testing.T) {
	// End-to-end with the real BLX candidate set: two records stored in
	// rotated form, each terminated by the decoded end marker.
	set := delim.BLXSet()
	mark := delim.Rot([]byte(delim.BLXStartMarks[0]), delim.BLXRotation)

	var buf bytes.Buffer
	buf.WriteString("garbage prefix")
	buf.Write(mark)
	buf.Write(delim.Rot([]byte("first record"+delim.BLXEndMarker+"pad"), delim.BLXRotation))
	buf.Write(mark)
	buf.Write(delim.Rot([]byte("second record"+delim.BLXEndMarker), delim.BLXRotation))

	ex, err := NewExtractor(Options{Set: set, Decode: true, Rotation: delim.BLXRotation})
	require.NoError(t, err)
	it, err := ex.Extract(buf.Bytes())
	require.NoError(t, err)

	var decoded [][]byte
	for it.Next() {
		d, derr := it.Record().Decode(delim.BLXRotation, []byte(delim.BLXEndMarker))
		if derr != nil {
			continue
		}
		decoded = append(decoded, d)
	}
	require.Len(t, decoded, 2)
	assert.Equal(t, []byte("first record"), decoded[0])
	assert.Equal(t, []byte("second record"), decoded[1])
}
