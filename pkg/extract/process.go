package extract

import (
	"errors"
	"os"

	"github.com/segmentio/ksuid"

	"github.com/vicschmitt/blxtract/pkg/scan"
)

// ProcessFile runs one file through the full pipeline: load, validate,
// partition, write. The source buffer is owned by this call and released
// when it returns. Failures are terminal for this file only; callers keep
// going with the rest of the batch.
func ProcessFile(path string, opts Options, sink Sink, m *Metrics) (FileResult, error) {
	res := FileResult{Path: path}

	ex, err := NewExtractor(opts)
	if err != nil {
		return res, err
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		ioErr := &IOError{Path: path, Op: "open", Err: err}
		m.ObserveFile(res, true)
		return res, ioErr
	}
	res.Bytes = int64(len(buf))

	if len(buf) == 0 {
		// Nothing to partition; an empty source is not an error.
		m.ObserveFile(res, false)
		return res, nil
	}

	it, err := ex.Extract(buf)
	if err != nil {
		var mismatch *scan.FormatMismatchError
		if errors.As(err, &mismatch) {
			mismatch.Path = path
		}
		m.ObserveFile(res, true)
		return res, err
	}

	marker := ex.opts.EndMarker

	for it.Next() {
		rec := it.Record()
		data := rec.Payload()
		if opts.KeepDelims {
			data = rec.Raw()
		}
		if opts.Decode {
			decoded, derr := rec.Decode(opts.Rotation, marker)
			if derr != nil {
				res.Skipped++
				continue
			}
			data = decoded
		}
		if werr := sink.Write(rec, data); werr != nil {
			m.ObserveFile(res, true)
			return res, werr
		}
		res.Records++
	}

	m.ObserveFile(res, false)
	return res, nil
}

// BatchResult aggregates the outcome of one invocation across all input
// files. The RunID stamps log output so interleaved runs can be told apart.
type BatchResult struct {
	RunID    string
	Files    []FileResult
	Failures int
}

// NewBatchResult creates an empty batch result with a fresh run ID.
func NewBatchResult() *BatchResult {
	return &BatchResult{RunID: ksuid.New().String()}
}

// Add records one file's outcome.
func (b *BatchResult) Add(res FileResult, err error) {
	b.Files = append(b.Files, res)
	if err != nil {
		b.Failures++
	}
}

// Failed reports whether any file in the batch failed.
func (b *BatchResult) Failed() bool {
	return b.Failures > 0
}

// Records returns the total record count across the batch.
func (b *BatchResult) Records() int {
	total := 0
	for _, f := range b.Files {
		total += f.Records
	}
	return total
}
