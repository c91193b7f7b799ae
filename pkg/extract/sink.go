package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// recordSep frames records in stream output, matching the original tool's
// stdout framing.
var recordSep = []byte("\r\n")

// Sink receives extracted records, one artifact per record, in discovery
// order.
type Sink interface {
	Write(rec Record, data []byte) error
	Close() error
}

// PartFileSink writes each record to <source base>.partNNNN under a
// directory. Names are derived from the source name and the record index,
// so they are stable and collision-free within a run.
type PartFileSink struct {
	dir  string
	base string
}

// NewPartFileSink creates a sink writing part files for srcPath under dir.
func NewPartFileSink(dir, srcPath string) *PartFileSink {
	return &PartFileSink{dir: dir, base: filepath.Base(srcPath)}
}

// PartName returns the artifact name for a record index.
func (s *PartFileSink) PartName(index int) string {
	return fmt.Sprintf("%s.part%04d", s.base, index)
}

func (s *PartFileSink) Write(rec Record, data []byte) error {
	path := filepath.Join(s.dir, s.PartName(rec.Index))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &IOError{Path: path, Op: "write", Err: err}
	}
	return nil
}

func (s *PartFileSink) Close() error {
	return nil
}

// StreamSink appends every record to a single writer, separated by CRLF.
type StreamSink struct {
	w io.Writer
}

// NewStreamSink creates a sink writing all records to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

func (s *StreamSink) Write(rec Record, data []byte) error {
	if _, err := s.w.Write(data); err != nil {
		return &IOError{Path: "stream", Op: "write", Err: err}
	}
	if _, err := s.w.Write(recordSep); err != nil {
		return &IOError{Path: "stream", Op: "write", Err: err}
	}
	return nil
}

func (s *StreamSink) Close() error {
	return nil
}
