package extract

import "fmt"

// Errors
var (
	ErrEmptyBuffer = &ExtractError{"empty source buffer"}
	ErrNoEndMarker = &ExtractError{"end-of-record marker not found"}
	ErrNoDelims    = &ExtractError{"no delimiter set configured"}
)

// ExtractError represents an extraction error
type ExtractError struct {
	Message string
}

func (e *ExtractError) Error() string {
	return e.Message
}

// IOError reports an unreadable source or unwritable output artifact. The
// file it names aborts; the rest of the batch continues.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FileResult summarizes one input file's extraction.
type FileResult struct {
	Path    string // resolved source path
	Records int    // records written
	Bytes   int64  // source bytes scanned
	Skipped int    // records dropped in decode mode for lack of an end marker
}
