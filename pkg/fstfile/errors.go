package fstfile

import (
	"errors"
	"fmt"
)

// Error kinds per spec section 7, all fatal to the current call. Matches
// the teacher's fmt.Errorf("...: %w", err) wrapping convention throughout
// deserialize.go/serialize.go, with sentinel values for errors.Is checks.
var (
	ErrOpenFailure       = errors.New("fstfile: could not open file")
	ErrCorruptHeader     = errors.New("fstfile: corrupt or truncated header")
	ErrNotFstFile        = errors.New("fstfile: not an fst file")
	ErrVersionTooNew     = errors.New("fstfile: file from newer version")
	ErrEmptyDataset      = errors.New("fstfile: dataset has no columns or no rows")
	ErrUnknownType       = errors.New("fstfile: unknown column type")
	ErrColumnNotFound    = errors.New("fstfile: selected column not found")
	ErrRangeError        = errors.New("fstfile: invalid row range")
	ErrMultiChunk        = errors.New("fstfile: multiple chunks not implemented")
)

// ColumnNotFoundError carries the offending column name, matching the
// ErrWithCtx{Error, Context} shape in engine/types/validation_err.go.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("fstfile: selected column not found: %q", e.Name)
}

func (e *ColumnNotFoundError) Unwrap() error {
	return ErrColumnNotFound
}

// RangeError carries the row-range values that failed validation.
type RangeError struct {
	Reason        string
	StartRow      int
	EndRow        int
	NrOfRows      uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("fstfile: %s (startRow=%d endRow=%d nrOfRows=%d)", e.Reason, e.StartRow, e.EndRow, e.NrOfRows)
}

func (e *RangeError) Unwrap() error {
	return ErrRangeError
}
