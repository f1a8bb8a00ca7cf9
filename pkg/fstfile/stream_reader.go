package fstfile

import (
	"fmt"
	"io"
)

// BatchReader streams one or more fst files as fixed-size row batches,
// file by file: each file is read whole with a single ReadRange call and
// batches are sliced from that table in memory. Adapted from the
// teacher's lab4 pkg/tomy_file/stream_reader.go BatchReader, which called
// a never-implemented DeserializeColumns and only sliced Int64Column and
// VarcharColumn; this version completes the idea against ReadRange and
// all five column kinds (spec section 9, "Supplemented feature").
type BatchReader struct {
	filePaths     []string
	columnsToRead *Selection

	currentFileIdx int
	currentTable   *Table
	currentRow     uint64
}

// NewBatchReader builds a reader over filePaths, applying columnsToRead
// (nil selects every column) to each file in turn.
func NewBatchReader(filePaths []string, columnsToRead *Selection) *BatchReader {
	return &BatchReader{
		filePaths:     filePaths,
		columnsToRead: columnsToRead,
	}
}

func (r *BatchReader) Close() error {
	r.currentTable = nil
	return nil
}

// GetNextBatch returns up to batchSize rows, pulling from the next file
// once the current one is exhausted. Returns io.EOF once every file has
// been consumed.
func (r *BatchReader) GetNextBatch(batchSize int) (*Table, error) {
	if r.currentTable == nil && r.currentFileIdx >= len(r.filePaths) {
		return nil, io.EOF
	}

	if r.currentTable == nil {
		if err := r.loadNextFile(); err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}
	}

	remaining := r.currentTable.NumRows - r.currentRow
	if remaining == 0 {
		r.currentFileIdx++
		r.currentTable = nil
		r.currentRow = 0
		return r.GetNextBatch(batchSize)
	}

	toRead := uint64(batchSize)
	if toRead > remaining {
		toRead = remaining
	}

	batch := &Table{
		NumRows: toRead,
		Columns: make([]Column, len(r.currentTable.Columns)),
	}
	for i, col := range r.currentTable.Columns {
		sliced, err := sliceColumn(col, r.currentRow, toRead)
		if err != nil {
			return nil, err
		}
		batch.Columns[i] = sliced
	}

	r.currentRow += toRead
	return batch, nil
}

func (r *BatchReader) loadNextFile() error {
	if r.currentFileIdx >= len(r.filePaths) {
		return io.EOF
	}

	path := r.filePaths[r.currentFileIdx]
	store := Open(path)
	table, _, _, err := store.ReadRange(r.columnsToRead, 1, -1)
	if err != nil {
		return fmt.Errorf("failed to load file %s: %w", path, err)
	}
	r.currentTable = table
	r.currentRow = 0
	return nil
}

// sliceColumn returns a fresh column holding rows [start, start+count) of
// col. Mirrors the teacher's sliceColumn, extended from Int64/Varchar to
// all five column kinds.
func sliceColumn(col Column, start, count uint64) (Column, error) {
	switch c := col.(type) {
	case *IntColumn:
		if start+count > uint64(len(c.Values)) {
			return nil, fmt.Errorf("slice out of bounds for IntColumn")
		}
		values := make([]int32, count)
		copy(values, c.Values[start:start+count])
		return &IntColumn{columnBase: c.columnBase, Values: values}, nil

	case *DoubleColumn:
		if start+count > uint64(len(c.Values)) {
			return nil, fmt.Errorf("slice out of bounds for DoubleColumn")
		}
		values := make([]float64, count)
		copy(values, c.Values[start:start+count])
		return &DoubleColumn{columnBase: c.columnBase, Values: values}, nil

	case *BoolColumn:
		if start+count > uint64(len(c.Values)) {
			return nil, fmt.Errorf("slice out of bounds for BoolColumn")
		}
		values := make([]int32, count)
		copy(values, c.Values[start:start+count])
		return &BoolColumn{columnBase: c.columnBase, Values: values}, nil

	case *StringColumn:
		if start+count > uint64(len(c.Values)) {
			return nil, fmt.Errorf("slice out of bounds for StringColumn")
		}
		values := make([]string, count)
		valid := make([]bool, count)
		copy(values, c.Values[start:start+count])
		copy(valid, c.Valid[start:start+count])
		return &StringColumn{columnBase: c.columnBase, Values: values, Valid: valid}, nil

	case *FactorColumn:
		if start+count > uint64(len(c.Codes)) {
			return nil, fmt.Errorf("slice out of bounds for FactorColumn")
		}
		codes := make([]int32, count)
		copy(codes, c.Codes[start:start+count])
		return &FactorColumn{columnBase: c.columnBase, Codes: codes, Levels: c.Levels}, nil

	default:
		return nil, fmt.Errorf("unknown column type: %T", col)
	}
}
