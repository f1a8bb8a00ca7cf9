package fstfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// WriteOptions configures a Write call. CompressionLevel is 0-100 as in
// the original fst format; 0 disables compression.
type WriteOptions struct {
	CompressionLevel int
}

// Store attaches to a file path for write/read operations (spec section
// 6's open(path) -> Store). It holds no file descriptor between calls;
// each Write/ReadMeta/ReadRange opens, does its I/O, and closes.
type Store struct {
	path string
}

// Open attaches to an existing or new file path.
func Open(path string) *Store {
	return &Store{path: path}
}

// Write lays out header, chunk index, column directory, and column
// bodies for table, then patches the two positions that are only known
// after the column bodies are written (spec section 4.8).
func (s *Store) Write(table SourceTable, opts WriteOptions) (err error) {
	nrOfCols := table.NrOfColumns()
	nrOfRows := table.NrOfRows()
	if nrOfCols == 0 || nrOfRows == 0 {
		return ErrEmptyDataset
	}

	codec := pickCodec(opts.CompressionLevel)

	colTypes := make([]ColumnType, nrOfCols)
	colBaseTypes := make([]ColumnType, nrOfCols)
	for c := 0; c < nrOfCols; c++ {
		t := table.Column(c).LogicalType()
		if !t.valid() {
			return fmt.Errorf("%w: column %d", ErrUnknownType, c)
		}
		colTypes[c] = t
		colBaseTypes[c] = t
		if t == TypeFactor {
			colBaseTypes[c] = TypeInt32 // factors store int32 level codes
		}
	}

	keyColPos := make([]int32, table.NrOfKeys())
	for i, p := range table.KeyColumns() {
		keyColPos[i] = int32(p)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}
	defer f.Close()

	header := fileHeader{
		Version:      FormatVersion,
		KeyLength:    len(keyColPos),
		NrOfCols:     nrOfCols,
		KeyColPos:    keyColPos,
		NrOfRows:     uint64(nrOfRows),
		ColTypes:     colTypes,
		ColBaseTypes: colBaseTypes,
	}
	if err := writeFileHeader(f, header); err != nil {
		return err
	}

	colNames := make([]string, nrOfCols)
	colNamesValid := make([]bool, nrOfCols)
	for c := 0; c < nrOfCols; c++ {
		colNames[c] = table.Column(c).ColumnName()
		colNamesValid[c] = true
	}
	if err := encodeStringBlock(f, colNames, colNamesValid, codecNone); err != nil {
		return err
	}

	// Placeholder chunk index + position directory; patched below once
	// the real column offsets are known.
	chunkIndexOffset, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}
	placeholder := make([]byte, chunkIndexSize+8*nrOfCols)
	if _, err := f.Write(placeholder); err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}

	positions := make([]uint64, nrOfCols)
	for c := 0; c < nrOfCols; c++ {
		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrOpenFailure, err)
		}
		positions[c] = uint64(pos)

		if err := encodeColumn(f, table.Column(c), codec); err != nil {
			return err
		}
	}

	idx := chunkIndex{
		ChunkPos:   positions[0] - uint64(8*nrOfCols),
		ChunkRows:  uint64(nrOfRows),
		NrOfChunks: 1,
		Positions:  positions,
	}

	// Re-finalize the header (spec section 4.8 step 7): in this
	// implementation every header field is already known before the
	// column loop runs, so this rewrite is a no-op by content but keeps
	// the writer faithful to the documented two-patch-point lifecycle.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}
	if err := writeFileHeader(f, header); err != nil {
		return err
	}

	if _, err := f.Seek(chunkIndexOffset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}
	var buf bytes.Buffer
	if err := writeChunkIndex(&buf, idx); err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}

	return nil
}

func encodeColumn(w *os.File, col Column, codec codecID) error {
	switch c := col.(type) {
	case *StringColumn:
		return encodeStringBlock(w, c.Values, c.Valid, codec)
	case *FactorColumn:
		return encodeFactorBlock(w, c.Codes, c.Levels, codec)
	case *IntColumn:
		return encodePrimitiveBlock(w, TypeInt32, int32ToBytes(c.Values), elemSizeInt32, uint64(len(c.Values)), codec)
	case *DoubleColumn:
		return encodePrimitiveBlock(w, TypeDouble64, doubleToBytes(c.Values), elemSizeDouble, uint64(len(c.Values)), codec)
	case *BoolColumn:
		return encodePrimitiveBlock(w, TypeBool32, int32ToBytes(c.Values), elemSizeBool32, uint64(len(c.Values)), codec)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownType, col)
	}
}
