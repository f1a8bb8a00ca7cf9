package fstfile

import (
	"fmt"
	"io"
)

// FileMagic is the 8-byte constant identifying the format family, chosen
// once and never reused (spec section 6). Distinct from the original fst
// magic so files from this engine are never mistaken for fst's own.
const FileMagic uint64 = 0x1C3A8F5D9E2B7401

// FormatVersion is the monotone format version this engine writes and the
// newest version it accepts on read (spec section 4.2).
const FormatVersion uint32 = 1

// defaultTableClassType is the only class this writer emits; readers
// parse but never validate it (spec section 9, Open Question (b)).
const defaultTableClassType uint32 = 1

// tableMetaSize is the fixed portion of the table-meta block before the
// variable-length keyColPos array: fileId(8) + formatVersion(4) +
// tableClassType(4) + keyLength(4) + nrOfColsFirstChunk(4) = 24 bytes.
// This mirrors TABLE_META_SIZE in the original fst core exactly; the
// prose in spec section 4.2 says "32 bytes" but its own offset table
// only accounts for 24 bytes before keyColPos starts, and the original
// C++ source reads a 24-byte tableMeta buffer before touching
// keyColPos -- see DESIGN.md for this resolution.
const tableMetaSize = 24

// chunksetHeaderFixedSize is the fixed portion of the chunkset header
// before the 2N/2N/2N per-column arrays (spec section 4.3).
const chunksetHeaderFixedSize = 32

// chunkIndexSize is the fixed size of the chunk index before the 8N-byte
// position directory (spec section 4.4).
const chunkIndexSize = 144

type fileHeader struct {
	Version      uint32
	KeyLength    int
	NrOfCols     int
	KeyColPos    []int32
	NrOfRows     uint64
	ColTypes     []ColumnType
	ColBaseTypes []ColumnType
}

func writeFileHeader(w io.Writer, h fileHeader) error {
	if err := writeU64(w, FileMagic); err != nil {
		return err
	}
	if err := writeU32(w, h.Version); err != nil {
		return err
	}
	if err := writeU32(w, defaultTableClassType); err != nil {
		return err
	}
	if err := writeU32(w, uint32(h.KeyLength)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(h.NrOfCols)); err != nil {
		return err
	}
	for _, p := range h.KeyColPos {
		if err := writeI32(w, p); err != nil {
			return err
		}
	}

	// Chunkset header.
	if err := writeU64(w, 0); err != nil { // nextHorzChunkSet, reserved
		return err
	}
	if err := writeU64(w, 0); err != nil { // nextVertChunkSet, reserved
		return err
	}
	if err := writeU64(w, h.NrOfRows); err != nil {
		return err
	}
	if err := writeU32(w, h.Version); err != nil {
		return err
	}
	if err := writeU32(w, uint32(h.NrOfCols)); err != nil {
		return err
	}
	for i := 0; i < h.NrOfCols; i++ { // colAttributesType, reserved
		if err := writeU16(w, 0); err != nil {
			return err
		}
	}
	for _, t := range h.ColTypes {
		if err := writeU16(w, uint16(t)); err != nil {
			return err
		}
	}
	for _, t := range h.ColBaseTypes {
		if err := writeU16(w, uint16(t)); err != nil {
			return err
		}
	}
	return nil
}

// readFileHeader parses the table-meta block and the chunkset header. It
// does not touch the column-name block, chunk index, or column bodies.
func readFileHeader(r io.Reader) (fileHeader, error) {
	var h fileHeader

	magic, err := readU64(r)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	if magic != FileMagic {
		return h, ErrNotFstFile
	}

	version, err := readU32(r)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	if version > FormatVersion {
		return h, ErrVersionTooNew
	}
	h.Version = version

	if _, err := readU32(r); err != nil { // tableClassType, ignored on read
		return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}

	keyLength, err := readU32(r)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	h.KeyLength = int(keyLength)

	nrOfCols, err := readU32(r)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	h.NrOfCols = int(nrOfCols)

	h.KeyColPos = make([]int32, h.KeyLength)
	for i := range h.KeyColPos {
		if h.KeyColPos[i], err = readI32(r); err != nil {
			return h, fmt.Errorf("%w: key column position %d: %v", ErrCorruptHeader, i, err)
		}
	}

	// Chunkset header.
	if _, err := readU64(r); err != nil { // nextHorzChunkSet, reserved
		return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	if _, err := readU64(r); err != nil { // nextVertChunkSet, reserved
		return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	if h.NrOfRows, err = readU64(r); err != nil {
		return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	if _, err := readU32(r); err != nil { // formatVersion duplicate
		return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	if _, err := readU32(r); err != nil { // nrOfCols duplicate
		return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	for i := 0; i < h.NrOfCols; i++ { // colAttributesType, reserved
		if _, err := readU16(r); err != nil {
			return h, fmt.Errorf("%w: %v", ErrCorruptHeader, err)
		}
	}

	h.ColTypes = make([]ColumnType, h.NrOfCols)
	for i := range h.ColTypes {
		t, err := readU16(r)
		if err != nil {
			return h, fmt.Errorf("%w: col type %d: %v", ErrCorruptHeader, i, err)
		}
		h.ColTypes[i] = ColumnType(t)
	}

	h.ColBaseTypes = make([]ColumnType, h.NrOfCols)
	for i := range h.ColBaseTypes {
		t, err := readU16(r)
		if err != nil {
			return h, fmt.Errorf("%w: col base type %d: %v", ErrCorruptHeader, i, err)
		}
		h.ColBaseTypes[i] = ColumnType(t)
	}

	return h, nil
}
