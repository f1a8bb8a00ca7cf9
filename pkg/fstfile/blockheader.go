package fstfile

import (
	"fmt"
	"io"
)

// RowGroupSize is the fixed row-count partition used by both the
// string-block codec and the primitive column codecs so that decoding a
// row range reads only the groups overlapping it (spec sections 4.5/4.6).
const RowGroupSize = 4096

// blockHeader is the common self-describing prefix of every column body:
// a logical-type tag, total row count, and row-group sizing. Self-describing
// framing lets a reader sanity-check a block independent of the outer
// column-position directory.
type blockHeader struct {
	LogicalType ColumnType
	NumRows     uint64
	GroupSize   uint32
	NumGroups   uint32
}

func numGroups(numRows uint64, groupSize uint32) uint32 {
	if numRows == 0 {
		return 0
	}
	return uint32((numRows + uint64(groupSize) - 1) / uint64(groupSize))
}

func writeBlockHeader(w io.Writer, h blockHeader) error {
	if err := writeU16(w, uint16(h.LogicalType)); err != nil {
		return err
	}
	if err := writeU64(w, h.NumRows); err != nil {
		return err
	}
	if err := writeU32(w, h.GroupSize); err != nil {
		return err
	}
	return writeU32(w, h.NumGroups)
}

func readBlockHeader(r io.Reader) (blockHeader, error) {
	var h blockHeader
	t, err := readU16(r)
	if err != nil {
		return h, fmt.Errorf("%w: block type: %v", ErrCorruptHeader, err)
	}
	h.LogicalType = ColumnType(t)
	if h.NumRows, err = readU64(r); err != nil {
		return h, fmt.Errorf("%w: block row count: %v", ErrCorruptHeader, err)
	}
	if h.GroupSize, err = readU32(r); err != nil {
		return h, fmt.Errorf("%w: block group size: %v", ErrCorruptHeader, err)
	}
	if h.NumGroups, err = readU32(r); err != nil {
		return h, fmt.Errorf("%w: block group count: %v", ErrCorruptHeader, err)
	}
	return h, nil
}

// rowGroupHeader precedes each row group's (possibly compressed) payload.
type rowGroupHeader struct {
	Codec            codecID
	RowCount         uint32
	UncompressedSize uint32
	CompressedSize   uint32
}

func writeRowGroupHeader(w io.Writer, h rowGroupHeader) error {
	if _, err := w.Write([]byte{byte(h.Codec)}); err != nil {
		return err
	}
	if err := writeU32(w, h.RowCount); err != nil {
		return err
	}
	if err := writeU32(w, h.UncompressedSize); err != nil {
		return err
	}
	return writeU32(w, h.CompressedSize)
}

const rowGroupHeaderSize = 1 + 4 + 4 + 4

func readRowGroupHeader(r io.Reader) (rowGroupHeader, error) {
	var h rowGroupHeader
	var codecBuf [1]byte
	if err := readBuf(r, codecBuf[:]); err != nil {
		return h, err
	}
	h.Codec = codecID(codecBuf[0])
	var err error
	if h.RowCount, err = readU32(r); err != nil {
		return h, fmt.Errorf("%w: row group row count: %v", ErrCorruptHeader, err)
	}
	if h.UncompressedSize, err = readU32(r); err != nil {
		return h, fmt.Errorf("%w: row group uncompressed size: %v", ErrCorruptHeader, err)
	}
	if h.CompressedSize, err = readU32(r); err != nil {
		return h, fmt.Errorf("%w: row group compressed size: %v", ErrCorruptHeader, err)
	}
	return h, nil
}

// groupRange returns the inclusive [firstGroup, lastGroup] indices whose
// rows overlap [firstRow, firstRow+length).
func groupRange(firstRow, length int, groupSize uint32) (int, int) {
	firstGroup := firstRow / int(groupSize)
	lastRow := firstRow + length - 1
	lastGroup := lastRow / int(groupSize)
	return firstGroup, lastGroup
}
