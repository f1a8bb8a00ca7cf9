package fstfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Primitive column codecs (spec section 4.6): INT_32, DOUBLE_64 and
// BOOL_32 all share one row-grouped, fixed-width-element frame. Each
// column's values are first flattened to raw little-endian bytes, then
// partitioned into RowGroupSize-row groups, each independently
// compressed so that decoding a row range only touches overlapping
// groups.

const (
	elemSizeInt32   = 4
	elemSizeDouble  = 8
	elemSizeBool32  = 4
)

func int32ToBytes(values []int32) []byte {
	buf := make([]byte, len(values)*elemSizeInt32)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*elemSizeInt32:], uint32(v))
	}
	return buf
}

func bytesToInt32(buf []byte) []int32 {
	n := len(buf) / elemSizeInt32
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(buf[i*elemSizeInt32:]))
	}
	return out
}

func doubleToBytes(values []float64) []byte {
	buf := make([]byte, len(values)*elemSizeDouble)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*elemSizeDouble:], math.Float64bits(v))
	}
	return buf
}

func bytesToDouble(buf []byte) []float64 {
	n := len(buf) / elemSizeDouble
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*elemSizeDouble:]))
	}
	return out
}

// encodePrimitiveBlock writes a complete self-contained column body for a
// fixed-width primitive column: block header + row groups.
func encodePrimitiveBlock(w io.Writer, logicalType ColumnType, raw []byte, elemSize int, numRows uint64, codec codecID) error {
	groups := numGroups(numRows, RowGroupSize)
	if err := writeBlockHeader(w, blockHeader{
		LogicalType: logicalType,
		NumRows:     numRows,
		GroupSize:   RowGroupSize,
		NumGroups:   groups,
	}); err != nil {
		return err
	}

	rowsLeft := numRows
	for g := uint32(0); g < groups; g++ {
		rowCount := uint64(RowGroupSize)
		if rowsLeft < rowCount {
			rowCount = rowsLeft
		}
		rowsLeft -= rowCount

		start := int(uint64(g)*RowGroupSize) * elemSize
		end := start + int(rowCount)*elemSize
		chunk := raw[start:end]

		compressed, err := compressBlock(codec, chunk)
		if err != nil {
			return err
		}

		if err := writeRowGroupHeader(w, rowGroupHeader{
			Codec:            codec,
			RowCount:         uint32(rowCount),
			UncompressedSize: uint32(len(chunk)),
			CompressedSize:   uint32(len(compressed)),
		}); err != nil {
			return err
		}
		if _, err := w.Write(compressed); err != nil {
			return err
		}
	}
	return nil
}

// decodePrimitiveBlock reads [firstRow, firstRow+length) of a fixed-width
// primitive column body. r must be positioned at the start of the block.
func decodePrimitiveBlock(r io.Reader, elemSize, firstRow, length int) ([]byte, error) {
	hdr, err := readBlockHeader(r)
	if err != nil {
		return nil, err
	}
	if !hdr.LogicalType.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, hdr.LogicalType)
	}

	firstGroup, lastGroup := groupRange(firstRow, length, hdr.GroupSize)

	out := make([]byte, 0, length*elemSize)
	rowsConsumedBeforeGroup := 0

	for g := 0; g < int(hdr.NumGroups); g++ {
		rh, err := readRowGroupHeader(r)
		if err != nil {
			return nil, err
		}

		if g < firstGroup || g > lastGroup {
			if s, ok := r.(io.Seeker); ok {
				_, err = s.Seek(int64(rh.CompressedSize), io.SeekCurrent)
			} else {
				_, err = io.CopyN(io.Discard, r, int64(rh.CompressedSize))
			}
			if err != nil {
				return nil, fmt.Errorf("%w: skipping row group %d: %v", ErrCorruptHeader, g, err)
			}
			rowsConsumedBeforeGroup += int(rh.RowCount)
			continue
		}

		payload := make([]byte, rh.CompressedSize)
		if err := readBuf(r, payload); err != nil {
			return nil, err
		}

		decoded, err := decompressBlock(rh.Codec, payload, int(rh.UncompressedSize))
		if err != nil {
			return nil, err
		}

		groupStartRow := rowsConsumedBeforeGroup
		rowsConsumedBeforeGroup += int(rh.RowCount)

		lo := 0
		if firstRow > groupStartRow {
			lo = firstRow - groupStartRow
		}
		hi := int(rh.RowCount)
		if groupStartRow+hi > firstRow+length {
			hi = firstRow + length - groupStartRow
		}

		out = append(out, decoded[lo*elemSize:hi*elemSize]...)
	}

	return out, nil
}
