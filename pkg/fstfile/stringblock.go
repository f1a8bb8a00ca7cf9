package fstfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// String-block codec (spec section 4.5, logical type CHARACTER). Encodes
// M strings with optional compression and supports partial-range decode
// [firstRow, firstRow+length) without materializing rows outside that
// range. Missing strings use a length-field sentinel distinct from an
// empty string.

const missingStringLen uint32 = 0xFFFFFFFF

// encodeStringBlock writes a complete self-contained CHARACTER column
// body: block header + row groups. Each group's uncompressed payload is
// [rowCount x uint32 length][concatenated bytes of present rows].
func encodeStringBlock(w io.Writer, values []string, valid []bool, codec codecID) error {
	numRows := uint64(len(values))
	groups := numGroups(numRows, RowGroupSize)

	if err := writeBlockHeader(w, blockHeader{
		LogicalType: TypeCharacter,
		NumRows:     numRows,
		GroupSize:   RowGroupSize,
		NumGroups:   groups,
	}); err != nil {
		return err
	}

	for g := uint32(0); g < groups; g++ {
		start := int(g) * RowGroupSize
		end := start + RowGroupSize
		if end > len(values) {
			end = len(values)
		}
		rowCount := end - start

		lenTable := make([]byte, rowCount*4)
		var dataBuf []byte
		for i := 0; i < rowCount; i++ {
			row := start + i
			if valid != nil && !valid[row] {
				binary.LittleEndian.PutUint32(lenTable[i*4:], missingStringLen)
				continue
			}
			s := values[row]
			binary.LittleEndian.PutUint32(lenTable[i*4:], uint32(len(s)))
			dataBuf = append(dataBuf, s...)
		}

		payload := append(lenTable, dataBuf...)
		compressed, err := compressBlock(codec, payload)
		if err != nil {
			return err
		}

		if err := writeRowGroupHeader(w, rowGroupHeader{
			Codec:            codec,
			RowCount:         uint32(rowCount),
			UncompressedSize: uint32(len(payload)),
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

// decodeStringBlock reads [firstRow, firstRow+length) of a CHARACTER
// column body. r must be positioned at the start of the block.
func decodeStringBlock(r io.Reader, firstRow, length int) ([]string, []bool, error) {
	hdr, err := readBlockHeader(r)
	if err != nil {
		return nil, nil, err
	}
	if hdr.LogicalType != TypeCharacter {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownType, hdr.LogicalType)
	}

	// Clamp length to the block's real row count before it's used as a
	// capacity hint below. length<=0 or an oversized length both mean "read
	// to the end of the block" -- callers that want the whole block don't
	// have to know its row count up front.
	maxLen := int(hdr.NumRows) - firstRow
	if maxLen < 0 {
		maxLen = 0
	}
	if length <= 0 || length > maxLen {
		length = maxLen
	}

	firstGroup, lastGroup := groupRange(firstRow, length, hdr.GroupSize)

	values := make([]string, 0, length)
	valid := make([]bool, 0, length)
	rowsConsumedBeforeGroup := 0

	for g := 0; g < int(hdr.NumGroups); g++ {
		rh, err := readRowGroupHeader(r)
		if err != nil {
			return nil, nil, err
		}

		if g < firstGroup || g > lastGroup {
			if s, ok := r.(io.Seeker); ok {
				_, err = s.Seek(int64(rh.CompressedSize), io.SeekCurrent)
			} else {
				_, err = io.CopyN(io.Discard, r, int64(rh.CompressedSize))
			}
			if err != nil {
				return nil, nil, fmt.Errorf("%w: skipping row group %d: %v", ErrCorruptHeader, g, err)
			}
			rowsConsumedBeforeGroup += int(rh.RowCount)
			continue
		}

		payload := make([]byte, rh.CompressedSize)
		if err := readBuf(r, payload); err != nil {
			return nil, nil, err
		}

		decoded, err := decompressBlock(rh.Codec, payload, int(rh.UncompressedSize))
		if err != nil {
			return nil, nil, err
		}

		rowCount := int(rh.RowCount)
		lenTable := decoded[:rowCount*4]
		dataBuf := decoded[rowCount*4:]

		groupStartRow := rowsConsumedBeforeGroup
		rowsConsumedBeforeGroup += rowCount

		offset := 0
		for i := 0; i < rowCount; i++ {
			rowLen := binary.LittleEndian.Uint32(lenTable[i*4:])
			row := groupStartRow + i

			isMissing := rowLen == missingStringLen
			var s string
			if !isMissing {
				s = string(dataBuf[offset : offset+int(rowLen)])
				offset += int(rowLen)
			}

			if row >= firstRow && row < firstRow+length {
				values = append(values, s)
				valid = append(valid, !isMissing)
			}
		}
	}

	return values, valid, nil
}
