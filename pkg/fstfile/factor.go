package fstfile

import "io"

// Factor codec (spec section 4.7, logical type FACTOR): two concatenated
// sub-blocks, a primitive int32 column of level codes followed by a
// string block of level names. The levels block is always read in full;
// the code sub-block is partially decoded over the requested row range.

func encodeFactorBlock(w io.Writer, codes []int32, levels []string, codec codecID) error {
	raw := int32ToBytes(codes)
	if err := encodePrimitiveBlock(w, TypeFactor, raw, elemSizeInt32, uint64(len(codes)), codec); err != nil {
		return err
	}
	// Levels are typically small; always written uncompressed so that a
	// metadata-only reader never has to pay for decompression.
	levelsValid := make([]bool, len(levels))
	for i := range levelsValid {
		levelsValid[i] = true
	}
	return encodeStringBlock(w, levels, levelsValid, codecNone)
}

func decodeFactorBlock(r io.Reader, firstRow, length int) ([]int32, []string, error) {
	raw, err := decodePrimitiveBlock(r, elemSizeInt32, firstRow, length)
	if err != nil {
		return nil, nil, err
	}
	codes := bytesToInt32(raw)

	// The levels block is always read in full; its own header carries the
	// true row count, and decodeStringBlock clamps length to that count,
	// so any length at or above it (0 included) reads every row.
	levels, _, err := decodeStringBlock(r, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	return codes, levels, nil
}
