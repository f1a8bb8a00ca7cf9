package fstfile

import (
	"fmt"
	"io"
	"os"
)

// ReadMeta opens the file, parses the header, validates file ID and
// version, reads the chunkset header, and reads the column-name block.
// No column bodies are touched (spec section 4.9).
func (s *Store) ReadMeta() (*Meta, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}
	defer f.Close()

	h, err := readFileHeader(f)
	if err != nil {
		return nil, err
	}

	colNames, _, err := decodeStringBlock(f, 0, h.NrOfCols)
	if err != nil {
		return nil, err
	}

	return &Meta{
		Version:      h.Version,
		NrOfCols:     h.NrOfCols,
		KeyLength:    h.KeyLength,
		NrOfRows:     h.NrOfRows,
		KeyColPos:    h.KeyColPos,
		ColTypes:     h.ColTypes,
		ColBaseTypes: h.ColBaseTypes,
		ColNames:     colNames,
	}, nil
}

// ReadRange resolves column selection and a contiguous row range, then
// dispatches per-column decoders for just that range (spec section 4.9).
// A nil sel selects every column in file order. endRow == -1 means "to
// the last row".
func (s *Store) ReadRange(sel *Selection, startRow, endRow int) (*Table, []string, []int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrOpenFailure, err)
	}
	defer f.Close()

	h, err := readFileHeader(f)
	if err != nil {
		return nil, nil, nil, err
	}

	colNames, _, err := decodeStringBlock(f, 0, h.NrOfCols)
	if err != nil {
		return nil, nil, nil, err
	}

	idx, err := readChunkIndex(f, h.NrOfCols)
	if err != nil {
		return nil, nil, nil, err
	}

	colIndex, err := resolveSelection(sel, colNames)
	if err != nil {
		return nil, nil, nil, err
	}

	firstRow, length, err := resolveRowRange(startRow, endRow, h.NrOfRows)
	if err != nil {
		return nil, nil, nil, err
	}

	out := &Table{
		NumRows: uint64(length),
		Columns: make([]Column, len(colIndex)),
	}

	for proj, colNr := range colIndex {
		if _, err := f.Seek(int64(idx.Positions[colNr]), io.SeekStart); err != nil {
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrOpenFailure, err)
		}

		col, err := decodeColumn(f, colNames[colNr], h.ColTypes[colNr], firstRow, length)
		if err != nil {
			return nil, nil, nil, err
		}
		out.Columns[proj] = col
	}

	keyIndex := computeKeyIndex(h.KeyColPos, colIndex)

	selectedNames := make([]string, len(colIndex))
	for proj, colNr := range colIndex {
		selectedNames[proj] = colNames[colNr]
	}

	return out, selectedNames, keyIndex, nil
}

func resolveSelection(sel *Selection, colNames []string) ([]int, error) {
	if sel == nil || sel.Names == nil {
		colIndex := make([]int, len(colNames))
		for i := range colIndex {
			colIndex[i] = i
		}
		return colIndex, nil
	}

	colIndex := make([]int, len(sel.Names))
	for i, name := range sel.Names {
		found := -1
		for c, candidate := range colNames {
			if candidate == name {
				found = c
				break
			}
		}
		if found == -1 {
			return nil, &ColumnNotFoundError{Name: name}
		}
		colIndex[i] = found
	}
	return colIndex, nil
}

func resolveRowRange(startRow, endRow int, nrOfRows uint64) (firstRow, length int, err error) {
	firstRow = startRow - 1
	if firstRow < 0 {
		return 0, 0, &RangeError{Reason: "fromRow must be positive", StartRow: startRow, EndRow: endRow, NrOfRows: nrOfRows}
	}
	if uint64(firstRow) >= nrOfRows {
		return 0, 0, &RangeError{Reason: "row selection out of range", StartRow: startRow, EndRow: endRow, NrOfRows: nrOfRows}
	}

	if endRow == -1 {
		return firstRow, int(nrOfRows) - firstRow, nil
	}
	if endRow <= firstRow {
		return 0, 0, &RangeError{Reason: "incorrect row range", StartRow: startRow, EndRow: endRow, NrOfRows: nrOfRows}
	}

	length = endRow - firstRow
	if maxLen := int(nrOfRows) - firstRow; length > maxLen {
		length = maxLen
	}
	return firstRow, length, nil
}

// computeKeyIndex walks keyColPos in order, mapping each key position to
// its index within the projection, stopping at the first key not present
// (keys are a prefix; breaking the prefix truncates the key, spec
// section 4.9 step 7).
func computeKeyIndex(keyColPos []int32, colIndex []int) []int {
	var keyIndex []int
	for _, p := range keyColPos {
		found := -1
		for s, colNr := range colIndex {
			if int(p) == colNr {
				found = s
				break
			}
		}
		if found == -1 {
			return keyIndex
		}
		keyIndex = append(keyIndex, found)
	}
	return keyIndex
}

func decodeColumn(r io.Reader, name string, logicalType ColumnType, firstRow, length int) (Column, error) {
	switch logicalType {
	case TypeCharacter:
		values, valid, err := decodeStringBlock(r, firstRow, length)
		if err != nil {
			return nil, err
		}
		return &StringColumn{columnBase: columnBase{Name: name}, Values: values, Valid: valid}, nil

	case TypeFactor:
		codes, levels, err := decodeFactorBlock(r, firstRow, length)
		if err != nil {
			return nil, err
		}
		return &FactorColumn{columnBase: columnBase{Name: name}, Codes: codes, Levels: levels}, nil

	case TypeInt32:
		raw, err := decodePrimitiveBlock(r, elemSizeInt32, firstRow, length)
		if err != nil {
			return nil, err
		}
		return &IntColumn{columnBase: columnBase{Name: name}, Values: bytesToInt32(raw)}, nil

	case TypeDouble64:
		raw, err := decodePrimitiveBlock(r, elemSizeDouble, firstRow, length)
		if err != nil {
			return nil, err
		}
		return &DoubleColumn{columnBase: columnBase{Name: name}, Values: bytesToDouble(raw)}, nil

	case TypeBool32:
		raw, err := decodePrimitiveBlock(r, elemSizeBool32, firstRow, length)
		if err != nil {
			return nil, err
		}
		return &BoolColumn{columnBase: columnBase{Name: name}, Values: bytesToInt32(raw)}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, logicalType)
	}
}
