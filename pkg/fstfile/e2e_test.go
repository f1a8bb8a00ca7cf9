package fstfile

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func col(name string) columnBase { return columnBase{Name: name} }

// Scenario 1: single i32 column, 3 rows.
func TestScenarioSingleIntColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t1.fst")

	table := &SimpleTable{
		Rows: 3,
		Cols: []Column{
			&IntColumn{columnBase: col("x"), Values: []int32{10, 20, 30}},
		},
	}
	require.NoError(t, Open(path).Write(table, WriteOptions{CompressionLevel: 0}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, FileMagic, binary.LittleEndian.Uint64(raw[0:8]))
	require.Equal(t, FormatVersion, binary.LittleEndian.Uint32(raw[8:12]))
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(raw[12:16])) // tableClassType
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(raw[16:20])) // keyLength
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(raw[20:24])) // nrOfCols

	meta, err := Open(path).ReadMeta()
	require.NoError(t, err)
	require.EqualValues(t, 3, meta.NrOfRows)

	out, names, keyIndex, err := Open(path).ReadRange(nil, 1, -1)
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, names)
	require.Empty(t, keyIndex)
	require.Equal(t, []int32{10, 20, 30}, out.Columns[0].(*IntColumn).Values)

	out, _, _, err = Open(path).ReadRange(nil, 2, 3)
	require.NoError(t, err)
	require.Equal(t, []int32{20}, out.Columns[0].(*IntColumn).Values)
}

// Scenario 2: two columns with one key, missing double preserved.
func TestScenarioKeyColumnAndMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t2.fst")

	table := &SimpleTable{
		Rows: 3,
		Cols: []Column{
			&StringColumn{columnBase: col("k"), Values: []string{"a", "b", "a"}, Valid: []bool{true, true, true}},
			&DoubleColumn{columnBase: col("v"), Values: []float64{1.5, 2.5, NADouble()}},
		},
		KeyColPos: []int{0},
	}
	require.NoError(t, Open(path).Write(table, WriteOptions{CompressionLevel: 50}))

	out, _, _, err := Open(path).ReadRange(nil, 1, -1)
	require.NoError(t, err)
	vCol := out.Columns[1].(*DoubleColumn)
	require.Equal(t, 1.5, vCol.Values[0])
	require.Equal(t, 2.5, vCol.Values[1])
	require.True(t, IsNADouble(vCol.Values[2]))

	out, names, keyIndex, err := Open(path).ReadRange(&Selection{Names: []string{"v"}}, 1, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"v"}, names)
	require.Empty(t, keyIndex)
	require.Len(t, out.Columns, 1)

	out, names, keyIndex, err = Open(path).ReadRange(&Selection{Names: []string{"k", "v"}}, 1, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"k", "v"}, names)
	require.Equal(t, []int{0}, keyIndex)
}

// Scenario 3: factor column round trip and partial range.
func TestScenarioFactorColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t3.fst")

	table := &SimpleTable{
		Rows: 5,
		Cols: []Column{
			&FactorColumn{
				columnBase: col("f"),
				Codes:      []int32{3, 1, 2, 3, 1},
				Levels:     []string{"r", "g", "b"},
			},
		},
	}
	require.NoError(t, Open(path).Write(table, WriteOptions{CompressionLevel: 0}))

	out, _, _, err := Open(path).ReadRange(nil, 1, -1)
	require.NoError(t, err)
	fCol := out.Columns[0].(*FactorColumn)
	require.Equal(t, []int32{3, 1, 2, 3, 1}, fCol.Codes)
	require.Equal(t, []string{"r", "g", "b"}, fCol.Levels)

	out, _, _, err = Open(path).ReadRange(&Selection{Names: []string{"f"}}, 2, 4)
	require.NoError(t, err)
	fCol = out.Columns[0].(*FactorColumn)
	require.Equal(t, []int32{1, 2, 3}, fCol.Codes)
	require.Equal(t, []string{"r", "g", "b"}, fCol.Levels)
}

// Scenario 4: missing-name rejection.
func TestScenarioColumnNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t4.fst")

	table := &SimpleTable{
		Rows: 1,
		Cols: []Column{
			&IntColumn{columnBase: col("a"), Values: []int32{1}},
			&IntColumn{columnBase: col("b"), Values: []int32{2}},
		},
	}
	require.NoError(t, Open(path).Write(table, WriteOptions{}))

	_, _, _, err := Open(path).ReadRange(&Selection{Names: []string{"c"}}, 1, -1)
	require.ErrorIs(t, err, ErrColumnNotFound)
}

// Scenario 5: empty write rejection.
func TestScenarioEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t5.fst")

	err := Open(path).Write(&SimpleTable{Rows: 0, Cols: []Column{
		&IntColumn{columnBase: col("a"), Values: nil},
	}}, WriteOptions{})
	require.ErrorIs(t, err, ErrEmptyDataset)

	err = Open(path).Write(&SimpleTable{Rows: 1, Cols: nil}, WriteOptions{})
	require.ErrorIs(t, err, ErrEmptyDataset)
}

// Scenario 6: wrong-magic rejection.
func TestScenarioWrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t6.fst")

	table := &SimpleTable{Rows: 1, Cols: []Column{&IntColumn{columnBase: col("a"), Values: []int32{1}}}}
	require.NoError(t, Open(path).Write(table, WriteOptions{}))

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteAt(make([]byte, 8), 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Open(path).ReadMeta()
	require.ErrorIs(t, err, ErrNotFstFile)

	_, _, _, err = Open(path).ReadRange(nil, 1, -1)
	require.ErrorIs(t, err, ErrNotFstFile)
}

// Version gate: formatVersion = readerVersion + 1 -> VersionTooNew.
func TestVersionGate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tv.fst")

	table := &SimpleTable{Rows: 1, Cols: []Column{&IntColumn{columnBase: col("a"), Values: []int32{1}}}}
	require.NoError(t, Open(path).Write(table, WriteOptions{}))

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], FormatVersion+1)
	_, err = f.WriteAt(buf[:], 8)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Open(path).ReadMeta()
	require.ErrorIs(t, err, ErrVersionTooNew)
}

// Range semantics: startRow=1,endRow=-1 returns all rows; startRow=0 and
// startRow=M+1 fail; endRow<startRow fails; endRow>M clamps to M.
func TestRangeSemantics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tr.fst")

	table := &SimpleTable{Rows: 4, Cols: []Column{&IntColumn{columnBase: col("a"), Values: []int32{1, 2, 3, 4}}}}
	require.NoError(t, Open(path).Write(table, WriteOptions{}))

	out, _, _, err := Open(path).ReadRange(nil, 1, -1)
	require.NoError(t, err)
	require.EqualValues(t, 4, out.NumRows)

	_, _, _, err = Open(path).ReadRange(nil, 0, -1)
	require.ErrorIs(t, err, ErrRangeError)

	_, _, _, err = Open(path).ReadRange(nil, 5, -1)
	require.ErrorIs(t, err, ErrRangeError)

	_, _, _, err = Open(path).ReadRange(nil, 3, 2)
	require.ErrorIs(t, err, ErrRangeError)

	out, _, _, err = Open(path).ReadRange(nil, 2, 100)
	require.NoError(t, err)
	require.Equal(t, []int32{2, 3, 4}, out.Columns[0].(*IntColumn).Values)
}

// Metadata disjointness: ReadMeta never reads at or after the start of
// the position directory (positionData[0] - 8N).
func TestMetadataDisjointness(t *testing.T) {
	path := filepath.Join(t.TempDir(), "td.fst")

	table := &SimpleTable{
		Rows: 50,
		Cols: []Column{
			&IntColumn{columnBase: col("a"), Values: make([]int32, 50)},
			&DoubleColumn{columnBase: col("b"), Values: make([]float64, 50)},
		},
	}
	require.NoError(t, Open(path).Write(table, WriteOptions{}))

	full, err := os.ReadFile(path)
	require.NoError(t, err)

	// Find where column bodies start by reading the real chunk index.
	_, _, _, err = Open(path).ReadRange(nil, 1, -1)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	h, err := readFileHeader(f)
	require.NoError(t, err)
	_, _, err = decodeStringBlock(f, 0, h.NrOfCols)
	require.NoError(t, err)
	idx, err := readChunkIndex(f, h.NrOfCols)
	require.NoError(t, err)

	directoryStart := idx.Positions[0] - uint64(8*h.NrOfCols)

	// Replay the exact ReadMeta parse path against a reader that faults on
	// any read reaching the position directory, proving ReadMeta never
	// touches column bodies or the directory.
	faulting := &faultAfter{r: bytesReaderAt(full), limit: int64(directoryStart)}
	_, err = readFileHeader(faulting)
	require.NoError(t, err)
	_, _, err = decodeStringBlock(faulting, 0, h.NrOfCols)
	require.NoError(t, err)
}

// bytesReaderAt adapts a byte slice to io.Reader with sequential reads,
// used only to drive faultAfter in TestMetadataDisjointness.
func bytesReaderAt(b []byte) io.Reader {
	return &seqReader{data: b}
}

type seqReader struct {
	data []byte
	pos  int
}

func (r *seqReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// faultAfter returns io.ErrUnexpectedEOF once reads would cross limit.
type faultAfter struct {
	r     io.Reader
	limit int64
	pos   int64
}

func (f *faultAfter) Read(p []byte) (int, error) {
	if f.pos+int64(len(p)) > f.limit {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := f.r.Read(p)
	f.pos += int64(n)
	return n, err
}
