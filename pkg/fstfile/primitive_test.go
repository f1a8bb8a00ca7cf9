package fstfile

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimitiveInt32RoundTrip(t *testing.T) {
	const n = RowGroupSize + 250
	values := make([]int32, n)
	for i := range values {
		if i%11 == 0 {
			values[i] = NAInt32
			continue
		}
		values[i] = int32(rand.Intn(1_000_000) - 500_000)
	}

	var buf bytes.Buffer
	require.NoError(t, encodePrimitiveBlock(&buf, TypeInt32, int32ToBytes(values), elemSizeInt32, uint64(n), codecZstd))

	raw, err := decodePrimitiveBlock(bytes.NewReader(buf.Bytes()), elemSizeInt32, 0, n)
	require.NoError(t, err)
	require.Equal(t, values, bytesToInt32(raw))
}

func TestPrimitiveDoubleRoundTripWithNA(t *testing.T) {
	const n = 1000
	values := make([]float64, n)
	for i := range values {
		if i%5 == 0 {
			values[i] = NADouble()
			continue
		}
		values[i] = float64(i) * 1.5
	}

	var buf bytes.Buffer
	require.NoError(t, encodePrimitiveBlock(&buf, TypeDouble64, doubleToBytes(values), elemSizeDouble, uint64(n), codecLZ4))

	raw, err := decodePrimitiveBlock(bytes.NewReader(buf.Bytes()), elemSizeDouble, 0, n)
	require.NoError(t, err)
	got := bytesToDouble(raw)
	for i := range values {
		if i%5 == 0 {
			require.True(t, IsNADouble(got[i]))
		} else {
			require.Equal(t, values[i], got[i])
		}
	}
}

func TestPrimitivePartialRangeAcrossGroups(t *testing.T) {
	const n = RowGroupSize * 2
	values := make([]int32, n)
	for i := range values {
		values[i] = int32(i)
	}

	var buf bytes.Buffer
	require.NoError(t, encodePrimitiveBlock(&buf, TypeInt32, int32ToBytes(values), elemSizeInt32, uint64(n), codecNone))

	firstRow, length := RowGroupSize-5, 10
	raw, err := decodePrimitiveBlock(bytes.NewReader(buf.Bytes()), elemSizeInt32, firstRow, length)
	require.NoError(t, err)
	got := bytesToInt32(raw)
	require.Equal(t, values[firstRow:firstRow+length], got)
}

func TestBoolTriState(t *testing.T) {
	values := []int32{BoolTrue, BoolFalse, NAInt32, BoolTrue}

	var buf bytes.Buffer
	require.NoError(t, encodePrimitiveBlock(&buf, TypeBool32, int32ToBytes(values), elemSizeBool32, uint64(len(values)), codecNone))

	raw, err := decodePrimitiveBlock(bytes.NewReader(buf.Bytes()), elemSizeBool32, 0, len(values))
	require.NoError(t, err)
	require.Equal(t, values, bytesToInt32(raw))
}
