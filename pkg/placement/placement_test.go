package placement

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuitlab/copnumber/pkg/errors"
)

func TestCount(t *testing.T) {
	tests := []struct {
		n, k int
		want uint64
	}{
		{1, 1, 1},
		{4, 1, 4},
		{4, 2, 10},
		{5, 2, 15},
		{10, 3, 220},
		{254, 1, 254},
		{254, 2, 32385},
	}
	for _, tt := range tests {
		got, err := Count(tt.n, tt.k)
		require.NoError(t, err, "Count(%d, %d)", tt.n, tt.k)
		assert.Equal(t, tt.want, got, "Count(%d, %d)", tt.n, tt.k)
	}
}

func TestCountErrors(t *testing.T) {
	_, err := Count(10, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeCopCountOutOfRange))

	_, err = Count(10, 257)
	assert.True(t, errors.Is(err, errors.ErrCodeCopCountOutOfRange))

	_, err = Count(0, 1)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArguments))

	// C(254+200-1, 200) is astronomically past 64 bits.
	_, err = Count(254, 200)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigOverflow))
}

func TestEnumerateSmall(t *testing.T) {
	tbl, err := Enumerate(3, 2)
	require.NoError(t, err)
	require.EqualValues(t, 6, tbl.Len())
	assert.Equal(t, 2, tbl.K())

	want := [][]byte{
		{0, 0}, {0, 1}, {0, 2},
		{1, 1}, {1, 2},
		{2, 2},
	}
	for i, w := range want {
		assert.Equal(t, w, tbl.At(uint64(i)), "row %d", i)
	}
}

func TestEnumerateInvariants(t *testing.T) {
	tbl, err := Enumerate(7, 3)
	require.NoError(t, err)

	count, err := Count(7, 3)
	require.NoError(t, err)
	require.Equal(t, count, tbl.Len())

	var prev []byte
	for id := uint64(0); id < tbl.Len(); id++ {
		row := tbl.At(id)
		for j := 1; j < len(row); j++ {
			require.LessOrEqual(t, row[j-1], row[j],
				"row %d not non-decreasing", id)
		}
		if prev != nil {
			require.Equal(t, -1, bytes.Compare(prev, row),
				"rows %d and %d not strictly lex-ascending", id-1, id)
		}
		prev = row
	}
}

func TestFind(t *testing.T) {
	tbl, err := Enumerate(9, 2)
	require.NoError(t, err)

	for id := uint64(0); id < tbl.Len(); id++ {
		got, ok := tbl.Find(tbl.At(id))
		require.True(t, ok, "placement %d not found", id)
		require.Equal(t, id, got)
	}

	// Tuples that are not canonical placements must miss.
	_, ok := tbl.Find([]byte{3, 9})
	assert.False(t, ok)
}

func BenchmarkEnumerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Enumerate(100, 3); err != nil {
			b.Fatal(err)
		}
	}
}
