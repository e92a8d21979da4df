// Package placement enumerates cop placements.
//
// A placement of k cops on n vertices is a multiset, canonically a
// non-decreasing k-tuple of vertex IDs. There are C(n+k-1, k) of them.
// The enumeration order is lexicographic, which makes placement IDs
// dense, deterministic, and binary-searchable.
package placement

import (
	"bytes"
	"math/bits"

	"github.com/pursuitlab/copnumber/pkg/errors"
)

// Cop-count bounds. The upper bound is a sanity cap: any graph on at most
// 254 vertices is trivially won by 254 cops, so values beyond 256 signal
// caller confusion rather than a real question.
const (
	MinCops = 1
	MaxCops = 256
)

// Count returns C(n+k-1, k), the number of k-cop placements on n
// vertices. It fails with ConfigurationOverflow when the product exceeds
// 64 bits and with CopCountOutOfRange when k is outside [MinCops, MaxCops].
func Count(n, k int) (uint64, error) {
	if k < MinCops || k > MaxCops {
		return 0, errors.New(errors.ErrCodeCopCountOutOfRange,
			"cop count %d outside [%d, %d]", k, MinCops, MaxCops)
	}
	if n < 1 {
		return 0, errors.New(errors.ErrCodeInvalidArguments,
			"vertex count %d must be positive", n)
	}
	// C(n+k-1, k) computed as a running product. Dividing by i after
	// multiplying by n-1+i keeps every intermediate value an exact
	// binomial coefficient.
	var result uint64 = 1
	for i := 1; i <= k; i++ {
		hi, lo := bits.Mul64(result, uint64(n-1+i))
		if hi != 0 {
			return 0, errors.New(errors.ErrCodeConfigOverflow,
				"C(%d, %d) exceeds 64 bits", n+k-1, k)
		}
		result = lo / uint64(i)
	}
	return result, nil
}

// Table is the full placement enumeration: M rows of k bytes each, in
// lexicographic order.
type Table struct {
	data []byte // m*k, row i = placement i
	m    uint64
	k    int
}

// Enumerate materializes every k-cop placement on n vertices. Memory is
// M·k bytes; Count's overflow check bounds M, but callers solving large
// graphs should check Count first and budget accordingly.
func Enumerate(n, k int) (*Table, error) {
	m, err := Count(n, k)
	if err != nil {
		return nil, err
	}
	if n > 255 {
		return nil, errors.New(errors.ErrCodeGraphTooLarge,
			"vertex count %d does not fit placement bytes", n)
	}
	bytesNeeded, overflow := mulCheck(m, uint64(k))
	if overflow || bytesNeeded > 1<<40 {
		return nil, errors.New(errors.ErrCodeConfigOverflow,
			"placement table for n=%d k=%d needs %d bytes", n, k, bytesNeeded)
	}

	t := &Table{data: make([]byte, bytesNeeded), m: m, k: k}
	cur := make([]byte, k)
	for row := uint64(0); row < m; row++ {
		copy(t.data[row*uint64(k):], cur)
		// Odometer step: bump the rightmost digit below n-1 and reset
		// the suffix to the new value, keeping the tuple non-decreasing.
		i := k - 1
		for i >= 0 && cur[i] == byte(n-1) {
			i--
		}
		if i < 0 {
			break
		}
		cur[i]++
		for j := i + 1; j < k; j++ {
			cur[j] = cur[i]
		}
	}
	return t, nil
}

// Len returns the number of placements M.
func (t *Table) Len() uint64 { return t.m }

// K returns the cop count.
func (t *Table) K() int { return t.k }

// At returns placement id as a k-byte slice into the table. Callers must
// not modify it.
func (t *Table) At(id uint64) []byte {
	off := id * uint64(t.k)
	return t.data[off : off+uint64(t.k)]
}

// Find binary-searches for a sorted k-tuple and returns its placement ID.
func (t *Table) Find(tuple []byte) (uint64, bool) {
	lo, hi := uint64(0), t.m
	for lo < hi {
		mid := lo + (hi-lo)/2
		switch bytes.Compare(t.At(mid), tuple) {
		case 0:
			return mid, true
		case -1:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false
}

func mulCheck(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi != 0
}
