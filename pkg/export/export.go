// Package export writes solver results as plain text files.
//
// Two formats are produced alongside path extraction: the full DP table,
// one line per state, and the extracted pursuit, one line per ply. Both
// are stable line-oriented formats meant for downstream scripts.
package export

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/placement"
	"github.com/pursuitlab/copnumber/pkg/solver"
	"github.com/pursuitlab/copnumber/pkg/state"
)

// DP writes the full table, one `c0,c1,…|r|steps` line per state. States
// the robber wins carry steps -1. Requires a scoreboard with round
// tracking.
func DP(w io.Writer, tbl *placement.Table, sb *state.Scoreboard) error {
	if sb.Rounds == nil {
		return errors.New(errors.ErrCodeUnsupported,
			"DP export requires round tracking")
	}
	bw := bufio.NewWriter(w)
	n := sb.N()
	var buf []byte
	for cID := uint64(0); cID < tbl.Len(); cID++ {
		cfg := tbl.At(cID)
		base := cID * n
		for r := uint64(0); r < n; r++ {
			buf = appendCops(buf[:0], cfg)
			buf = append(buf, '|')
			buf = strconv.AppendUint(buf, r, 10)
			buf = append(buf, '|')
			buf = strconv.AppendInt(buf, int64(sb.Rounds[base+r]), 10)
			buf = append(buf, '\n')
			if _, err := bw.Write(buf); err != nil {
				return errors.Wrap(errors.ErrCodeStore, err, "write DP line")
			}
		}
	}
	return bw.Flush()
}

// Path writes the extracted pursuit, one `c0,…|r|phase` line per ply.
func Path(w io.Writer, path []solver.Ply) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, p := range path {
		buf = appendCops(buf[:0], p.Cops)
		buf = append(buf, '|')
		buf = strconv.AppendUint(buf, uint64(p.Robber), 10)
		buf = append(buf, '|')
		buf = append(buf, p.Phase...)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "write path line")
		}
	}
	return bw.Flush()
}

// DPFile writes the DP table to a file.
func DPFile(path string, tbl *placement.Table, sb *state.Scoreboard) error {
	return toFile(path, func(w io.Writer) error { return DP(w, tbl, sb) })
}

// PathFile writes the pursuit to a file.
func PathFile(path string, plies []solver.Ply) error {
	return toFile(path, func(w io.Writer) error { return Path(w, plies) })
}

func toFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create %s", path)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "close %s", path)
	}
	return nil
}

func appendCops(buf []byte, cops []byte) []byte {
	for i, c := range cops {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(c), 10)
	}
	return buf
}
