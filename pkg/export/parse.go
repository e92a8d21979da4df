package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/solver"
)

// ParsePath reads a pursuit file written by Path. The replay command uses
// it to step through a previously exported game.
func ParsePath(r io.Reader) ([]solver.Ply, error) {
	var plies []solver.Ply
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		parts := strings.SplitN(text, "|", 3)
		if len(parts) != 3 {
			return nil, errors.New(errors.ErrCodeMalformedGraph,
				"path line %d: want 3 fields, got %d", line, len(parts))
		}
		var cops []byte
		for _, f := range strings.Split(parts[0], ",") {
			v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeMalformedGraph, err,
					"path line %d: bad cop vertex %q", line, f)
			}
			cops = append(cops, byte(v))
		}
		rv, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 8)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedGraph, err,
				"path line %d: bad robber vertex %q", line, parts[1])
		}
		phase := solver.Phase(parts[2])
		switch phase {
		case solver.PhaseCopTurn, solver.PhaseRobberTurn, solver.PhaseCaptured:
		default:
			return nil, errors.New(errors.ErrCodeMalformedGraph,
				"path line %d: unknown phase %q", line, parts[2])
		}
		plies = append(plies, solver.Ply{Cops: cops, Robber: byte(rv), Phase: phase})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphIO, err, "read path file")
	}
	if len(plies) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedGraph, "path file is empty")
	}
	return plies, nil
}
