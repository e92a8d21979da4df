package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pursuitlab/copnumber/pkg/errors"
	"github.com/pursuitlab/copnumber/pkg/export"
	"github.com/pursuitlab/copnumber/pkg/graph"
)

const p3Matrix = "010\n101\n010\n"

func writeGraphFile(t *testing.T, matrix string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.txt")
	if err := os.WriteFile(path, []byte(matrix), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// captureStdout redirects os.Stdout for the duration of fn. The verdict
// block is contractual stdout output, so tests read it directly.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	runErr := fn()
	w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data), runErr
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureStdout(t, func() error {
		root := NewRootCommand()
		root.SilenceErrors = true
		root.SetArgs(args)
		return root.Execute()
	})
}

func TestSolveVerdictBlock(t *testing.T) {
	file := writeGraphFile(t, p3Matrix)

	out, err := runCommand(t, "solve", file, "1", "--no-store")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "--- FINAL VERDICT ---") {
		t.Errorf("missing verdict block header:\n%s", out)
	}
	if !strings.Contains(out, "RESULT: WIN. 1 Cop(s) CAN win this graph.") {
		t.Errorf("missing win line:\n%s", out)
	}
	if !strings.Contains(out, "Optimal Cop Start Positions: (0)") {
		t.Errorf("expected first winning placement (0):\n%s", out)
	}
}

func TestSolveVerdictWithRounds(t *testing.T) {
	file := writeGraphFile(t, p3Matrix)

	out, err := runCommand(t, "solve", file, "1", "--rounds", "--no-store")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Optimal Cop Start Positions: (1)") {
		t.Errorf("rounds-minimizing opening should be the center vertex:\n%s", out)
	}
	if !strings.Contains(out, "Capture Time: 1 rounds.") {
		t.Errorf("missing capture time:\n%s", out)
	}
}

func TestSolveLossVerdict(t *testing.T) {
	c4, err := graph.CycleGraph(4)
	if err != nil {
		t.Fatal(err)
	}
	file := writeGraphFile(t, c4.String())

	out, err := runCommand(t, "solve", file, "1", "--no-store")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "RESULT: LOSS. 1 Cop(s) CANNOT guarantee a win.") {
		t.Errorf("missing loss line:\n%s", out)
	}
}

func TestSolveExportsPath(t *testing.T) {
	file := writeGraphFile(t, p3Matrix)
	pathOut := filepath.Join(t.TempDir(), "pursuit.txt")

	_, err := runCommand(t, "solve", file, "1", "--path-out", pathOut, "--no-store")
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(pathOut)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	plies, err := export.ParsePath(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(plies) == 0 {
		t.Fatal("exported pursuit is empty")
	}
	if plies[len(plies)-1].Phase != "Game Over - Captured!" {
		t.Errorf("pursuit does not end in capture: %v", plies[len(plies)-1].Phase)
	}
}

func TestSolveMissingFileExitCode(t *testing.T) {
	_, err := runCommand(t, "solve", filepath.Join(t.TempDir(), "absent.txt"), "1", "--no-store")
	if err == nil {
		t.Fatal("expected an error for a missing graph file")
	}
	if errors.ExitCode(err) != errors.ExitGraphIO {
		t.Errorf("got exit code %d, want %d", errors.ExitCode(err), errors.ExitGraphIO)
	}
}

func TestSolveBadCopCountExitCode(t *testing.T) {
	file := writeGraphFile(t, p3Matrix)
	_, err := runCommand(t, "solve", file, "two", "--no-store")
	if err == nil {
		t.Fatal("expected an error for a non-integer cop count")
	}
	if errors.ExitCode(err) != errors.ExitInvalidArgs {
		t.Errorf("got exit code %d, want %d", errors.ExitCode(err), errors.ExitInvalidArgs)
	}
}
