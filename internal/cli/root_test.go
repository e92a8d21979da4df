package cli

import (
	"testing"

	"github.com/pursuitlab/copnumber/pkg/errors"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()

	want := map[string]bool{
		"solve":   false,
		"inspect": false,
		"gen":     false,
		"render":  false,
		"replay":  false,
		"serve":   false,
		"cache":   false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q missing from root", name)
		}
	}
}

func TestExactArgsErrorCode(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"solve", "only-one-arg"})
	root.SilenceErrors = true

	err := root.Execute()
	if err == nil {
		t.Fatal("expected an argument-count error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidArguments) {
		t.Errorf("got code %q, want INVALID_ARGUMENTS", errors.GetCode(err))
	}
	if errors.ExitCode(err) != errors.ExitInvalidArgs {
		t.Errorf("got exit code %d, want %d", errors.ExitCode(err), errors.ExitInvalidArgs)
	}
}

func TestParseCopCount(t *testing.T) {
	if _, err := parseCopCount("three"); !errors.Is(err, errors.ErrCodeInvalidArguments) {
		t.Errorf("non-integer cop count should fail with INVALID_ARGUMENTS, got %v", err)
	}
	k, err := parseCopCount("3")
	if err != nil || k != 3 {
		t.Errorf("parseCopCount(3) = %d, %v", k, err)
	}
}
