// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	cause := errors.New("file does not exist")
	err := NewErrorContext().
		WithOperation("load command pack").
		WithResource("./packs/custom.json").
		Wrap(cause).
		BuildError()

	want := "failed to load command pack: ./packs/custom.json: file does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable through errors.Is")
	}
}

func TestActionableErrorFormat(t *testing.T) {
	inner := errors.New("permission denied")
	err := NewErrorContext().
		WithOperation("create run directory").
		WithSuggestion("Check the data directory permissions").
		WithSuggestion("Set a writable artifacts location").
		Wrap(fmt.Errorf("mkdir failed: %w", inner)).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "• Check the data directory permissions") {
		t.Errorf("suggestions missing from output:\n%s", short)
	}
	if strings.Contains(short, "Error chain:") {
		t.Error("non-verbose output should not include the error chain")
	}

	long := err.Format(true)
	if !strings.Contains(long, "Error chain:") || !strings.Contains(long, "permission denied") {
		t.Errorf("verbose output should unwrap the chain:\n%s", long)
	}
}

func TestErrorContextRequiresOperation(t *testing.T) {
	if err := NewErrorContext().WithSuggestion("nope").BuildError(); err != nil {
		t.Errorf("BuildError without operation should be nil, got: %v", err)
	}
}

func TestIssueRegistry(t *testing.T) {
	for _, id := range []Id{
		NoShellFoundId, ShellUnavailableId, PackDirNotFoundId,
		PackParseErrorId, CommandNotFoundId, RunnerBusyId,
	} {
		card := Get(id)
		if card == nil {
			t.Fatalf("issue %d is not registered", id)
		}
		if strings.TrimSpace(string(card.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no message", id)
		}
	}
	if len(Values()) != 6 {
		t.Errorf("expected 6 registered issues, got %d", len(Values()))
	}
}

func TestIssueRenderUsesRenderer(t *testing.T) {
	orig := render
	defer func() { render = orig }()

	var gotStyle string
	render = func(md, style string) (string, error) {
		gotStyle = style
		return "rendered:" + md, nil
	}

	out, err := Get(NoShellFoundId).Render("dark")
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if gotStyle != "dark" || !strings.HasPrefix(out, "rendered:") {
		t.Errorf("renderer not used as expected: style=%q out=%q", gotStyle, out)
	}
}
