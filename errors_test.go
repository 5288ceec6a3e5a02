package pathstore_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	pathstore "github.com/reoring/pathstore"
)

func TestIssues_ErrorSummary(t *testing.T) {
	var iss pathstore.Issues
	for _, p := range []string{"", "a", "b", "c"} {
		iss = pathstore.AppendIssues(iss, pathstore.NewIssue(p, pathstore.CodeRequired, ""))
	}
	msg := iss.Error()
	if !strings.HasPrefix(msg, "required at <root>; required at a") {
		t.Fatalf("unexpected summary: %s", msg)
	}
	if !strings.Contains(msg, "(total 4)") {
		t.Fatalf("summary should report the total: %s", msg)
	}
}

func TestIssues_RebaseAndAs(t *testing.T) {
	iss := pathstore.Issues{pathstore.NewIssue("id", pathstore.CodeRequired, ""), pathstore.NewIssue("", pathstore.CodeRequired, "")}
	wrapped := fmt.Errorf("load: %w", pathstore.RebaseError(iss, "x"))

	got, ok := pathstore.AsIssues(wrapped)
	if !ok {
		t.Fatalf("expected Issues through wrapping")
	}
	if got[0].Path != "x.id" || got[1].Path != "x" {
		t.Fatalf("unexpected rebased paths: %+v", got)
	}
	if iss[0].Path != "id" {
		t.Fatalf("Rebase must not modify the receiver")
	}
	if !pathstore.IsSchemaViolation(wrapped) {
		t.Fatalf("required-only issues are a schema violation")
	}
}

func TestIsSchemaViolation(t *testing.T) {
	mixed := pathstore.Issues{
		pathstore.NewIssue("a", pathstore.CodeRequired, ""),
		pathstore.NewIssue("b", pathstore.CodeUnknownField, ""),
	}
	if pathstore.IsSchemaViolation(mixed) {
		t.Fatalf("mixed issues are not a plain schema violation")
	}
	if pathstore.IsSchemaViolation(errors.New("x")) || pathstore.IsSchemaViolation(nil) {
		t.Fatalf("non-Issues errors are not schema violations")
	}
	plain := errors.New("plain")
	if pathstore.RebaseError(plain, "k") != plain {
		t.Fatalf("RebaseError must pass other errors through")
	}
}

func TestIssueMessagesAreLocalized(t *testing.T) {
	is := pathstore.IssueAt(pathstore.At("a.b"), pathstore.CodeNotContainer, map[string]any{"segment": "b"})
	if is.Message == "" || is.Message == pathstore.CodeNotContainer {
		t.Fatalf("expected a catalogue message, got %q", is.Message)
	}
}
