package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColoredPlain(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = true

	tests := map[string]string{
		"0.1.0-dev":     "0.1.0-dev",
		"1.2.3":         "1.2.3",
		"1.0.0-beta.1":  "1.0.0-beta.1",
		"not-a-version": "not-a-version",
	}
	for in, want := range tests {
		Version = in
		if got := Colored(); got != want {
			t.Errorf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = false
	Version = "2.0.1"
	if got := Colored(); got == Version {
		t.Fatalf("expected escape sequences in %q", got)
	}
}

func TestCommitOverride(t *testing.T) {
	orig := GitCommit
	defer func() { GitCommit = orig }()
	GitCommit = "abc123"
	if Commit() != "abc123" {
		t.Fatalf("Commit() = %q", Commit())
	}
}
