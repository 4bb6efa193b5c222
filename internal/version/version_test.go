package version

import "testing"

func TestString(t *testing.T) {
	old := GitCommit
	GitCommit = "abc123"
	defer func() { GitCommit = old }()

	want := "markup " + Version + " (commit abc123, built " + BuildTime + ")"
	if got := String("markup"); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
