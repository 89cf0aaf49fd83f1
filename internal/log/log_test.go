package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestOutputModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		verbose     bool
		quiet       bool
		wantPrint   bool
		wantVerbose bool
	}{
		{"default", false, false, true, false},
		{"verbose", true, false, true, true},
		{"quiet", false, true, false, false},
		{"quiet wins over verbose", true, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			l := New(&buf, tt.verbose, tt.quiet)

			if got := l.IsVerbose(); got != tt.wantVerbose {
				t.Errorf("IsVerbose() = %v, want %v", got, tt.wantVerbose)
			}

			l.Printf("opened %s", "repo")
			l.Println(" bare:", false)
			want := ""
			if tt.wantPrint {
				want = "opened repo bare: false\n"
			}
			if got := buf.String(); got != want {
				t.Errorf("Printf+Println = %q, want %q", got, want)
			}

			buf.Reset()
			l.Command("/srv/repo", "git", "rev-parse", "HEAD")(1500 * time.Microsecond)
			l.Debug("opened repository", "bare", true)
			if got := buf.Len() > 0; got != tt.wantVerbose {
				t.Errorf("verbose output present = %v, want %v (%q)", got, tt.wantVerbose, buf.String())
			}
		})
	}
}

func TestCommand_Format(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := New(&buf, true, false)

	l.Command("/srv/repo", "git", "cat-file", "--batch")(12 * time.Millisecond)
	l.Command("", "git", "--version")(400 * time.Microsecond)

	want := "[/srv/repo] $ git cat-file --batch (12ms)\n$ git --version (0s)\n"
	if got := buf.String(); got != want {
		t.Errorf("Command output = %q, want %q", got, want)
	}
}

func TestDebug_KeyValues(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := New(&buf, true, false)

	l.Debug("opened repository", "gitdir", "/r/.git", "bare", false, "dangling")
	if got, want := buf.String(), "opened repository gitdir=/r/.git bare=false\n"; got != want {
		t.Errorf("Debug() = %q, want %q", got, want)
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := New(&buf, true, false)

	if got := FromContext(WithLogger(context.Background(), l)); got != l {
		t.Error("FromContext did not return the attached logger")
	}
	if l.Writer() != &buf {
		t.Error("Writer() did not return the underlying writer")
	}

	fallback := FromContext(context.Background())
	if fallback.Writer() != io.Discard || fallback.IsVerbose() {
		t.Error("fallback logger should be a silent discard logger")
	}
	fallback.Printf("dropped")
	fallback.Command("", "git", "status")(time.Second)

	if strings.Contains(buf.String(), "dropped") {
		t.Error("fallback logger wrote to an attached logger's writer")
	}
}
