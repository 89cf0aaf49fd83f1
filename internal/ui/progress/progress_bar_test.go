package progress

import (
	"errors"
	"strings"
	"testing"

	"charm.land/bubbles/v2/spinner"
	"github.com/charmbracelet/x/ansi"
)

func TestProgressBar_Lifecycle(t *testing.T) {
	t.Parallel()
	pb := NewProgressBar(3, "fetching")
	if pb.Total() != 3 {
		t.Errorf("Total() = %d, want 3", pb.Total())
	}

	// Neither call may block or panic before Start.
	pb.SetProgress(2, "origin")
	pb.Stop()
	if pb.Current() != 2 {
		t.Errorf("Current() = %d, want 2", pb.Current())
	}
}

func TestProgressBarModel_View(t *testing.T) {
	t.Parallel()
	m := progressBarModel{total: 4, current: 1, message: "upstream"}

	if got := m.fraction(); got != 0.25 {
		t.Errorf("fraction() = %v, want 0.25", got)
	}
	if got := m.label(); got != "1/4 upstream" {
		t.Errorf("label() = %q", got)
	}

	m.current = 9
	if got := m.fraction(); got != 1 {
		t.Errorf("fraction() past total = %v, want 1", got)
	}
	if got := (progressBarModel{}).fraction(); got != 0 {
		t.Errorf("fraction() with zero total = %v, want 0", got)
	}

	updated, cmd := m.Update(progressUpdate{current: 3, message: "mirror"})
	um := updated.(progressBarModel)
	if um.current != 3 || um.message != "mirror" || cmd == nil {
		t.Errorf("Update() = %+v, cmd nil = %v", um, cmd == nil)
	}
}

func TestSpinnerModel(t *testing.T) {
	t.Parallel()
	m := spinnerModel{spinner: spinner.New(spinner.WithSpinner(spinner.Line))}
	if got := m.line(); got != "" {
		t.Errorf("line() without message = %q", got)
	}

	updated, _ := m.Update(messageUpdate("cloning into lib"))
	um := updated.(spinnerModel)
	if !strings.Contains(ansi.Strip(um.line()), "cloning into lib") {
		t.Errorf("line() = %q, want the message", um.line())
	}
}

func TestSpinner_StopBeforeStart(t *testing.T) {
	t.Parallel()
	s := NewSpinner("cloning")
	s.UpdateMessage("still cloning")
	s.Stop()
	if s.lastMsg != "still cloning" {
		t.Errorf("lastMsg = %q", s.lastMsg)
	}
}

func TestRun_PropagatesError(t *testing.T) {
	t.Parallel()
	want := errors.New("fetch failed")
	if err := Run("fetching", func() error { return want }); !errors.Is(err, want) {
		t.Errorf("Run() = %v, want %v", err, want)
	}
}
