// Package progress shows activity on stderr while the engine works:
// a spinner for clone and single fetches, a bar when fetching several
// remotes. Nothing is drawn unless stderr is a terminal, so stdout stays
// clean for piping.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-isatty"

	"github.com/raphi011/gitkit/internal/ui/styles"
)

// Enabled reports whether progress should be drawn on stderr.
func Enabled() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type messageUpdate string

// Spinner wraps a bubbles spinner for non-interactive use.
type Spinner struct {
	out       io.Writer
	program   *tea.Program
	msgChan   chan string
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
	lastMsg   string
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	msgChan chan string
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForMessage())
}

func (m spinnerModel) waitForMessage() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.msgChan
		if !ok {
			return tea.Quit()
		}
		return messageUpdate(msg)
	}
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, m.waitForMessage()
	case tea.KeyPressMsg:
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() tea.View {
	return tea.NewView(m.line())
}

func (m spinnerModel) line() string {
	if m.message == "" {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.message)
}

// NewSpinner creates a spinner that draws on stderr.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		out:     os.Stderr,
		msgChan: make(chan string, 10),
		done:    make(chan struct{}),
		lastMsg: message,
	}
}

// Start begins the animation. Calling it twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.HeaderStyle.UnsetBold()

	model := spinnerModel{spinner: sp, message: s.lastMsg, msgChan: s.msgChan}
	s.program = tea.NewProgram(model, tea.WithoutSignalHandler(), tea.WithOutput(s.out))
	s.isRunning = true

	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
}

// UpdateMessage changes the message. Updates are dropped while the
// channel is full.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		s.lastMsg = message
		return
	}
	select {
	case s.msgChan <- message:
	default:
	}
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.msgChan)
	s.mu.Unlock()

	if s.program != nil {
		s.program.Quit()
	}
	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
	}
	fmt.Fprint(s.out, "\r\033[K")
}

// Run calls fn while a spinner shows message. Without a terminal fn runs
// with no output.
func Run(message string, fn func() error) error {
	if !Enabled() {
		return fn()
	}
	s := NewSpinner(message)
	s.Start()
	defer s.Stop()
	return fn()
}
