package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/gitkit/internal/ui/styles"
)

type progressUpdate struct {
	current int
	message string
}

// ProgressBar shows determinate progress, e.g. "2/5 remotes fetched".
type ProgressBar struct {
	out       io.Writer
	program   *tea.Program
	updateCh  chan progressUpdate
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
	total     int
	current   int
	message   string
}

type progressBarModel struct {
	progress progress.Model
	total    int
	current  int
	message  string
	updateCh chan progressUpdate
}

func (m progressBarModel) Init() tea.Cmd {
	return m.waitForUpdate()
}

func (m progressBarModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updateCh
		if !ok {
			return tea.Quit()
		}
		return update
	}
}

func (m progressBarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressUpdate:
		m.current = msg.current
		m.message = msg.message
		return m, m.waitForUpdate()
	case tea.KeyPressMsg:
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}
}

func (m progressBarModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(fmt.Sprintf("%s %s", m.progress.ViewAs(m.fraction()), m.label()))
}

func (m progressBarModel) fraction() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.current)/float64(m.total), 1)
}

// label renders "current/total message".
func (m progressBarModel) label() string {
	return fmt.Sprintf("%d/%d %s", m.current, m.total, m.message)
}

// NewProgressBar creates a bar for total steps that draws on stderr.
func NewProgressBar(total int, message string) *ProgressBar {
	return &ProgressBar{
		out:      os.Stderr,
		updateCh: make(chan progressUpdate, 10),
		done:     make(chan struct{}),
		total:    total,
		message:  message,
	}
}

// Start begins drawing. Calling it twice is a no-op.
func (p *ProgressBar) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return
	}

	bar := progress.New(
		progress.WithWidth(30),
		progress.WithoutPercentage(),
		progress.WithColors(styles.Primary, styles.Accent),
	)
	model := progressBarModel{
		progress: bar,
		total:    p.total,
		current:  p.current,
		message:  p.message,
		updateCh: p.updateCh,
	}
	p.program = tea.NewProgram(model, tea.WithoutSignalHandler(), tea.WithOutput(p.out))
	p.isRunning = true

	go func() {
		_, _ = p.program.Run()
		close(p.done)
	}()
}

// SetProgress records how many steps are done. Updates are dropped while
// the channel is full.
func (p *ProgressBar) SetProgress(current int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	p.message = message
	if !p.isRunning {
		return
	}
	select {
	case p.updateCh <- progressUpdate{current: current, message: message}:
	default:
	}
}

// Stop ends drawing and clears the line.
func (p *ProgressBar) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	close(p.updateCh)
	p.mu.Unlock()

	if p.program != nil {
		p.program.Quit()
	}
	select {
	case <-p.done:
	case <-time.After(500 * time.Millisecond):
	}
	fmt.Fprint(p.out, "\r\033[K")
}

// Total returns the number of steps.
func (p *ProgressBar) Total() int {
	return p.total
}

// Current returns the last recorded step.
func (p *ProgressBar) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}
