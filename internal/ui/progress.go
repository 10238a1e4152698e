package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Progress creates progress bars.
type Progress interface {
	// Start creates a bar for total steps.
	Start(title string, total int) ProgressBar
}

// ProgressBar reports advancement through a fixed number of steps.
type ProgressBar interface {
	Increment(n int)
	SetTitle(title string)
	// Done fills the bar and releases its resources. Safe to call twice.
	Done()
}

type progressImpl struct {
	theme    *Theme
	headless *HeadlessManager
	out      io.Writer
}

// NewProgress creates a Progress that draws to w. Without a terminal, or
// with colors disabled, bars print one "[n/total] title" line per step.
func NewProgress(theme *Theme, hm *HeadlessManager, w io.Writer) Progress {
	return &progressImpl{theme: theme, headless: hm, out: w}
}

func (p *progressImpl) Start(title string, total int) ProgressBar {
	if p.headless.IsHeadless() || p.theme.NoColor {
		return &lineBar{counter: counter{title: title, total: total}, out: p.out}
	}
	return startAnimatedBar(p.theme, title, total, p.out)
}

// NopProgress returns a Progress whose bars discard every update.
func NopProgress() Progress { return nopProgress{} }

type nopProgress struct{}

func (nopProgress) Start(string, int) ProgressBar { return nopBar{} }

type nopBar struct{}

func (nopBar) Increment(int)   {}
func (nopBar) SetTitle(string) {}
func (nopBar) Done()           {}

// counter is the state shared by both bar flavors.
type counter struct {
	title   string
	current int
	total   int
}

func (c *counter) add(n int) {
	c.current = min(c.current+n, c.total)
}

func (c *counter) fraction() float64 {
	if c.total <= 0 {
		return 0
	}
	return float64(c.current) / float64(c.total)
}

func (c *counter) String() string {
	return fmt.Sprintf("[%d/%d] %s", c.current, c.total, c.title)
}

// lineBar prints a status line per step.
type lineBar struct {
	counter
	out      io.Writer
	finished bool
}

func (b *lineBar) Increment(n int) {
	b.add(n)
	_, _ = fmt.Fprintln(b.out, b.counter.String())
}

func (b *lineBar) SetTitle(title string) { b.title = title }

// Done prints a final line unless the last step already reported completion.
func (b *lineBar) Done() {
	if b.finished {
		return
	}
	b.finished = true
	if b.current < b.total {
		b.current = b.total
		_, _ = fmt.Fprintln(b.out, b.counter.String())
	}
}

type (
	stepMsg   int
	titleMsg  string
	finishMsg struct{}
)

// barModel renders a bubbles progress bar followed by the counter line.
type barModel struct {
	counter
	bar  progress.Model
	done bool
}

func newBarModel(theme *Theme, title string, total int) barModel {
	opts := []progress.Option{progress.WithWidth(40), progress.WithDefaultGradient()}
	if !theme.NoColor {
		opts = []progress.Option{progress.WithWidth(40), progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary)}
	}
	return barModel{counter: counter{title: title, total: total}, bar: progress.New(opts...)}
}

func (m barModel) Init() tea.Cmd { return nil }

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		m.add(int(msg))
	case titleMsg:
		m.title = string(msg)
	case finishMsg:
		m.current = m.total
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m barModel) View() string {
	if m.done {
		return ""
	}
	return m.bar.ViewAs(m.fraction()) + " " + m.counter.String() + "\n"
}

// animatedBar drives a barModel running on its own goroutine until Done.
// The program reads no input and installs no signal handler, so the
// terminal stays in cooked mode and Ctrl-C reaches the caller's context.
type animatedBar struct {
	program *tea.Program
	once    sync.Once
}

func startAnimatedBar(theme *Theme, title string, total int, w io.Writer) *animatedBar {
	p := tea.NewProgram(newBarModel(theme, title, total),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	go func() {
		_, _ = p.Run()
	}()
	return &animatedBar{program: p}
}

func (b *animatedBar) Increment(n int)       { b.program.Send(stepMsg(n)) }
func (b *animatedBar) SetTitle(title string) { b.program.Send(titleMsg(title)) }

func (b *animatedBar) Done() {
	b.once.Do(func() {
		b.program.Send(finishMsg{})
		b.program.Wait()
	})
}
