// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent status bar and an input prompt at
// the bottom of the terminal. All application output is printed above
// the rendered area via Program.Println / Printf, so concurrent writes
// never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/platechef/internal/workflow"
)

const prompt = "chef> "

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	busyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#bbf7d0"))

	errBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may
// safely call [UI.Println], [UI.Printf], [UI.SetState] and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	done    atomic.Bool

	mu        sync.Mutex
	state     workflow.State
	selection string
}

// NewUI creates the display. Call Run() to start.
func NewUI() *UI {
	return &UI{
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format, a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// SetState updates the status bar. It is registered as the workflow
// observer, so it runs on whichever goroutine made the transition.
func (u *UI) SetState(s workflow.State) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
	u.send(stateMsg(s))
}

// SetSelection shows the selected photo's name in the status bar. An
// empty name clears it.
func (u *UI) SetSelection(name string) {
	u.mu.Lock()
	u.selection = name
	u.mu.Unlock()
	u.send(selectionMsg(name))
}

func (u *UI) send(msg tea.Msg) {
	if u.program != nil && !u.done.Load() {
		u.program.Send(msg)
	}
}

// ── Styled print helpers ─────────────────────────────────────────

// PrintBlock prints pre-rendered multi-line output as-is.
func (u *UI) PrintBlock(text string) {
	u.Println(strings.TrimRight(text, "\n"))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("chef") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Plain-text prompt: lipgloss-styled prompts add invisible ANSI bytes
	// that break textinput's offset math for long input.
	ti.Prompt = prompt
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Placeholder = "drop a food photo here, or type help"
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60 // updated on first WindowSizeMsg

	u.mu.Lock()
	m := newModel(ti, u.state, u.selection)
	u.mu.Unlock()
	m.inputCh = u.inputCh
	m.readyCh = u.readyCh
	m.echoFn = u.PrintUserInput

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	input     textinput.Model
	spinner   spinner.Model
	inputCh   chan<- string
	readyCh   chan struct{}
	echoFn    func(string)
	state     workflow.State
	selection string
	width     int
}

// Messages.
type (
	stateMsg     workflow.State
	selectionMsg string
)

func newModel(ti textinput.Model, s workflow.State, selection string) model {
	return model{
		input: ti,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(busyStyle),
		),
		state:     s,
		selection: selection,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		signalReady(m.readyCh),
		tea.SetWindowTitle("PlateChef"),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if ch != nil {
			close(ch)
		}
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo from a Cmd so Update never blocks on Println.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(prompt) {
			m.input.Width = msg.Width - len(prompt)
		}
		return m, nil

	case stateMsg:
		m.state = workflow.State(msg)
		return m, tea.SetWindowTitle(windowTitle(m.state))

	case selectionMsg:
		m.selection = string(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.renderBar())
	b.WriteByte('\n')
	// Blank line before prompt for visual separation.
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	parts := []string{statusText(m.state, m.spinner.View())}

	if m.selection != "" {
		parts = append(parts, labelStyle.Render("photo: ")+primaryStyle.Render(m.selection))
	}
	if n := len(m.state.Ingredients); n > 0 {
		parts = append(parts, labelStyle.Render(fmt.Sprintf("%d ingredient(s)", n)))
	}
	if m.state.HasError() {
		parts = append(parts, errBarStyle.Render(m.state.Err)+secondaryStyle.Render("  (dismiss)"))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}

// statusText is the phase segment of the status bar.
func statusText(s workflow.State, spin string) string {
	switch s.Phase {
	case workflow.PhaseAnalyzing:
		return spin + busyStyle.Render("Analyzing...")
	case workflow.PhaseGenerating:
		return spin + busyStyle.Render("Generating recipe...")
	case workflow.PhaseAnalyzedOk:
		name := "dish"
		if s.Dish != nil && s.Dish.DishName != "" {
			name = s.Dish.DishName
		}
		return okStyle.Render("identified " + name)
	case workflow.PhaseGeneratedOk:
		name := "recipe"
		if s.Recipe != nil && s.Recipe.Name != "" {
			name = s.Recipe.Name
		}
		return okStyle.Render(name + " ready")
	case workflow.PhaseAnalyzedErr, workflow.PhaseGeneratedErr:
		return errBarStyle.Render(s.Phase.String())
	default:
		return labelStyle.Render("ready for a photo")
	}
}

func windowTitle(s workflow.State) string {
	switch s.Phase {
	case workflow.PhaseAnalyzing:
		return "PlateChef | analyzing"
	case workflow.PhaseGenerating:
		return "PlateChef | cooking up a recipe"
	}
	return "PlateChef"
}
