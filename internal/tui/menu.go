package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/flowviz/internal/animate"
	"github.com/san-kum/flowviz/internal/session"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Actions is what the menu can ask for. *session.Session implements it.
type Actions interface {
	Steps(fieldName string) ([]int, error)
	Heatmap(step int, fieldName string) (string, error)
	Surface(step int, fieldName string) (string, error)
	VectorField(step int) (string, error)
	Profile(step int) (string, error)
	Energy() (string, error)
	Animate(fieldName string) (*animate.Result, error)
	Compare(fieldName string, steps []int) (*session.Report, error)
	GroupedSurface(fieldName string, steps []int) (*session.Report, error)
	Final() (string, error)
	RunAll() (*session.Report, error)
}

type action struct {
	id         string
	desc       string
	needsStep  bool
	needsField bool
}

var menuActions = []action{
	{"heatmap", "2D field, origin lower left", true, true},
	{"surface", "3D surface", true, true},
	{"vector", "arrows colored by magnitude", true, false},
	{"profile", "u, v and |u| on the central cut", true, false},
	{"energy", "kinetic energy history", false, false},
	{"animate", "gif over every step", false, true},
	{"compare", "first, middle, last on one scale", false, true},
	{"grouped", "3D panels on one scale", false, true},
	{"final", "final velocity magnitude", false, false},
	{"all", "every figure for representative steps", false, false},
}

type state int

const (
	stateMenu state = iota
	stateSelect
	stateRunning
	stateResult
)

type model struct {
	state   state
	cursor  int
	actions Actions

	selected   action
	field      int
	steps      []int
	stepCursor int

	lines []string
	err   error

	width  int
	height int
}

type stepsMsg struct {
	steps []int
	err   error
}

type doneMsg struct {
	lines []string
	err   error
}

func New(a Actions) model {
	return model{state: stateMenu, actions: a, width: 80, height: 24}
}

func (m model) fieldName() string { return session.Fields[m.field] }

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case stepsMsg:
		m.steps, m.err = msg.steps, msg.err
		m.stepCursor = 0
	case doneMsg:
		m.state = stateResult
		m.lines, m.err = msg.lines, msg.err
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateSelect:
		return m.selectKey(msg)
	case stateResult:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		m.state = stateMenu
		m.lines, m.err = nil, nil
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuActions)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = menuActions[m.cursor]
		m.err = nil
		if !m.selected.needsStep && !m.selected.needsField {
			m.state = stateRunning
			return m, m.run()
		}
		m.state = stateSelect
		if m.selected.needsStep {
			return m, m.loadSteps()
		}
	}
	return m, nil
}

func (m model) selectKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.state = stateMenu
		m.steps = nil
	case "tab", "f":
		if m.selected.needsField {
			m.field = (m.field + 1) % len(session.Fields)
			if m.selected.needsStep {
				return m, m.loadSteps()
			}
		}
	case "up", "k":
		if m.stepCursor > 0 {
			m.stepCursor--
		}
	case "down", "j":
		if m.stepCursor < len(m.steps)-1 {
			m.stepCursor++
		}
	case "enter":
		if m.selected.needsStep && len(m.steps) == 0 {
			return m, nil
		}
		m.state = stateRunning
		return m, m.run()
	}
	return m, nil
}

func (m model) loadSteps() tea.Cmd {
	a, f := m.actions, m.fieldName()
	return func() tea.Msg {
		steps, err := a.Steps(f)
		return stepsMsg{steps, err}
	}
}

// run captures the selection and performs the action off the UI loop.
func (m model) run() tea.Cmd {
	a, act, f := m.actions, m.selected, m.fieldName()
	step := 0
	if act.needsStep {
		step = m.steps[m.stepCursor]
	}
	return func() tea.Msg {
		one := func(out string, err error) tea.Msg {
			if err != nil {
				return doneMsg{err: err}
			}
			return doneMsg{lines: []string{out}}
		}
		report := func(r *session.Report, err error) tea.Msg {
			if err != nil {
				return doneMsg{err: err}
			}
			lines := append([]string{}, r.Artifacts...)
			for _, s := range r.Skipped {
				lines = append(lines, "skipped "+s)
			}
			return doneMsg{lines: lines}
		}

		switch act.id {
		case "heatmap":
			return one(a.Heatmap(step, f))
		case "surface":
			return one(a.Surface(step, f))
		case "vector":
			return one(a.VectorField(step))
		case "profile":
			return one(a.Profile(step))
		case "energy":
			return one(a.Energy())
		case "final":
			return one(a.Final())
		case "animate":
			res, err := a.Animate(f)
			if err != nil {
				return doneMsg{err: err}
			}
			return doneMsg{lines: []string{fmt.Sprintf("%s (%d frames)", res.Output, res.Frames)}}
		case "compare":
			return report(a.Compare(f, nil))
		case "grouped":
			return report(a.GroupedSurface(f, nil))
		case "all":
			return report(a.RunAll())
		}
		return doneMsg{err: fmt.Errorf("unknown action %s", act.id)}
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateSelect:
		return m.viewSelect()
	case stateRunning:
		return "\n      " + yellow.Render("rendering "+m.selected.id+" ...") + "\n"
	case stateResult:
		return m.viewResult()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("f l o w v i z") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, a := range menuActions {
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", a.id)) + dim.Render(a.desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", a.id)) + dimmer.Render(a.desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter run   q quit") + "\n")
	return b.String()
}

func (m model) viewSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected.id) + "  " + dim.Render(m.selected.desc) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	if m.selected.needsField {
		b.WriteString("      field  " + white.Render(m.fieldName()) + "\n\n")
	}
	if m.selected.needsStep {
		switch {
		case m.err != nil:
			b.WriteString("      " + red.Render(m.err.Error()) + "\n")
		case len(m.steps) == 0:
			b.WriteString("      " + dim.Render("no snapshots for "+m.fieldName()) + "\n")
		}
		lo, hi := window(m.stepCursor, len(m.steps), max(3, m.height-12))
		for i := lo; i < hi; i++ {
			label := fmt.Sprintf("step %d", m.steps[i])
			if i == m.stepCursor {
				b.WriteString("      " + cyan.Render("▸ ") + white.Render(label) + "\n")
			} else {
				b.WriteString("        " + dim.Render(label) + "\n")
			}
		}
	}

	b.WriteString("\n")
	help := "      enter run   esc back"
	if m.selected.needsField {
		help += "   tab field"
	}
	b.WriteString(dim.Render(help) + "\n")
	return b.String()
}

func (m model) viewResult() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString("      " + red.Render("✗ "+m.err.Error()) + "\n")
	} else {
		for _, l := range m.lines {
			mark := green.Render("✓ ")
			if strings.HasPrefix(l, "skipped ") {
				mark = yellow.Render("- ")
			}
			b.WriteString("      " + mark + l + "\n")
		}
	}
	b.WriteString("\n" + dim.Render("      any key back   q quit") + "\n")
	return b.String()
}

// window returns the visible slice [lo, hi) of n rows around cursor.
func window(cursor, n, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	lo := max(0, cursor-size/2)
	hi := lo + size
	if hi > n {
		hi = n
		lo = n - size
	}
	return lo, hi
}

// Run opens the menu until the user quits.
func Run(a Actions) error {
	_, err := tea.NewProgram(New(a), tea.WithAltScreen()).Run()
	return err
}
