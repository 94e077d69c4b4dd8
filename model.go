package main

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"qmechsim/qsystem"
	"qmechsim/tensor"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusRegister focus = iota
	focusMenu
	focusInputState
)

// keyMap holds the register-panel bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Gate     key.Binding
	Menu     key.Binding
	SetState key.Binding
	Grow     key.Binding
	Shrink   key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "qubit up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "qubit down")),
		Gate:     key.NewBinding(key.WithKeys("h", "x", "y", "z", "i"), key.WithHelp("h/x/y/z/i", "apply gate")),
		Menu:     key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "menu")),
		SetState: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "set initial state")),
		Grow:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "qubits")),
		Shrink:   key.NewBinding(key.WithKeys("-")),
		Reset:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^R", "reset")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Gate, k.Menu, k.SetState, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Gate},
		{k.Menu, k.SetState},
		{k.Grow, k.Reset},
		{k.Help, k.Quit},
	}
}

// Model represents the TUI application state.
type Model struct {
	sys     *qsystem.System // the register being explored
	cfg     Config          // what ctrl+r rebuilds from
	history History
	diag    *diagRing
	logger  *zap.Logger

	cursorQubit int
	width       int
	height      int
	focus       focus
	statusMsg   string // transient status message
	statusErr   bool

	// Menu state
	menuCat  int
	menuItem int

	stateInput textinput.Model
	keys       keyMap
	help       help.Model
}

func initialModel(cfg Config) (Model, error) {
	ring := newDiagRing(diagLines)
	logger := newDiagLogger(ring)

	sys, err := cfg.NewSystem(logger)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Prompt = "ψ = "
	ti.Placeholder = "+   or   1/sqrt2, i/sqrt2"
	ti.CharLimit = 64

	return Model{
		sys:        sys,
		cfg:        cfg,
		diag:       ring,
		logger:     logger,
		focus:      focusRegister,
		stateInput: ti,
		keys:       newKeyMap(),
		help:       help.New(),
	}, nil
}

func (m *Model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.statusMsg = err.Error()
	m.statusErr = true
}

// applyGate applies g to the qubit under the cursor.
func (m *Model) applyGate(g qsystem.Gate) {
	if err := m.sys.Apply(g, m.cursorQubit); err != nil {
		m.setError(err)
		return
	}
	m.history.AddGate(g.Name, m.cursorQubit)
	m.setStatus("Applied %s to q[%d]", g.Name, m.cursorQubit)
}

// setInitialState overwrites the cursor qubit's slot. The joint state is
// recomposed, so earlier gates are discarded.
func (m *Model) setInitialState(v tensor.Vector, label string) {
	if err := m.sys.SetQubitInitialState(v, m.cursorQubit); err != nil {
		m.setError(err)
		return
	}
	m.history.AddInit(label, m.cursorQubit)
	if norm := v.Norm(); math.Abs(norm-1) > 1e-9 {
		m.setStatus("q[%d] ← %s  (warning: |ψ| = %.4f, not normalised)", m.cursorQubit, label, norm)
		return
	}
	m.setStatus("q[%d] ← %s, joint state recomposed", m.cursorQubit, label)
}

// resize rebuilds the register with n qubits, keeping the initial slots of
// the qubits that survive. Gates applied so far are lost.
func (m *Model) resize(n int) {
	if n < 1 || n > maxQubits {
		m.setStatus("Register size must stay within 1..%d qubits", maxQubits)
		return
	}
	cfg := m.cfg
	cfg.Qubits = n
	cfg.InitialStates = nil

	sys, err := cfg.NewSystem(m.logger)
	if err != nil {
		m.setError(err)
		return
	}
	slots := sys.InitialStates()
	copy(slots, m.sys.InitialStates())
	if err := sys.SetAllInitialStates(slots); err != nil {
		m.setError(err)
		return
	}

	m.sys = sys
	m.cursorQubit = min(m.cursorQubit, n-1)
	m.history.AddResize(n)
	m.setStatus("Register rebuilt with %d qubits", n)
}

// reset rebuilds the register from the startup configuration.
func (m *Model) reset() {
	sys, err := m.cfg.NewSystem(m.logger)
	if err != nil {
		m.setError(err)
		return
	}
	m.sys = sys
	m.cursorQubit = min(m.cursorQubit, sys.NumQubits()-1)
	m.history.AddReset()
	m.setStatus("Register reset")
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 4

	case tea.KeyMsg:
		k := msg.String()
		m.statusMsg = ""
		m.statusErr = false

		if k == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusRegister:
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Up):
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case key.Matches(msg, m.keys.Down):
				if m.cursorQubit < m.sys.NumQubits()-1 {
					m.cursorQubit++
				}
			case key.Matches(msg, m.keys.Gate):
				if g, ok := qsystem.GateByName(k); ok {
					m.applyGate(g)
				}
			case key.Matches(msg, m.keys.Menu):
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case key.Matches(msg, m.keys.SetState):
				cmds = append(cmds, m.openStateInput())
			case key.Matches(msg, m.keys.Grow):
				m.resize(m.sys.NumQubits() + 1)
			case key.Matches(msg, m.keys.Shrink):
				m.resize(m.sys.NumQubits() - 1)
			case key.Matches(msg, m.keys.Reset):
				m.reset()
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
			}

		case focusMenu:
			switch k {
			case "esc":
				m.focus = focusRegister
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				cat := gateMenu[m.menuCat]
				if m.menuItem < len(cat.items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				m.focus = focusRegister
				switch item.kind {
				case itemGate:
					m.applyGate(item.gate)
				case itemKet:
					m.setInitialState(item.ket.Vector, item.ket.Label)
				case itemCustomKet:
					cmds = append(cmds, m.openStateInput())
				}
			}

		case focusInputState:
			switch k {
			case "esc":
				m.closeStateInput()
			case "enter":
				input := m.stateInput.Value()
				v, err := parseKetInput(input)
				if err != nil {
					m.setError(err)
					break
				}
				m.closeStateInput()
				m.setInitialState(v, formatKet(v))
			default:
				var cmd tea.Cmd
				m.stateInput, cmd = m.stateInput.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) openStateInput() tea.Cmd {
	m.focus = focusInputState
	m.stateInput.SetValue("")
	return m.stateInput.Focus()
}

func (m *Model) closeStateInput() {
	m.stateInput.Blur()
	m.stateInput.SetValue("")
	m.focus = focusRegister
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	leftWidth := max(m.width/2-4, 30)
	rightWidth := max(m.width-leftWidth-8, 30)
	controlsHeight := 3
	if m.help.ShowAll {
		controlsHeight = 6
	}
	bodyHeight := max(m.height-controlsHeight-4, 12)
	registerHeight := min(m.sys.NumQubits()+8, bodyHeight*2/3)
	stateHeight := bodyHeight * 2 / 3

	registerPanel := m.renderRegisterPanel(leftWidth, registerHeight)
	historyPanel := m.renderHistoryPanel(leftWidth, max(bodyHeight-registerHeight-2, 3))
	statePanel := m.renderStatePanel(rightWidth, stateHeight)
	diagPanel := m.renderDiagPanel(rightWidth, max(bodyHeight-stateHeight-2, 3))
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight)

	left := lipgloss.JoinVertical(lipgloss.Left, registerPanel, historyPanel)
	right := lipgloss.JoinVertical(lipgloss.Left, statePanel, diagPanel)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	// Render menu overlay when in menu mode
	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}

	// Render initial-state input overlay
	if m.focus == focusInputState {
		frame = overlayAt(frame, m.renderStateInput(), 2, 2)
	}

	return frame
}
