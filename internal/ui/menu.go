package ui

import (
	"fmt"
	"strconv"
	"strings"

	"panelkeeper/internal/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	brandPrimary = lipgloss.Color("#7C3AED")
	brandError   = lipgloss.Color("#EF4444")
	textMuted    = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(brandError).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(textMuted)
)

// Action is what the operator picked from the menu.
type Action int

const (
	ActionNone Action = iota
	ActionInstallAll
	ActionInstallPanel
	ActionInstallDaemon
	ActionInstallAddon
	ActionRemove
	ActionStatus
	ActionLogs
	ActionQuit
)

// Selection is the outcome of a menu session. The menu only collects
// intent and settings; the caller performs the actual work so that
// install output goes to the normal log stream, not a TUI frame.
type Selection struct {
	Action    Action
	Component string
	Config    *models.InstallConfig
}

type phase int

const (
	phaseMenu phase = iota
	phaseForm
	phasePick
	phaseConfirm
	phaseDone
)

type menuItem struct {
	label  string
	action Action
}

// Menu is the interactive entry point model.
type Menu struct {
	phase  phase
	items  []menuItem
	cursor int

	// phaseForm: admin account + port inputs
	inputs     []textinput.Model
	focusIndex int
	formErr    string

	// phasePick: choosing an addon or a component to remove
	pickTitle   string
	pickOptions []string
	pickCursor  int
	pickAction  Action

	// phaseConfirm: destructive confirmation before remove
	confirmYes bool

	// components and addons shown in pick lists
	componentNames []string
	addonNames     []string

	selection Selection
}

const (
	inputPort = iota
	inputEmail
	inputUsername
	inputPassword
)

// NewMenu builds the menu over the given installable component and
// addon names.
func NewMenu(componentNames, addonNames []string) *Menu {
	m := &Menu{
		items: []menuItem{
			{"Install everything (panel + daemon)", ActionInstallAll},
			{"Install panel only", ActionInstallPanel},
			{"Install daemon only", ActionInstallDaemon},
			{"Install an addon", ActionInstallAddon},
			{"Remove a component", ActionRemove},
			{"Show status", ActionStatus},
			{"View logs", ActionLogs},
			{"Quit", ActionQuit},
		},
		componentNames: componentNames,
		addonNames:     addonNames,
	}

	m.inputs = make([]textinput.Model, 4)
	for i := range m.inputs {
		m.inputs[i] = textinput.New()
		m.inputs[i].CharLimit = 64
	}
	m.inputs[inputPort].Placeholder = "3000"
	m.inputs[inputPort].Prompt = "Panel port     > "
	m.inputs[inputEmail].Placeholder = "admin@example.com"
	m.inputs[inputEmail].Prompt = "Admin email    > "
	m.inputs[inputUsername].Placeholder = models.DefaultAdminUsername
	m.inputs[inputUsername].Prompt = "Admin username > "
	m.inputs[inputPassword].Prompt = "Admin password > "
	m.inputs[inputPassword].EchoMode = textinput.EchoPassword
	m.inputs[inputPassword].EchoCharacter = '*'
	m.inputs[0].Focus()
	return m
}

// Selection returns what the operator chose once the program has quit.
func (m *Menu) Selection() Selection {
	return m.selection
}

func (m *Menu) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	if key.String() == "ctrl+c" {
		m.selection = Selection{Action: ActionQuit}
		m.phase = phaseDone
		return m, tea.Quit
	}

	switch m.phase {
	case phaseMenu:
		return m.updateMenu(key)
	case phaseForm:
		return m.updateForm(key)
	case phasePick:
		return m.updatePick(key)
	case phaseConfirm:
		return m.updateConfirm(key)
	}
	return m, nil
}

func (m *Menu) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "esc":
		m.selection = Selection{Action: ActionQuit}
		m.phase = phaseDone
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.enterItem(m.items[m.cursor].action)
	}
	return m, nil
}

func (m *Menu) enterItem(action Action) (tea.Model, tea.Cmd) {
	switch action {
	case ActionInstallAll, ActionInstallPanel:
		m.selection = Selection{Action: action, Config: &models.InstallConfig{}}
		m.phase = phaseForm
		m.formErr = ""
		return m, nil
	case ActionInstallDaemon, ActionStatus, ActionLogs:
		m.selection = Selection{Action: action}
		m.phase = phaseDone
		return m, tea.Quit
	case ActionInstallAddon:
		if len(m.addonNames) == 0 {
			m.formErr = "No addons in the catalogue"
			return m, nil
		}
		m.phase = phasePick
		m.pickTitle = "Which addon?"
		m.pickOptions = m.addonNames
		m.pickCursor = 0
		m.pickAction = action
		return m, nil
	case ActionRemove:
		m.phase = phasePick
		m.pickTitle = "Remove which component?"
		m.pickOptions = m.componentNames
		m.pickCursor = 0
		m.pickAction = action
		return m, nil
	case ActionQuit:
		m.selection = Selection{Action: ActionQuit}
		m.phase = phaseDone
		return m, tea.Quit
	}
	return m, nil
}

func (m *Menu) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.phase = phaseMenu
		m.formErr = ""
		return m, nil
	case "tab", "down":
		return m.focusInput(m.focusIndex + 1)
	case "shift+tab", "up":
		return m.focusInput(m.focusIndex - 1)
	case "enter":
		if m.focusIndex < len(m.inputs)-1 {
			return m.focusInput(m.focusIndex + 1)
		}
		return m.submitForm()
	}
	return m.updateInputs(key)
}

func (m *Menu) focusInput(index int) (tea.Model, tea.Cmd) {
	if index < 0 {
		index = len(m.inputs) - 1
	}
	if index >= len(m.inputs) {
		index = 0
	}
	m.inputs[m.focusIndex].Blur()
	m.focusIndex = index
	return m, m.inputs[m.focusIndex].Focus()
}

func (m *Menu) submitForm() (tea.Model, tea.Cmd) {
	port := 3000
	if raw := strings.TrimSpace(m.inputs[inputPort].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			m.formErr = fmt.Sprintf("Port %q is not a number", raw)
			return m, nil
		}
		port = parsed
	}
	username := strings.TrimSpace(m.inputs[inputUsername].Value())
	if username == "" {
		username = models.DefaultAdminUsername
	}

	cfg := m.selection.Config
	cfg.Port = port
	cfg.AdminEmail = strings.TrimSpace(m.inputs[inputEmail].Value())
	cfg.AdminUsername = username
	cfg.AdminPassword = m.inputs[inputPassword].Value()
	if m.selection.Action == ActionInstallAll {
		cfg.Component = "all"
		cfg.Addons = m.addonNames
	} else {
		cfg.Component = "panel"
	}

	substituted, err := cfg.Validate()
	if err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	if substituted {
		m.formErr = ""
	}
	m.phase = phaseDone
	return m, tea.Quit
}

func (m *Menu) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.phase != phaseForm {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Menu) updatePick(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.phase = phaseMenu
		return m, nil
	case "up", "k":
		if m.pickCursor > 0 {
			m.pickCursor--
		}
	case "down", "j":
		if m.pickCursor < len(m.pickOptions)-1 {
			m.pickCursor++
		}
	case "enter", " ":
		picked := m.pickOptions[m.pickCursor]
		if m.pickAction == ActionRemove {
			m.selection = Selection{Action: ActionRemove, Component: picked}
			m.phase = phaseConfirm
			m.confirmYes = false
			return m, nil
		}
		m.selection = Selection{
			Action:    ActionInstallAddon,
			Component: picked,
			Config:    &models.InstallConfig{Component: picked},
		}
		m.phase = phaseDone
		return m, tea.Quit
	}
	return m, nil
}

func (m *Menu) updateConfirm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "n", "N":
		m.selection = Selection{}
		m.phase = phaseMenu
		return m, nil
	case "left", "right", "tab", "h", "l":
		m.confirmYes = !m.confirmYes
		return m, nil
	case "y", "Y":
		m.phase = phaseDone
		return m, tea.Quit
	case "enter":
		if !m.confirmYes {
			m.selection = Selection{}
			m.phase = phaseMenu
			return m, nil
		}
		m.phase = phaseDone
		return m, tea.Quit
	}
	return m, nil
}

func (m *Menu) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("panelkeeper") + "\n")

	switch m.phase {
	case phaseMenu:
		for i, item := range m.items {
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("  > "+item.label) + "\n")
			} else {
				b.WriteString(unselectedStyle.Render("    "+item.label) + "\n")
			}
		}
		if m.formErr != "" {
			b.WriteString("\n" + errorStyle.Render(m.formErr) + "\n")
		}
		b.WriteString("\n" + dimStyle.Render("up/down to move, enter to select, q to quit") + "\n")

	case phaseForm:
		b.WriteString("Admin account for the new panel\n\n")
		for i := range m.inputs {
			b.WriteString(m.inputs[i].View() + "\n")
		}
		if m.formErr != "" {
			b.WriteString("\n" + errorStyle.Render(m.formErr) + "\n")
		}
		b.WriteString("\n" + dimStyle.Render("tab to move, enter on the last field to start, esc to go back") + "\n")

	case phasePick:
		b.WriteString(m.pickTitle + "\n\n")
		for i, option := range m.pickOptions {
			if i == m.pickCursor {
				b.WriteString(selectedStyle.Render("  > "+option) + "\n")
			} else {
				b.WriteString(unselectedStyle.Render("    "+option) + "\n")
			}
		}
		b.WriteString("\n" + dimStyle.Render("enter to select, esc to go back") + "\n")

	case phaseConfirm:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Delete %s and all of its data?", m.selection.Component)) + "\n\n")
		yes, no := "  yes  ", "  no  "
		if m.confirmYes {
			b.WriteString(selectedStyle.Render("["+yes+"]") + unselectedStyle.Render(" "+no+" "))
		} else {
			b.WriteString(unselectedStyle.Render(" "+yes+" ") + selectedStyle.Render("["+no+"]"))
		}
		b.WriteString("\n\n" + dimStyle.Render("y to confirm, n or esc to go back") + "\n")

	case phaseDone:
		b.WriteString(dimStyle.Render("...") + "\n")
	}

	return b.String()
}
