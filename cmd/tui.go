package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/suderio/farmstead/internal/catalog"
	"github.com/suderio/farmstead/internal/engine"
	"github.com/suderio/farmstead/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type (
	stateMsg    struct{ state engine.GameState }
	earnedMsg   struct{ earned engine.Earned }
	unlockedMsg struct{ achievements []catalog.Achievement }
	consoleMsg  struct {
		line string
		out  string
		err  error
	}
)

// programPresenter forwards session updates into the bubbletea event loop.
type programPresenter struct {
	p *tea.Program
}

func (pp programPresenter) Render(s engine.GameState) { pp.p.Send(stateMsg{s}) }
func (pp programPresenter) Earned(e engine.Earned)    { pp.p.Send(earnedMsg{e}) }
func (pp programPresenter) Unlocked(as []catalog.Achievement) {
	pp.p.Send(unlockedMsg{as})
}

const welcome = "Welcome to Farmstead!\nType help for commands, tab to complete, exit to save and quit."

type farmModel struct {
	app         *session.Session
	cat         *catalog.Catalog
	presenter   session.Presenter
	state       engine.GameState
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	showList    bool
}

func newFarmModel(app *session.Session) farmModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command (e.g., sell chicken)..."
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 60

	vp := viewport.New(0, 0)
	vp.SetContent(welcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false)
	sugList.SetShowHelp(false)

	return farmModel{
		app:         app,
		cat:         app.Catalog(),
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		historyIdx:  -1,
		logContent:  welcome,
	}
}

func (m *farmModel) Init() tea.Cmd {
	app, presenter := m.app, m.presenter
	return tea.Batch(textinput.Blink, func() tea.Msg {
		if presenter != nil {
			if err := app.SetPresenter(context.Background(), presenter); err != nil {
				return consoleMsg{err: err}
			}
			return nil
		}
		state, err := app.State(context.Background())
		if err != nil {
			return consoleMsg{err: err}
		}
		return stateMsg{state}
	})
}

// commands lists completions for the console.
func (m *farmModel) commands() []string {
	cmds := []string{"status", "help", "save", "redeem ", "name ", "exit", "quit"}
	for _, item := range m.cat.Shop {
		cmds = append(cmds, "sell "+string(item.Type), "buy "+string(item.Type))
	}
	for _, t := range m.cat.AutomationTypes() {
		cmds = append(cmds, "automate "+string(t))
	}
	return cmds
}

func (m *farmModel) updateSuggestions() {
	val := m.textInput.Value()
	var items []list.Item

	defer func() {
		m.suggestions.SetItems(items)
		m.showList = len(items) > 0
		if m.showList {
			h := len(items)
			if h > 7 {
				h = 7
			}
			m.suggestions.SetHeight(max(h, 4))
			m.suggestions.ResetSelected()
		}
	}()

	if val == "" {
		return
	}
	for _, c := range m.commands() {
		if strings.HasPrefix(c, strings.ToLower(val)) && len(val) < len(c) {
			items = append(items, suggestion(c))
		}
	}
}

func (m *farmModel) execute(line string) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		out, err := app.Execute(context.Background(), line)
		return consoleMsg{line: line, out: out, err: err}
	}
}

func (m *farmModel) appendLog(text string) {
	m.logContent += "\n" + text
	m.viewport.SetContent(m.logContent)
	m.viewport.GotoBottom()
}

func (m *farmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd   tea.Cmd
		vpCmd   tea.Cmd
		lsCmd   tea.Cmd
		execCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case stateMsg:
		m.state = msg.state

	case earnedMsg:
		if !msg.earned.Manual {
			m.appendLog(fmt.Sprintf("[auto] sold %s for %s coins", msg.earned.Type, session.FormatCoins(msg.earned.Amount)))
		}

	case unlockedMsg:
		for _, a := range msg.achievements {
			m.appendLog(unlockedStyle.Render(fmt.Sprintf("Achievement unlocked: %s (%s)", a.Name, a.Description)))
		}

	case consoleMsg:
		if msg.out != "" {
			m.appendLog(msg.out)
		}
		if msg.err != nil {
			m.appendLog(errorStyle.Render(fmt.Sprintf("Error: %v", msg.err)))
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.history) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.history[m.historyIdx])
				m.updateSuggestions()
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 && m.historyIdx != -1 {
				if m.historyIdx < len(m.history)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.history[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.updateSuggestions()
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i))
					m.textInput.SetCursor(len(string(i)))
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "exit" || val == "quit" {
				return m, tea.Quit
			}
			if val != "" {
				if len(m.history) == 0 || m.history[len(m.history)-1] != val {
					m.history = append(m.history, val)
				}
				m.historyIdx = -1
				m.textInput.SetValue("")
				m.updateSuggestions()
				m.appendLog("\n> " + val)
				execCmd = m.execute(val)
			}

		default:
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	m.layout()

	return m, tea.Batch(tiCmd, vpCmd, lsCmd, execCmd)
}

// layout gives the log whatever height the fixed panels leave.
func (m *farmModel) layout() {
	titleH := lipgloss.Height(renderTitle(m.state))
	stateH := lipgloss.Height(m.renderState())
	listH := 0
	if m.showList {
		listH = m.suggestions.Height() + 2
	}
	infoH := lipgloss.Height(infoStyle.Render("x"))

	m.viewport.Height = m.height - (titleH + stateH + 1 + listH + infoH + 6)
	if m.viewport.Height < 4 {
		m.viewport.Height = 4
	}
}

func (m *farmModel) renderState() string {
	return stateBoxStyle.Width(m.width - 4).Render(renderFarm(m.state, m.cat))
}

func (m *farmModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderTitle(m.state),
		m.renderState(),
		logBox,
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)
}

// RunTUI runs the full-screen game until the player quits.
func RunTUI(app *session.Session) error {
	m := newFarmModel(app)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	m.presenter = programPresenter{p: p}
	if _, err := p.Run(); err != nil {
		return err
	}
	return app.SetPresenter(context.Background(), nil)
}
