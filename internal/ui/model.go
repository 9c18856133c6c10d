// Package ui implements the interactive user browser.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rail44/roster/internal/greet"
	"github.com/rail44/roster/internal/user"
)

// RefreshFunc returns the current users. It must not fail; nil means the
// fetch failed and was already logged.
type RefreshFunc func(ctx context.Context) []*user.User

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// Browser is the Bubble Tea model listing users
type Browser struct {
	ctx     context.Context
	table   table.Model
	users   []*user.User
	refresh RefreshFunc
	greeter greet.Greeter

	loading bool
	status  string
	isError bool
	lastLog string
	width   int
	height  int
}

// NewBrowser creates a browser. refresh is called on start and on "r".
func NewBrowser(ctx context.Context, refresh RefreshFunc, greeter greet.Greeter) *Browser {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return &Browser{
		ctx:     ctx,
		table:   t,
		refresh: refresh,
		greeter: greeter,
	}
}

func columns(width int) []table.Column {
	rest := width - 8 - 6
	if rest < 30 {
		rest = 30
	}
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: rest / 2},
		{Title: "Email", Width: rest - rest/2},
	}
}

// Message types
type usersMsg struct{ users []*user.User }

type greetingMsg struct {
	text string
	err  error
}

type logMsg struct {
	Line  string
	Level slog.Level
}

// Init starts the first fetch
func (m *Browser) Init() tea.Cmd {
	m.loading = true
	return m.fetch()
}

func (m *Browser) fetch() tea.Cmd {
	return func() tea.Msg {
		return usersMsg{users: m.refresh(m.ctx)}
	}
}

func (m *Browser) greetSelected() tea.Cmd {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.users) {
		return nil
	}
	u := m.users[i]
	return func() tea.Msg {
		s, err := m.greeter.Greet(m.ctx, u)
		return greetingMsg{text: s, err: err}
	}
}

// Update handles messages and updates the model
func (m *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.setStatus("Refreshing...", false)
			return m, m.fetch()
		case "enter":
			m.setStatus("Greeting...", false)
			return m, m.greetSelected()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		if h := msg.Height - 8; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case usersMsg:
		m.loading = false
		if msg.users == nil {
			m.setStatus("Fetch failed", true)
			return m, nil
		}
		m.setUsers(msg.users)
		m.setStatus(fmt.Sprintf("%d users", len(msg.users)), false)
		return m, nil

	case greetingMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		} else {
			m.setStatus(msg.text, false)
		}
		return m, nil

	case logMsg:
		m.lastLog = msg.Line
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Browser) setStatus(s string, isError bool) {
	m.status = s
	m.isError = isError
}

func (m *Browser) setUsers(users []*user.User) {
	m.users = users
	rows := make([]table.Row, len(users))
	for i, u := range users {
		rows[i] = table.Row{u.ID.String(), u.Name, u.Email}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// Users returns the users currently listed
func (m *Browser) Users() []*user.User {
	return m.users
}

// Status returns the status bar text
func (m *Browser) Status() string {
	return m.status
}

// View renders the UI
func (m *Browser) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("roster"))
	s.WriteString("\n")

	if m.loading && len(m.users) == 0 {
		s.WriteString("Loading users...\n")
	} else {
		s.WriteString(m.table.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.isError {
		s.WriteString(errorStyle.Render(m.status))
	} else {
		s.WriteString(statusStyle.Render(m.status))
	}
	s.WriteString("\n")
	if m.lastLog != "" {
		s.WriteString(statusStyle.Render(m.lastLog))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("enter: greet • r: refresh • q: quit"))
	return s.String()
}
