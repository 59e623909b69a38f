package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/phonebook/pkg/directory"
)

// Browser is the read-only view of the phone book the TUI needs.
// *directory.Store implements it.
type Browser interface {
	List() ([]directory.Entry, error)
	Search(term string) ([]directory.Entry, error)
	Match(pattern string) ([]directory.Entry, error)
}

var _ Browser = (*directory.Store)(nil)

// globChars switch the filter from substring search to glob matching.
const globChars = "*?["

// model represents the state of the browser.
type model struct {
	dir    Browser
	source string // data file shown in the header

	table  table.Model
	filter textinput.Model

	status    string
	statusErr bool

	// copyText writes to the system clipboard; replaced in tests
	copyText func(string) error

	width  int
	height int
}

func newModel(dir Browser, source string) *model {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter by ID, name or phone (glob with * ? [])"
	filter.CharLimit = 100

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "National ID", Width: 16},
			{Title: "Name", Width: 30},
			{Title: "Phone Number", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	m := &model{
		dir:      dir,
		source:   source,
		table:    t,
		filter:   filter,
		copyText: clipboard.WriteAll,
	}
	m.refresh()
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		if m.filter.Focused() {
			return m.handleFilterKey(msg)
		}
		return m.handleTableKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// header, filter box (3), status, tips and table header (2)
	m.table.SetHeight(max(msg.Height-8, 3))
	return m, nil
}

func (m *model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.filter.SetValue("")
		m.leaveFilter()
		m.refresh()
		return m, nil
	case "enter":
		m.leaveFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.table.Blur()
		return m, m.filter.Focus()
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.refresh()
		}
		return m, nil
	case "y":
		m.copySelected()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) leaveFilter() {
	m.filter.Blur()
	m.table.Focus()
}

// refresh reloads the table rows for the current filter.
func (m *model) refresh() {
	query := m.filter.Value()

	var (
		entries []directory.Entry
		err     error
	)
	switch {
	case query == "":
		entries, err = m.dir.List()
	case strings.ContainsAny(query, globChars):
		entries, err = m.dir.Match(query)
	default:
		entries, err = m.dir.Search(query)
	}

	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{e.NationalID, e.Name, e.PhoneNumber})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)

	m.statusErr = false
	switch {
	case errors.Is(err, directory.ErrEmpty):
		m.status = "Phone book is empty!"
	case errors.Is(err, directory.ErrNoMatches):
		m.status = "No matching entries found."
	case err != nil:
		m.status = err.Error()
		m.statusErr = true
	case query == "":
		m.status = fmt.Sprintf("%d entries", len(entries))
	default:
		m.status = fmt.Sprintf("Matching Entries (%d)", len(entries))
	}
}

func (m *model) copySelected() {
	row := m.table.SelectedRow()
	if row == nil {
		m.status = "No entry selected."
		m.statusErr = true
		return
	}

	phone := row[2]
	if err := m.copyText(phone); err != nil {
		m.status = fmt.Sprintf("Failed to copy phone number: %v", err)
		m.statusErr = true
		return
	}
	m.status = fmt.Sprintf("Copied %s to clipboard", phone)
	m.statusErr = false
}

// View renders the browser.
func (m *model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Phone Book  " + m.source))
	b.WriteString("\n")
	b.WriteString(filterBoxStyle.Render(m.filter.View()))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.filter.Focused() {
		b.WriteString(tipsStyle.Render("  enter: keep filter • esc: clear filter • ctrl+c: quit"))
	} else {
		b.WriteString(tipsStyle.Render("  ↑/↓: move • /: filter • y: copy phone number • esc: clear filter • q: quit"))
	}
	return b.String()
}
