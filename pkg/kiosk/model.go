// Package kiosk is a terminal front end for a café session, for the in-store
// screen.
package kiosk

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cafe-site/pkg/models"
	"cafe-site/pkg/session"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d4a373"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#8b4513")).Padding(0, 1)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d4a373"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#d4a373")).Padding(1, 2)
)

// Model is the bubbletea model of the kiosk
type Model struct {
	sess   *session.Session
	view   session.View
	keys   KeyMap
	cursor int
	status string
}

// New creates a kiosk model driving sess
func New(sess *session.Session) Model {
	return Model{
		sess: sess,
		view: sess.View(),
		keys: DefaultKeyMap(),
	}
}

// SessionView returns the last session view the model rendered
func (m Model) SessionView() session.View {
	return m.view
}

// Cursor returns the highlighted gallery entry
func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(keyMsg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.view.Gallery.Open {
		return m.updateLightbox(keyMsg), nil
	}
	return m.updateBrowsing(keyMsg), nil
}

func (m Model) updateLightbox(msg tea.KeyMsg) Model {
	var domKey string
	switch {
	case key.Matches(msg, m.keys.Previous):
		domKey = "ArrowLeft"
	case key.Matches(msg, m.keys.Next):
		domKey = "ArrowRight"
	case key.Matches(msg, m.keys.Close):
		domKey = "Escape"
	default:
		return m
	}

	m.view, _ = m.sess.Key(domKey)
	m.cursor = m.view.Gallery.Index
	return m
}

func (m Model) updateBrowsing(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.NextCategory):
		return m.apply(session.Command{Kind: session.SelectCategory, Category: m.shiftCategory(1)})
	case key.Matches(msg, m.keys.PrevCategory):
		return m.apply(session.Command{Kind: session.SelectCategory, Category: m.shiftCategory(-1)})
	case key.Matches(msg, m.keys.More):
		return m.apply(session.Command{Kind: session.Expand})
	case key.Matches(msg, m.keys.Less):
		return m.apply(session.Command{Kind: session.Collapse})
	case key.Matches(msg, m.keys.Toggle):
		return m.apply(session.Command{Kind: session.ToggleMenu})
	case key.Matches(msg, m.keys.News):
		return m.apply(session.Command{Kind: session.ToggleNews})
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Gallery.Entries)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Open):
		return m.apply(session.Command{Kind: session.OpenEntry, Index: m.cursor})
	}
	return m
}

func (m Model) apply(cmd session.Command) Model {
	view, err := m.sess.Apply(cmd)
	m.view = view
	m.status = ""
	if err != nil {
		m.status = err.Error()
	}
	return m
}

// categoryCycle is "all" followed by the site categories
func (m Model) categoryCycle() []string {
	names := []string{models.AllCategories}
	for _, c := range m.view.Categories {
		names = append(names, c.Name)
	}
	return names
}

func (m Model) shiftCategory(delta int) string {
	names := m.categoryCycle()
	current := 0
	for i, name := range names {
		if name == m.view.ActiveCategory {
			current = i
			break
		}
	}
	return names[(current+delta+len(names))%len(names)]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Menu"))
	b.WriteString("\n")
	var tabs []string
	labels := map[string]string{models.AllCategories: "All"}
	for _, c := range m.view.Categories {
		labels[c.Name] = c.Label
	}
	for _, name := range m.categoryCycle() {
		if name == m.view.ActiveCategory {
			tabs = append(tabs, activeStyle.Render(labels[name]))
		} else {
			tabs = append(tabs, inactiveStyle.Render(labels[name]))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	for _, item := range m.view.Menu.VisibleItems {
		fmt.Fprintf(&b, "  %-28s %s\n", item.Name, dimStyle.Render(item.Price))
	}
	if m.view.Menu.ControlVisible {
		fmt.Fprintf(&b, "\n  [%s] %s\n", m.view.MenuControlLabel, m.view.MenuCountLabel)
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Gallery"))
	b.WriteString("\n")
	for i, entry := range m.view.Gallery.Entries {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, entry.Title, dimStyle.Render(string(entry.Kind)))
	}

	if m.view.Gallery.Open && m.view.Gallery.Entry != nil {
		entry := m.view.Gallery.Entry
		box := fmt.Sprintf("%s\n%s\n\n%s",
			titleStyle.Render(entry.Title),
			entry.Description,
			dimStyle.Render(fmt.Sprintf("%d / %d", entry.Index+1, len(m.view.Gallery.Entries))))
		b.WriteString("\n")
		b.WriteString(modalStyle.Render(box))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("News"))
	b.WriteString("\n")
	for _, card := range m.view.News.Visible {
		fmt.Fprintf(&b, "  %s %s\n", card.Title, dimStyle.Render(card.Date))
	}
	if m.view.News.ControlVisible {
		fmt.Fprintf(&b, "  [%s]\n", m.view.News.ControlLabel)
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) helpLine() string {
	bindings := m.keys.browsing()
	if m.view.Gallery.Open {
		bindings = m.keys.lightbox()
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " • ")
}

// Run starts the kiosk on the terminal
func Run(sess *session.Session) error {
	_, err := tea.NewProgram(New(sess), tea.WithAltScreen()).Run()
	return err
}
