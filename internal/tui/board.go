// Package tui implements the interactive board: the ready set in
// selection order, with lifecycle transitions bound to keys.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/forage/internal/core/item"
	"github.com/colonyops/forage/internal/core/schedule"
	"github.com/colonyops/forage/internal/core/styles"
	"github.com/colonyops/forage/internal/forage"
)

// keyMap defines the board keybindings.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Start   key.Binding
	Done    key.Binding
	Block   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Start:   key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "start")),
		Done:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "done")),
		Block:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "block")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Start, k.Done, k.Block, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// loadedMsg carries a fresh scheduling run into the model.
type loadedMsg struct {
	result schedule.Result
	ready  []item.Item
}

// errMsg carries a failed load or transition.
type errMsg struct{ err error }

// Board is the bubbletea model for the interactive ready-set view.
type Board struct {
	ctx context.Context
	app *forage.App

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	result  schedule.Result
	ready   []item.Item
	cursor  int
	width   int
	height  int
	loading bool
	err     error
}

// NewBoard creates the board model. The context bounds every store
// operation the board triggers.
func NewBoard(ctx context.Context, app *forage.App) *Board {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Board{
		ctx:     ctx,
		app:     app,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		loading: true,
	}
}

// Init implements tea.Model.
func (m *Board) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

// load re-runs the scheduling pipeline off the event loop.
func (m *Board) load() tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		res, err := app.Next(ctx)
		if err != nil {
			return errMsg{err}
		}

		var ready []item.Item
		if res.Kind == schedule.KindSelected || res.Kind == schedule.KindEmpty {
			ready, err = app.ReadyItems(ctx)
			if err != nil {
				return errMsg{err}
			}
		}

		return loadedMsg{result: res, ready: ready}
	}
}

// transition applies a status change and reloads.
func (m *Board) transition(id string, to item.Status) tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		if err := app.SetStatus(ctx, id, to); err != nil {
			return errMsg{err}
		}
		return m.load()()
	}
}

// Update implements tea.Model.
func (m *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = nil
		m.result = msg.result
		m.ready = msg.ready
		if m.cursor >= len(m.ready) {
			m.cursor = max(len(m.ready)-1, 0)
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.ready)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())

	case key.Matches(msg, m.keys.Start):
		if it, ok := m.selected(); ok {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.transition(it.ID, item.StatusInProgress))
		}

	case key.Matches(msg, m.keys.Done):
		if it, ok := m.selected(); ok {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.transition(it.ID, item.StatusCompleted))
		}

	case key.Matches(msg, m.keys.Block):
		if it, ok := m.selected(); ok {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.transition(it.ID, item.StatusBlocked))
		}
	}

	return m, nil
}

func (m *Board) selected() (item.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.ready) {
		return item.Item{}, false
	}
	return m.ready[m.cursor], true
}

// View implements tea.Model.
func (m *Board) View() string {
	var b strings.Builder

	b.WriteString(styles.Title().Render("forage board"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " loading backlog\n")

	case m.err != nil:
		b.WriteString(styles.StatusStyle(item.StatusBlocked).Render("error") + " " + m.err.Error() + "\n")

	case m.result.Kind == schedule.KindHalt:
		b.WriteString(styles.StatusStyle(item.StatusBlocked).Render("HALT") + "\n")
		b.WriteString(m.result.Halt.Summary() + "\n")

	case m.result.Kind == schedule.KindInvalid:
		b.WriteString(styles.StatusStyle(item.StatusBlocked).Render("INVALID") + "\n")
		b.WriteString(m.result.Invalid.Summary() + "\n")

	case len(m.ready) == 0:
		b.WriteString(styles.Muted().Render("nothing ready, all caught up") + "\n")

	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Board) renderList() string {
	var b strings.Builder

	for i, it := range m.ready {
		icon := styles.StatusIcon(it.Status)
		if it.Override {
			icon = styles.IconOverride
		}

		line := fmt.Sprintf("%s %s %s",
			styles.StatusStyle(it.Status).Render(icon),
			it.ID,
			styles.PriorityStyle(it.EffectivePriority).Render(string(it.EffectivePriority)),
		)
		if it.Title != "" {
			line += " " + styles.Muted().Render(it.Title)
		}
		if i == 0 && m.result.Kind == schedule.KindSelected {
			line += " " + styles.Title().Render("← next ("+string(m.result.Reason)+")")
		}

		cursor := "  "
		if i == m.cursor {
			cursor = styles.Title().Render("> ")
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}

		b.WriteString(cursor + line + "\n")
	}

	return b.String()
}
