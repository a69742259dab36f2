// Package tui is the terminal client of the connaissance-client API.
//
// The application has two screens. The list loads every record and lets the
// user search, delete, or open one; the form edits a new or existing record.
// A successful save returns to the list and reloads it.
//
// Models are single-threaded and only touched from the bubbletea event loop.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenList screen = iota
	screenForm
)

// Model is the root bubbletea model.
type Model struct {
	env    env
	screen screen
	list   listModel
	form   formModel
}

func New(ctx context.Context, api API) Model {
	return Model{
		env:    env{ctx: ctx, api: api},
		screen: screenList,
		list:   newList(),
	}
}

// Run starts the application in the alternate screen and blocks until it exits.
func Run(ctx context.Context, api API) error {
	_, err := tea.NewProgram(New(ctx, api), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadClients(m.env), m.list.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenList {
			if msg.String() == "q" && !m.list.capturesKeys() {
				return m, tea.Quit
			}
			m.list, cmd = m.list.handleKey(msg, m.env)
			return m, cmd
		}
		m.form, cmd = m.form.handleKey(msg, m.env)
		return m, cmd

	case openFormMsg:
		m.form = newForm(msg.client)
		m.screen = screenForm
		cmd = m.form.focusCmd()
		return m, cmd

	case closeFormMsg:
		m.screen = screenList
		if msg.saved {
			m.list, cmd = m.list.reload(m.env)
			return m, cmd
		}
		return m, nil

	case clientsLoadedMsg, clientDeletedMsg, spinner.TickMsg:
		m.list, cmd = m.list.update(msg, m.env)
		return m, cmd

	case clientSavedMsg:
		m.form, cmd = m.form.update(msg, m.env)
		return m, cmd
	}

	if m.screen == screenForm {
		m.form, cmd = m.form.update(msg, m.env)
	} else {
		m.list, cmd = m.list.update(msg, m.env)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.screen == screenForm {
		return m.form.view()
	}
	return m.list.view()
}
