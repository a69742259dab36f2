package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
	"github.com/sqli-workshop/connaissance-client/internal/core/format"
)

// listModel is the record list screen.
type listModel struct {
	clients []*domain.Client
	cursor  int

	loading bool
	err     error
	notice  string

	search    textinput.Model
	searching bool

	// confirmID is the record waiting for a y/n delete confirmation.
	confirmID string

	spinner spinner.Model
}

func newList() listModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "nom, prénom ou ville"
	search.CharLimit = 50

	return listModel{
		loading: true,
		search:  search,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// visible returns the records matching the search query on nom, prenom or ville.
func (m listModel) visible() []*domain.Client {
	q := strings.ToLower(strings.TrimSpace(m.search.Value()))
	if q == "" {
		return m.clients
	}
	out := make([]*domain.Client, 0, len(m.clients))
	for _, c := range m.clients {
		if strings.Contains(strings.ToLower(c.Nom), q) ||
			strings.Contains(strings.ToLower(c.Prenom), q) ||
			strings.Contains(strings.ToLower(c.Ville), q) {
			out = append(out, c)
		}
	}
	return out
}

func (m listModel) selected() *domain.Client {
	v := m.visible()
	if m.cursor < 0 || m.cursor >= len(v) {
		return nil
	}
	return v[m.cursor]
}

func (m *listModel) clamp() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// reload puts the list back in the loading state and fetches the records.
func (m listModel) reload(e env) (listModel, tea.Cmd) {
	m.loading = true
	m.err = nil
	m.notice = ""
	return m, tea.Batch(loadClients(e), m.spinner.Tick)
}

// capturesKeys reports whether the list is consuming raw key input.
func (m listModel) capturesKeys() bool {
	return m.searching || m.confirmID != ""
}

func (m listModel) update(msg tea.Msg, e env) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case clientsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.clients = msg.clients
		}
		m.clamp()
		return m, nil

	case clientDeletedMsg:
		if msg.err != nil {
			m.notice = errorText(msg.err)
			return m, nil
		}
		kept := make([]*domain.Client, 0, len(m.clients))
		for _, c := range m.clients {
			if c.ID != msg.id {
				kept = append(kept, c)
			}
		}
		m.clients = kept
		m.notice = "Client supprimé"
		m.clamp()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg, e)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m listModel) handleKey(msg tea.KeyMsg, e env) (listModel, tea.Cmd) {
	key := msg.String()

	if m.confirmID != "" {
		switch key {
		case "y", "Y":
			id := m.confirmID
			m.confirmID = ""
			return m, deleteClient(e, id)
		case "n", "N", "esc":
			m.confirmID = ""
		}
		return m, nil
	}

	if m.searching {
		switch key {
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
		case "enter":
			m.searching = false
			m.search.Blur()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.cursor = 0
			return m, cmd
		}
		m.clamp()
		return m, nil
	}

	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "enter":
		if c := m.selected(); c != nil && !m.loading {
			return m, send(openFormMsg{client: c})
		}
	case "n":
		return m, send(openFormMsg{})
	case "d":
		if c := m.selected(); c != nil && !m.loading {
			m.notice = ""
			m.confirmID = c.ID
		}
	case "r":
		return m.reload(e)
	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	}
	return m, nil
}

func (m listModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Connaissance client"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Chargement des clients...\n")
		return b.String()
	case m.err != nil:
		b.WriteString(errorStyle.Render("Erreur lors du chargement des clients : "+errorText(m.err)) + "\n\n")
		b.WriteString(help("r", "réessayer", "q", "quitter"))
		return b.String()
	}

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View() + "\n\n")
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("Aucun client") + "\n")
	}
	for i, c := range visible {
		style := cardStyle
		if i == m.cursor {
			style = selectedCardStyle
		}
		b.WriteString(style.Render(card(c)) + "\n")
	}

	b.WriteString("\n")
	if m.confirmID != "" {
		b.WriteString(warningStyle.Render("Supprimer ce client ? (y/n)") + "\n")
	} else if m.notice != "" {
		b.WriteString(warningStyle.Render(m.notice) + "\n")
	}
	b.WriteString(help("enter", "modifier", "n", "nouveau", "d", "supprimer", "/", "rechercher", "r", "recharger", "q", "quitter"))
	return b.String()
}

func card(c *domain.Client) string {
	return nameStyle.Render(format.DisplayName(c.Nom, c.Prenom)) + "\n" +
		format.Address(c.Ligne1, c.Ligne2, c.CodePostal, c.Ville) + "\n" +
		mutedStyle.Render(format.SituationFamiliale(string(c.SituationFamiliale))+" · "+format.Children(c.NombreEnfants))
}
