package tui

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
	"github.com/sqli-workshop/connaissance-client/internal/core/format"
	"github.com/sqli-workshop/connaissance-client/internal/core/validation"
)

// Form fields in focus order. fieldSituation is the selector, every other
// field is a text input.
const (
	fieldNom = iota
	fieldPrenom
	fieldLigne1
	fieldLigne2
	fieldCodePostal
	fieldVille
	fieldEnfants
	fieldSituation
	fieldCount
)

var fieldLabels = [...]string{
	fieldNom:        "Nom",
	fieldPrenom:     "Prénom",
	fieldLigne1:     "Adresse",
	fieldLigne2:     "Complément d'adresse",
	fieldCodePostal: "Code postal",
	fieldVille:      "Ville",
	fieldEnfants:    "Nombre d'enfants",
	fieldSituation:  "Situation familiale",
}

// formModel edits one record. client is nil when creating.
type formModel struct {
	client    *domain.Client
	inputs    []textinput.Model
	situation int
	focus     int

	errors  []string
	loading bool
}

func newForm(c *domain.Client) formModel {
	inputs := make([]textinput.Model, fieldSituation)
	limits := [...]int{50, 50, 50, 50, 5, 50, 2}
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = limits[i]
		inputs[i] = in
	}
	inputs[fieldLigne2].Placeholder = "facultatif"

	m := formModel{client: c, inputs: inputs}
	if c == nil {
		m.inputs[fieldEnfants].SetValue("0")
	} else {
		m.inputs[fieldNom].SetValue(c.Nom)
		m.inputs[fieldPrenom].SetValue(c.Prenom)
		m.inputs[fieldLigne1].SetValue(c.Ligne1)
		m.inputs[fieldLigne2].SetValue(c.Ligne2)
		m.inputs[fieldCodePostal].SetValue(c.CodePostal)
		m.inputs[fieldVille].SetValue(c.Ville)
		m.inputs[fieldEnfants].SetValue(strconv.Itoa(c.NombreEnfants))
		for i, s := range domain.SituationsFamiliales {
			if s == c.SituationFamiliale {
				m.situation = i
			}
		}
	}
	return m
}

func (m formModel) editing() bool { return m.client != nil }

// focusCmd focuses the current field and returns its cursor blink command.
func (m *formModel) focusCmd() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

// draft reads the current field values. An empty children count is left nil.
func (m formModel) draft() domain.ClientDraft {
	d := domain.ClientDraft{
		Nom:                strings.TrimSpace(m.inputs[fieldNom].Value()),
		Prenom:             strings.TrimSpace(m.inputs[fieldPrenom].Value()),
		Ligne1:             strings.TrimSpace(m.inputs[fieldLigne1].Value()),
		Ligne2:             m.inputs[fieldLigne2].Value(),
		CodePostal:         strings.TrimSpace(m.inputs[fieldCodePostal].Value()),
		Ville:              strings.TrimSpace(m.inputs[fieldVille].Value()),
		SituationFamiliale: string(domain.SituationsFamiliales[m.situation]),
	}
	if n, err := strconv.Atoi(m.inputs[fieldEnfants].Value()); err == nil {
		d.NombreEnfants = &n
	}
	if m.editing() {
		d.ID = m.client.ID
	}
	return d.Normalize()
}

func (m formModel) update(msg tea.Msg, e env) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case clientSavedMsg:
		m.loading = false
		if msg.err != nil {
			m.errors = []string{errorText(msg.err)}
			return m, nil
		}
		return m, send(closeFormMsg{saved: true})

	case tea.KeyMsg:
		return m.handleKey(msg, e)
	}

	if m.focus < fieldSituation {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m formModel) handleKey(msg tea.KeyMsg, e env) (formModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if len(m.errors) > 0 {
			m.errors = nil
			return m, nil
		}
		return m, send(closeFormMsg{})
	case "ctrl+s":
		return m.submitAll(e)
	case "ctrl+a":
		return m.submitAdresse(e)
	case "ctrl+f":
		return m.submitSituation(e)
	case "tab", "down":
		m.focus = (m.focus + 1) % fieldCount
		cmd := m.focusCmd()
		return m, cmd
	case "shift+tab", "up":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		cmd := m.focusCmd()
		return m, cmd
	}

	if m.focus == fieldSituation {
		n := len(domain.SituationsFamiliales)
		switch msg.String() {
		case "left", "h":
			m.situation = (m.situation + n - 1) % n
		case "right", "l":
			m.situation = (m.situation + 1) % n
		}
		return m, nil
	}

	if m.focus == fieldEnfants && msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) {
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// submitAll creates a new record or fully replaces the edited one.
func (m formModel) submitAll(e env) (formModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	d := m.draft()
	if errs := validation.Validate(d); len(errs) > 0 {
		m.errors = errs.Messages()
		return m, nil
	}
	m.errors = nil
	m.loading = true
	if !m.editing() {
		return m, saveWith(func() (*domain.Client, error) { return e.api.CreateClient(e.ctx, d) })
	}
	id := m.client.ID
	return m, saveWith(func() (*domain.Client, error) { return e.api.UpdateClient(e.ctx, id, d) })
}

func (m formModel) submitAdresse(e env) (formModel, tea.Cmd) {
	if m.loading || !m.editing() {
		return m, nil
	}
	a := m.draft().AdresseDraft()
	if errs := validation.ValidateAdresse(a); len(errs) > 0 {
		m.errors = errs.Messages()
		return m, nil
	}
	m.errors = nil
	m.loading = true
	id := m.client.ID
	return m, saveWith(func() (*domain.Client, error) { return e.api.ChangeAdresse(e.ctx, id, a) })
}

func (m formModel) submitSituation(e env) (formModel, tea.Cmd) {
	if m.loading || !m.editing() {
		return m, nil
	}
	s := m.draft().SituationDraft()
	if errs := validation.ValidateSituation(s); len(errs) > 0 {
		m.errors = errs.Messages()
		return m, nil
	}
	m.errors = nil
	m.loading = true
	id := m.client.ID
	return m, saveWith(func() (*domain.Client, error) { return e.api.ChangeSituation(e.ctx, id, s) })
}

func (m formModel) view() string {
	var b strings.Builder
	title := "Nouveau client"
	if m.editing() {
		title = "Modifier " + format.DisplayName(m.client.Nom, m.client.Prenom)
	}
	b.WriteString(titleStyle.Render(title) + "\n")

	b.WriteString(sectionStyle.Render("Identité") + "\n")
	b.WriteString(m.row(fieldNom) + m.row(fieldPrenom) + "\n")

	b.WriteString(sectionStyle.Render("Adresse") + "\n")
	b.WriteString(m.row(fieldLigne1) + m.row(fieldLigne2) + m.row(fieldCodePostal) + m.row(fieldVille) + "\n")

	b.WriteString(sectionStyle.Render("Situation") + "\n")
	b.WriteString(m.label(fieldSituation) + "< " + format.SituationFamiliale(string(domain.SituationsFamiliales[m.situation])) + " >\n")
	b.WriteString(m.row(fieldEnfants) + "\n")

	if len(m.errors) > 0 {
		for _, e := range m.errors {
			b.WriteString(errorStyle.Render("• "+e) + "\n")
		}
		b.WriteString(mutedStyle.Render("esc pour masquer les erreurs") + "\n\n")
	}
	if m.loading {
		b.WriteString(mutedStyle.Render("Enregistrement...") + "\n\n")
	}

	if m.editing() {
		b.WriteString(help("ctrl+s", "tout enregistrer", "ctrl+a", "adresse", "ctrl+f", "situation", "tab", "champ suivant", "esc", "retour"))
	} else {
		b.WriteString(help("ctrl+s", "créer", "tab", "champ suivant", "←/→", "situation", "esc", "retour"))
	}
	return b.String()
}

func (m formModel) label(field int) string {
	if field == m.focus {
		return focusedLabelStyle.Render(fieldLabels[field])
	}
	return labelStyle.Render(fieldLabels[field])
}

func (m formModel) row(field int) string {
	return m.label(field) + m.inputs[field].View() + "\n"
}
