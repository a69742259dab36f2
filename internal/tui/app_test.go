package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sqli-workshop/connaissance-client/internal/apiclient"
	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

type stubAPI struct {
	clients []*domain.Client
	listErr error
	saveErr error

	calls     []string
	lastDraft domain.ClientDraft
	lastAdr   domain.AdresseDraft
	lastSit   domain.SituationDraft
}

func (s *stubAPI) ListClients(context.Context) ([]*domain.Client, error) {
	s.calls = append(s.calls, "list")
	return s.clients, s.listErr
}

func (s *stubAPI) CreateClient(_ context.Context, d domain.ClientDraft) (*domain.Client, error) {
	s.calls = append(s.calls, "create")
	s.lastDraft = d
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	c := d.Client()
	c.ID = "new"
	return c, nil
}

func (s *stubAPI) UpdateClient(_ context.Context, id string, d domain.ClientDraft) (*domain.Client, error) {
	s.calls = append(s.calls, "update "+id)
	s.lastDraft = d
	return d.Client(), s.saveErr
}

func (s *stubAPI) ChangeAdresse(_ context.Context, id string, d domain.AdresseDraft) (*domain.Client, error) {
	s.calls = append(s.calls, "adresse "+id)
	s.lastAdr = d
	return &domain.Client{ID: id}, s.saveErr
}

func (s *stubAPI) ChangeSituation(_ context.Context, id string, d domain.SituationDraft) (*domain.Client, error) {
	s.calls = append(s.calls, "situation "+id)
	s.lastSit = d
	return &domain.Client{ID: id}, s.saveErr
}

func (s *stubAPI) DeleteClient(_ context.Context, id string) error {
	s.calls = append(s.calls, "delete "+id)
	return s.saveErr
}

func testClients() []*domain.Client {
	return []*domain.Client{
		{ID: "1", Nom: "Dupont", Prenom: "Jean", Ligne1: "12 rue des Lilas", CodePostal: "75001", Ville: "Paris", SituationFamiliale: domain.Marie, NombreEnfants: 2},
		{ID: "2", Nom: "Martin", Prenom: "Claire", Ligne1: "3 avenue Foch", CodePostal: "69001", Ville: "Lyon", SituationFamiliale: domain.Celibataire},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step sends msg and returns the updated model with the resulting command.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// loaded returns a model on the list screen with the records already fetched.
func loaded(t *testing.T, api *stubAPI) Model {
	t.Helper()
	m := New(context.Background(), api)
	m, _ = step(t, m, loadClients(m.env)())
	return m
}

func TestModel_LoadsClientsOnInit(t *testing.T) {
	api := &stubAPI{clients: testClients()}
	m := New(context.Background(), api)

	if !m.list.loading {
		t.Fatal("Expected list to start in loading state")
	}
	if !strings.Contains(m.View(), "Chargement") {
		t.Error("Expected loading indicator")
	}

	m, _ = step(t, m, loadClients(m.env)())

	if m.list.loading {
		t.Error("Expected loading to be done")
	}
	if len(m.list.clients) != 2 {
		t.Fatalf("Expected 2 clients, got %d", len(m.list.clients))
	}
	view := m.View()
	for _, want := range []string{"Jean Dupont", "12 rue des Lilas, 75001 Paris", "Marié(e)", "2 enfants"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestModel_LoadErrorThenRetry(t *testing.T) {
	api := &stubAPI{listErr: &apiclient.TransportError{Op: "GET", Err: errors.New("refused")}}
	m := loaded(t, api)

	if m.list.err == nil {
		t.Fatal("Expected load error")
	}
	if !strings.Contains(m.View(), "Impossible de joindre le serveur") {
		t.Errorf("Expected transport error message, got:\n%s", m.View())
	}

	api.listErr = nil
	api.clients = testClients()
	m, cmd := step(t, m, key("r"))
	if !m.list.loading || cmd == nil {
		t.Fatal("Expected retry to reload")
	}
	m, _ = step(t, m, loadClients(m.env)())
	if m.list.err != nil || len(m.list.clients) != 2 {
		t.Errorf("Expected clients after retry, got err=%v n=%d", m.list.err, len(m.list.clients))
	}
}

func TestModel_SearchFiltersOnNameAndCity(t *testing.T) {
	m := loaded(t, &stubAPI{clients: testClients()})

	m, _ = step(t, m, key("/"))
	if !m.list.searching {
		t.Fatal("Expected search mode")
	}
	for _, r := range "lyon" {
		m, _ = step(t, m, key(string(r)))
	}

	visible := m.list.visible()
	if len(visible) != 1 || visible[0].ID != "2" {
		t.Fatalf("Expected only Lyon client, got %+v", visible)
	}

	// q is typed into the search, not a quit.
	m, _ = step(t, m, key("q"))
	if !m.list.searching || m.list.search.Value() != "lyonq" {
		t.Fatalf("Expected q typed into the search, got %q", m.list.search.Value())
	}

	m, _ = step(t, m, key("esc"))
	if m.list.searching || len(m.list.visible()) != 2 {
		t.Error("Expected esc to clear the search")
	}
}

func TestModel_DeleteRequiresConfirmation(t *testing.T) {
	api := &stubAPI{clients: testClients()}
	m := loaded(t, api)

	m, _ = step(t, m, key("d"))
	if m.list.confirmID != "1" {
		t.Fatalf("Expected confirmation for client 1, got %q", m.list.confirmID)
	}
	m, cmd := step(t, m, key("n"))
	if cmd != nil || m.list.confirmID != "" {
		t.Fatal("Expected n to cancel without calling the API")
	}

	m, _ = step(t, m, key("d"))
	m, cmd = step(t, m, key("y"))
	if cmd == nil {
		t.Fatal("Expected delete command")
	}
	m, _ = step(t, m, cmd())

	if len(m.list.clients) != 1 || m.list.clients[0].ID != "2" {
		t.Errorf("Expected client 1 removed, got %+v", m.list.clients)
	}
	if api.calls[len(api.calls)-1] != "delete 1" {
		t.Errorf("Expected delete call, got %v", api.calls)
	}
}

func TestModel_ListToFormAndBack(t *testing.T) {
	m := loaded(t, &stubAPI{clients: testClients()})

	m, cmd := step(t, m, key("enter"))
	m, _ = step(t, m, cmd())
	if m.screen != screenForm {
		t.Fatal("Expected form screen")
	}
	if m.form.client == nil || m.form.client.ID != "1" {
		t.Fatal("Expected form to edit the selected client")
	}
	if m.form.inputs[fieldVille].Value() != "Paris" || m.form.inputs[fieldEnfants].Value() != "2" {
		t.Error("Expected form populated from the record")
	}

	m, cmd = step(t, m, key("esc"))
	m, _ = step(t, m, cmd())
	if m.screen != screenList {
		t.Error("Expected esc to return to the list")
	}
}

func TestModel_NewFormBlocksInvalidSubmit(t *testing.T) {
	api := &stubAPI{clients: testClients()}
	m := loaded(t, api)
	callsBefore := len(api.calls)

	m, cmd := step(t, m, key("n"))
	m, _ = step(t, m, cmd())
	if m.form.editing() {
		t.Fatal("Expected an empty form")
	}

	m.form.inputs[fieldNom].SetValue("D")
	m, cmd = step(t, m, key("ctrl+s"))

	if cmd != nil {
		t.Fatal("Expected no API call on invalid form")
	}
	if len(api.calls) != callsBefore {
		t.Errorf("Expected no API call, got %v", api.calls[callsBefore:])
	}
	if len(m.form.errors) < 5 {
		t.Errorf("Expected every violation listed at once, got %v", m.form.errors)
	}
	if m.form.inputs[fieldNom].Value() != "D" {
		t.Error("Expected form to stay populated")
	}

	m, _ = step(t, m, key("esc"))
	if len(m.form.errors) != 0 || m.screen != screenForm {
		t.Error("Expected esc to dismiss errors first")
	}
}

func TestModel_CreateThenReload(t *testing.T) {
	api := &stubAPI{clients: testClients()}
	m := loaded(t, api)
	m, cmd := step(t, m, key("n"))
	m, _ = step(t, m, cmd())

	values := map[int]string{
		fieldNom: "Durand", fieldPrenom: "Paul", fieldLigne1: "5 place Bellecour",
		fieldLigne2: "  ", fieldCodePostal: "69002", fieldVille: "Lyon",
	}
	for f, v := range values {
		m.form.inputs[f].SetValue(v)
	}
	m.form.focus = fieldSituation
	m, _ = step(t, m, key("right"))

	m, cmd = step(t, m, key("ctrl+s"))
	if cmd == nil || !m.form.loading {
		t.Fatal("Expected create request in flight")
	}

	// A second submit while loading is ignored.
	if _, again := step(t, m, key("ctrl+s")); again != nil {
		t.Error("Expected submit ignored while loading")
	}

	m, cmd = step(t, m, cmd())
	if api.lastDraft.Ligne2 != "" || api.lastDraft.SituationFamiliale != "MARIE" || *api.lastDraft.NombreEnfants != 0 {
		t.Errorf("Unexpected draft sent: %+v", api.lastDraft)
	}
	m, _ = step(t, m, cmd())

	if m.screen != screenList || !m.list.loading {
		t.Error("Expected return to a reloading list after save")
	}
}

func TestModel_SaveErrorKeepsForm(t *testing.T) {
	api := &stubAPI{clients: testClients(), saveErr: &apiclient.APIError{Status: 400, Message: "Le code postal ne correspond pas à la ville"}}
	m := loaded(t, api)
	m, cmd := step(t, m, key("enter"))
	m, _ = step(t, m, cmd())

	m, cmd = step(t, m, key("ctrl+s"))
	m, _ = step(t, m, cmd())

	if m.screen != screenForm || m.form.loading {
		t.Fatal("Expected to stay on the form")
	}
	if len(m.form.errors) != 1 || m.form.errors[0] != "Le code postal ne correspond pas à la ville" {
		t.Errorf("Unexpected errors: %v", m.form.errors)
	}
}

func TestModel_PartialUpdates(t *testing.T) {
	api := &stubAPI{clients: testClients()}
	m := loaded(t, api)
	m, cmd := step(t, m, key("enter"))
	m, _ = step(t, m, cmd())

	m.form.inputs[fieldVille].SetValue("Versailles")
	m.form.inputs[fieldCodePostal].SetValue("78000")
	m, cmd = step(t, m, key("ctrl+a"))
	if cmd == nil {
		t.Fatal("Expected address update command")
	}
	m, cmd = step(t, m, cmd())
	if api.lastAdr.Ville != "Versailles" || api.calls[len(api.calls)-1] != "adresse 1" {
		t.Errorf("Unexpected address call: %v %+v", api.calls, api.lastAdr)
	}
	m, _ = step(t, m, cmd())
	if m.screen != screenList {
		t.Fatal("Expected return to the list after an address update")
	}

	m, _ = step(t, m, openFormMsg{client: testClients()[0]})
	m.form.inputs[fieldEnfants].SetValue("")
	m, cmd = step(t, m, key("ctrl+f"))
	if cmd != nil {
		t.Fatal("Expected missing children count to block the situation update")
	}
	if len(m.form.errors) != 1 {
		t.Errorf("Expected one situation error, got %v", m.form.errors)
	}
}

func TestForm_ChildrenFieldAcceptsDigitsOnly(t *testing.T) {
	f := newForm(nil)
	f.focus = fieldEnfants
	f.focusCmd()
	f.inputs[fieldEnfants].SetValue("")
	e := env{ctx: context.Background(), api: &stubAPI{}}

	f, _ = f.handleKey(key("x"), e)
	f, _ = f.handleKey(key("3"), e)

	if got := f.inputs[fieldEnfants].Value(); got != "3" {
		t.Errorf("Expected \"3\", got %q", got)
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := loaded(t, &stubAPI{})

	_, cmd := step(t, m, key("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}
