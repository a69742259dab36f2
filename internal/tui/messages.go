package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sqli-workshop/connaissance-client/internal/apiclient"
	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

// API is the subset of the HTTP client the application drives.
type API interface {
	ListClients(ctx context.Context) ([]*domain.Client, error)
	CreateClient(ctx context.Context, d domain.ClientDraft) (*domain.Client, error)
	UpdateClient(ctx context.Context, id string, d domain.ClientDraft) (*domain.Client, error)
	ChangeAdresse(ctx context.Context, id string, d domain.AdresseDraft) (*domain.Client, error)
	ChangeSituation(ctx context.Context, id string, d domain.SituationDraft) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

type env struct {
	ctx context.Context
	api API
}

// =============================================================================
// Messages
// =============================================================================

type clientsLoadedMsg struct {
	clients []*domain.Client
	err     error
}

type clientSavedMsg struct {
	client *domain.Client
	err    error
}

type clientDeletedMsg struct {
	id  string
	err error
}

// openFormMsg switches to the form. A nil client opens an empty form.
type openFormMsg struct {
	client *domain.Client
}

type closeFormMsg struct {
	saved bool
}

// =============================================================================
// Commands
// =============================================================================

func loadClients(e env) tea.Cmd {
	return func() tea.Msg {
		clients, err := e.api.ListClients(e.ctx)
		return clientsLoadedMsg{clients: clients, err: err}
	}
}

func deleteClient(e env, id string) tea.Cmd {
	return func() tea.Msg {
		return clientDeletedMsg{id: id, err: e.api.DeleteClient(e.ctx, id)}
	}
}

func saveWith(fn func() (*domain.Client, error)) tea.Cmd {
	return func() tea.Msg {
		c, err := fn()
		return clientSavedMsg{client: c, err: err}
	}
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// errorText turns an API failure into a message for the user.
func errorText(err error) string {
	if errors.Is(err, apiclient.ErrTransport) {
		return "Impossible de joindre le serveur, veuillez réessayer"
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "Une erreur inattendue est survenue"
}
