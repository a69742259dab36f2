package ports

import (
	"context"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

// CreatePolicy decides what CreateClient does with a caller-supplied id that
// already exists.
type CreatePolicy string

const (
	CreatePolicyReject CreatePolicy = "reject"
	CreatePolicyUpsert CreatePolicy = "upsert"
)

// ClientService defines the use cases exposed over HTTP.
type ClientService interface {
	ListClients(ctx context.Context) ([]*domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	CreateClient(ctx context.Context, draft domain.ClientDraft) (*domain.Client, error)
	UpdateClient(ctx context.Context, id string, draft domain.ClientDraft) (*domain.Client, error)
	ChangeAdresse(ctx context.Context, id string, draft domain.AdresseDraft) (*domain.Client, error)
	ChangeSituation(ctx context.Context, id string, draft domain.SituationDraft) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
}
