package ports

import (
	"context"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

// ClientRepository persists client records.
//
// Implementations assume a single writer process: concurrent writers in
// separate processes may lose updates.
type ClientRepository interface {
	List(ctx context.Context) ([]*domain.Client, error)
	// Get returns domain.ErrClientNotFound when no record has the id.
	Get(ctx context.Context, id string) (*domain.Client, error)
	// Create stores c. An empty id is replaced by a fresh one; an id already
	// present replaces the stored record.
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	// Insert stores c like Create but returns domain.ErrClientExists when the
	// id is already present. The check and the write are a single step.
	Insert(ctx context.Context, c *domain.Client) (*domain.Client, error)
	// Update replaces every field of the record except its id.
	Update(ctx context.Context, id string, c *domain.Client) (*domain.Client, error)
	UpdateAdresse(ctx context.Context, id string, a domain.Adresse) (*domain.Client, error)
	UpdateSituation(ctx context.Context, id string, s domain.Situation) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
