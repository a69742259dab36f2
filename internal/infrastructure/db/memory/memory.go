// Package memory implements the client record store in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

// ClientRepository keeps records in insertion order. Every record crossing
// the package boundary is copied.
type ClientRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Client
	order []string
}

func NewClientRepository(seed ...*domain.Client) *ClientRepository {
	r := &ClientRepository{byID: make(map[string]*domain.Client)}
	for _, c := range seed {
		r.put(c.Clone())
	}
	return r
}

func (r *ClientRepository) List(_ context.Context) ([]*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Client, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

func (r *ClientRepository) Get(_ context.Context, id string) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return c.Clone(), nil
}

func (r *ClientRepository) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	return r.store(c, true)
}

func (r *ClientRepository) Insert(_ context.Context, c *domain.Client) (*domain.Client, error) {
	return r.store(c, false)
}

func (r *ClientRepository) store(c *domain.Client, overwrite bool) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := c.Clone()
	stored.Ligne2 = domain.NormalizeLigne2(stored.Ligne2)
	if stored.ID == "" {
		stored.ID = domain.NewID()
	}
	if _, ok := r.byID[stored.ID]; ok && !overwrite {
		return nil, domain.ErrClientExists
	}
	r.put(stored)
	return stored.Clone(), nil
}

func (r *ClientRepository) Update(_ context.Context, id string, c *domain.Client) (*domain.Client, error) {
	return r.mutate(id, func(stored *domain.Client) { stored.Replace(c) })
}

func (r *ClientRepository) UpdateAdresse(_ context.Context, id string, a domain.Adresse) (*domain.Client, error) {
	return r.mutate(id, func(stored *domain.Client) { stored.SetAdresse(a) })
}

func (r *ClientRepository) UpdateSituation(_ context.Context, id string, s domain.Situation) (*domain.Client, error) {
	return r.mutate(id, func(stored *domain.Client) { stored.SetSituation(s) })
}

func (r *ClientRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *ClientRepository) Ping(_ context.Context) error { return nil }

func (r *ClientRepository) mutate(id string, apply func(*domain.Client)) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	apply(stored)
	return stored.Clone(), nil
}

func (r *ClientRepository) put(c *domain.Client) {
	if _, ok := r.byID[c.ID]; !ok {
		r.order = append(r.order, c.ID)
	}
	r.byID[c.ID] = c
}
