// Package db wires the record store backends.
package db

import (
	"context"
	"time"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
	"github.com/sqli-workshop/connaissance-client/internal/core/ports"
	"github.com/sqli-workshop/connaissance-client/pkg/metrics"
)

// Instrumented records the latency of every call to the wrapped store.
type Instrumented struct {
	next ports.ClientRepository
}

func Instrument(next ports.ClientRepository) *Instrumented {
	return &Instrumented{next: next}
}

func observe(op string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (r *Instrumented) List(ctx context.Context) ([]*domain.Client, error) {
	defer observe("list", time.Now())
	return r.next.List(ctx)
}

func (r *Instrumented) Get(ctx context.Context, id string) (*domain.Client, error) {
	defer observe("get", time.Now())
	return r.next.Get(ctx, id)
}

func (r *Instrumented) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	defer observe("create", time.Now())
	return r.next.Create(ctx, c)
}

func (r *Instrumented) Insert(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	defer observe("insert", time.Now())
	return r.next.Insert(ctx, c)
}

func (r *Instrumented) Update(ctx context.Context, id string, c *domain.Client) (*domain.Client, error) {
	defer observe("update", time.Now())
	return r.next.Update(ctx, id, c)
}

func (r *Instrumented) UpdateAdresse(ctx context.Context, id string, a domain.Adresse) (*domain.Client, error) {
	defer observe("update_adresse", time.Now())
	return r.next.UpdateAdresse(ctx, id, a)
}

func (r *Instrumented) UpdateSituation(ctx context.Context, id string, s domain.Situation) (*domain.Client, error) {
	defer observe("update_situation", time.Now())
	return r.next.UpdateSituation(ctx, id, s)
}

func (r *Instrumented) Delete(ctx context.Context, id string) error {
	defer observe("delete", time.Now())
	return r.next.Delete(ctx, id)
}

func (r *Instrumented) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}
