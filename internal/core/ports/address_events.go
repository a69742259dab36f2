package ports

import (
	"context"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

// AddressEventPublisher hands address changes to downstream consumers.
type AddressEventPublisher interface {
	Publish(ctx context.Context, evt domain.AddressChangedEvent) error
}
