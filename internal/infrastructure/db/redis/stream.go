package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

// streamMaxLen caps the stream length (approximate trimming).
const streamMaxLen = 10000

// StreamPublisher appends address events to a Redis stream.
type StreamPublisher struct {
	client redis.Cmdable
	stream string
}

func NewStreamPublisher(client redis.Cmdable, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream}
}

// Publish adds evt as one stream entry and returns nil once Redis acknowledged it.
func (p *StreamPublisher) Publish(ctx context.Context, evt domain.AddressChangedEvent) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: streamValues(evt),
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

func streamValues(evt domain.AddressChangedEvent) map[string]interface{} {
	return map[string]interface{}{
		"client_id":      evt.ClientID,
		"destinataire":   evt.Destinataire,
		"ligne1":         evt.Adresse.Ligne1,
		"ligne2":         evt.Adresse.Ligne2,
		"code_postal":    evt.Adresse.CodePostal,
		"ville":          evt.Adresse.Ville,
		"occurred_at":    evt.OccurredAt.UTC().Format(time.RFC3339Nano),
		"correlation_id": evt.CorrelationID,
	}
}
