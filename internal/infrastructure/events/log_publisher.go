// Package events holds the address event sinks that need no external broker.
package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

// LogPublisher writes each address event as a structured log line.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "address_events").Logger()}
}

func (p *LogPublisher) Publish(_ context.Context, evt domain.AddressChangedEvent) error {
	p.log.Info().
		Str("client_id", evt.ClientID).
		Str("destinataire", evt.Destinataire).
		Str("ligne1", evt.Adresse.Ligne1).
		Str("ligne2", evt.Adresse.Ligne2).
		Str("code_postal", evt.Adresse.CodePostal).
		Str("ville", evt.Adresse.Ville).
		Time("occurred_at", evt.OccurredAt).
		Str("correlation_id", evt.CorrelationID).
		Msg("address changed")
	return nil
}
