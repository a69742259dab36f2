package domain

import "time"

// AddressChangedEvent is emitted whenever a client's postal address is set or replaced.
type AddressChangedEvent struct {
	ClientID      string
	Destinataire  string // "nom prenom"
	Adresse       Adresse
	OccurredAt    time.Time
	CorrelationID string // optional
}

// NewAddressChangedEvent builds the event for the current state of c.
func NewAddressChangedEvent(c *Client, at time.Time) AddressChangedEvent {
	return AddressChangedEvent{
		ClientID:     c.ID,
		Destinataire: c.Nom + " " + c.Prenom,
		Adresse:      c.Adresse(),
		OccurredAt:   at,
	}
}
