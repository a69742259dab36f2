package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrClientNotFound = errors.New("client not found")
var ErrClientExists = errors.New("client already exists")
var ErrInvalidAddress = errors.New("invalid address")

// SituationFamiliale is the family situation of a client.
type SituationFamiliale string

const (
	Celibataire SituationFamiliale = "CELIBATAIRE"
	Marie       SituationFamiliale = "MARIE"
	Divorce     SituationFamiliale = "DIVORCE"
	Veuf        SituationFamiliale = "VEUF"
	Pacse       SituationFamiliale = "PACSE"
)

// SituationsFamiliales lists every accepted value, in display order.
var SituationsFamiliales = []SituationFamiliale{Celibataire, Marie, Divorce, Veuf, Pacse}

// Valid reports whether s is one of the enumerated values.
func (s SituationFamiliale) Valid() bool {
	for _, v := range SituationsFamiliales {
		if v == s {
			return true
		}
	}
	return false
}

// Adresse is the postal address part of a client record.
type Adresse struct {
	Ligne1     string `json:"ligne1" bson:"ligne1"`
	Ligne2     string `json:"ligne2,omitempty" bson:"ligne2,omitempty"`
	CodePostal string `json:"codePostal" bson:"code_postal"`
	Ville      string `json:"ville" bson:"ville"`
}

// Situation is the family situation part of a client record.
type Situation struct {
	SituationFamiliale SituationFamiliale `json:"situationFamiliale" bson:"situation_familiale"`
	NombreEnfants      int                `json:"nombreEnfants" bson:"nombre_enfants"`
}

// Client is the sole persisted entity. Field order and JSON names are the wire contract.
type Client struct {
	ID                 string             `json:"id" bson:"_id"`
	Nom                string             `json:"nom" bson:"nom"`
	Prenom             string             `json:"prenom" bson:"prenom"`
	Ligne1             string             `json:"ligne1" bson:"ligne1"`
	Ligne2             string             `json:"ligne2,omitempty" bson:"ligne2,omitempty"`
	CodePostal         string             `json:"codePostal" bson:"code_postal"`
	Ville              string             `json:"ville" bson:"ville"`
	SituationFamiliale SituationFamiliale `json:"situationFamiliale" bson:"situation_familiale"`
	NombreEnfants      int                `json:"nombreEnfants" bson:"nombre_enfants"`
}

// NewID returns a fresh store identifier.
func NewID() string {
	return uuid.NewString()
}

// Adresse returns the address fields of c.
func (c *Client) Adresse() Adresse {
	return Adresse{Ligne1: c.Ligne1, Ligne2: c.Ligne2, CodePostal: c.CodePostal, Ville: c.Ville}
}

// Situation returns the family situation fields of c.
func (c *Client) Situation() Situation {
	return Situation{SituationFamiliale: c.SituationFamiliale, NombreEnfants: c.NombreEnfants}
}

// SetAdresse replaces the address fields only.
func (c *Client) SetAdresse(a Adresse) {
	c.Ligne1 = a.Ligne1
	c.Ligne2 = NormalizeLigne2(a.Ligne2)
	c.CodePostal = a.CodePostal
	c.Ville = a.Ville
}

// SetSituation replaces the family situation fields only.
func (c *Client) SetSituation(s Situation) {
	c.SituationFamiliale = s.SituationFamiliale
	c.NombreEnfants = s.NombreEnfants
}

// Replace overwrites every governed field with the ones from other. The id is kept.
func (c *Client) Replace(other *Client) {
	c.Nom = other.Nom
	c.Prenom = other.Prenom
	c.SetAdresse(other.Adresse())
	c.SetSituation(other.Situation())
}

// Clone returns a copy safe to hand out of a store.
func (c *Client) Clone() *Client {
	clone := *c
	return &clone
}

// NormalizeLigne2 maps an empty or whitespace-only secondary line to absent.
func NormalizeLigne2(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
