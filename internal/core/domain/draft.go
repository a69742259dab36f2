package domain

// ClientDraft is an unvalidated client record as received from a caller.
// NombreEnfants is a pointer so that a missing value can be told apart from 0.
type ClientDraft struct {
	ID                 string `json:"id,omitempty"`
	Nom                string `json:"nom"`
	Prenom             string `json:"prenom"`
	Ligne1             string `json:"ligne1"`
	Ligne2             string `json:"ligne2,omitempty"`
	CodePostal         string `json:"codePostal"`
	Ville              string `json:"ville"`
	SituationFamiliale string `json:"situationFamiliale"`
	NombreEnfants      *int   `json:"nombreEnfants,omitempty"`
}

// AdresseDraft is an unvalidated address sub-object.
type AdresseDraft struct {
	Ligne1     string `json:"ligne1"`
	Ligne2     string `json:"ligne2,omitempty"`
	CodePostal string `json:"codePostal"`
	Ville      string `json:"ville"`
}

// SituationDraft is an unvalidated family situation sub-object.
type SituationDraft struct {
	SituationFamiliale string `json:"situationFamiliale"`
	NombreEnfants      *int   `json:"nombreEnfants,omitempty"`
}

// Normalize returns a copy of d with an empty secondary address line dropped.
func (d ClientDraft) Normalize() ClientDraft {
	d.Ligne2 = NormalizeLigne2(d.Ligne2)
	return d
}

// AdresseDraft returns the address part of d.
func (d ClientDraft) AdresseDraft() AdresseDraft {
	return AdresseDraft{Ligne1: d.Ligne1, Ligne2: d.Ligne2, CodePostal: d.CodePostal, Ville: d.Ville}
}

// SituationDraft returns the family situation part of d.
func (d ClientDraft) SituationDraft() SituationDraft {
	return SituationDraft{SituationFamiliale: d.SituationFamiliale, NombreEnfants: d.NombreEnfants}
}

// Client converts a validated draft into a record. Callers must validate first.
func (d ClientDraft) Client() *Client {
	c := &Client{ID: d.ID, Nom: d.Nom, Prenom: d.Prenom}
	c.SetAdresse(d.AdresseDraft().Adresse())
	c.SetSituation(d.SituationDraft().Situation())
	return c
}

func (d AdresseDraft) Normalize() AdresseDraft {
	d.Ligne2 = NormalizeLigne2(d.Ligne2)
	return d
}

func (d AdresseDraft) Adresse() Adresse {
	return Adresse{Ligne1: d.Ligne1, Ligne2: NormalizeLigne2(d.Ligne2), CodePostal: d.CodePostal, Ville: d.Ville}
}

func (d SituationDraft) Situation() Situation {
	s := Situation{SituationFamiliale: SituationFamiliale(d.SituationFamiliale)}
	if d.NombreEnfants != nil {
		s.NombreEnfants = *d.NombreEnfants
	}
	return s
}

// DraftOf returns the draft that would recreate c.
func DraftOf(c *Client) ClientDraft {
	n := c.NombreEnfants
	return ClientDraft{
		ID:                 c.ID,
		Nom:                c.Nom,
		Prenom:             c.Prenom,
		Ligne1:             c.Ligne1,
		Ligne2:             c.Ligne2,
		CodePostal:         c.CodePostal,
		Ville:              c.Ville,
		SituationFamiliale: string(c.SituationFamiliale),
		NombreEnfants:      &n,
	}
}
