package handler

import (
	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

// --- Request → Service input ---

func toClientDraft(req clientRequest) domain.ClientDraft {
	return domain.ClientDraft{
		ID:                 req.ID,
		Nom:                req.Nom,
		Prenom:             req.Prenom,
		Ligne1:             req.Ligne1,
		Ligne2:             req.Ligne2,
		CodePostal:         req.CodePostal,
		Ville:              req.Ville,
		SituationFamiliale: req.SituationFamiliale,
		NombreEnfants:      req.NombreEnfants,
	}
}

func toAdresseDraft(req adresseRequest) domain.AdresseDraft {
	return domain.AdresseDraft{
		Ligne1:     req.Ligne1,
		Ligne2:     req.Ligne2,
		CodePostal: req.CodePostal,
		Ville:      req.Ville,
	}
}

func toSituationDraft(req situationRequest) domain.SituationDraft {
	return domain.SituationDraft{
		SituationFamiliale: req.SituationFamiliale,
		NombreEnfants:      req.NombreEnfants,
	}
}

// --- Domain → Response ---

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:                 c.ID,
		Nom:                c.Nom,
		Prenom:             c.Prenom,
		Ligne1:             c.Ligne1,
		Ligne2:             domain.NormalizeLigne2(c.Ligne2),
		CodePostal:         c.CodePostal,
		Ville:              c.Ville,
		SituationFamiliale: string(c.SituationFamiliale),
		NombreEnfants:      c.NombreEnfants,
	}
}

func toClientResponses(clients []*domain.Client) []clientResponse {
	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out
}
