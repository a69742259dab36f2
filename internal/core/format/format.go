// Package format renders client records for display.
package format

import (
	"fmt"
	"strings"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

var situationLabels = map[domain.SituationFamiliale]string{
	domain.Celibataire: "Célibataire",
	domain.Marie:       "Marié(e)",
	domain.Divorce:     "Divorcé(e)",
	domain.Veuf:        "Veuf(ve)",
	domain.Pacse:       "Pacsé(e)",
}

// DisplayName returns "prenom nom".
func DisplayName(nom, prenom string) string {
	return prenom + " " + nom
}

// Address joins ligne1, ligne2 when set, and "codePostal ville" when both are
// set, with ", ".
func Address(ligne1, ligne2, codePostal, ville string) string {
	parts := []string{ligne1}
	if ligne2 != "" {
		parts = append(parts, ligne2)
	}
	if codePostal != "" && ville != "" {
		parts = append(parts, codePostal+" "+ville)
	}
	return strings.Join(parts, ", ")
}

// SituationFamiliale returns the French label. Unknown values are returned unchanged.
func SituationFamiliale(s string) string {
	if label, ok := situationLabels[domain.SituationFamiliale(s)]; ok {
		return label
	}
	return s
}

// Children returns "n enfant" or "n enfants".
func Children(n int) string {
	if n > 1 {
		return fmt.Sprintf("%d enfants", n)
	}
	return fmt.Sprintf("%d enfant", n)
}
