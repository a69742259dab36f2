package handler

// --- Request / Response types ---

// clientRequest is the body of POST and PUT /v1/connaissance-clients[/{id}].
type clientRequest struct {
	ID                 string `json:"id,omitempty"         example:"8d0c3c5e-8f3a-4b3e-9a51-0f1c2d3e4f5a"`
	Nom                string `json:"nom"                  example:"Dupont"`
	Prenom             string `json:"prenom"               example:"Jean"`
	Ligne1             string `json:"ligne1"               example:"12 rue des Lilas"`
	Ligne2             string `json:"ligne2,omitempty"     example:"Bat B"`
	CodePostal         string `json:"codePostal"           example:"75001"`
	Ville              string `json:"ville"                example:"Paris"`
	SituationFamiliale string `json:"situationFamiliale"   example:"MARIE" enums:"CELIBATAIRE,MARIE,DIVORCE,VEUF,PACSE"`
	NombreEnfants      *int   `json:"nombreEnfants"        example:"2"`
}

// adresseRequest is the body of PUT /v1/connaissance-clients/{id}/adresse.
type adresseRequest struct {
	Ligne1     string `json:"ligne1"           example:"3 avenue Foch"`
	Ligne2     string `json:"ligne2,omitempty" example:""`
	CodePostal string `json:"codePostal"       example:"69001"`
	Ville      string `json:"ville"            example:"Lyon"`
}

// situationRequest is the body of PUT /v1/connaissance-clients/{id}/situation.
type situationRequest struct {
	SituationFamiliale string `json:"situationFamiliale" example:"PACSE" enums:"CELIBATAIRE,MARIE,DIVORCE,VEUF,PACSE"`
	NombreEnfants      *int   `json:"nombreEnfants"      example:"1"`
}

type clientResponse struct {
	ID                 string `json:"id"`
	Nom                string `json:"nom"`
	Prenom             string `json:"prenom"`
	Ligne1             string `json:"ligne1"`
	Ligne2             string `json:"ligne2,omitempty"`
	CodePostal         string `json:"codePostal"`
	Ville              string `json:"ville"`
	SituationFamiliale string `json:"situationFamiliale"`
	NombreEnfants      int    `json:"nombreEnfants"`
}

type messageResponse struct {
	Message string `json:"message" example:"Client supprimé avec succès"`
}

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Timestamp string `json:"timestamp" example:"2026-03-02T09:30:00Z"`
	Status    int    `json:"status"    example:"404"`
	Error     string `json:"error"     example:"Not Found"`
	Message   string `json:"message"   example:"Client avec l'ID 42 non trouvé"`
	Path      string `json:"path"      example:"/v1/connaissance-clients/42"`
}
