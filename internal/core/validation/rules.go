// Package validation holds the field rules a client record must satisfy before it
// is persisted. The same rules run in the API service and in the terminal client.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

// Wire names of the validated fields.
const (
	FieldNom                = "nom"
	FieldPrenom             = "prenom"
	FieldLigne1             = "ligne1"
	FieldLigne2             = "ligne2"
	FieldCodePostal         = "codePostal"
	FieldVille              = "ville"
	FieldSituationFamiliale = "situationFamiliale"
	FieldNombreEnfants      = "nombreEnfants"
)

var (
	nameCharset    = regexp.MustCompile(`^[a-zA-Z ,.'-]+$`)
	addressCharset = regexp.MustCompile(`^[a-zA-Z0-9 ,.'-]+$`)
	postalCharset  = regexp.MustCompile(`^[A-Z0-9]+$`)
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	mustRegister(v, "name_charset", nameCharset)
	mustRegister(v, "address_charset", addressCharset)
	mustRegister(v, "postal_charset", postalCharset)
	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// textRule checks a string field in two steps. The charset step only runs when the
// length step passes, so a field never reports both.
type textRule struct {
	field      string
	lengthTag  string
	lengthMsg  string
	charsetTag string
	charsetMsg string
}

var (
	nomRule = textRule{
		field:      FieldNom,
		lengthTag:  "required,min=2,max=50",
		lengthMsg:  "Le nom doit contenir entre 2 et 50 caractères",
		charsetTag: "name_charset",
		charsetMsg: "Le nom ne peut contenir que des lettres, espaces et caractères , . ' -",
	}
	prenomRule = textRule{
		field:      FieldPrenom,
		lengthTag:  "required,min=2,max=50",
		lengthMsg:  "Le prénom doit contenir entre 2 et 50 caractères",
		charsetTag: "name_charset",
		charsetMsg: "Le prénom ne peut contenir que des lettres, espaces et caractères , . ' -",
	}
	ligne1Rule = textRule{
		field:      FieldLigne1,
		lengthTag:  "required,min=2,max=50",
		lengthMsg:  "L'adresse doit contenir entre 2 et 50 caractères",
		charsetTag: "address_charset",
		charsetMsg: "L'adresse ne peut contenir que des lettres, chiffres, espaces et caractères , . ' -",
	}
	ligne2Rule = textRule{
		field:      FieldLigne2,
		lengthTag:  "min=2,max=50",
		lengthMsg:  "Le complément d'adresse doit contenir entre 2 et 50 caractères",
		charsetTag: "address_charset",
		charsetMsg: "Le complément d'adresse ne peut contenir que des lettres, chiffres, espaces et caractères , . ' -",
	}
	codePostalRule = textRule{
		field:      FieldCodePostal,
		lengthTag:  "required,len=5",
		lengthMsg:  "Le code postal doit contenir exactement 5 caractères",
		charsetTag: "postal_charset",
		charsetMsg: "Le code postal ne peut contenir que des lettres majuscules et des chiffres",
	}
	villeRule = textRule{
		field:      FieldVille,
		lengthTag:  "required,min=2,max=50",
		lengthMsg:  "La ville doit contenir entre 2 et 50 caractères",
		charsetTag: "name_charset",
		charsetMsg: "La ville ne peut contenir que des lettres, espaces et caractères , . ' -",
	}
)

func (r textRule) check(value string, errs Errors) Errors {
	if validate.Var(value, r.lengthTag) != nil {
		return append(errs, FieldError{Field: r.field, Message: r.lengthMsg})
	}
	if validate.Var(value, r.charsetTag) != nil {
		return append(errs, FieldError{Field: r.field, Message: r.charsetMsg})
	}
	return errs
}

var situationOneOf = func() string {
	values := make([]string, len(domain.SituationsFamiliales))
	for i, s := range domain.SituationsFamiliales {
		values[i] = string(s)
	}
	return "oneof=" + strings.Join(values, " ")
}()

const (
	msgSituationRequired = "La situation familiale est obligatoire"
	msgSituationUnknown  = "La situation familiale doit être l'une des valeurs : CELIBATAIRE, MARIE, DIVORCE, VEUF, PACSE"
	msgEnfantsRequired   = "Le nombre d'enfants est obligatoire"
	msgEnfantsRange      = "Le nombre d'enfants doit être entre 0 et 20"
)

// Validate checks a complete client record. Every violated field is reported.
func Validate(d domain.ClientDraft) Errors {
	var errs Errors
	errs = nomRule.check(d.Nom, errs)
	errs = prenomRule.check(d.Prenom, errs)
	errs = append(errs, ValidateAdresse(d.AdresseDraft())...)
	errs = append(errs, ValidateSituation(d.SituationDraft())...)
	return errs
}

// ValidateAdresse checks the address fields only.
func ValidateAdresse(d domain.AdresseDraft) Errors {
	var errs Errors
	errs = ligne1Rule.check(d.Ligne1, errs)
	if ligne2 := domain.NormalizeLigne2(d.Ligne2); ligne2 != "" {
		errs = ligne2Rule.check(ligne2, errs)
	}
	errs = codePostalRule.check(d.CodePostal, errs)
	errs = villeRule.check(d.Ville, errs)
	return errs
}

// ValidateSituation checks the family situation fields only.
func ValidateSituation(d domain.SituationDraft) Errors {
	var errs Errors
	switch {
	case d.SituationFamiliale == "":
		errs = append(errs, FieldError{Field: FieldSituationFamiliale, Message: msgSituationRequired})
	case validate.Var(d.SituationFamiliale, situationOneOf) != nil:
		errs = append(errs, FieldError{Field: FieldSituationFamiliale, Message: msgSituationUnknown})
	}

	switch {
	case d.NombreEnfants == nil:
		errs = append(errs, FieldError{Field: FieldNombreEnfants, Message: msgEnfantsRequired})
	case validate.Var(*d.NombreEnfants, "min=0,max=20") != nil:
		errs = append(errs, FieldError{Field: FieldNombreEnfants, Message: msgEnfantsRange})
	}
	return errs
}
