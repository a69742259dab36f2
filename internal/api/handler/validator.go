package handler

import (
	"fmt"

	"github.com/sqli-workshop/connaissance-client/internal/core/validation"
	"github.com/sqli-workshop/connaissance-client/pkg/metrics"
)

// echoValidator runs the shared client rules so Echo can call c.Validate(req).
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. It returns validation.Errors
// so the error handler can render every violated field. Rejected fields are
// counted here because the request never reaches the service.
func (ev *echoValidator) Validate(i any) error {
	var errs validation.Errors
	switch req := i.(type) {
	case *clientRequest:
		errs = validation.Validate(toClientDraft(*req).Normalize())
	case *adresseRequest:
		errs = validation.ValidateAdresse(toAdresseDraft(*req).Normalize())
	case *situationRequest:
		errs = validation.ValidateSituation(toSituationDraft(*req))
	default:
		return fmt.Errorf("validator: unsupported type %T", i)
	}
	metrics.RecordValidationFailures(errs.Fields())
	return errs.Err()
}
