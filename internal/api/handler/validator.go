package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/validation"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.NewStructValidator()}
}

// Validate satisfies the echo.Validator interface. Field failures come back
// as a *domain.ValidationError keyed by json name.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var fes validator.ValidationErrors
		if errors.As(err, &fes) {
			ve := domain.NewValidationError()
			for _, fe := range fes {
				ve.Add(fe.Field(), validation.Message(fe))
			}
			return ve
		}
		return err
	}
	return nil
}
