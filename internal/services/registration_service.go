package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/cardroid/ruleta/internal/i18n"
	"github.com/cardroid/ruleta/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	platePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{9}$`)
)

type registrationForm struct {
	Plate string `validate:"plate"`
	Phone string `validate:"phone"`
	Email string `validate:"required"`
}

// RegistrationValidator normalizes and validates the registration form
type RegistrationValidator struct {
	validate *validator.Validate
	loc      *i18n.Localizer
}

// NewRegistrationValidator creates a validator with the plate and phone rules registered
func NewRegistrationValidator(loc *i18n.Localizer) *RegistrationValidator {
	v := validator.New()
	// Registration of these fixed regex rules cannot fail.
	_ = v.RegisterValidation("plate", func(fl validator.FieldLevel) bool {
		return platePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &RegistrationValidator{validate: v, loc: loc}
}

// NormalizePlate trims and upper-cases a plate
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// Validate returns the normalized register request, or a ValidationError for the
// first offending field in plate, phone, email order.
func (v *RegistrationValidator) Validate(plate, email, phone string) (models.RegisterRequest, error) {
	form := registrationForm{
		Plate: NormalizePlate(plate),
		Phone: strings.TrimSpace(phone),
		Email: strings.TrimSpace(email),
	}
	if err := v.validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return models.RegisterRequest{}, err
		}
		failed := make(map[string]bool, len(fieldErrs))
		for _, fe := range fieldErrs {
			failed[fe.Field()] = true
		}
		switch {
		case failed["Plate"]:
			return models.RegisterRequest{}, &ValidationError{Field: "plate", Message: v.loc.T(i18n.ValidationPlate)}
		case failed["Phone"]:
			return models.RegisterRequest{}, &ValidationError{Field: "phone", Message: v.loc.T(i18n.ValidationPhone)}
		default:
			return models.RegisterRequest{}, &ValidationError{Field: "email", Message: v.loc.T(i18n.ValidationEmail)}
		}
	}
	return models.RegisterRequest{Plate: form.Plate, Email: form.Email, Phone: form.Phone}, nil
}
