package apierror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	errRequired        = errors.New("is required")
	errInvalidEmail    = errors.New("must be a valid email address")
	errPasswordTooLong = errors.New("must be at most 72 characters")
	errPasswordShort   = errors.New("must be at least 8 characters")
	errPasswordMatch   = errors.New("must match the password")
	errNonNegative     = errors.New("must not be negative")
)

var customErrors = map[string]error{
	"LoginRequest.Email.required":            errRequired,
	"LoginRequest.Email.email":               errInvalidEmail,
	"LoginRequest.Password.required":         errRequired,
	"SignupRequest.Email.required":           errRequired,
	"SignupRequest.Email.email":              errInvalidEmail,
	"SignupRequest.Password.required":        errRequired,
	"SignupRequest.Password.min":             errPasswordShort,
	"SignupRequest.Password.max":             errPasswordTooLong,
	"SignupRequest.FullName.required":        errRequired,
	"SignupRequest.ConfirmPassword.required": errRequired,
	"SignupRequest.ConfirmPassword.eqfield":  errPasswordMatch,
	"Input.ActivityType.required":            errRequired,
	"Input.Description.required":             errRequired,
	"Input.EmissionsSaved.gte":               errNonNegative,
	"Input.PointsEarned.gte":                 errNonNegative,
	"Input.ActivityDate.required":            errRequired,
	"Request.Prompt.required":                errRequired,
}

// FromValidation converts validator errors into a KindValidation *Error.
// Field keys are the names reported by the validator, which are the JSON
// names when the validator has a JSON tag-name function registered.
func FromValidation(err error) *Error {
	if err == nil {
		return nil
	}
	var validationErr validator.ValidationErrors
	if !errors.As(err, &validationErr) {
		return Validation(err.Error(), nil)
	}

	fields := make(map[string]string, len(validationErr))
	msgs := make([]string, 0, len(validationErr))
	for _, e := range validationErr {
		msg := fieldMessage(e)
		fields[e.Field()] = msg
		msgs = append(msgs, fmt.Sprintf("%s %s", e.Field(), msg))
	}
	return Validation(strings.Join(msgs, ", "), fields)
}

func fieldMessage(e validator.FieldError) string {
	if v, ok := customErrors[e.StructNamespace()+"."+e.Tag()]; ok {
		return v.Error()
	}
	switch e.Tag() {
	case "required":
		return errRequired.Error()
	case "email":
		return errInvalidEmail.Error()
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	default:
		return "is invalid"
	}
}
