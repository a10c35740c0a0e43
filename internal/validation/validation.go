// Package validation holds the input rules for registration and profile edits.
// Rules are declared as validator tags; the pure predicates below are what the
// stores call for single values.
package validation

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// User-facing messages, in the order the registration checks run.
const (
	MsgFieldsRequired   = "All fields are required"
	MsgInvalidEmail     = "Invalid email format"
	MsgInvalidUsername  = "Username must be 3+ characters (alphanumeric, underscore, hyphen)"
	MsgShortPassword    = "Password must be at least 6 characters"
	MsgPasswordMismatch = "Passwords do not match"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username_shape", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) >= MinUsernameLength && usernamePattern.MatchString(s)
	})

	return v
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return validate.Var(s, "email_shape") == nil
}

// IsUsername reports whether s is at least three characters of letters,
// digits, underscore or hyphen.
func IsUsername(s string) bool {
	return validate.Var(s, "username_shape") == nil
}

// IsPassword reports whether s is long enough.
func IsPassword(s string) bool {
	return validate.Var(s, "min=6") == nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Registration is the raw input of a sign-up form.
type Registration struct {
	Email           string `validate:"email_shape"`
	Username        string `validate:"username_shape"`
	Password        string `validate:"min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

var fieldMessages = map[string]struct{ field, msg string }{
	"Email":           {"email", MsgInvalidEmail},
	"Username":        {"username", MsgInvalidUsername},
	"Password":        {"password", MsgShortPassword},
	"ConfirmPassword": {"confirmPassword", MsgPasswordMismatch},
}

// CheckRegistration returns the first failing rule as a *common.Error of kind
// ErrValidation, or nil. Presence of all four fields is checked first.
func CheckRegistration(r Registration) error {
	if r.Email == "" || r.Username == "" || r.Password == "" || r.ConfirmPassword == "" {
		return common.NewValidationError("", MsgFieldsRequired)
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.NewValidationError("", err.Error())
	}

	fm := fieldMessages[verrs[0].StructField()]
	return common.NewValidationError(fm.field, fm.msg)
}
