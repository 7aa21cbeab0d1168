package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Opening hours interval, e.g. 08:00-22:30
	HoursIntervalPattern = `^([01]\d|2[0-4]):[0-5]\d-([01]\d|2[0-4]):[0-5]\d$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email         *regexp.Regexp
	HoursInterval *regexp.Regexp
}{
	Email:         regexp.MustCompile(EmailPattern),
	HoursInterval: regexp.MustCompile(HoursIntervalPattern),
}

// IsValidEmail checks the address against the email pattern, case-insensitively
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// IsStrongPassword requires the minimum length plus at least one letter and one digit
func IsStrongPassword(password string) bool {
	if len(password) < PasswordMinLength {
		return false
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// IsValidName checks a display name length after trimming
func IsValidName(name string) bool {
	n := len([]rune(strings.TrimSpace(name)))
	return n >= NameMinLength && n <= NameMaxLength
}

// RegisterCustomValidators adds the project specific binding tags to a validator
// instance: "password" and "hours".
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("hours", func(fl validator.FieldLevel) bool {
		value := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		return value == "closed" || value == "24h" || CompiledPatterns.HoursInterval.MatchString(value)
	})
}
