package validator

import "fmt"

// PasswordLength validates password length in bytes.
// Byte length matters here because bcrypt silently truncates input past 72 bytes.
func PasswordLength(field, value string, min, max int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) >= min && len(value) <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("password must be %d-%d characters long", min, max),
			TranslationKey: "validation.password_length",
			TranslationValues: map[string]any{
				"field":      field,
				"min_length": min,
				"max_length": max,
			},
		},
	}
}
