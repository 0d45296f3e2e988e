package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:          field,
			Message:        "field is required",
			TranslationKey: "validation.required",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// MaxLenString validates that value holds at most max characters.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %d characters long", max),
			TranslationKey: "validation.max_length",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}

// DigitsLen validates that value holds exactly n digits once punctuation is removed.
func DigitsLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool {
			return len(Digits(value)) == n
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must have exactly %d digits", n),
			TranslationKey: "validation.digits",
			TranslationValues: map[string]any{
				"field":  field,
				"digits": n,
			},
		},
	}
}

// OptionalDigitsLen is DigitsLen that also accepts a blank value. A value
// holding only mask punctuation is not blank.
func OptionalDigitsLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) == "" || len(Digits(value)) == n
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be empty or have exactly %d digits", n),
			TranslationKey: "validation.digits_optional",
			TranslationValues: map[string]any{
				"field":  field,
				"digits": n,
			},
		},
	}
}
