package validator

import (
	"fmt"
	"slices"
	"strings"
)

// RequiredSelection validates that at least one non-blank value was picked
// from a multi-select group (checkboxes sharing one name).
func RequiredSelection(field string, values []string) Rule {
	return Rule{
		Check: func() bool {
			for _, v := range values {
				if strings.TrimSpace(v) != "" {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:          field,
			Message:        "select at least one option",
			TranslationKey: "validation.selection",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// SelectionInList validates that every selected value belongs to allowedValues.
func SelectionInList(field string, values []string, allowedValues []string) Rule {
	return Rule{
		Check: func() bool {
			for _, v := range values {
				if !slices.Contains(allowedValues, v) {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("options must be among: %s", strings.Join(allowedValues, ", ")),
			TranslationKey: "validation.in_list",
			TranslationValues: map[string]any{
				"field":          field,
				"allowed_values": allowedValues,
			},
		},
	}
}
