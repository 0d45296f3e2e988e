package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a single validation error with translation support.
type ValidationError struct {
	Field             string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

// ValidationErrors represents a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports ErrValidationFailed as the identity of every ValidationErrors value.
func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Fields returns the distinct failing field names in order of first failure.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Rule represents a single validation rule.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Result is the outcome of evaluating a set of rules.
// Fields holds the conjunction of all rules sharing a field name.
type Result struct {
	Valid  bool
	Fields map[string]bool
	Errors ValidationErrors
}

// Apply executes multiple validation rules and returns any validation errors.
func Apply(rules ...Rule) error {
	res := Evaluate(rules...)
	if res.Valid {
		return nil
	}
	return res.Errors
}

// Evaluate runs every rule independently and reduces the outcomes by logical AND.
// All rules are evaluated even after the first failure so per-field state is complete.
func Evaluate(rules ...Rule) Result {
	res := Result{
		Valid:  true,
		Fields: make(map[string]bool, len(rules)),
	}

	for _, rule := range rules {
		ok := rule.Check != nil && rule.Check()
		field := rule.Error.Field

		if prev, seen := res.Fields[field]; seen {
			res.Fields[field] = prev && ok
		} else {
			res.Fields[field] = ok
		}

		if !ok {
			res.Valid = false
			res.Errors = append(res.Errors, rule.Error)
		}
	}

	return res
}

// When gates a rule: while active is false the rule passes unconditionally.
func When(active bool, rule Rule) Rule {
	if active {
		return rule
	}
	return Rule{
		Check: func() bool { return true },
		Error: rule.Error,
	}
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
