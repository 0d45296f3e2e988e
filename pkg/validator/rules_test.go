package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/saludigital/cadastro/pkg/validator"
)

func TestRequired(t *testing.T) {
	assert.NoError(t, validator.Apply(validator.Required("name", "Ana")))
	assert.Error(t, validator.Apply(validator.Required("name", "")))
	assert.Error(t, validator.Apply(validator.Required("name", " \t\n")))
}

func TestStringLength(t *testing.T) {
	assert.NoError(t, validator.Apply(validator.MaxLenString("name", "ção", 3)))
	assert.Error(t, validator.Apply(validator.MaxLenString("name", "abcd", 3)))
}

func TestDigitsLen(t *testing.T) {
	tests := []struct {
		name  string
		value string
		n     int
		want  bool
	}{
		{"masked mobile", "(11) 98888-7777", 11, true},
		{"masked landline", "(11) 3333-4444", 10, true},
		{"landline for mobile", "(11) 3333-4444", 11, false},
		{"empty", "", 8, false},
		{"cep", "01310-100", 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Apply(validator.DigitsLen("f", tt.value, tt.n))
			assert.Equal(t, tt.want, err == nil)
		})
	}
}

func TestOptionalDigitsLen(t *testing.T) {
	assert.NoError(t, validator.Apply(validator.OptionalDigitsLen("phone", "", 10)))
	assert.NoError(t, validator.Apply(validator.OptionalDigitsLen("phone", "   ", 10)))
	assert.Error(t, validator.Apply(validator.OptionalDigitsLen("phone", "(  ) ", 10)))
	assert.Error(t, validator.Apply(validator.OptionalDigitsLen("phone", "(  ) -", 10)))
	assert.NoError(t, validator.Apply(validator.OptionalDigitsLen("phone", "(11) 3333-4444", 10)))
	assert.Error(t, validator.Apply(validator.OptionalDigitsLen("phone", "(11) 3333-444", 10)))
}

func TestRequiredSelection(t *testing.T) {
	assert.NoError(t, validator.Apply(validator.RequiredSelection("plans", []string{"basic"})))
	assert.NoError(t, validator.Apply(validator.RequiredSelection("plans", []string{"", "pro"})))
	assert.Error(t, validator.Apply(validator.RequiredSelection("plans", nil)))
	assert.Error(t, validator.Apply(validator.RequiredSelection("plans", []string{" "})))
}

func TestChoiceRules(t *testing.T) {
	allowed := []string{"basic", "pro"}

	assert.NoError(t, validator.Apply(validator.SelectionInList("plans", []string{"basic", "pro"}, allowed)))
	assert.NoError(t, validator.Apply(validator.SelectionInList("plans", nil, allowed)))
	assert.Error(t, validator.Apply(validator.SelectionInList("plans", []string{"basic", "gold"}, allowed)))
}

func TestValidEmail(t *testing.T) {
	valid := []string{"ana@example.com", "a.b+c@sub.example.com.br"}
	invalid := []string{"", "ana", "ana@", "ana@example", "ana@.com", "Ana <ana@example.com>", "ana@example..com"}

	for _, v := range valid {
		assert.NoError(t, validator.Apply(validator.ValidEmail("email", v)), v)
	}
	for _, v := range invalid {
		assert.Error(t, validator.Apply(validator.ValidEmail("email", v)), v)
	}
}

func TestValidDate(t *testing.T) {
	assert.NoError(t, validator.Apply(validator.ValidDate("birthDate", "1990-05-17", time.DateOnly)))
	assert.Error(t, validator.Apply(validator.ValidDate("birthDate", "17/05/1990", time.DateOnly)))
	assert.Error(t, validator.Apply(validator.ValidDate("birthDate", "", time.DateOnly)))
}

func TestPasswordLength(t *testing.T) {
	assert.NoError(t, validator.Apply(validator.PasswordLength("password", "s3cretpass", 8, 72)))
	assert.Error(t, validator.Apply(validator.PasswordLength("password", "short", 8, 72)))

	err := validator.Apply(validator.PasswordLength("password", string(make([]byte, 73)), 8, 72))
	verrs := validator.ExtractValidationErrors(err)
	if assert.Len(t, verrs, 1) {
		assert.Equal(t, "validation.password_length", verrs[0].TranslationKey)
	}
}
