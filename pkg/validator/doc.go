// Package validator provides small, composable validation rules and the
// Brazilian tax identifier checksums (CPF and CNPJ) used by registration forms.
//
// Every exported rule constructor returns a Rule: a Check closure bound to the
// value under test plus translation-friendly error metadata. Rules are pure and
// independent; a rule never looks at the outcome of another rule.
//
// # Evaluation
//
// Apply returns nil or a ValidationErrors value:
//
//	err := validator.Apply(
//	    validator.Required("name", name),
//	    validator.ValidCPF("cpf", cpf),
//	    validator.DigitsLen("whatsapp", whatsapp, 11),
//	)
//
// Evaluate returns the full picture used to drive a submit button and
// per-field error highlighting:
//
//	res := validator.Evaluate(rules...)
//	res.Valid          // AND over all rules
//	res.Fields["cpf"]  // AND over the rules of a single field
//
// When gates a rule behind a toggle. With the gate off the rule passes, so the
// gated field can never block the aggregate:
//
//	validator.When(hasCNPJ, validator.ValidCNPJ("cnpj", cnpj))
//
// # Tax identifiers
//
// IsCPF and IsCNPJ strip punctuation, reject wrong lengths and repeated-digit
// sequences, and verify both check digits. They never panic and can be called
// directly with literal strings:
//
//	validator.IsCPF("529.982.247-25")      // true
//	validator.IsCNPJ("11.222.333/0001-81") // true
//
// # Error Handling
//
// ValidationErrors implements error and matches ErrValidationFailed with
// errors.Is. Use ExtractValidationErrors to get at field-level details and
// their TranslationKey values.
package validator
