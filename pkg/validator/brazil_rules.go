package validator

// Digits returns s with every non-digit character removed.
func Digits(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b = append(b, c)
		}
	}
	return string(b)
}

// IsCPF reports whether input is a valid CPF (individual taxpayer number).
// Formatting punctuation is ignored; the 11 digits must carry two valid check digits.
func IsCPF(input string) bool {
	d := Digits(input)
	if len(d) != 11 || allSame(d) {
		return false
	}

	if cpfCheckDigit(d[:9]) != int(d[9]-'0') {
		return false
	}
	return cpfCheckDigit(d[:10]) == int(d[10]-'0')
}

// cpfCheckDigit weights digits from len+1 down to 2.
func cpfCheckDigit(d string) int {
	sum := 0
	weight := len(d) + 1
	for i := 0; i < len(d); i++ {
		sum += int(d[i]-'0') * weight
		weight--
	}
	rev := 11 - sum%11
	if rev == 10 || rev == 11 {
		return 0
	}
	return rev
}

// IsCNPJ reports whether input is a valid CNPJ (business taxpayer number).
// Formatting punctuation is ignored; the 14 digits must carry two valid check digits.
func IsCNPJ(input string) bool {
	d := Digits(input)
	if len(d) != 14 || allSame(d) {
		return false
	}

	if cnpjCheckDigit(d[:12]) != int(d[12]-'0') {
		return false
	}
	return cnpjCheckDigit(d[:13]) == int(d[13]-'0')
}

// cnpjCheckDigit uses weights that start at len-7 and count down,
// wrapping from 2 back to 9: 5,4,3,2,9,...,2 for 12 digits and 6,5,...,2 for 13.
func cnpjCheckDigit(d string) int {
	sum := 0
	weight := len(d) - 7
	for i := 0; i < len(d); i++ {
		sum += int(d[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	if r := sum % 11; r >= 2 {
		return 11 - r
	}
	return 0
}

func allSame(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}

// ValidCPF validates a CPF, accepting masked ("000.000.000-00") or bare input.
func ValidCPF(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return IsCPF(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid CPF",
			TranslationKey: "validation.cpf",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidCNPJ validates a CNPJ, accepting masked ("00.000.000/0000-00") or bare input.
func ValidCNPJ(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return IsCNPJ(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid CNPJ",
			TranslationKey: "validation.cnpj",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidCEP validates a Brazilian postal code: exactly 8 digits once punctuation is removed.
func ValidCEP(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return len(Digits(value)) == 8
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid CEP",
			TranslationKey: "validation.cep",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
