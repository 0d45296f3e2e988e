package sanitizer

import "strings"

// Display patterns for Brazilian identifiers and phone numbers.
// A '0' in a pattern takes one digit; anything else is a literal.
const (
	PatternCPF      = "000.000.000-00"
	PatternCNPJ     = "00.000.000/0000-00"
	PatternCEP      = "00000-000"
	PatternMobile   = "(00) 00000-0000"
	PatternLandline = "(00) 0000-0000"
)

// Mask formats the digits of value according to pattern.
// Literals are written only when at least one more digit follows them, so
// partially typed input renders the way a masked input widget shows it.
// Digits beyond the pattern's capacity are dropped.
func Mask(pattern, value string) string {
	digits := DigitsOnly(value)
	if digits == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(pattern))

	var pending strings.Builder
	next := 0
	for i := 0; i < len(pattern) && next < len(digits); i++ {
		c := pattern[i]
		if c != '0' {
			pending.WriteByte(c)
			continue
		}
		b.WriteString(pending.String())
		pending.Reset()
		b.WriteByte(digits[next])
		next++
	}

	return b.String()
}

func FormatCPF(value string) string {
	return Mask(PatternCPF, value)
}

func FormatCNPJ(value string) string {
	return Mask(PatternCNPJ, value)
}

func FormatCEP(value string) string {
	return Mask(PatternCEP, value)
}

// FormatMobile formats an 11 digit mobile number: (11) 98888-7777.
func FormatMobile(value string) string {
	return Mask(PatternMobile, value)
}

// FormatLandline formats a 10 digit landline number: (11) 3333-4444.
func FormatLandline(value string) string {
	return Mask(PatternLandline, value)
}

// FormatPhoneBR picks the mobile or landline pattern from the digit count.
func FormatPhoneBR(value string) string {
	if len(DigitsOnly(value)) > 10 {
		return FormatMobile(value)
	}
	return FormatLandline(value)
}

// MaskCPF hides everything except the check digits, for logs: ***.***.***-25.
func MaskCPF(value string) string {
	d := DigitsOnly(value)
	if len(d) != 11 {
		return strings.Repeat("*", len(d))
	}
	return "***.***.***-" + d[9:]
}
