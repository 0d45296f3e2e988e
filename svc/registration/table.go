package registration

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/saludigital/cadastro/pkg/sanitizer"
	"github.com/saludigital/cadastro/pkg/validator"
)

// RuleKind names a predicate in the rule table.
type RuleKind string

const (
	KindRequired       RuleKind = "required"
	KindDigits         RuleKind = "digits"
	KindOptionalDigits RuleKind = "optional_digits"
	KindCPF            RuleKind = "cpf"
	KindCNPJ           RuleKind = "cnpj"
	KindCEP            RuleKind = "cep"
	KindSelection      RuleKind = "selection"
	KindEmail          RuleKind = "email"
	KindOneOf          RuleKind = "one_of"
	KindDate           RuleKind = "date"
	KindMaxLength      RuleKind = "max_length"
)

// DateLayout is the value format of <input type="date">.
const DateLayout = time.DateOnly

// Mask names a display format applied by Form.Format.
type Mask string

const (
	MaskCPF      Mask = "cpf"
	MaskCNPJ     Mask = "cnpj"
	MaskCEP      Mask = "cep"
	MaskMobile   Mask = "mobile"
	MaskLandline Mask = "landline"
	MaskPhone    Mask = "phone"
)

var masks = map[Mask]func(string) string{
	MaskCPF:      sanitizer.FormatCPF,
	MaskCNPJ:     sanitizer.FormatCNPJ,
	MaskCEP:      sanitizer.FormatCEP,
	MaskMobile:   sanitizer.FormatMobile,
	MaskLandline: sanitizer.FormatLandline,
	MaskPhone:    sanitizer.FormatPhoneBR,
}

// FieldSpec declares one input of a form.
type FieldSpec struct {
	Name    string   `yaml:"name" json:"name"`
	Label   string   `yaml:"label" json:"label"`
	Mask    Mask     `yaml:"mask,omitempty" json:"mask,omitempty"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
}

// ToggleSpec derives a gate from a field: Name is on when Field equals Value.
type ToggleSpec struct {
	Name  string `yaml:"name" json:"name"`
	Field string `yaml:"field" json:"field"`
	Value string `yaml:"value" json:"value"`
}

// RuleSpec is one row of the rule table.
//
// Gate makes the rule vacuously true while that toggle is off. For digit
// rules, AltLength replaces Length while AltGate is on.
type RuleSpec struct {
	Field     string   `yaml:"field" json:"field"`
	Kind      RuleKind `yaml:"kind" json:"kind"`
	Length    int      `yaml:"length,omitempty" json:"length,omitempty"`
	AltLength int      `yaml:"alt_length,omitempty" json:"alt_length,omitempty"`
	AltGate   string   `yaml:"alt_gate,omitempty" json:"alt_gate,omitempty"`
	Gate      string   `yaml:"gate,omitempty" json:"gate,omitempty"`
	Options   []string `yaml:"options,omitempty" json:"options,omitempty"`
}

// length returns the digit count the rule expects under toggles.
func (r RuleSpec) length(toggles Toggles) int {
	if r.AltGate != "" && toggles[r.AltGate] {
		return r.AltLength
	}
	return r.Length
}

// build turns the row into a predicate over s. Gating is left to the caller.
func (r RuleSpec) build(s Snapshot, toggles Toggles) validator.Rule {
	value := s.Get(r.Field)

	switch r.Kind {
	case KindRequired:
		return validator.Required(r.Field, value)
	case KindDigits:
		return validator.DigitsLen(r.Field, value, r.length(toggles))
	case KindOptionalDigits:
		return validator.OptionalDigitsLen(r.Field, value, r.length(toggles))
	case KindCPF:
		return validator.ValidCPF(r.Field, value)
	case KindCNPJ:
		return validator.ValidCNPJ(r.Field, value)
	case KindCEP:
		return validator.ValidCEP(r.Field, value)
	case KindSelection:
		return validator.RequiredSelection(r.Field, s.Values(r.Field))
	case KindEmail:
		return validator.ValidEmail(r.Field, strings.TrimSpace(value))
	case KindOneOf:
		return validator.SelectionInList(r.Field, nonEmpty(s.Values(r.Field)), r.Options)
	case KindDate:
		// Blank dates are left to a required row.
		return validator.When(strings.TrimSpace(value) != "", validator.ValidDate(r.Field, value, DateLayout))
	case KindMaxLength:
		return validator.MaxLenString(r.Field, strings.TrimSpace(value), r.Length)
	}

	// Tables are checked at load time, so this only guards hand-built forms.
	return validator.Rule{
		Check: func() bool { return false },
		Error: validator.ValidationError{
			Field:          r.Field,
			Message:        fmt.Sprintf("unknown rule kind %q", r.Kind),
			TranslationKey: "validation.unknown",
		},
	}
}

func nonEmpty(values []string) []string {
	return slices.DeleteFunc(values, func(v string) bool { return strings.TrimSpace(v) == "" })
}

var knownKinds = []RuleKind{
	KindRequired, KindDigits, KindOptionalDigits, KindCPF, KindCNPJ,
	KindCEP, KindSelection, KindEmail, KindOneOf, KindDate, KindMaxLength,
}

// validate reports table errors: unknown kinds, masks or fields, gates
// that name undeclared toggles, and length rules without a length.
func (f *Form) validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: form without name", ErrInvalidTable)
	}

	fields := make(map[string]bool, len(f.Fields))
	for _, fs := range f.Fields {
		if fs.Name == "" {
			return fmt.Errorf("%w: form %s: field without name", ErrInvalidTable, f.Name)
		}
		if fields[fs.Name] {
			return fmt.Errorf("%w: form %s: duplicate field %q", ErrInvalidTable, f.Name, fs.Name)
		}
		if _, ok := masks[fs.Mask]; fs.Mask != "" && !ok {
			return fmt.Errorf("%w: form %s: field %s: unknown mask %q", ErrInvalidTable, f.Name, fs.Name, fs.Mask)
		}
		fields[fs.Name] = true
	}

	toggles := make(map[string]bool, len(f.Toggles))
	for _, ts := range f.Toggles {
		if ts.Name == "" || !fields[ts.Field] {
			return fmt.Errorf("%w: form %s: toggle %q must name a declared field", ErrInvalidTable, f.Name, ts.Name)
		}
		toggles[ts.Name] = true
	}

	for i, r := range f.Rules {
		where := fmt.Sprintf("form %s: rule %d (%s)", f.Name, i, r.Field)
		if !fields[r.Field] {
			return fmt.Errorf("%w: %s: undeclared field", ErrInvalidTable, where)
		}
		if !slices.Contains(knownKinds, r.Kind) {
			return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidTable, where, r.Kind)
		}
		if r.Gate != "" && !toggles[r.Gate] {
			return fmt.Errorf("%w: %s: undeclared gate %q", ErrInvalidTable, where, r.Gate)
		}
		if r.AltGate != "" && !toggles[r.AltGate] {
			return fmt.Errorf("%w: %s: undeclared alt_gate %q", ErrInvalidTable, where, r.AltGate)
		}
		if r.Kind == KindDigits || r.Kind == KindOptionalDigits {
			if r.Length <= 0 || (r.AltGate != "" && r.AltLength <= 0) {
				return fmt.Errorf("%w: %s: digit rules need a positive length", ErrInvalidTable, where)
			}
		}
		if r.Kind == KindMaxLength && r.Length <= 0 {
			return fmt.Errorf("%w: %s: max_length needs a positive length", ErrInvalidTable, where)
		}
		if r.Kind == KindOneOf && len(r.Options) == 0 {
			return fmt.Errorf("%w: %s: one_of needs options", ErrInvalidTable, where)
		}
	}
	return nil
}
