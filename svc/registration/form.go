package registration

import (
	"slices"

	"github.com/saludigital/cadastro/pkg/validator"
)

// Form is a declarative rule table for one registration variant.
type Form struct {
	Name    string       `yaml:"name" json:"name"`
	Title   string       `yaml:"title" json:"title"`
	Fields  []FieldSpec  `yaml:"fields" json:"fields"`
	Toggles []ToggleSpec `yaml:"toggles,omitempty" json:"toggles,omitempty"`
	Rules   []RuleSpec   `yaml:"rules" json:"rules"`
}

// Feedback is the per-input error state shown while the user types.
type Feedback struct {
	Field     string `json:"field"`
	Valid     bool   `json:"valid"`
	ShowError bool   `json:"show_error"`
	// Errors lists the failed rules of the field.
	Errors validator.ValidationErrors `json:"-"`
}

// Evaluate checks every rule against s and toggles and ANDs the outcomes.
// Rules whose gate is off pass without looking at their field.
func (f *Form) Evaluate(s Snapshot, toggles Toggles) validator.Result {
	rules := make([]validator.Rule, 0, len(f.Rules))
	for _, r := range f.Rules {
		rule := r.build(s, toggles)
		if r.Gate != "" {
			rule = validator.When(toggles[r.Gate], rule)
		}
		rules = append(rules, rule)
	}
	return validator.Evaluate(rules...)
}

// ToggleState derives the gates from the snapshot.
func (f *Form) ToggleState(s Snapshot) Toggles {
	t := make(Toggles, len(f.Toggles))
	for _, ts := range f.Toggles {
		t[ts.Name] = s.Get(ts.Field) == ts.Value
	}
	return t
}

// Check evaluates s with the toggles it implies.
func (f *Form) Check(s Snapshot) validator.Result {
	return f.Evaluate(s, f.ToggleState(s))
}

// FieldFeedback evaluates only the rules of field, ignoring their gates, so a
// hidden gated input still reports its own validity. An empty input never
// shows an error.
func (f *Form) FieldFeedback(field string, s Snapshot, toggles Toggles) (Feedback, error) {
	if !f.HasField(field) {
		return Feedback{}, ErrFieldNotFound
	}

	var rules []validator.Rule
	for _, r := range f.Rules {
		if r.Field == field {
			rules = append(rules, r.build(s, toggles))
		}
	}

	res := validator.Evaluate(rules...)
	return Feedback{
		Field:     field,
		Valid:     res.Valid,
		ShowError: !res.Valid && s.Get(field) != "",
		Errors:    res.Errors,
	}, nil
}

// Format applies each field's display mask and leaves other fields as typed.
func (f *Form) Format(s Snapshot) Snapshot {
	values := s.Encode()
	for _, fs := range f.Fields {
		apply, ok := masks[fs.Mask]
		if !ok {
			continue
		}
		for i, v := range values[fs.Name] {
			values[fs.Name][i] = apply(v)
		}
	}
	return Snapshot{values: values}
}

func (f *Form) HasField(name string) bool {
	return slices.ContainsFunc(f.Fields, func(fs FieldSpec) bool { return fs.Name == name })
}

// FieldNames lists the declared fields in table order.
func (f *Form) FieldNames() []string {
	names := make([]string, len(f.Fields))
	for i, fs := range f.Fields {
		names[i] = fs.Name
	}
	return names
}
