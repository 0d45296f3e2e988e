package registration

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed forms.yaml
var builtinForms []byte

// Registry resolves forms by name. It is read-only after construction.
type Registry struct {
	forms map[string]*Form
	order []string
}

type table struct {
	Forms []*Form `yaml:"forms"`
}

// LoadForms parses a YAML rule table and checks every form in it.
func LoadForms(data []byte) (*Registry, error) {
	var t table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, errors.Join(ErrInvalidTable, err)
	}
	return NewRegistry(t.Forms...)
}

// NewRegistry checks and indexes forms, skipping nil entries. Names must
// be unique and at least one form must remain.
func NewRegistry(forms ...*Form) (*Registry, error) {
	forms = slices.DeleteFunc(slices.Clone(forms), func(f *Form) bool { return f == nil })
	if len(forms) == 0 {
		return nil, fmt.Errorf("%w: no forms defined", ErrInvalidTable)
	}

	r := &Registry{forms: make(map[string]*Form, len(forms))}
	for _, f := range forms {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.forms[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate form %q", ErrInvalidTable, f.Name)
		}
		r.forms[f.Name] = f
		r.order = append(r.order, f.Name)
	}
	return r, nil
}

// Builtin returns the embedded cadastro and plano forms.
func Builtin() *Registry {
	r, err := LoadForms(builtinForms)
	if err != nil {
		panic(fmt.Sprintf("registration: embedded forms: %v", err))
	}
	return r
}

func (r *Registry) Get(name string) (*Form, error) {
	f, ok := r.forms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, name)
	}
	return f, nil
}

// Names lists forms in table order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}
