package registration_test

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/saludigital/cadastro/svc/registration"
)

var cadastroFields = []string{
	"name", "salesRep", "expertise", "projectGoal", "birthDate",
	"cpf", "cep", "address", "whatsapp", "phone",
}

func TestCadastroProperties(t *testing.T) {
	form := cadastroForm(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("with the gate off the cnpj value never changes the result", prop.ForAll(
		func(cnpj string) bool {
			data := validCadastro()
			base := form.Check(registration.SnapshotFromMap(data))
			data["cnpj"] = cnpj
			return reflect.DeepEqual(base, form.Check(registration.SnapshotFromMap(data)))
		},
		gen.AnyString(),
	))

	properties.Property("valid is the conjunction of the per-field results", prop.ForAll(
		func(picks []bool, values []string) bool {
			data := validCadastro()
			for i, field := range cadastroFields {
				if i < len(picks) && i < len(values) && picks[i] {
					data[field] = values[i]
				}
			}
			res := form.Check(registration.SnapshotFromMap(data))

			all := true
			for _, ok := range res.Fields {
				all = all && ok
			}
			return res.Valid == all && res.Valid == (len(res.Errors) == 0)
		},
		gen.SliceOfN(len(cadastroFields), gen.Bool()),
		gen.SliceOfN(len(cadastroFields), gen.OneGenOf(gen.AnyString(), gen.NumString(), gen.Const(""))),
	))

	properties.Property("evaluation is idempotent", prop.ForAll(
		func(field, value string) bool {
			data := validCadastro()
			data[field] = value
			snap := registration.SnapshotFromMap(data)
			return reflect.DeepEqual(form.Check(snap), form.Check(snap))
		},
		gen.OneConstOf("name", "cpf", "cep", "whatsapp", "phone", "cnpj", "isCnpj"),
		gen.AnyString(),
	))

	properties.Property("feedback never shows an error on an empty input", prop.ForAll(
		func(field string) bool {
			snap := registration.SnapshotFromMap(map[string]string{field: ""})
			fb, err := form.FieldFeedback(field, snap, form.ToggleState(snap))
			return err == nil && !fb.ShowError
		},
		gen.OneConstOf("cpf", "cep", "whatsapp", "phone", "cnpj", "name"),
	))

	properties.TestingRun(t)
}
