package registration_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saludigital/cadastro/svc/registration"
)

func validCadastro() map[string]string {
	return map[string]string{
		"name":        "Maria Silva",
		"salesRep":    "João",
		"expertise":   "Marketing digital",
		"projectGoal": "Aumentar vendas",
		"birthDate":   "1990-05-01",
		"cpf":         "529.982.247-25",
		"cep":         "01310-100",
		"address":     "Av. Paulista, 1000",
		"whatsapp":    "(11) 98765-4321",
		"phone":       "",
		"isCnpj":      "Não",
		"cnpj":        "",
	}
}

func validPlano() url.Values {
	return url.Values{
		"name":        {"Carlos Souza"},
		"email":       {"carlos@example.com"},
		"cpf":         {"111.444.777-35"},
		"whatsapp":    {"(21) 99876-5432"},
		"phoneType":   {"Fixo"},
		"phone":       {"(21) 3456-7890"},
		"plans":       {"Essencial", "Premium"},
		"isCnpj":      {"Sim"},
		"cnpj":        {"11.222.333/0001-81"},
		"mediaSpend":  {"Não"},
		"mediaBudget": {""},
	}
}

func cadastroForm(t *testing.T) *registration.Form {
	t.Helper()
	f, err := registration.Builtin().Get("cadastro")
	require.NoError(t, err)
	return f
}

func planoForm(t *testing.T) *registration.Form {
	t.Helper()
	f, err := registration.Builtin().Get("plano")
	require.NoError(t, err)
	return f
}

func TestCadastro_Valid(t *testing.T) {
	t.Parallel()

	res := cadastroForm(t).Check(registration.SnapshotFromMap(validCadastro()))
	assert.True(t, res.Valid, res.Errors)
	assert.Empty(t, res.Errors)
	for field, ok := range res.Fields {
		assert.True(t, ok, field)
	}
}

func TestCadastro_EachRuleBlocks(t *testing.T) {
	t.Parallel()

	form := cadastroForm(t)
	invalid := map[string]string{
		"name":        "   ",
		"salesRep":    "",
		"expertise":   "",
		"projectGoal": " ",
		"birthDate":   "",
		"cpf":         "123.456.789-00",
		"cep":         "01310-10",
		"address":     "",
		"whatsapp":    "(11) 8765-4321",
		"phone":       "(11) 3456-789",
	}

	for field, value := range invalid {
		t.Run(field, func(t *testing.T) {
			t.Parallel()
			data := validCadastro()
			data[field] = value

			res := form.Check(registration.SnapshotFromMap(data))
			assert.False(t, res.Valid)
			assert.False(t, res.Fields[field])
			assert.Equal(t, []string{field}, res.Errors.Fields())
		})
	}
}

func TestCadastro_MissingFieldsReadAsEmpty(t *testing.T) {
	t.Parallel()

	res := cadastroForm(t).Check(registration.NewSnapshot(nil))
	assert.False(t, res.Valid)
	assert.True(t, res.Fields["phone"], "optional phone passes when missing")
	assert.True(t, res.Fields["cnpj"], "cnpj gate is off when isCnpj is missing")
	assert.False(t, res.Fields["cpf"])
}

func TestCadastro_PhoneOptional(t *testing.T) {
	t.Parallel()

	form := cadastroForm(t)
	for _, phone := range []string{"", "  ", "(11) 3456-7890"} {
		data := validCadastro()
		data["phone"] = phone
		assert.True(t, form.Check(registration.SnapshotFromMap(data)).Valid, phone)
	}

	for _, phone := range []string{"(  ) ", "(  )     -", "(11) 3456-789"} {
		data := validCadastro()
		data["phone"] = phone
		res := form.Check(registration.SnapshotFromMap(data))
		assert.False(t, res.Valid, phone)
		assert.Equal(t, []string{"phone"}, res.Errors.Fields(), phone)
	}
}

func TestCadastro_BirthDate(t *testing.T) {
	t.Parallel()

	form := cadastroForm(t)
	for value, want := range map[string]bool{
		"1990-05-01": true,
		"01/05/1990": false,
		"1990-13-01": false,
		"":           false,
	} {
		data := validCadastro()
		data["birthDate"] = value
		res := form.Check(registration.SnapshotFromMap(data))
		assert.Equal(t, want, res.Valid, value)
		if !want {
			require.Len(t, res.Errors, 1, value)
			assert.Equal(t, "birthDate", res.Errors[0].Field)
		}
	}
}

func TestForms_NameLength(t *testing.T) {
	t.Parallel()

	form := cadastroForm(t)
	data := validCadastro()

	data["name"] = strings.Repeat("á", 120)
	assert.True(t, form.Check(registration.SnapshotFromMap(data)).Valid)

	data["name"] = strings.Repeat("á", 121)
	res := form.Check(registration.SnapshotFromMap(data))
	assert.False(t, res.Valid)
	assert.Equal(t, "validation.max_length", res.Errors[0].TranslationKey)
}

func TestCadastro_CNPJGate(t *testing.T) {
	t.Parallel()

	form := cadastroForm(t)

	t.Run("off ignores cnpj", func(t *testing.T) {
		data := validCadastro()
		data["cnpj"] = "garbage"
		snap := registration.SnapshotFromMap(data)

		assert.Equal(t, registration.Toggles{"has_cnpj": false}, form.ToggleState(snap))
		assert.True(t, form.Check(snap).Valid)
	})

	t.Run("on requires valid cnpj", func(t *testing.T) {
		data := validCadastro()
		data["isCnpj"] = "Sim"
		data["cnpj"] = "11.222.333/0001-00"
		res := form.Check(registration.SnapshotFromMap(data))
		assert.False(t, res.Valid)
		assert.False(t, res.Fields["cnpj"])

		data["cnpj"] = "11.222.333/0001-81"
		assert.True(t, form.Check(registration.SnapshotFromMap(data)).Valid)
	})

	t.Run("explicit toggles override derived state", func(t *testing.T) {
		data := validCadastro()
		data["cnpj"] = ""
		snap := registration.SnapshotFromMap(data)
		assert.False(t, form.Evaluate(snap, registration.Toggles{"has_cnpj": true}).Valid)
		assert.True(t, form.Evaluate(snap, nil).Valid)
	})
}

func TestPlano(t *testing.T) {
	t.Parallel()

	form := planoForm(t)

	t.Run("valid", func(t *testing.T) {
		res := form.Check(registration.NewSnapshot(validPlano()))
		assert.True(t, res.Valid, res.Errors)
	})

	t.Run("phone length follows line type", func(t *testing.T) {
		v := validPlano()
		v.Set("phone", "(21) 93456-7890")
		assert.False(t, form.Check(registration.NewSnapshot(v)).Valid)

		v.Set("phoneType", "Celular")
		assert.True(t, form.Check(registration.NewSnapshot(v)).Valid)

		v.Set("phone", "(21) 3456-7890")
		res := form.Check(registration.NewSnapshot(v))
		assert.False(t, res.Fields["phone"])
	})

	t.Run("plans need a known selection", func(t *testing.T) {
		v := validPlano()
		v.Del("plans")
		assert.False(t, form.Check(registration.NewSnapshot(v)).Fields["plans"])

		v["plans"] = []string{"", " "}
		assert.False(t, form.Check(registration.NewSnapshot(v)).Fields["plans"])

		v["plans"] = []string{"Essencial", "Gold"}
		assert.False(t, form.Check(registration.NewSnapshot(v)).Fields["plans"])
	})

	t.Run("media budget gated", func(t *testing.T) {
		v := validPlano()
		v.Set("mediaSpend", "Sim")
		assert.False(t, form.Check(registration.NewSnapshot(v)).Valid)

		v.Set("mediaBudget", "R$ 5.000")
		assert.True(t, form.Check(registration.NewSnapshot(v)).Valid)
	})

	t.Run("email", func(t *testing.T) {
		v := validPlano()
		v.Set("email", "carlos@")
		assert.False(t, form.Check(registration.NewSnapshot(v)).Fields["email"])
	})
}

func TestFieldFeedback(t *testing.T) {
	t.Parallel()

	form := cadastroForm(t)
	tests := []struct {
		name      string
		field     string
		value     string
		valid     bool
		showError bool
	}{
		{"empty cpf hides error", "cpf", "", false, false},
		{"partial cpf shows error", "cpf", "529.982", false, true},
		{"valid cpf", "cpf", "529.982.247-25", true, false},
		{"short whatsapp", "whatsapp", "(11) 9876", false, true},
		{"empty phone is valid", "phone", "", true, false},
		{"landline phone", "phone", "(11) 3456-7890", true, false},
		{"cep", "cep", "01310-100", true, false},
		{"cnpj ignores gate", "cnpj", "11.222.333/0001-00", false, true},
		{"field without rules", "isCnpj", "Sim", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			snap := registration.SnapshotFromMap(map[string]string{tt.field: tt.value})
			fb, err := form.FieldFeedback(tt.field, snap, form.ToggleState(snap))
			require.NoError(t, err)
			assert.Equal(t, tt.field, fb.Field)
			assert.Equal(t, tt.valid, fb.Valid)
			assert.Equal(t, tt.showError, fb.ShowError)
		})
	}

	_, err := form.FieldFeedback("unknown", registration.NewSnapshot(nil), nil)
	assert.ErrorIs(t, err, registration.ErrFieldNotFound)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	snap := registration.SnapshotFromMap(map[string]string{
		"cpf":      "52998224725",
		"cep":      "01310100",
		"whatsapp": "11987654321",
		"phone":    "1134567890",
		"cnpj":     "11222333000181",
		"name":     " Maria ",
	})
	out := cadastroForm(t).Format(snap)

	assert.Equal(t, "529.982.247-25", out.Get("cpf"))
	assert.Equal(t, "01310-100", out.Get("cep"))
	assert.Equal(t, "(11) 98765-4321", out.Get("whatsapp"))
	assert.Equal(t, "(11) 3456-7890", out.Get("phone"))
	assert.Equal(t, "11.222.333/0001-81", out.Get("cnpj"))
	assert.Equal(t, " Maria ", out.Get("name"))
	assert.Equal(t, "52998224725", snap.Get("cpf"), "input snapshot is untouched")
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	src := url.Values{"plans": {"a", "b"}}
	snap := registration.NewSnapshot(src)
	src["plans"][0] = "changed"

	assert.Equal(t, "a", snap.Get("plans"))
	assert.Equal(t, []string{"a", "b"}, snap.Values("plans"))
	assert.Equal(t, "", snap.Get("missing"))
	assert.False(t, snap.Has("missing"))

	vals := snap.Values("plans")
	vals[0] = "x"
	assert.Equal(t, "a", snap.Get("plans"))

	next := snap.With("name", "Ana")
	assert.False(t, snap.Has("name"))
	assert.Equal(t, "Ana", next.Get("name"))
	assert.Equal(t, []string{"name", "plans"}, next.Fields())
}
