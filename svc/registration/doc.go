// Package registration evaluates registration forms described by a
// declarative rule table and forwards valid submissions to a webhook.
//
// A Form lists its fields, the toggles derived from field values and the
// rules. Evaluation is pure: every rule runs against a Snapshot of the
// current values, gated rules pass while their toggle is off, and the form is
// valid when every rule passes. Nothing is cached between calls.
//
//	reg := registration.Builtin()
//	form, _ := reg.Get("cadastro")
//	res := form.Check(registration.NewSnapshot(r.PostForm))
//	if !res.Valid {
//		// res.Fields["cpf"] is false when the CPF check digits do not match
//	}
//
// FieldFeedback drives per-input error highlighting. It looks only at the
// rules of one field and hides the error while the input is empty, so an
// input can show an error while the aggregate is computed independently.
//
// Service adds logging, metrics and delivery on top of the tables.
package registration
