// Package handler adapts typed request handlers to net/http.
//
// Wrap binds the request into R with the configured binders, calls the
// handler and renders the returned Response. Errors from any step go to an
// ErrorHandler; NewErrorHandler classifies them with ErrorRule values,
// HTTPError and validator.ValidationErrors, translates the message to the
// request language and answers with a JSON envelope:
//
//	{"error": {"code": "submission.invalid", "message": "...", "fields": {"cpf": ["CPF inválido"]}}}
//
// Datastar requests receive the same information as patched signals
// (error, fieldErrors) on the event stream instead.
package handler
