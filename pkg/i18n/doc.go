// Package i18n holds the pt-BR and en message catalog built on
// golang.org/x/text/message and resolves the request language.
//
//	tr := i18n.New()
//	r.Use(i18n.Middleware(tr))
//	...
//	msg, ok := tr.Translate(i18n.Language(ctx), ve.TranslationKey, ve.TranslationValues)
//
// pt-BR is the default; keys missing from the catalog fall back to the
// caller's own message.
package i18n
