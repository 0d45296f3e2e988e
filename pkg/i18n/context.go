package i18n

import (
	"context"

	"golang.org/x/text/language"
)

type languageKey struct{}

func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, languageKey{}, tag)
}

// Language returns the request language, or DefaultLanguage when unset.
func Language(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(languageKey{}).(language.Tag); ok {
		return tag
	}
	return DefaultLanguage
}
