package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage is used when nothing in the request matches.
var DefaultLanguage = language.BrazilianPortuguese

// Supported lists the catalog languages; the first entry is the fallback.
var Supported = []language.Tag{language.BrazilianPortuguese, language.English}

// Translator renders catalog messages for a language.
type Translator struct {
	catalog *catalog.Builder
	matcher language.Matcher
	args    map[string][]string
}

// New builds the pt-BR and en catalog. It panics if an entry is malformed,
// which can only happen if the message table itself is broken.
func New() *Translator {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLanguage))
	args := make(map[string][]string, len(messages))
	for _, m := range messages {
		if err := b.SetString(language.BrazilianPortuguese, m.key, m.pt); err != nil {
			panic(fmt.Sprintf("i18n: %s: %v", m.key, err))
		}
		if err := b.SetString(language.English, m.key, m.en); err != nil {
			panic(fmt.Sprintf("i18n: %s: %v", m.key, err))
		}
		args[m.key] = m.args
	}

	return &Translator{
		catalog: b,
		matcher: language.NewMatcher(Supported),
		args:    args,
	}
}

// Match picks the best supported language for the given preferences, each of
// which may be a tag ("en") or an Accept-Language header value.
func (t *Translator) Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return DefaultLanguage
	}

	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return Supported[idx]
}

// Has reports whether key is in the catalog.
func (t *Translator) Has(key string) bool {
	_, ok := t.args[key]
	return ok
}

// T formats key with positional args. Unknown keys are returned as is.
func (t *Translator) T(tag language.Tag, key string, args ...any) string {
	if !t.Has(key) {
		return key
	}
	return message.NewPrinter(tag, message.Catalog(t.catalog)).Sprintf(key, args...)
}

// Translate formats key taking its arguments by name from values, the way
// validation errors carry them. ok is false for keys outside the catalog.
func (t *Translator) Translate(tag language.Tag, key string, values map[string]any) (string, bool) {
	names, ok := t.args[key]
	if !ok {
		return "", false
	}
	args := make([]any, len(names))
	for i, name := range names {
		args[i] = values[name]
	}
	return message.NewPrinter(tag, message.Catalog(t.catalog)).Sprintf(key, args...), true
}
