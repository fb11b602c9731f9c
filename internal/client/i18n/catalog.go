// Package i18n holds the user-facing message catalogs of the client and a
// Translator that formats them for the best matching locale.
//
// Catalogs are registered with golang.org/x/text/message once at package
// initialization. Every locale inherits the keys of BaseLocale, so a message
// missing from a translation falls back to the base text rather than to the key.
package i18n

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the source locale of all catalogs.
const BaseLocale = "es"

// KeyUnexpected is printed when a key is not present in any catalog.
const KeyUnexpected = "error.unknown"

var catalogs = map[string]map[string]string{
	"es": esMessages,
	"en": enMessages,
}

var supported []language.Tag

func init() {
	locales := Locales()
	for _, locale := range locales {
		tag := language.MustParse(locale)
		supported = append(supported, tag)
		for key, msg := range merged(locale) {
			_ = message.SetString(tag, key, msg)
		}
	}
}

// Locales returns the available locale identifiers, base locale first.
func Locales() []string {
	out := make([]string, 0, len(catalogs))
	for locale := range catalogs {
		if locale != BaseLocale {
			out = append(out, locale)
		}
	}
	sort.Strings(out)
	return append([]string{BaseLocale}, out...)
}

// Has reports whether key is defined in the base catalog.
func Has(key string) bool {
	_, ok := catalogs[BaseLocale][key]
	return ok
}

func merged(locale string) map[string]string {
	out := make(map[string]string, len(catalogs[BaseLocale]))
	for k, v := range catalogs[BaseLocale] {
		out[k] = v
	}
	for k, v := range catalogs[locale] {
		out[k] = v
	}
	return out
}

// Translator formats catalog messages for one locale. It is safe for
// concurrent use.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// NewTranslator picks the supported locale closest to the requested one
// (e.g. "en-GB" -> "en"). Unknown or empty locales select BaseLocale.
func NewTranslator(locale string) *Translator {
	tag := supported[0]
	if requested, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		matcher := language.NewMatcher(supported)
		_, idx, conf := matcher.Match(requested)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Translator{tag: tag, printer: message.NewPrinter(tag)}
}

// Locale returns the selected locale identifier.
func (t *Translator) Locale() string {
	return t.tag.String()
}

// T formats the message for key with args. A key missing from every catalog
// yields the generic unexpected-error text.
func (t *Translator) T(key string, args ...any) string {
	if !Has(key) {
		key = KeyUnexpected
		args = nil
	}
	return t.printer.Sprintf(key, args...)
}

// Lookup is like T but reports whether key exists instead of falling back.
func (t *Translator) Lookup(key string, args ...any) (string, bool) {
	if !Has(key) {
		return "", false
	}
	return t.printer.Sprintf(key, args...), true
}
