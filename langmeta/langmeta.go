// Package langmeta resolves target-language codes to display names used in
// translation prompts and CLI output.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	// Code is the canonical code, e.g. "pt-BR".
	Code string
	// Name is the English name, used inside prompts.
	Name string
	// Native is the name in the language itself.
	Native string
}

// Registry holds names that the CLDR tables render in a way unsuitable for
// prompts (region-qualified Chinese variants in particular).
var Registry = map[string]Meta{
	"zh":    {Code: "zh", Name: "Simplified Chinese", Native: "简体中文"},
	"zh-CN": {Code: "zh-CN", Name: "Simplified Chinese", Native: "简体中文"},
	"zh-SG": {Code: "zh-SG", Name: "Simplified Chinese", Native: "简体中文"},
	"zh-TW": {Code: "zh-TW", Name: "Traditional Chinese", Native: "繁體中文"},
	"zh-HK": {Code: "zh-HK", Name: "Traditional Chinese (Hong Kong)", Native: "繁體中文（香港）"},
	"pt-BR": {Code: "pt-BR", Name: "Brazilian Portuguese", Native: "Português (Brasil)"},
	"es-MX": {Code: "es-MX", Name: "Mexican Spanish", Native: "Español (México)"},
}

// Canonicalize normalizes separators and case: "pt_br" becomes "pt-BR".
func Canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		if len(parts[1]) == 4 {
			// Script subtag, e.g. Hans.
			parts[1] = strings.ToUpper(parts[1][:1]) + strings.ToLower(parts[1][1:])
		} else {
			parts[1] = strings.ToUpper(parts[1])
		}
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort metadata for a language code. Unknown codes
// come back with the code itself as both names.
func Resolve(lang string) Meta {
	code := Canonicalize(lang)
	if m, ok := Registry[code]; ok {
		return m
	}

	tag, err := language.Parse(code)
	if err != nil {
		return Meta{Code: code, Name: code, Native: code}
	}

	m := Meta{
		Code:   code,
		Name:   display.English.Tags().Name(tag),
		Native: display.Self.Name(tag),
	}
	if m.Name == "" {
		m.Name = code
	}
	if m.Native == "" {
		m.Native = m.Name
	}
	return m
}

// Base returns the primary language subtag: "zh" for "zh-TW".
func Base(lang string) string {
	code := Canonicalize(lang)
	if i := strings.IndexByte(code, '-'); i >= 0 {
		return code[:i]
	}
	return code
}
