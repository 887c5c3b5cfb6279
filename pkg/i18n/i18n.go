// Package i18n renders the customer-facing WhatsApp templates. Templates are
// compiled into the binary in Arabic and English and use {{name}} placeholders.
package i18n

import (
	"fmt"
	"strings"
)

// DefaultLang is used when no language or an unsupported one is requested.
const DefaultLang = "ar"

// SupportedLangs lists the languages every template is written in.
var SupportedLangs = []string{"ar", "en"}

// IsSupported reports whether lang has template bodies.
func IsSupported(lang string) bool {
	for _, l := range SupportedLangs {
		if l == lang {
			return true
		}
	}
	return false
}

// ResolveLang returns lang when supported and fallback otherwise. An
// unsupported fallback resolves to DefaultLang.
func ResolveLang(lang, fallback string) string {
	if IsSupported(lang) {
		return lang
	}
	if IsSupported(fallback) {
		return fallback
	}
	return DefaultLang
}

// HasTemplate reports whether key names a known template.
func HasTemplate(key string) bool {
	_, ok := templates[key]
	return ok
}

// Render fills the template body for key in lang. Placeholders without a
// value are left in place.
func Render(key, lang string, vars map[string]string) (string, error) {
	bodies, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("template %q not found", key)
	}

	body, ok := bodies[ResolveLang(lang, DefaultLang)]
	if !ok {
		return "", fmt.Errorf("template %q has no %s body", key, lang)
	}

	if len(vars) == 0 {
		return body, nil
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(body), nil
}
