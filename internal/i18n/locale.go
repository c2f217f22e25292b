// Package i18n resolves localized record fields and static UI text for the
// two supported languages.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported UI language
type Locale string

const (
	English Locale = "en"
	Chinese Locale = "zh"
)

// Default is used whenever a locale cannot be determined
const Default = English

var supported = []language.Tag{
	language.English,
	language.TraditionalChinese,
}

var supportedLocales = []Locale{English, Chinese}

var matcher = language.NewMatcher(supported)

// Tag returns the BCP 47 tag for the locale
func (l Locale) Tag() language.Tag {
	if l == Chinese {
		return language.TraditionalChinese
	}
	return language.English
}

// ParseLocale maps a language code such as "zh", "zh-HK" or "en-GB" to a
// supported locale. Unknown or empty input yields Default.
func ParseLocale(s string) Locale {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Default
	}
	return match(tag)
}

// FromAcceptLanguage picks the best supported locale for an
// Accept-Language header value
func FromAcceptLanguage(header string) Locale {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}
	return match(tags...)
}

func match(tags ...language.Tag) Locale {
	// Plain "zh" maximizes to Simplified script, which the matcher scores
	// poorly against zh-Hant, so base languages are checked first.
	for _, tag := range tags {
		base, _ := tag.Base()
		switch base.String() {
		case "en":
			return English
		case "zh":
			return Chinese
		}
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supportedLocales[idx]
}

// Toggle switches between the two supported locales
func (l Locale) Toggle() Locale {
	if l == Chinese {
		return English
	}
	return Chinese
}
