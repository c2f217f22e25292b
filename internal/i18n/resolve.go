package i18n

// LocalizedText holds a field value in the primary (English) language and
// an optional secondary (Chinese) variant
type LocalizedText struct {
	Primary   string
	Secondary string
}

// Localizable is implemented by records that carry bilingual fields
type Localizable interface {
	LocalizedField(name string) (LocalizedText, bool)
}

// Resolve returns the variant for the locale. The preferred variant wins
// when non-empty, then the primary value, then the secondary value.
func (t LocalizedText) Resolve(l Locale) string {
	if l == Chinese && t.Secondary != "" {
		return t.Secondary
	}
	if t.Primary != "" {
		return t.Primary
	}
	return t.Secondary
}

// ResolveLocalizedField returns the named field of record in the given
// locale. Unknown fields and nil records resolve to "".
func ResolveLocalizedField(record Localizable, field string, l Locale) string {
	if record == nil {
		return ""
	}
	text, ok := record.LocalizedField(field)
	if !ok {
		return ""
	}
	return text.Resolve(l)
}
