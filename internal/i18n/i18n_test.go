package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type record map[string]LocalizedText

func (r record) LocalizedField(name string) (LocalizedText, bool) {
	t, ok := r[name]
	return t, ok
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in   string
		want Locale
	}{
		{"", English},
		{"en", English},
		{"en-GB", English},
		{"zh", Chinese},
		{"zh-HK", Chinese},
		{"zh-Hant", Chinese},
		{"not a tag!", English},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLocale(tt.in))
		})
	}
}

func TestFromAcceptLanguage(t *testing.T) {
	assert.Equal(t, Chinese, FromAcceptLanguage("zh-HK,zh;q=0.9,en;q=0.8"))
	assert.Equal(t, English, FromAcceptLanguage("en-US,en;q=0.9"))
	assert.Equal(t, English, FromAcceptLanguage(""))
	assert.Equal(t, Chinese, FromAcceptLanguage("fr;q=0.9,zh-TW;q=0.8"))
}

func TestToggle(t *testing.T) {
	assert.Equal(t, Chinese, English.Toggle())
	assert.Equal(t, English, Chinese.Toggle())
}

func TestResolveLocalizedField(t *testing.T) {
	r := record{
		"name":  {Primary: "Sha Tin Town Hall", Secondary: "沙田大會堂"},
		"title": {Primary: "Concert"},
		"price": {Secondary: "免費"},
	}

	assert.Equal(t, "沙田大會堂", ResolveLocalizedField(r, "name", Chinese))
	assert.Equal(t, "Sha Tin Town Hall", ResolveLocalizedField(r, "name", English))
	assert.Equal(t, "Concert", ResolveLocalizedField(r, "title", Chinese))
	assert.Equal(t, "免費", ResolveLocalizedField(r, "price", English))
	assert.Equal(t, "", ResolveLocalizedField(r, "missing", English))
	assert.Equal(t, "", ResolveLocalizedField(nil, "name", English))
}

func TestT(t *testing.T) {
	assert.Equal(t, "Locations", T(English, "home.title"))
	assert.Equal(t, "地點列表", T(Chinese, "home.title"))
	assert.Equal(t, "home.nope", T(English, "home.nope"))
	assert.Equal(t, "plain", T(English, "plain"))
	assert.Equal(t, "Locations", T(Locale("fr"), "home.title"))

	assert.Equal(t, "View 3 more session(s)", Format(English, "home.viewMoreSessions", 3))
	assert.Equal(t, "查看其餘 2 場次", Format(Chinese, "home.viewMoreSessions", 2))
}

func TestCatalogueIsCopy(t *testing.T) {
	c := Catalogue(English)
	c["home"]["title"] = "changed"
	assert.Equal(t, "Locations", T(English, "home.title"))
}

func TestTranslateLocation(t *testing.T) {
	assert.Equal(t, "沙田", TranslateLocation("Sha Tin", Chinese))
	assert.Equal(t, "Mong Kok", TranslateLocation("Mong Kok", Chinese))
	assert.Equal(t, "Central", TranslateLocation("中環", English))
	assert.Equal(t, "Sha Tin", TranslateLocation("Sha Tin", English))
	assert.Equal(t, "", TranslateLocation("", Chinese))
}
