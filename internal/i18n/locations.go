package i18n

// District and area names the backend only stores in English
var locationMap = map[string]string{
	"Sha Tin":       "沙田",
	"Sheung Shui":   "上水",
	"Tai Po":        "大埔",
	"Tsim Sha Tsui": "尖沙咀",
	"Aldrich Bay":   "愛秩序灣",
	"Tuen Mun":      "屯門",
	"Jordan Valley": "佐敦谷",
	"Kwai Fong":     "葵芳",
	"Yuen Long":     "元朗",
	"Ngau Chi Wan":  "牛池灣",
	"Central":       "中環",
	"Lo Lung Hang":  "老龍坑",
	"Sai Wan Ho":    "西灣河",
	"Sheung Wan":    "上環",

	// Areas
	"New Territories":  "新界",
	"Kowloon":          "九龍",
	"Hong Kong Island": "香港島",
}

// A few records arrive with Chinese labels only
var reverseLocationMap = map[string]string{
	"中環":  "Central",
	"香港島": "Hong Kong Island",
}

// TranslateLocation renders a district or area label in the locale.
// Unknown labels are returned unchanged.
func TranslateLocation(text string, l Locale) string {
	if text == "" {
		return text
	}
	if l == Chinese {
		if zh, ok := locationMap[text]; ok {
			return zh
		}
		return text
	}
	if en, ok := reverseLocationMap[text]; ok {
		return en
	}
	return text
}
