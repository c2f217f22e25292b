package i18n

import (
	"strconv"
	"strings"
)

// Messages is a section -> key -> text catalogue
type Messages map[string]map[string]string

var catalogue = map[Locale]Messages{
	English: {
		"nav": {
			"title":     "Good Website",
			"events":    "Event List",
			"users":     "User List",
			"logout":    "Log Out",
			"favorites": "Favorites",
		},
		"home": {
			"title":               "Locations",
			"searchPlaceholder":   "Search Location",
			"distancePlaceholder": "Within (km)",
			"sortBy":              "Sort by:",
			"sortName":            "Name",
			"sortEvents":          "Events",
			"sortDistance":        "Distance",
			"headerName":          "Name of Location",
			"headerEvents":        "No. of Events",
			"headerDistance":      "Distance",
			"headerFavorite":      "Add to Favorite",
			"mapView":             "Map View",
			"locationDetails":     "Location Details",
			"addressUnavailable":  "Address details unavailable",
			"eventsSection":       "Events",
			"noEvents":            "No events found.",
			"presentedBy":         "Presented by",
			"comments":            "Comments",
			"writeComment":        "Write a comment...",
			"showMore":            "More details",
			"showLess":            "Show less",
			"viewMoreSessions":    "View {count} more session(s)",
			"dateTBA":             "Date TBA",
			"eventSessions":       "Event Sessions:",
			"tapDetails":          "Tap for details",
			"unitKm":              "km",
		},
		"admin": {
			"eventRequired": "Title, Venue, and Date are required",
		},
		"profile": {
			"title":      "My Favorite Venues",
			"subtitle":   "Manage your saved cultural venues and locations.",
			"emptyTitle": "No favorite venues yet",
			"emptyDesc":  "Start exploring and add venues to your favorites!",
			"upcoming":   "Upcoming Events",
		},
		"login": {
			"title":     "Login",
			"username":  "Username",
			"password":  "Password",
			"btn":       "Login",
			"noAccount": "Don't have an account?",
			"signup":    "Sign up",
		},
	},
	Chinese: {
		"nav": {
			"title":     "優質網站",
			"events":    "活動列表",
			"users":     "用戶列表",
			"logout":    "登出",
			"favorites": "我的最愛",
		},
		"home": {
			"title":               "地點列表",
			"searchPlaceholder":   "搜尋地點",
			"distancePlaceholder": "距離 (公里)",
			"sortBy":              "排序:",
			"sortName":            "名稱",
			"sortEvents":          "活動數",
			"sortDistance":        "距離",
			"headerName":          "地點名稱",
			"headerEvents":        "活動數目",
			"headerDistance":      "距離",
			"headerFavorite":      "加入最愛",
			"mapView":             "地圖預覽",
			"locationDetails":     "地點詳情",
			"addressUnavailable":  "暫無地址詳情",
			"eventsSection":       "活動",
			"noEvents":            "暫無活動",
			"presentedBy":         "主辦單位：",
			"comments":            "評論",
			"writeComment":        "寫下你的評論...",
			"showMore":            "更多詳情",
			"showLess":            "顯示較少",
			"viewMoreSessions":    "查看其餘 {count} 場次",
			"dateTBA":             "日期待定",
			"eventSessions":       "活動場次：",
			"tapDetails":          "點擊查看詳情",
			"unitKm":              "公里",
		},
		"admin": {
			"eventRequired": "標題、場地及日期為必填項目",
		},
		"profile": {
			"title":      "我的最愛地點",
			"subtitle":   "管理您收藏的文化場地。",
			"emptyTitle": "暫無收藏地點",
			"emptyDesc":  "開始探索並加入您的最愛！",
			"upcoming":   "即將舉行的活動",
		},
		"login": {
			"title":     "登入",
			"username":  "用戶名",
			"password":  "密碼",
			"btn":       "登入",
			"noAccount": "還沒有帳號？",
			"signup":    "註冊",
		},
	},
}

// T looks up a "section.key" path. Missing entries return the path itself.
func T(l Locale, path string) string {
	msgs, ok := catalogue[l]
	if !ok {
		msgs = catalogue[Default]
	}
	section, key, found := strings.Cut(path, ".")
	if !found {
		return path
	}
	if text, ok := msgs[section][key]; ok {
		return text
	}
	return path
}

// Format replaces {count} in a catalogue entry
func Format(l Locale, path string, count int) string {
	return strings.ReplaceAll(T(l, path), "{count}", strconv.Itoa(count))
}

// Catalogue returns a copy of all messages for the locale
func Catalogue(l Locale) Messages {
	msgs, ok := catalogue[l]
	if !ok {
		msgs = catalogue[Default]
	}
	out := make(Messages, len(msgs))
	for section, entries := range msgs {
		cp := make(map[string]string, len(entries))
		for k, v := range entries {
			cp[k] = v
		}
		out[section] = cp
	}
	return out
}
