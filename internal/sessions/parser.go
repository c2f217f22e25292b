// Package sessions splits free-form event schedule text into one line per
// session. The text is written by people for printed listings, so this is a
// heuristic: when it cannot tell sessions apart it groups them coarser.
package sessions

import (
	"regexp"
	"strings"

	"venue-guide/internal/i18n"
	"venue-guide/internal/models"
)

var (
	separators = strings.NewReplacer("---", ",", ";", ",", "\n", ",")

	monthToken   = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)
	numericDate  = regexp.MustCompile(`\d{1,2}/\d{1,2}`)
	exceptWord   = regexp.MustCompile(`(?i)\bexcept\b`)
	exceptPrefix = "except"
)

// Parse turns a schedule string into session descriptors. Empty input
// yields an empty list.
func Parse(schedule string) []string {
	out := []string{}
	if strings.TrimSpace(schedule) == "" {
		return out
	}

	for _, seg := range splitTopLevel(separators.Replace(schedule)) {
		if len(out) == 0 {
			out = append(out, seg)
			continue
		}

		last := len(out) - 1
		switch {
		case strings.HasPrefix(strings.ToLower(seg), exceptPrefix):
			// Exceptions always belong to the session before them
			out[last] += "; " + seg
		case hasDate(seg):
			// A bare date right after an except clause is another excluded day
			if exceptWord.MatchString(out[last]) && !strings.ContainsAny(seg, "()") {
				out[last] += ", " + seg
			} else {
				out = append(out, seg)
			}
		default:
			// Times and other fragments extend the current session
			out[last] += ", " + seg
		}
	}

	return out
}

// splitTopLevel splits on commas outside parentheses, trimming segments and
// dropping empty ones
func splitTopLevel(s string) []string {
	var segments []string
	var b strings.Builder
	depth := 0

	flush := func() {
		if seg := strings.TrimSpace(b.String()); seg != "" {
			segments = append(segments, seg)
		}
		b.Reset()
	}

	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush()
				continue
			}
		}
		b.WriteRune(r)
	}
	flush()

	return segments
}

func hasDate(s string) bool {
	return monthToken.MatchString(s) || numericDate.MatchString(s)
}

// Preview returns at most n sessions and how many were left out
func Preview(list []string, n int) ([]string, int) {
	if n < 0 {
		n = 0
	}
	if len(list) <= n {
		return list, 0
	}
	return list[:n], len(list) - n
}

// ForEvent parses the schedule text of e in the given locale
func ForEvent(e models.Event, l i18n.Locale) []string {
	return Parse(i18n.ResolveLocalizedField(e, "date", l))
}
