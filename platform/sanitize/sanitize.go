// Package sanitize normalizes user-provided free text before storage:
// request titles and descriptions, and the notes a professional attaches
// to a quote.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

var entities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&#39;", "'",
)

// Text prepares a free-text field for storage. Markup is stripped twice,
// before and after entity decoding, so an encoded tag does not survive the
// decode. Control characters other than newlines and tabs are dropped.
func Text(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = entities.Replace(s)
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// TextPtr applies Text to optional fields, keeping nil as nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Text(*s)
	return &out
}
