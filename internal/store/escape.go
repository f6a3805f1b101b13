package store

import "strings"

// escaper escapes backslashes before quotes; Unescape relies on that
// order to round-trip.
var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Escape prepares raw text for embedding into store commands:
// backslashes first, then double quotes.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape recovers the original text from its escaped form.
func Unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// CleanAbstract escapes an abstract and replaces literal braces with
// spaces; braces are structurally significant in store field syntax.
func CleanAbstract(s string) string {
	return strings.NewReplacer("{", " ", "}", " ").Replace(Escape(s))
}
