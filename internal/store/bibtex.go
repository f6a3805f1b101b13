package store

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// entryStartRe matches the entry head: @type{key,
var entryStartRe = regexp.MustCompile(`@(\w+)\s*\{\s*([^,\s]+)\s*,`)

// whitespaceRe collapses runs of whitespace inside field values.
var whitespaceRe = regexp.MustCompile(`\s+`)

// parseBibtex scrapes the key and fields out of one BibTeX entry. This is
// not a general bibliography parser: it handles the single well-formed
// entry the ADS export endpoint produces.
func parseBibtex(raw string) (key string, fields map[string]string, err error) {
	loc := entryStartRe.FindStringSubmatchIndex(raw)
	if loc == nil {
		return "", nil, fmt.Errorf("no BibTeX entry found")
	}
	key = raw[loc[4]:loc[5]]
	fields = make(map[string]string)

	rest := raw[loc[1]:]
	for {
		name, value, remaining, ok := nextField(rest)
		if !ok {
			break
		}
		fields[strings.ToLower(name)] = normalizeValue(value)
		rest = remaining
	}

	if len(fields) == 0 {
		return "", nil, fmt.Errorf("entry %s has no fields", key)
	}
	return key, fields, nil
}

// nextField scans one `name = value` pair. Values are brace-balanced
// groups, quoted strings, or bare tokens up to the next top-level comma.
func nextField(s string) (name, value, rest string, ok bool) {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return "", "", "", false
	}
	name = strings.TrimFunc(s[:eq], func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	if name == "" || strings.ContainsAny(name, "{}") {
		return "", "", "", false
	}

	i := eq + 1
	for i < len(s) && unicode.IsSpace(rune(s[i])) {
		i++
	}
	if i >= len(s) {
		return "", "", "", false
	}

	switch s[i] {
	case '{':
		depth := 0
		for j := i; j < len(s); j++ {
			switch s[j] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return name, s[i : j+1], s[j+1:], true
				}
			}
		}
		return "", "", "", false
	case '"':
		depth := 0
		for j := i + 1; j < len(s); j++ {
			switch s[j] {
			case '{':
				depth++
			case '}':
				depth--
			case '"':
				if depth == 0 {
					return name, s[i : j+1], s[j+1:], true
				}
			}
		}
		return "", "", "", false
	default:
		j := i
		for j < len(s) && s[j] != ',' && s[j] != '\n' && s[j] != '}' {
			j++
		}
		return name, s[i:j], s[j:], true
	}
}

// normalizeValue strips outer delimiters and collapses whitespace.
func normalizeValue(v string) string {
	v = strings.TrimSpace(v)
	for {
		stripped, changed := stripOuter(v)
		if !changed {
			break
		}
		v = strings.TrimSpace(stripped)
	}
	return whitespaceRe.ReplaceAllString(v, " ")
}

// stripOuter removes one matching layer of quotes or braces, but only
// when the pair spans the whole value.
func stripOuter(v string) (string, bool) {
	if len(v) < 2 {
		return v, false
	}
	if v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1], true
	}
	if v[0] == '{' && v[len(v)-1] == '}' && bracesSpan(v) {
		return v[1 : len(v)-1], true
	}
	return v, false
}

// bracesSpan reports whether the opening brace closes only at the end.
func bracesSpan(v string) bool {
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i == len(v)-1
			}
		}
	}
	return false
}

// generateCiteKey builds a citation key from the author and year fields,
// e.g. "Riechers2019". Falls back to the imported BibTeX key.
func generateCiteKey(bibKey string, fields map[string]string) string {
	surname := firstAuthorSurname(fields["author"])
	if surname == "" {
		return bibKey
	}
	return surname + fields["year"]
}

// firstAuthorSurname extracts the first author's surname from a BibTeX
// author list ("{Last}, First and {Last2}, First2").
func firstAuthorSurname(authors string) string {
	first := authors
	if i := strings.Index(first, " and "); i >= 0 {
		first = first[:i]
	}
	if i := strings.IndexByte(first, ','); i >= 0 {
		first = first[:i]
	}
	var b strings.Builder
	for _, r := range first {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
