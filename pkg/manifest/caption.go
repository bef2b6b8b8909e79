package manifest

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

var slugSeparator = regexp.MustCompile(`[-_]+`)

// Caption derives a human readable caption from a file name: the extension
// is dropped, the stem is split on runs of hyphens and underscores, and each
// word is title-cased. Words written entirely in capitals keep only their
// first letter upper case.
//
//	"dark-mode_settings.png" -> "Dark Mode Settings"
//	"API-keys.png"           -> "Api Keys"
func Caption(name string) string {
	stem := stemOf(name)

	var words []string
	for _, part := range slugSeparator.Split(stem, -1) {
		if part == "" {
			continue
		}
		if isUpper(part) {
			words = append(words, capitalize(part))
		} else {
			words = append(words, title(part))
		}
	}
	if len(words) == 0 {
		if t := title(stem); t != "" {
			return t
		}
		return name
	}
	return strings.Join(words, " ")
}

// stemOf drops the final extension. A leading dot does not start an extension.
func stemOf(name string) string {
	base := path.Base(name)
	ext := path.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// isUpper reports whether s has at least one cased letter and no lower case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i == 0 {
			b.WriteRune(unicode.ToTitle(r))
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// title upper-cases every letter that follows a non-letter and lower-cases
// the others, so "v2beta" becomes "V2Beta".
func title(s string) string {
	var b strings.Builder
	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		switch {
		case cased && !prevCased:
			b.WriteRune(unicode.ToTitle(r))
		case cased:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}
