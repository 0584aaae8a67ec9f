// Package slugify turns titles in any site locale into url slugs.
package slugify

import (
	"strings"

	"github.com/gosimple/slug"
)

// MaxLength keeps slugs within the indexed column size.
const MaxLength = 180

// schwa is not covered by the transliteration tables.
var azReplacer = strings.NewReplacer("ə", "e", "Ə", "E")

// Make returns a lower-case ASCII slug; Azerbaijani and Cyrillic letters are transliterated.
func Make(s string) string {
	out := slug.Make(azReplacer.Replace(s))
	if len(out) > MaxLength {
		out = out[:MaxLength]
		if i := strings.LastIndexByte(out, '-'); i > MaxLength/2 {
			out = out[:i]
		}
		out = strings.Trim(out, "-")
	}
	return out
}

// Normalize slugifies an admin-supplied slug, deriving it from title when empty.
func Normalize(slugValue, title string) string {
	if s := Make(slugValue); s != "" {
		return s
	}
	return Make(title)
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return len(s) <= MaxLength && slug.IsSlug(s)
}
