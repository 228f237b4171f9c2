package index

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugMaxLen is the maximum slug length.
const SlugMaxLen = 60

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a lowercase, hyphenated, URL-safe slug.
// Accents are folded to their base letter ("Café" becomes "cafe").
func Slugify(title string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	slug := strings.ToLower(folded)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > SlugMaxLen {
		slug = strings.TrimRight(slug[:SlugMaxLen], "-")
	}
	return slug
}

// ValidCategory reports whether c can name a category directory: a
// non-empty slug such as "ai-systems".
func ValidCategory(c string) bool {
	return c != "" && Slugify(c) == c
}
