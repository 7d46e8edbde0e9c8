package extractor

import (
	"regexp"
	"strings"
)

// Common tail-stage normalization applied by both extraction branches.
// Order is fixed: entity decoding and whitespace collapsing happen before
// truncation, and truncation runs last over the fully joined text so a cut
// can never split an entity reference.

var whitespaceRun = regexp.MustCompile(`\s+`)

// entityReplacer decodes the five standard HTML/XML named entities plus
// the numeric apostrophe form YouTube favours. Anything else is left as-is.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
)

// DecodeEntities resolves entity references still present after upstream
// parsing. Upstream documents occasionally double-encode.
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// CollapseWhitespace collapses every whitespace run, newlines included, to
// a single space and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Truncate bounds s to MaxTextLength characters, cutting on a rune
// boundary so the result stays valid UTF-8.
func Truncate(s string) string {
	if len(s) <= MaxTextLength {
		return s
	}
	runes := []rune(s)
	if len(runes) <= MaxTextLength {
		return s
	}
	return string(runes[:MaxTextLength])
}
