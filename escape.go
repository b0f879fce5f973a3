package tmplcmp

import "strings"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five HTML-significant characters & < > " ' with their
// named character references.
//
// The replacement is a single left-to-right pass, so the ampersands it
// introduces are never escaped a second time. Escaping already escaped text
// is not idempotent: Escape("&amp;") is "&amp;amp;".
func Escape(s string) string {
	return escaper.Replace(s)
}
