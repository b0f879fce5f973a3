//go:build property

package tmplcmp

import (
	"html"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestEscapeProperties validates escaping over arbitrary input.
func TestEscapeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("escaped text has no markup characters", prop.ForAll(
		func(s string) bool {
			return !strings.ContainsAny(Escape(s), `<>"'`)
		},
		gen.AnyString(),
	))

	properties.Property("every ampersand starts a reference", prop.ForAll(
		func(s string) bool {
			out := Escape(s)
			for i := strings.IndexByte(out, '&'); i >= 0; {
				rest := out[i:]
				if !strings.HasPrefix(rest, "&amp;") &&
					!strings.HasPrefix(rest, "&lt;") &&
					!strings.HasPrefix(rest, "&gt;") &&
					!strings.HasPrefix(rest, "&quot;") &&
					!strings.HasPrefix(rest, "&apos;") {
					return false
				}
				next := strings.IndexByte(out[i+1:], '&')
				if next < 0 {
					break
				}
				i += next + 1
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("unescaping restores the input", prop.ForAll(
		func(s string) bool {
			return html.UnescapeString(Escape(s)) == s
		},
		gen.AlphaString(),
	))

	properties.Property("data values are escaped in templates", prop.ForAll(
		func(s string) bool {
			return H("<p>{}</p>", s).String() == "<p>"+Escape(s)+"</p>"
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
