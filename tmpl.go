package tmplcmp

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/spf13/cast"
)

// Tmpl builds markup from literal fragments and interpolated values, the Go
// rendering of a tagged template literal:
//
//	tmplcmp.Tmpl([]string{"<div>Hello, ", "</div>"}, name)
//
// literals may be a []string, a []any whose elements are strings or
// Renderables, or a single string or Renderable, which is treated as a
// one-element sequence. Renderable literals contribute their markup text.
//
// Literal i is followed by value i. Values are tagged with Classify: plain
// data is escaped, markup and nested components are inserted verbatim, and
// nil becomes the empty string. Values beyond len(literals)-1 are appended
// in order after the last literal rather than dropped.
func Tmpl(literals any, values ...any) Markup {
	parts := literalParts(literals)

	var sb strings.Builder
	for i, lit := range parts {
		sb.WriteString(lit)
		if i < len(values) {
			sb.WriteString(Classify(values[i]).Text())
		}
	}
	for i := len(parts); i < len(values); i++ {
		sb.WriteString(Classify(values[i]).Text())
	}
	return Markup{html: sb.String()}
}

// H builds markup from a format string whose "{}" placeholders are filled
// with values, left to right, with the same escaping rules as Tmpl:
//
//	tmplcmp.H(`<a href="{}">{}</a>`, url, label)
func H(format string, values ...any) Markup {
	return Tmpl(strings.Split(format, "{}"), values...)
}

func literalParts(literals any) []string {
	switch l := literals.(type) {
	case nil:
		return nil
	case []string:
		return l
	case []any:
		parts := make([]string, len(l))
		for i, e := range l {
			parts[i] = literalText(e)
		}
		return parts
	case []Markup:
		parts := make([]string, len(l))
		for i, m := range l {
			parts[i] = m.html
		}
		return parts
	default:
		return []string{literalText(l)}
	}
}

// literalText returns the verbatim text of one literal fragment.
func literalText(e any) string {
	switch x := e.(type) {
	case string:
		return x
	case nil:
		return ""
	case Renderable:
		if isNil(x) {
			return ""
		}
		return x.Markup().html
	case templ.Component:
		return renderTempl(x).html
	default:
		return cast.ToString(x)
	}
}
