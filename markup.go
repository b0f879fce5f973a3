package tmplcmp

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/a-h/templ"
	"github.com/spf13/cast"
)

// Markup is a finished HTML string. It is only produced by Tmpl, H, HTML
// and Sanitize, and is inserted into templates without escaping.
//
// Markup implements templ.Component, so it can be dropped into templ pages.
type Markup struct {
	html string
}

// HTML wraps trusted HTML as Markup. Nothing is validated or escaped.
func HTML(s string) Markup {
	return Markup{html: s}
}

// String returns the HTML text.
func (m Markup) String() string {
	return m.html
}

// IsEmpty reports whether the markup has no text.
func (m Markup) IsEmpty() bool {
	return m.html == ""
}

// Markup returns m, making Markup a Renderable.
func (m Markup) Markup() Markup {
	return m
}

// Render writes the HTML text to w.
func (m Markup) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, m.html)
	return err
}

// Renderable is anything that can produce a markup snapshot: Markup values
// and components. Renderables are inserted verbatim when interpolated.
type Renderable interface {
	Markup() Markup
}

// ValueKind discriminates interpolated values.
type ValueKind uint8

const (
	KindData   ValueKind = iota // Plain data, escaped
	KindRaw                     // Trusted markup, inserted verbatim
	KindNested                  // Renderable read at build time, inserted verbatim
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindData:
		return "Data"
	case KindRaw:
		return "Raw"
	case KindNested:
		return "Nested"
	default:
		return "Unknown"
	}
}

// Value is an interpolated template value.
type Value struct {
	kind   ValueKind
	data   any
	markup Markup
	nested Renderable
}

// Data tags v as plain data. It is coerced to text and escaped.
func Data(v any) Value {
	return Value{kind: KindData, data: v}
}

// Raw tags trusted HTML text. It is inserted without escaping.
func Raw(s string) Value {
	return Value{kind: KindRaw, markup: HTML(s)}
}

// Nested tags a Renderable whose current markup is inserted without
// escaping. The markup is read each time the template is built, so a nested
// component always contributes its latest state.
func Nested(r Renderable) Value {
	return Value{kind: KindNested, nested: r}
}

// Classify tags an untagged Go value: Values pass through, Markup is raw,
// other Renderables are nested, templ components are rendered to raw markup,
// and everything else is data.
func Classify(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case nil:
		return Data(nil)
	case Markup:
		return Value{kind: KindRaw, markup: x}
	case Renderable:
		return Nested(x)
	case templ.Component:
		return Value{kind: KindRaw, markup: renderTempl(x)}
	default:
		return Data(x)
	}
}

// Kind returns the value's tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Text returns the text the value contributes to a template.
func (v Value) Text() string {
	switch v.kind {
	case KindRaw:
		return v.markup.html
	case KindNested:
		if isNil(v.nested) {
			return ""
		}
		return v.nested.Markup().html
	default:
		return Escape(toText(v.data))
	}
}

// toText coerces plain data to text. nil and nil pointers become "".
func toText(v any) string {
	if isNil(v) {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// renderTempl renders a templ component to markup. A component that fails to
// render contributes nothing; the builder has no error path.
func renderTempl(c templ.Component) Markup {
	if isNil(c) {
		return Markup{}
	}
	s, err := templ.ToGoHTML(context.Background(), c)
	if err != nil {
		return Markup{}
	}
	return HTML(string(s))
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
