package tmplcmp

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

type stringer struct{ s string }

func (s stringer) String() string { return s.s }

func italic(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<i>"+text+"</i>")
		return err
	})
}

func TestTmpl(t *testing.T) {
	var nilPtr *int

	tests := []struct {
		name     string
		literals any
		values   []any
		want     string
	}{
		{
			name:     "escapes data",
			literals: []string{"<div>Hello, ", "</div>"},
			values:   []any{"<b>Bob</b>"},
			want:     "<div>Hello, &lt;b&gt;Bob&lt;/b&gt;</div>",
		},
		{
			name:     "raw markup verbatim",
			literals: []string{"<div>", "</div>"},
			values:   []any{HTML("<b>Bob</b>")},
			want:     "<div><b>Bob</b></div>",
		},
		{
			name:     "tagged raw",
			literals: []string{"<p>", "</p>"},
			values:   []any{Raw("<br>")},
			want:     "<p><br></p>",
		},
		{
			name:     "tagged data",
			literals: []string{"<p>", "</p>"},
			values:   []any{Data(HTML("<br>"))},
			want:     "<p>&lt;br&gt;</p>",
		},
		{
			name:     "nil is empty",
			literals: []string{"<p>", "</p>"},
			values:   []any{nil},
			want:     "<p></p>",
		},
		{
			name:     "nil pointer is empty",
			literals: []string{"<p>", "</p>"},
			values:   []any{nilPtr},
			want:     "<p></p>",
		},
		{
			name:     "zero values keep their text",
			literals: []string{"<p>", " ", "</p>"},
			values:   []any{0, false},
			want:     "<p>0 false</p>",
		},
		{
			name:     "numbers",
			literals: []string{"<p>", "/", "</p>"},
			values:   []any{42, 2.5},
			want:     "<p>42/2.5</p>",
		},
		{
			name:     "stringer",
			literals: []string{"<p>", "</p>"},
			values:   []any{stringer{"a<b"}},
			want:     "<p>a&lt;b</p>",
		},
		{
			name:     "templ component",
			literals: []string{"<p>", "</p>"},
			values:   []any{italic("x")},
			want:     "<p><i>x</i></p>",
		},
		{
			name:     "single literal",
			literals: "<hr>",
			want:     "<hr>",
		},
		{
			name:     "renderable literals",
			literals: []any{HTML("<ul>"), "<li>", HTML("</li></ul>")},
			values:   []any{"a", "b&c"},
			want:     "<ul>a<li>b&amp;c</li></ul>",
		},
		{
			name:     "markup literals",
			literals: []Markup{HTML("<a>"), HTML("</a>")},
			values:   []any{"x"},
			want:     "<a>x</a>",
		},
		{
			name:     "extra values appended",
			literals: []string{"<p>", "</p>"},
			values:   []any{"a", "b", "<c>"},
			want:     "<p>a</p>b&lt;c&gt;",
		},
		{
			name:     "missing values",
			literals: []string{"<p>", "</p>"},
			want:     "<p></p>",
		},
		{
			name:     "nil literals",
			literals: nil,
			values:   []any{"x"},
			want:     "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tmpl(tt.literals, tt.values...)
			if got.String() != tt.want {
				t.Errorf("Tmpl() = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestTmpl_DataNeverInjectsMarkup(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"all five", `<a href="x" title='y'>&</a>`, "&lt;a href=&quot;x&quot; title=&apos;y&apos;&gt;&amp;&lt;/a&gt;"},
		{"existing entity", "&amp;<", "&amp;amp;&lt;"},
		{"stringer", stringer{`"'<>&`}, "&quot;&apos;&lt;&gt;&amp;"},
		{"bytes", []byte(`<script>'x'</script>`), "&lt;script&gt;&apos;x&apos;&lt;/script&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tmpl([]string{"<p>", "</p>"}, tt.value).String()
			inner := strings.TrimSuffix(strings.TrimPrefix(got, "<p>"), "</p>")
			if inner != tt.want {
				t.Errorf("Tmpl() = %q, want %q", inner, tt.want)
			}
			if strings.ContainsAny(inner, `<>"'`) {
				t.Errorf("Tmpl() = %q leaves markup characters unescaped", inner)
			}
		})
	}
}

func TestH(t *testing.T) {
	got := H(`<a href="{}" title='{}'>{}</a>`, "/x?a=1&b=2", "it's", HTML("<b>go</b>"))
	want := `<a href="/x?a=1&amp;b=2" title='it&apos;s'><b>go</b></a>`
	if got.String() != want {
		t.Errorf("H() = %q, want %q", got.String(), want)
	}

	if got := H("no placeholders", "extra"); got.String() != "no placeholdersextra" {
		t.Errorf("H() = %q, want %q", got.String(), "no placeholdersextra")
	}
}

func TestTmpl_NestedReadsLatestMarkup(t *testing.T) {
	inner := &mutableRenderable{html: "<i>1</i>"}
	v := Nested(inner)

	if got := H("<p>{}</p>", v).String(); got != "<p><i>1</i></p>" {
		t.Errorf("H() = %q, want %q", got, "<p><i>1</i></p>")
	}
	inner.html = "<i>2</i>"
	if got := H("<p>{}</p>", v).String(); got != "<p><i>2</i></p>" {
		t.Errorf("H() after change = %q, want %q", got, "<p><i>2</i></p>")
	}
}

func TestTmpl_FailingTemplContributesNothing(t *testing.T) {
	failing := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return errors.New("boom")
	})
	if got := H("<p>{}</p>", failing).String(); got != "<p></p>" {
		t.Errorf("H() = %q, want %q", got, "<p></p>")
	}
}

type mutableRenderable struct {
	html string
}

func (m *mutableRenderable) Markup() Markup {
	return HTML(m.html)
}
