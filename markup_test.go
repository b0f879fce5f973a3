package tmplcmp

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestMarkup(t *testing.T) {
	m := HTML("<b>x</b>")
	if m.String() != "<b>x</b>" {
		t.Errorf("String() = %q, want %q", m.String(), "<b>x</b>")
	}
	if m.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if !(Markup{}).IsEmpty() {
		t.Error("zero Markup should be empty")
	}
	if m.Markup() != m {
		t.Error("Markup() should return itself")
	}

	var buf bytes.Buffer
	if err := m.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if buf.String() != "<b>x</b>" {
		t.Errorf("Render() wrote %q, want %q", buf.String(), "<b>x</b>")
	}
}

func TestClassify(t *testing.T) {
	var nilRenderable *mutableRenderable

	tests := []struct {
		name string
		in   any
		kind ValueKind
		text string
	}{
		{"string", "<x>", KindData, "&lt;x&gt;"},
		{"nil", nil, KindData, ""},
		{"int", 7, KindData, "7"},
		{"markup", HTML("<x>"), KindRaw, "<x>"},
		{"renderable", &mutableRenderable{html: "<y>"}, KindNested, "<y>"},
		{"nil renderable", nilRenderable, KindNested, ""},
		{"templ", italic("z"), KindRaw, "<i>z</i>"},
		{"tagged passes through", Raw("<r>"), KindRaw, "<r>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.in)
			if v.Kind() != tt.kind {
				t.Errorf("Classify(%v).Kind() = %v, want %v", tt.in, v.Kind(), tt.kind)
			}
			if v.Text() != tt.text {
				t.Errorf("Classify(%v).Text() = %q, want %q", tt.in, v.Text(), tt.text)
			}
		})
	}
}

func TestValueKindString(t *testing.T) {
	tests := []struct {
		kind ValueKind
		want string
	}{
		{KindData, "Data"},
		{KindRaw, "Raw"},
		{KindNested, "Nested"},
		{ValueKind(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ValueKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(`<p onclick="steal()">hi <script>alert(1)</script><a href="javascript:x()">l</a></p>`).String()

	for _, bad := range []string{"onclick", "<script", "javascript:"} {
		if strings.Contains(got, bad) {
			t.Errorf("Sanitize() = %q, should not contain %q", got, bad)
		}
	}
	if !strings.Contains(got, "<p>hi") {
		t.Errorf("Sanitize() = %q, should keep the paragraph", got)
	}
}
