// Package filecmp builds components from template files on disk.
//
// A template file is HTML with {{name}} placeholders filled from a data map.
// Plain placeholders are escaped, {{raw:name}} inserts the value verbatim
// and {{safe:name}} inserts it after sanitizing. Dotted names walk nested
// maps:
//
//	<div class="card"><h2>{{title}}</h2>{{safe:user.bio}}</div>
package filecmp

import (
	"regexp"
	"strings"

	"github.com/pthm/tmplcmp"
	"github.com/spf13/cast"
)

var placeholder = regexp.MustCompile(`\{\{\s*(?:(raw|safe):)?([A-Za-z0-9_.-]+)\s*\}\}`)

type mode uint8

const (
	modeData mode = iota
	modeRaw
	modeSafe
)

type field struct {
	name string
	mode mode
}

// Template is a parsed template file.
type Template struct {
	literals []string
	fields   []field
}

// Parse splits text into literal fragments and placeholders.
func Parse(text string) *Template {
	t := &Template{}
	last := 0
	for _, m := range placeholder.FindAllStringSubmatchIndex(text, -1) {
		t.literals = append(t.literals, text[last:m[0]])
		f := field{name: text[m[4]:m[5]]}
		if m[2] >= 0 {
			switch text[m[2]:m[3]] {
			case "raw":
				f.mode = modeRaw
			case "safe":
				f.mode = modeSafe
			}
		}
		t.fields = append(t.fields, f)
		last = m[1]
	}
	t.literals = append(t.literals, text[last:])
	return t
}

// Fields returns the placeholder names in order of appearance.
func (t *Template) Fields() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.name
	}
	return names
}

// Execute fills the placeholders from data. Missing names render empty.
func (t *Template) Execute(data map[string]any) tmplcmp.Markup {
	values := make([]any, len(t.fields))
	for i, f := range t.fields {
		v := lookup(data, f.name)
		switch f.mode {
		case modeRaw:
			values[i] = tmplcmp.Raw(cast.ToString(v))
		case modeSafe:
			values[i] = tmplcmp.Sanitize(cast.ToString(v))
		default:
			values[i] = v
		}
	}
	return tmplcmp.Tmpl(t.literals, values...)
}

func lookup(data map[string]any, name string) any {
	var cur any = data
	for _, part := range strings.Split(name, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = m[part]; !ok {
			return nil
		}
	}
	return cur
}
