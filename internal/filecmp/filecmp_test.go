package filecmp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm/tmplcmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Execute(t *testing.T) {
	tmpl := Parse(`<div class="card"><h2>{{ title }}</h2>{{raw:body}}<p>{{user.name}}</p>{{missing}}{{safe:bio}}</div>`)

	assert.Equal(t, []string{"title", "body", "user.name", "missing", "bio"}, tmpl.Fields())

	got := tmpl.Execute(map[string]any{
		"title": "<Hi>",
		"body":  "<i>raw</i>",
		"user":  map[string]any{"name": "Bob & Al"},
		"bio":   `<b onclick="x()">bold</b>`,
	})
	want := `<div class="card"><h2>&lt;Hi&gt;</h2><i>raw</i><p>Bob &amp; Al</p><b>bold</b></div>`
	assert.Equal(t, want, got.String())
}

func TestTemplate_NoPlaceholders(t *testing.T) {
	tmpl := Parse("<hr>")
	assert.Empty(t, tmpl.Fields())
	assert.Equal(t, "<hr>", tmpl.Execute(nil).String())
}

func TestLookup(t *testing.T) {
	data := map[string]any{"a": map[string]any{"b": 1}, "s": "x"}
	assert.Equal(t, 1, lookup(data, "a.b"))
	assert.Nil(t, lookup(data, "a.c"))
	assert.Nil(t, lookup(data, "s.t"))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "card.html", `<div class="card">{{title}}</div>`)

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "card", src.Kind)
	assert.Empty(t, src.CSS)
	assert.Equal(t, []string{path}, src.Paths())

	cssPath := writeFile(t, dir, "card.css", ".card { color: red; }")
	src, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".card { color: red; }", src.CSS)
	assert.Equal(t, []string{path, cssPath}, src.Paths())

	_, err = Load(filepath.Join(dir, "missing.html"))
	assert.Error(t, err)
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.yaml", "title: Hello\nuser:\n  name: Bob\ncount: 3\n")

	data, err := LoadData(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello", data["title"])
	assert.Equal(t, 3, data["count"])
	assert.Equal(t, "Bob", lookup(data, "user.name"))

	empty, err := LoadData("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	bad := writeFile(t, dir, "bad.yaml", "- a\n- b\n")
	_, err = LoadData(bad)
	assert.Error(t, err)
}

func TestComponent_MountAndReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "greeting.html", `<p class="greeting">Hello, {{name}}</p>`)
	writeFile(t, dir, "greeting.css", ".greeting { margin: 0; }")

	src, err := Load(path)
	require.NoError(t, err)

	doc := tmplcmp.NewDocument()
	c, err := New(src, map[string]any{"name": "<Bob>"}, tmplcmp.WithParent(doc, doc.Body()))
	require.NoError(t, err)

	assert.Equal(t, `<p class="greeting">Hello, &lt;Bob&gt;</p>`, c.HTML())
	assert.True(t, c.Attached())
	assert.True(t, doc.Styles.Has(tmplcmp.StyleID("greeting")))

	writeFile(t, dir, "greeting.html", `<p class="greeting">Bye, {{name}}</p>`)
	next, err := Load(path)
	require.NoError(t, err)
	c.Reload(next)

	patches, err := c.Render()
	require.NoError(t, err)
	assert.Len(t, patches, 1)
	assert.True(t, strings.Contains(doc.String(), "Bye, &lt;Bob&gt;"))
	assert.Same(t, next, c.Source())
}
