package tmplcmp

import (
	"sort"
	"strings"
	"sync"

	"github.com/pthm/tmplcmp/lib/css"
	"github.com/pthm/tmplcmp/lib/dom"
	"golang.org/x/net/html"
)

// StyleRegistry inserts component stylesheets into a document's <head> at
// most once per id, however many instances of a component mount.
type StyleRegistry struct {
	mu       sync.Mutex
	doc      *dom.Document
	injected map[string]*html.Node
}

// NewStyleRegistry creates a registry for doc.
func NewStyleRegistry(doc *dom.Document) *StyleRegistry {
	return &StyleRegistry{
		doc:      doc,
		injected: make(map[string]*html.Node),
	}
}

// StyleID returns the id of the <style> element for a component kind.
func StyleID(kind string) string {
	return "css-" + css.SanitizeID(kind)
}

// Inject adds a <style id="css-<kind>"> element holding text, with every
// selector scoped under scope when scope is not empty. It returns the style
// element and whether it was inserted by this call. Blank stylesheets are
// not inserted.
func (r *StyleRegistry) Inject(kind, scope, text string) (*html.Node, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	id := StyleID(kind)

	r.mu.Lock()
	defer r.mu.Unlock()

	if n := r.lookup(id); n != nil {
		return n, false
	}

	style := dom.Element("style", "type", "text/css", "id", id)
	style.AppendChild(dom.Text(css.Namespace(scope, text)))
	r.doc.Head().AppendChild(style)
	r.injected[id] = style
	return style, true
}

// Link adds a <link rel="stylesheet"> for an external sheet, keyed by the
// sanitized path. It returns the link element and whether it was inserted
// by this call.
func (r *StyleRegistry) Link(path string) (*html.Node, bool) {
	id := css.SanitizeID(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if n := r.lookup(id); n != nil {
		return n, false
	}

	link := dom.Element("link", "type", "text/css", "rel", "stylesheet", "href", path, "id", id)
	r.doc.Head().AppendChild(link)
	r.injected[id] = link
	return link, true
}

// Has reports whether a sheet with the given id is present.
func (r *StyleRegistry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(id) != nil
}

// IDs returns the ids of the sheets inserted through this registry.
func (r *StyleRegistry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.injected))
	for id := range r.injected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// lookup finds a sheet inserted by this registry or already present in the
// parsed page.
func (r *StyleRegistry) lookup(id string) *html.Node {
	if n, ok := r.injected[id]; ok {
		return n
	}
	if n := dom.ElementByID(r.doc.Head(), id); n != nil {
		r.injected[id] = n
		return n
	}
	return nil
}
