// Package dom models a browser document as a golang.org/x/net/html node tree.
//
// A Document owns one parsed tree with <head> and <body> elements. Nodes are
// plain *html.Node values, so anything that speaks x/net/html can walk or
// render them. Lookups use CSS selectors compiled by cascadia.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const blankPage = `<!DOCTYPE html><html><head></head><body></body></html>`

// Document is a parsed HTML document.
type Document struct {
	root *html.Node
	head *html.Node
	body *html.Node
}

// New returns an empty document.
func New() *Document {
	doc, err := Parse(strings.NewReader(blankPage))
	if err != nil {
		panic(fmt.Sprintf("dom: parsing blank page: %v", err))
	}
	return doc
}

// Parse reads a full HTML page. The parser always synthesizes <head> and
// <body>, so both are present on the result.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := &Document{root: root}
	doc.head = findElement(root, atom.Head)
	doc.body = findElement(root, atom.Body)
	if doc.head == nil || doc.body == nil {
		return nil, fmt.Errorf("dom: document has no head or body")
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Head returns the <head> element.
func (d *Document) Head() *html.Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.body }

// Contains reports whether n is attached to this document.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// String renders the whole document.
func (d *Document) String() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, d.root)
	return buf.String()
}

// ElementByID returns the first element under root (root included) whose id
// attribute equals id.
func ElementByID(root *html.Node, id string) *html.Node {
	if root == nil || id == "" {
		return nil
	}
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && Attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// FirstByClass returns the first descendant of root carrying every class in
// the whitespace separated list. An empty list matches nothing.
func FirstByClass(root *html.Node, classes string) *html.Node {
	want := strings.Fields(classes)
	if root == nil || len(want) == 0 {
		return nil
	}
	var found *html.Node
	for c := root.FirstChild; c != nil && found == nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			if n.Type == html.ElementNode && hasClasses(n, want) {
				found = n
				return false
			}
			return true
		})
	}
	return found
}

// Query returns the first descendant of root matching the CSS selector.
func Query(root *html.Node, selector string) (*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("dom: selector %q: %w", selector, err)
	}
	return cascadia.Query(root, sel), nil
}

// QueryAll returns every descendant of root matching the CSS selector.
func QueryAll(root *html.Node, selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("dom: selector %q: %w", selector, err)
	}
	return cascadia.QueryAll(root, sel), nil
}

// OuterHTML renders n including its own tag.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Element builds a detached element with the given attributes, given as
// alternating key/value pairs.
func Element(tag string, kv ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		SetAttr(n, kv[i], kv[i+1])
	}
	return n
}

// Text builds a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func findElement(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits n and its descendants depth first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func hasClasses(n *html.Node, want []string) bool {
	have := strings.Fields(Attr(n, "class"))
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
