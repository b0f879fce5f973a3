package tmplcmp

import (
	"fmt"
	"strings"

	"github.com/pthm/tmplcmp/lib/css"
	"github.com/pthm/tmplcmp/lib/dom"
	"github.com/pthm/tmplcmp/lib/events"
	"github.com/pthm/tmplcmp/lib/morph"
	"golang.org/x/net/html"
)

// Templater produces a component's markup from its current state. Template
// must only read state; it must not touch the document.
type Templater interface {
	Template() Markup
}

// Styler is implemented by components that ship a stylesheet.
type Styler interface {
	CSS() string
}

// placeholder is the markup of a component that never overrode Template.
var placeholder = HTML(`<div>Template placeholder</div>`)

// Component[S] is the base type embedded by user components. S is the state
// payload type.
//
// Components embed *Component[S], override Template (and optionally CSS),
// and call Init with themselves so the base type can reach the override:
//
//	type Greeting struct {
//	    *tmplcmp.Component[GreetingState]
//	}
//
//	func NewGreeting(doc *tmplcmp.Document, parent *html.Node) (*Greeting, error) {
//	    g := &Greeting{Component: tmplcmp.New("greeting", GreetingState{Name: "Bob"},
//	        tmplcmp.WithParent(doc, parent))}
//	    return g, g.Init(g)
//	}
//
//	func (g *Greeting) Template() tmplcmp.Markup {
//	    return tmplcmp.H(`<div class="greeting">Hello, {}</div>`, g.State().Name)
//	}
//
// A component starts unattached. Attach mounts it, after which Render
// re-runs Template and morphs the mounted root in place. There is no detach;
// the mounted root lives as long as the document does.
type Component[S any] struct {
	kind  string
	state S
	owner Templater
	root  *html.Node
	opts  options
}

// New creates an unattached component. kind is the component's namespace
// label, used for stylesheet ids and log records.
func New[S any](kind string, state S, opts ...Option) *Component[S] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Component[S]{
		kind:  kind,
		state: state,
		opts:  o,
	}
}

// Init binds the embedding component so its Template and CSS overrides are
// used. When the component was created WithParent, Init also attaches it
// and loads its stylesheet.
func (c *Component[S]) Init(owner Templater) error {
	c.owner = owner
	if c.opts.parent != nil {
		return c.InitClient(c.opts.doc, c.opts.parent)
	}
	return nil
}

// Kind returns the component's namespace label.
func (c *Component[S]) Kind() string {
	return c.kind
}

// State returns the state payload.
func (c *Component[S]) State() S {
	return c.state
}

// SetState replaces the state payload. Call Render to reflect it.
func (c *Component[S]) SetState(state S) {
	c.state = state
}

// Document returns the document the component was given, if any.
func (c *Component[S]) Document() *Document {
	return c.opts.doc
}

// Element returns the mounted root, or nil before attach.
func (c *Component[S]) Element() *html.Node {
	return c.root
}

// Attached reports whether the component has a mounted root.
func (c *Component[S]) Attached() bool {
	return c.root != nil
}

// Template returns placeholder markup. Embedding components override it.
func (c *Component[S]) Template() Markup {
	return placeholder
}

// CSS returns no stylesheet. Embedding components may override it.
func (c *Component[S]) CSS() string {
	return ""
}

// Markup returns the owner's current template, making every component a
// Renderable that can be nested in another component's template.
func (c *Component[S]) Markup() Markup {
	return c.template()
}

// HTML returns the text of the owner's current template.
func (c *Component[S]) HTML() string {
	return c.template().String()
}

func (c *Component[S]) template() Markup {
	if c.owner == nil {
		return c.Template()
	}
	return c.owner.Template()
}

// Materialize parses markup text into one detached node. Surrounding
// whitespace is ignored. Markup with more than one top-level node fails with
// ErrMultipleRoots and markup with none with ErrEmptyTemplate.
func (c *Component[S]) Materialize(text string) (*html.Node, error) {
	nodes, err := dom.Fragment(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("tmplcmp: parsing %s template: %w", c.kind, err)
	}
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrEmptyTemplate, c.kind)
	case 1:
		return nodes[0], nil
	default:
		return nil, fmt.Errorf("%w: %s template has %d", ErrMultipleRoots, c.kind, len(nodes))
	}
}

// Attach mounts the component at t and returns the mounted root.
//
// For InParent targets an existing node under the parent with the new
// node's id (or, when it has no id, its class list) is reconciled in place
// and adopted; without one the new node is appended. For Replacing targets
// the given node is always reconciled. The template is materialized before
// anything is mutated, so a failing template leaves the document untouched.
func (c *Component[S]) Attach(t Target) (*html.Node, error) {
	if t.parent == nil && t.replace == nil {
		return nil, ErrInvalidTarget
	}
	node, err := c.Materialize(c.HTML())
	if err != nil {
		return nil, err
	}

	var patches morph.Patches
	mode := "replace"
	switch {
	case t.parent != nil:
		if existing := existingNode(t.parent, node); existing != nil {
			mode = "reconcile"
			c.root, patches = c.reconcile(existing, node, morph.Options{})
		} else {
			mode = "append"
			t.parent.AppendChild(node)
			c.root = node
		}
	default:
		c.root, patches = c.reconcile(t.replace, node, morph.Options{})
	}

	c.opts.logger.Debug("component attached",
		"kind", c.kind,
		"mode", mode,
		"patches", len(patches),
	)
	return c.root, nil
}

// Render regenerates the template and morphs the mounted root to match it,
// skipping elements that carry the no-render marker. It returns the changes
// made; rendering unchanged state returns none.
func (c *Component[S]) Render() (morph.Patches, error) {
	if c.root == nil {
		return nil, ErrNotAttached
	}
	node, err := c.Materialize(c.HTML())
	if err != nil {
		return nil, err
	}

	var patches morph.Patches
	c.root, patches = c.reconcile(c.root, node, morph.Options{
		OnBeforeElUpdated: NoRenderGuard(c.opts.noRenderAttr),
	})

	c.opts.logger.Debug("component rendered",
		"kind", c.kind,
		"patches", len(patches),
		"structural", patches.Structural(),
	)
	return patches, nil
}

// reconcile morphs live into next and keeps delegated listeners on the root
// when morph had to replace it.
func (c *Component[S]) reconcile(live, next *html.Node, opts morph.Options) (*html.Node, morph.Patches) {
	root, patches := morph.Morph(live, next, opts)
	if root != live && c.opts.doc != nil {
		c.opts.doc.Events.Move(live, root)
	}
	return root, patches
}

// InitClient attaches the component under parent in doc and loads its
// stylesheet. It is what Init runs for components created WithParent.
func (c *Component[S]) InitClient(doc *Document, parent *html.Node) error {
	if doc != nil {
		c.opts.doc = doc
	}
	if _, err := c.Attach(InParent(parent)); err != nil {
		return err
	}
	return c.LoadCSS()
}

// LoadCSS injects the owner's stylesheet into the document head, scoped to
// the mount point. Each component kind is injected once per document.
func (c *Component[S]) LoadCSS() error {
	if c.root == nil {
		return ErrNotAttached
	}
	if c.opts.doc == nil {
		return ErrNoDocument
	}

	text := c.CSS()
	if s, ok := c.owner.(Styler); ok {
		text = s.CSS()
	}
	if _, inserted := c.opts.doc.Styles.Inject(c.kind, css.Selector(c.root.Parent), text); inserted {
		c.opts.logger.Debug("stylesheet injected", "kind", c.kind, "id", StyleID(c.kind))
	}
	return nil
}

// LoadRemoteCSS links an external stylesheet once per document.
func (c *Component[S]) LoadRemoteCSS(path string) error {
	if c.opts.doc == nil {
		return ErrNoDocument
	}
	c.opts.doc.Styles.Link(path)
	return nil
}

// On registers handler for events of type event fired at any descendant of
// the mounted root matching selector. An empty selector binds to the root.
func (c *Component[S]) On(event, selector string, handler events.Handler) error {
	if c.root == nil {
		return ErrNotAttached
	}
	if c.opts.doc == nil {
		return ErrNoDocument
	}
	if err := c.opts.doc.Events.On(c.root, event, selector, handler); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSelector, err)
	}
	return nil
}

// Find returns the first descendant of the mounted root matching selector,
// or nil when nothing matches.
func (c *Component[S]) Find(selector string) (*html.Node, error) {
	if c.root == nil {
		return nil, ErrNotAttached
	}
	n, err := dom.Query(c.root, selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
	}
	return n, nil
}

// existingNode finds the node under parent that a freshly materialized
// component node should reconcile onto.
func existingNode(parent, n *html.Node) *html.Node {
	if n.Type != html.ElementNode {
		return nil
	}
	if id := dom.Attr(n, "id"); id != "" {
		if e := dom.ElementByID(parent, id); e != parent {
			return e
		}
		return nil
	}
	return dom.FirstByClass(parent, dom.Attr(n, "class"))
}
