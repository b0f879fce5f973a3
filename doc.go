// Package tmplcmp provides a small component runtime for building HTML
// interfaces from Go values, modeled on a browser document.
//
// tmplcmp pairs an escaping template builder with a DOM diff: components
// produce markup from their state, and re-rendering morphs the mounted node
// tree in place instead of replacing it, so node identity, listeners and
// externally managed subtrees survive updates.
//
// # Templates
//
// Tmpl and H build Markup from literal fragments and interpolated values.
// Plain data is escaped; Markup, nested components and templ components are
// inserted verbatim:
//
//	tmplcmp.H(`<div>Hello, {}</div>`, "<b>Bob</b>")
//	// <div>Hello, &lt;b&gt;Bob&lt;/b&gt;</div>
//
// nil interpolates as the empty string. Untrusted HTML can be turned into
// Markup with Sanitize.
//
// # Components
//
// Components embed *Component[S] where S is the state type, override
// Template, and bind themselves with Init:
//
//	type Counter struct {
//	    *tmplcmp.Component[CounterState]
//	}
//
//	func (c *Counter) Template() tmplcmp.Markup {
//	    return tmplcmp.H(`<div class="counter"><b>{}</b></div>`, c.State().Count)
//	}
//
// A component's template must produce exactly one top-level node.
// Templates with more fail with ErrMultipleRoots and nothing is mounted.
//
// The lifecycle is:
//   - Attach mounts the component, reconciling onto a matching node already
//     in the document (same id, or same classes when there is no id)
//   - Render regenerates the template and morphs the mounted root, returning
//     the patches it applied
//   - InitClient attaches under a parent and injects the component's scoped
//     stylesheet once per document
//
// # No-render regions
//
// Elements carrying the norender attribute are left alone by Render: their
// attributes and children are not touched, so widgets managed by other code
// can live inside a component. WithNoRenderAttr changes the marker.
//
// # Events and queries
//
// On delegates event handlers to descendants of the mounted root matching a
// CSS selector, and Find queries under it. Document.Dispatch fires synthetic
// events for tests and tooling.
//
// # Subpackages
//
//   - lib/dom: document model over golang.org/x/net/html
//   - lib/morph: the DOM diff and its patch log
//   - lib/css: stylesheet namespacing
//   - lib/events: event delegation
//   - lib/encoding: signed and encrypted patch frames for streaming
package tmplcmp
