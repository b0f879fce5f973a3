// Package morph reconciles a live HTML node tree against a target tree.
//
// Morph walks both trees together and mutates the live one in place until it
// renders the same as the target. Nodes that match (same kind, same tag,
// same id) are updated rather than recreated, so their identity and anything
// keyed on them survives. Every mutation is recorded as a Patch.
//
// Children are matched by id when both sides carry one and positionally
// otherwise. There is no keyed reordering beyond ids.
package morph

import (
	"errors"
	"strings"

	"github.com/pthm/tmplcmp/lib/dom"
	"golang.org/x/net/html"
)

// ErrNotSingleRoot is returned by MorphHTML when the markup does not parse to
// exactly one top-level node.
var ErrNotSingleRoot = errors.New("morph: markup must contain exactly one top-level node")

// Options tunes a Morph call.
type Options struct {
	// OnBeforeElUpdated is called for every matched element pair before it
	// is updated, the root included. Returning false leaves the live element's
	// attributes and children untouched; it still counts as matched.
	OnBeforeElUpdated func(from, to *html.Node) bool

	// OnBeforeNodeDiscarded is called before a live node is removed or
	// replaced. Returning false keeps it in the tree.
	OnBeforeNodeDiscarded func(n *html.Node) bool

	// ChildrenOnly morphs the children of from against the children of to
	// and leaves from itself alone.
	ChildrenOnly bool
}

// Morph mutates from until it matches to and returns the node that now holds
// the result. That is from itself unless the two roots are of different
// kinds, in which case to replaces from in its parent and is returned.
//
// The to tree is consumed: its nodes may be moved into from.
func Morph(from, to *html.Node, opts Options) (*html.Node, Patches) {
	m := &morpher{opts: opts, root: from}

	if opts.ChildrenOnly {
		m.children(from, to)
		return from, m.patches
	}
	if !sameKind(from, to) {
		return m.replaceRoot(from, to), m.patches
	}
	m.node(from, to)
	return from, m.patches
}

// MorphHTML parses markup into a single node and morphs from against it.
func MorphHTML(from *html.Node, markup string, opts Options) (*html.Node, Patches, error) {
	nodes, err := dom.Fragment(strings.TrimSpace(markup))
	if err != nil {
		return from, nil, err
	}
	if len(nodes) != 1 {
		return from, nil, ErrNotSingleRoot
	}
	n, patches := Morph(from, nodes[0], opts)
	return n, patches, nil
}

type morpher struct {
	opts    Options
	root    *html.Node
	patches Patches
}

func (m *morpher) node(from, to *html.Node) {
	switch from.Type {
	case html.ElementNode:
		if m.opts.OnBeforeElUpdated != nil && !m.opts.OnBeforeElUpdated(from, to) {
			return
		}
		m.attrs(from, to)
		m.children(from, to)
	case html.TextNode, html.CommentNode, html.DoctypeNode:
		if from.Data != to.Data {
			from.Data = to.Data
			m.add(Patch{Op: PatchSetText, Path: m.path(from), Value: to.Data})
		}
	default:
		m.children(from, to)
	}
}

func (m *morpher) attrs(from, to *html.Node) {
	for _, a := range to.Attr {
		if v, ok := lookupAttr(from, a.Namespace, a.Key); ok && v == a.Val {
			continue
		}
		setAttr(from, a)
		m.add(Patch{Op: PatchSetAttr, Path: m.path(from), Key: a.Key, Value: a.Val})
	}

	kept := make([]html.Attribute, 0, len(from.Attr))
	for _, a := range from.Attr {
		if _, ok := lookupAttr(to, a.Namespace, a.Key); ok {
			kept = append(kept, a)
			continue
		}
		m.add(Patch{Op: PatchRemoveAttr, Path: m.path(from), Key: a.Key})
	}
	from.Attr = kept
}

func (m *morpher) children(from, to *html.Node) {
	var targets []*html.Node
	for c := to.FirstChild; c != nil; c = c.NextSibling {
		targets = append(targets, c)
	}

	keyed := make(map[string]*html.Node)
	for c := from.FirstChild; c != nil; c = c.NextSibling {
		if id := nodeID(c); id != "" {
			if _, dup := keyed[id]; !dup {
				keyed[id] = c
			}
		}
	}
	// claims maps a target to the live child it takes over by id. Each live
	// child is claimed at most once, and only by a target it matches. wanted
	// keeps claimed children out of the positional pass.
	claims := make(map[*html.Node]*html.Node)
	wanted := make(map[*html.Node]bool)
	for _, t := range targets {
		id := nodeID(t)
		if id == "" {
			continue
		}
		if f, ok := keyed[id]; ok && !wanted[f] && matches(f, t) {
			claims[t] = f
			wanted[f] = true
		}
	}

	cur := from.FirstChild
	for _, t := range targets {
		if f, ok := claims[t]; ok {
			if f == cur {
				cur = cur.NextSibling
			} else {
				m.move(from, f, cur)
			}
			delete(wanted, f)
			m.node(f, t)
			continue
		}

		switch {
		case cur == nil:
			m.insert(from, t, nil)
		case wanted[cur]:
			m.insert(from, t, cur)
		case matches(cur, t):
			matched := cur
			cur = cur.NextSibling
			m.node(matched, t)
		default:
			next := cur.NextSibling
			if m.discardable(cur) {
				m.replace(cur, t)
				cur = next
			} else {
				m.insert(from, t, cur)
			}
		}
	}

	for cur != nil {
		next := cur.NextSibling
		if m.discardable(cur) {
			m.remove(cur)
		}
		cur = next
	}
}

func (m *morpher) discardable(n *html.Node) bool {
	return m.opts.OnBeforeNodeDiscarded == nil || m.opts.OnBeforeNodeDiscarded(n)
}

func (m *morpher) insert(parent, n, before *html.Node) {
	dom.Detach(n)
	parent.InsertBefore(n, before)
	m.add(Patch{Op: PatchInsertNode, Path: m.path(parent), Index: index(n), Value: dom.OuterHTML(n)})
}

func (m *morpher) move(parent, n, before *html.Node) {
	path := m.path(n)
	parent.RemoveChild(n)
	parent.InsertBefore(n, before)
	m.add(Patch{Op: PatchMoveNode, Path: path, Index: index(n)})
}

func (m *morpher) remove(n *html.Node) {
	path := m.path(n)
	n.Parent.RemoveChild(n)
	m.add(Patch{Op: PatchRemoveNode, Path: path})
}

func (m *morpher) replace(old, n *html.Node) {
	path := m.path(old)
	dom.Detach(n)
	old.Parent.InsertBefore(n, old)
	old.Parent.RemoveChild(old)
	m.add(Patch{Op: PatchReplaceNode, Path: path, Value: dom.OuterHTML(n)})
}

func (m *morpher) replaceRoot(from, to *html.Node) *html.Node {
	dom.Detach(to)
	if parent := from.Parent; parent != nil {
		parent.InsertBefore(to, from)
		parent.RemoveChild(from)
	}
	m.add(Patch{Op: PatchReplaceNode, Path: []int{}, Value: dom.OuterHTML(to)})
	return to
}

func (m *morpher) add(p Patch) {
	m.patches = append(m.patches, p)
}

// path returns the child index path from the morph root to n.
func (m *morpher) path(n *html.Node) []int {
	var rev []int
	for x := n; x != nil && x != m.root; x = x.Parent {
		rev = append(rev, index(x))
	}
	path := make([]int, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

func index(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		i++
	}
	return i
}

// sameKind reports whether a can be updated into b rather than replaced.
func sameKind(a, b *html.Node) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Type == html.ElementNode {
		return a.Data == b.Data && a.Namespace == b.Namespace
	}
	return true
}

// matches is sameKind plus equal ids, used when pairing siblings.
func matches(a, b *html.Node) bool {
	return sameKind(a, b) && nodeID(a) == nodeID(b)
}

func nodeID(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	return dom.Attr(n, "id")
}

func lookupAttr(n *html.Node, ns, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == ns && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, attr html.Attribute) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == attr.Namespace && n.Attr[i].Key == attr.Key {
			n.Attr[i].Val = attr.Val
			return
		}
	}
	n.Attr = append(n.Attr, attr)
}
