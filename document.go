package tmplcmp

import (
	"io"

	"github.com/pthm/tmplcmp/lib/dom"
	"github.com/pthm/tmplcmp/lib/events"
	"golang.org/x/net/html"
)

// Document is the shared state components mount into: the node tree, the
// stylesheet registry and the event delegator. A document is long-lived;
// create one per page and share it between components.
type Document struct {
	*dom.Document

	Styles *StyleRegistry
	Events *events.Delegator
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return WrapDocument(dom.New())
}

// ParseDocument reads an existing page. Components attached to it reconcile
// onto matching nodes instead of appending duplicates.
func ParseDocument(r io.Reader) (*Document, error) {
	d, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	return WrapDocument(d), nil
}

// WrapDocument adopts a parsed dom.Document.
func WrapDocument(d *dom.Document) *Document {
	return &Document{
		Document: d,
		Styles:   NewStyleRegistry(d),
		Events:   events.New(),
	}
}

// Dispatch fires a synthetic event at target, running delegated handlers
// registered with Component.On. It returns the number of handler calls.
func (d *Document) Dispatch(target *html.Node, eventType string, detail any) int {
	return d.Events.Dispatch(target, eventType, detail)
}
