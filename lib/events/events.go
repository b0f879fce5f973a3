// Package events delegates synthetic DOM events over an html node tree.
//
// Handlers are registered on a root node, optionally filtered by a CSS
// selector. Dispatch bubbles an event from its target up through the
// ancestors; a delegated handler runs once for every node between the
// target and its root (root excluded) that matches its selector.
package events

import (
	"fmt"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Event is a synthetic DOM event.
type Event struct {
	Type   string
	Target *html.Node
	// CurrentTarget is the node the running handler matched: the root for a
	// direct handler, the matching descendant for a delegated one.
	CurrentTarget *html.Node
	Detail        any

	stopped bool
}

// StopPropagation stops the event from bubbling past the current node once
// that node's handlers have run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Handler handles an event.
type Handler func(*Event)

type listener struct {
	event    string
	selector cascadia.Selector
	handler  Handler
}

// Delegator holds the listeners of one document.
type Delegator struct {
	mu        sync.RWMutex
	listeners map[*html.Node][]*listener
}

// New creates an empty Delegator.
func New() *Delegator {
	return &Delegator{listeners: make(map[*html.Node][]*listener)}
}

// On registers handler for events of type event on root. With a selector the
// handler is delegated: it fires for descendants of root matching selector.
// An empty selector binds the handler to root itself.
func (d *Delegator) On(root *html.Node, event, selector string, handler Handler) error {
	l := &listener{event: event, handler: handler}
	if selector != "" {
		sel, err := cascadia.Compile(selector)
		if err != nil {
			return fmt.Errorf("events: selector %q: %w", selector, err)
		}
		l.selector = sel
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[root] = append(d.listeners[root], l)
	return nil
}

// Off removes every listener for event on root and returns how many were
// removed. An empty event removes all of root's listeners.
func (d *Delegator) Off(root *html.Node, event string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.listeners[root][:0]
	removed := 0
	for _, l := range d.listeners[root] {
		if event == "" || l.event == event {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	if len(kept) == 0 {
		delete(d.listeners, root)
	} else {
		d.listeners[root] = kept
	}
	return removed
}

// Move transfers the listeners registered on from to to. Used when a
// component's root node is replaced during a re-render.
func (d *Delegator) Move(from, to *html.Node) {
	if from == to {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if ls, ok := d.listeners[from]; ok {
		d.listeners[to] = append(d.listeners[to], ls...)
		delete(d.listeners, from)
	}
}

// Count returns the number of listeners registered on root.
func (d *Delegator) Count(root *html.Node) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[root])
}

// Dispatch fires an event of the given type at target and returns the
// number of handler invocations.
func (d *Delegator) Dispatch(target *html.Node, eventType string, detail any) int {
	e := &Event{Type: eventType, Target: target, Detail: detail}
	calls := 0

	for node := target; node != nil; node = node.Parent {
		for _, l := range d.snapshot(node, eventType) {
			if l.selector == nil {
				e.CurrentTarget = node
				l.handler(e)
				calls++
				continue
			}
			for t := target; t != nil && t != node; t = t.Parent {
				if l.selector.Match(t) {
					e.CurrentTarget = t
					l.handler(e)
					calls++
				}
			}
		}
		if e.stopped {
			break
		}
	}
	return calls
}

func (d *Delegator) snapshot(node *html.Node, eventType string) []*listener {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []*listener
	for _, l := range d.listeners[node] {
		if l.event == eventType {
			out = append(out, l)
		}
	}
	return out
}
