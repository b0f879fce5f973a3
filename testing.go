package tmplcmp

import (
	"strings"

	"github.com/pthm/tmplcmp/lib/dom"
	"github.com/pthm/tmplcmp/lib/morph"
	"golang.org/x/net/html"
)

// TestResult holds the outcome of mounting or rendering a component in a
// test.
//
// Provides convenience methods for asserting on HTML content, the patches a
// render produced, and nodes under the mounted root.
type TestResult struct {
	HTML    string
	Root    *html.Node
	Patches morph.Patches
}

// Mountable is the lifecycle surface every component gets from embedding
// *Component[S].
type Mountable interface {
	Templater
	Attach(Target) (*html.Node, error)
	Render() (morph.Patches, error)
	Element() *html.Node
}

// TestMount attaches comp to the body of a fresh document and returns the
// mounted markup.
//
// Use this for unit tests of template output when the component does not
// need a shared document:
//
//	result, err := tmplcmp.TestMount(counter)
//	if !result.HTMLContains("<b>1</b>") {
//	    t.Fatal("missing count")
//	}
func TestMount(comp Mountable) (*TestResult, error) {
	return TestMountIn(NewDocument(), comp)
}

// TestMountIn attaches comp to the body of doc, for tests that reconcile
// onto server rendered markup:
//
//	doc, _ := tmplcmp.ParseDocument(strings.NewReader(page))
//	result, err := tmplcmp.TestMountIn(doc, counter)
func TestMountIn(doc *Document, comp Mountable) (*TestResult, error) {
	root, err := comp.Attach(InParent(doc.Body()))
	if err != nil {
		return nil, err
	}
	return &TestResult{
		HTML: dom.OuterHTML(root),
		Root: root,
	}, nil
}

// TestRender re-renders an attached component and returns the new markup
// with the patches that produced it:
//
//	counter.SetState(counterState{Count: 2})
//	result, err := tmplcmp.TestRender(counter)
//	if result.PatchCount(morph.PatchSetText) != 1 {
//	    t.Fatal("expected one text update")
//	}
func TestRender(comp Mountable) (*TestResult, error) {
	patches, err := comp.Render()
	if err != nil {
		return nil, err
	}
	root := comp.Element()
	return &TestResult{
		HTML:    dom.OuterHTML(root),
		Root:    root,
		Patches: patches,
	}, nil
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// Unchanged checks if the render made no changes.
func (r *TestResult) Unchanged() bool {
	return len(r.Patches) == 0
}

// HasPatch checks if the render produced at least one patch of op.
func (r *TestResult) HasPatch(op morph.PatchOp) bool {
	return r.Patches.Count(op) > 0
}

// PatchCount returns the number of patches of op.
func (r *TestResult) PatchCount(op morph.PatchOp) int {
	return r.Patches.Count(op)
}

// Find returns the first node under the root matching selector, or nil when
// nothing matches or the selector is invalid.
func (r *TestResult) Find(selector string) *html.Node {
	n, err := dom.Query(r.Root, selector)
	if err != nil {
		return nil
	}
	return n
}
