package tmplcmp

import "golang.org/x/net/html"

// Target says where Attach puts a component.
type Target struct {
	parent  *html.Node
	replace *html.Node
}

// InParent targets a container. Attach reconciles onto an existing child
// with the same id (or, without an id, the same classes) and otherwise
// appends.
func InParent(parent *html.Node) Target {
	return Target{parent: parent}
}

// Replacing targets a specific node. Attach always reconciles onto it.
func Replacing(node *html.Node) Target {
	return Target{replace: node}
}
