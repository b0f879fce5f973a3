package tmplcmp

import "errors"

// Sentinel errors for component operations.
var (
	ErrMultipleRoots   = errors.New("tmplcmp: components must have exactly one top-level node")
	ErrEmptyTemplate   = errors.New("tmplcmp: template produced no nodes")
	ErrNotAttached     = errors.New("tmplcmp: component has not been attached to the document yet")
	ErrNoDocument      = errors.New("tmplcmp: component has no document")
	ErrInvalidTarget   = errors.New("tmplcmp: attach target has neither a parent nor a node to replace")
	ErrInvalidSelector = errors.New("tmplcmp: invalid selector")
)

// IsMultipleRoots checks if err is a multi-root template error.
func IsMultipleRoots(err error) bool {
	return errors.Is(err, ErrMultipleRoots)
}

// IsNotAttached checks if err reports use of a component before attach.
func IsNotAttached(err error) bool {
	return errors.Is(err, ErrNotAttached)
}

// IsStructural checks if err is a template structure error: multiple
// top-level nodes or none at all.
func IsStructural(err error) bool {
	return errors.Is(err, ErrMultipleRoots) || errors.Is(err, ErrEmptyTemplate)
}
