package morph

import (
	"fmt"
	"strings"
)

// PatchOp is the kind of change applied to the live tree.
type PatchOp uint8

const (
	PatchSetAttr     PatchOp = 0x01 // Set or update an attribute
	PatchRemoveAttr  PatchOp = 0x02 // Remove an attribute
	PatchSetText     PatchOp = 0x03 // Update text or comment data
	PatchInsertNode  PatchOp = 0x04 // Insert a new node
	PatchRemoveNode  PatchOp = 0x05 // Remove a node
	PatchReplaceNode PatchOp = 0x06 // Replace a node of a different kind
	PatchMoveNode    PatchOp = 0x07 // Move a matched node to a new position
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchSetText:
		return "SetText"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	case PatchMoveNode:
		return "MoveNode"
	default:
		return "Unknown"
	}
}

// Patch records one mutation made by Morph.
//
// Path is the child index path from the morphed root to the node the patch
// applies to, taken at the moment the patch was made; applying patches in
// order against a copy of the original tree reproduces the result. For
// InsertNode Path names the parent and Index the insert position; for
// MoveNode Index is the new position within the same parent.
type Patch struct {
	Op    PatchOp `msgpack:"o"`
	Path  []int   `msgpack:"p"`
	Key   string  `msgpack:"k,omitempty"`
	Value string  `msgpack:"v,omitempty"`
	Index int     `msgpack:"i,omitempty"`
}

// String renders the patch in a compact debug form.
func (p Patch) String() string {
	path := make([]string, len(p.Path))
	for i, n := range p.Path {
		path[i] = fmt.Sprint(n)
	}
	s := p.Op.String() + " /" + strings.Join(path, "/")
	switch p.Op {
	case PatchSetAttr:
		s += fmt.Sprintf(" %s=%q", p.Key, p.Value)
	case PatchRemoveAttr:
		s += " " + p.Key
	case PatchSetText, PatchReplaceNode:
		s += fmt.Sprintf(" %q", p.Value)
	case PatchInsertNode:
		s += fmt.Sprintf(" @%d %q", p.Index, p.Value)
	case PatchMoveNode:
		s += fmt.Sprintf(" ->%d", p.Index)
	}
	return s
}

// Patches is the ordered change log of one Morph call.
type Patches []Patch

// Structural reports whether nodes were inserted, removed, replaced or moved.
func (ps Patches) Structural() bool {
	for _, p := range ps {
		switch p.Op {
		case PatchInsertNode, PatchRemoveNode, PatchReplaceNode, PatchMoveNode:
			return true
		}
	}
	return false
}

// Count returns the number of patches with the given op.
func (ps Patches) Count(op PatchOp) int {
	n := 0
	for _, p := range ps {
		if p.Op == op {
			n++
		}
	}
	return n
}

// String joins the patches one per line.
func (ps Patches) String() string {
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}
