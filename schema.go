package plour

import (
	"fmt"

	"github.com/diana-hep/plour/format"
)

// SchemaNode is one node of the derived schema tree. It carries the
// bookkeeping the column decoder needs (name path, required-ness,
// level bounds) separately from the wire-format SchemaElement, which
// stays untouched. Nodes are built once per file and never mutated.
type SchemaNode struct {
	Name           string
	RepetitionType format.FieldRepetitionType
	Children       []*SchemaNode

	// Path is the ancestor names plus this node's own name, rooted at
	// the file's implicit root (which itself contributes no segment).
	Path []string

	Required bool

	// MaxDef and MaxRep bound the definition and repetition levels of
	// values under this node. Both are 0 at the root and never
	// decrease toward the leaves.
	MaxDef int
	MaxRep int

	// Element is the raw footer element this node was derived from.
	Element *format.SchemaElement
}

// Leaf reports whether the node is a leaf column.
func (n *SchemaNode) Leaf() bool { return len(n.Children) == 0 }

// flattenSchema turns the footer's flat pre-order element run into the
// top-level field trees. elems[0] is the implicit file root; each
// element's NumChildren delimits its subtree.
func flattenSchema(elems []*format.SchemaElement) ([]*SchemaNode, error) {
	var fields []*SchemaNode
	index := 0
	for index+1 < len(elems) {
		index++
		node, last, err := buildNode(elems, index, nil, 0, 0)
		if err != nil {
			return nil, err
		}
		fields = append(fields, node)
		index = last
	}
	return fields, nil
}

// buildNode constructs the subtree rooted at elems[index] given the
// parent's accumulated path and level bounds, returning the index of
// the last element the subtree consumed so siblings resume correctly.
func buildNode(elems []*format.SchemaElement, index int, path []string, maxDef, maxRep int) (*SchemaNode, int, error) {
	elem := elems[index]

	rep := format.RepetitionRequired
	required := false
	if elem.RepetitionType != nil {
		rep = *elem.RepetitionType
		required = rep == format.RepetitionRequired
	}

	node := &SchemaNode{
		Name:           elem.Name,
		RepetitionType: rep,
		Path:           append(append([]string{}, path...), elem.Name),
		Required:       required,
		Element:        elem,
	}
	node.MaxDef = maxDef
	node.MaxRep = maxRep
	if !required {
		node.MaxDef++
	} else {
		// The repetition bound intentionally grows on REQUIRED nodes,
		// matching the reader this code replaces. The Dremel paper
		// grows it on REPEATED nodes instead; changing the rule would
		// change observable output for nested repeated schemas, so the
		// legacy rule stays (see DESIGN.md) and is pinned by
		// TestFlattenRepetitionRuleMatchesLegacy.
		node.MaxRep++
	}

	numChildren := 0
	if elem.NumChildren != nil {
		numChildren = int(*elem.NumChildren)
	}
	for i := 0; i < numChildren; i++ {
		index++
		if index >= len(elems) {
			return nil, 0, fmt.Errorf("schema element %q declares %d children but the element list ends early: %w",
				elem.Name, numChildren, ErrInvalidFormat)
		}
		child, last, err := buildNode(elems, index, node.Path, node.MaxDef, node.MaxRep)
		if err != nil {
			return nil, 0, err
		}
		node.Children = append(node.Children, child)
		index = last
	}

	return node, index, nil
}
