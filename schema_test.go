package plour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diana-hep/plour/format"
)

func groupElement(name string, rep format.FieldRepetitionType, numChildren int32) *format.SchemaElement {
	return &format.SchemaElement{
		Name:           name,
		RepetitionType: ptr(rep),
		NumChildren:    ptr(numChildren),
	}
}

func TestFlattenTopLevelLeaves(t *testing.T) {
	fields, err := flattenSchema(flatSchema(
		leafElement("a", format.TypeInt32, format.RepetitionRequired),
		leafElement("b", format.TypeInt64, format.RepetitionOptional),
	))
	require.NoError(t, err)
	require.Len(t, fields, 2)

	a, b := fields[0], fields[1]
	assert.Equal(t, []string{"a"}, a.Path)
	assert.True(t, a.Required)
	assert.Equal(t, 0, a.MaxDef)
	assert.True(t, a.Leaf())

	assert.Equal(t, []string{"b"}, b.Path)
	assert.False(t, b.Required)
	assert.Equal(t, 1, b.MaxDef)
	assert.Equal(t, 0, b.MaxRep)
}

func TestFlattenNestedGroups(t *testing.T) {
	fields, err := flattenSchema(schemaWithRoot(1,
		groupElement("outer", format.RepetitionOptional, 2),
		leafElement("u", format.TypeInt32, format.RepetitionOptional),
		groupElement("inner", format.RepetitionOptional, 1),
		leafElement("v", format.TypeDouble, format.RepetitionOptional),
	))
	require.NoError(t, err)
	require.Len(t, fields, 1)

	outer := fields[0]
	require.Len(t, outer.Children, 2)
	u := outer.Children[0]
	inner := outer.Children[1]
	require.Len(t, inner.Children, 1)
	v := inner.Children[0]

	assert.Equal(t, []string{"outer", "u"}, u.Path)
	assert.Equal(t, []string{"outer", "inner", "v"}, v.Path)
	assert.Equal(t, 1, outer.MaxDef)
	assert.Equal(t, 2, u.MaxDef)
	assert.Equal(t, 3, v.MaxDef)
}

// Level bounds never decrease from parent to child, and the implicit
// root starts both at zero.
func TestFlattenBoundsMonotonic(t *testing.T) {
	fields, err := flattenSchema(schemaWithRoot(2,
		groupElement("g", format.RepetitionRequired, 2),
		leafElement("p", format.TypeInt32, format.RepetitionOptional),
		leafElement("q", format.TypeInt32, format.RepetitionRequired),
		leafElement("r", format.TypeInt64, format.RepetitionOptional),
	))
	require.NoError(t, err)

	var check func(parent, node *SchemaNode)
	check = func(parent, node *SchemaNode) {
		pDef, pRep := 0, 0
		if parent != nil {
			pDef, pRep = parent.MaxDef, parent.MaxRep
		}
		assert.GreaterOrEqual(t, node.MaxDef, pDef, "node %v", node.Path)
		assert.GreaterOrEqual(t, node.MaxRep, pRep, "node %v", node.Path)
		for _, c := range node.Children {
			check(node, c)
		}
	}
	for _, field := range fields {
		check(nil, field)
	}
}

// The repetition bound grows on REQUIRED nodes, not REPEATED ones.
// That is the legacy rule this decoder is committed to reproducing;
// if it ever changes, nested repeated output changes with it, so this
// test pins the current behavior.
func TestFlattenRepetitionRuleMatchesLegacy(t *testing.T) {
	fields, err := flattenSchema(schemaWithRoot(1,
		groupElement("g", format.RepetitionRequired, 2),
		leafElement("req", format.TypeInt32, format.RepetitionRequired),
		leafElement("rep", format.TypeInt32, format.RepetitionRepeated),
	))
	require.NoError(t, err)

	g := fields[0]
	assert.Equal(t, 1, g.MaxRep)

	req := g.Children[0]
	assert.Equal(t, 2, req.MaxRep, "REQUIRED child grows the repetition bound")
	assert.Equal(t, 0, req.MaxDef)

	rep := g.Children[1]
	assert.Equal(t, 1, rep.MaxRep, "REPEATED child does not grow the repetition bound")
	assert.Equal(t, 1, rep.MaxDef)
}

func TestFlattenTruncatedChildrenFails(t *testing.T) {
	_, err := flattenSchema(schemaWithRoot(1,
		groupElement("g", format.RepetitionRequired, 3),
		leafElement("only", format.TypeInt32, format.RepetitionRequired),
	))
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFlattenLeavesWireElementsUntouched(t *testing.T) {
	elems := flatSchema(leafElement("a", format.TypeInt32, format.RepetitionOptional))
	before := *elems[1]

	fields, err := flattenSchema(elems)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, before, *elems[1], "flattening must not mutate footer elements")
	assert.Same(t, elems[1], fields[0].Element)
}
