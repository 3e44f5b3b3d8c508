package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cyclefinder/internal/collector"
	"go-cyclefinder/internal/model"
)

func id(name string) collector.TypeID { return collector.TypeID{Name: name} }

func build(opts Options, decls ...model.TypeDecl) *Graph {
	return Build(collector.Collect(decls), opts)
}

func edgesOf(g *Graph, origin string) []Edge {
	var out []Edge
	i, ok := g.IndexOf(id(origin))
	if !ok {
		return nil
	}
	for _, ei := range g.Out(i) {
		out = append(out, g.Edge(ei))
	}
	return out
}

func TestBuildFieldEdges(t *testing.T) {
	assert := assert.New(t)

	g := build(Options{}, model.TypeDecl{
		Name: "A",
		Fields: []model.Field{
			{Name: "x", Type: model.Ref("B")},
			{Name: "y", Type: model.Ref("B")},
			{Name: "n", Type: model.Primitive("int")},
		},
	}, model.TypeDecl{Name: "B"})

	assert.Equal([]Edge{
		{Origin: id("A"), Target: id("B"), Label: "x", Kind: Field},
		{Origin: id("A"), Target: id("B"), Label: "y", Kind: Field},
	}, edgesOf(g, "A"))
	assert.Empty(edgesOf(g, "B"))
	assert.Equal(2, g.NumEdges())
}

func TestBuildSkipsStaticAndWeak(t *testing.T) {
	g := build(Options{}, model.TypeDecl{
		Name: "A",
		Fields: []model.Field{
			{Name: "s", Type: model.Ref("A"), Static: true},
			{Name: "w", Type: model.Ref("A"), Weak: true},
		},
	})

	assert.Zero(t, g.NumEdges())
}

func TestBuildElementPolicy(t *testing.T) {
	decl := model.TypeDecl{
		Name: "A",
		Fields: []model.Field{
			{Name: "items", Type: model.Ref("List", model.Ref("A"))},
			{Name: "plain", Type: model.Ref("List")},
			{Name: "arr", Type: model.ArrayOf(model.Ref("A"), 1)},
		},
	}
	list := collector.TypeID{Name: "List", Arity: 1}

	t.Run("Supplement", func(t *testing.T) {
		assert.Equal(t, []Edge{
			{Origin: id("A"), Target: list, Label: "items", Kind: Field},
			{Origin: id("A"), Target: id("A"), Label: "items", Kind: Element},
			{Origin: id("A"), Target: collector.TypeID{Name: "List"}, Label: "plain", Kind: Field},
			{Origin: id("A"), Target: id("A"), Label: "arr", Kind: Element},
		}, edgesOf(build(Options{Elements: ElementsSupplement}, decl), "A"))
	})

	t.Run("Replace", func(t *testing.T) {
		assert.Equal(t, []Edge{
			{Origin: id("A"), Target: id("A"), Label: "items", Kind: Element},
			{Origin: id("A"), Target: collector.TypeID{Name: "List"}, Label: "plain", Kind: Field},
			{Origin: id("A"), Target: id("A"), Label: "arr", Kind: Element},
		}, edgesOf(build(Options{Elements: ElementsReplace}, decl), "A"))
	})
}

func TestBuildSupertypesAndCapture(t *testing.T) {
	assert := assert.New(t)

	outer := model.Ref("Outer")
	g := build(Options{},
		model.TypeDecl{Name: "Outer", Fields: []model.Field{{Name: "inner", Type: model.Ref("Outer$Inner")}}},
		model.TypeDecl{Name: "Outer$Inner", Supertypes: []model.TypeRef{model.Ref("Base")}, Outer: &outer},
		model.TypeDecl{Name: "Outer$Weak", Outer: &outer, WeakOuter: true},
	)

	assert.Equal([]Edge{
		{Origin: id("Outer$Inner"), Target: id("Base"), Label: SuperLabel, Kind: Supertype},
		{Origin: id("Outer$Inner"), Target: id("Outer"), Label: OuterLabel, Kind: Capture},
	}, edgesOf(g, "Outer$Inner"))
	assert.Empty(edgesOf(g, "Outer$Weak"))
}

func TestBuildDedupe(t *testing.T) {
	g := build(Options{}, model.TypeDecl{
		Name: "A",
		Fields: []model.Field{
			{Name: "m", Type: model.Ref("Map", model.Ref("A"), model.Ref("A"))},
		},
	})

	assert.Equal(t, []Edge{
		{Origin: id("A"), Target: collector.TypeID{Name: "Map", Arity: 2}, Label: "m", Kind: Field},
		{Origin: id("A"), Target: id("A"), Label: "m", Kind: Element},
	}, edgesOf(g, "A"))
}

func TestBuildLeavesHaveNoEdges(t *testing.T) {
	g := build(Options{}, model.TypeDecl{
		Name:   "A",
		Fields: []model.Field{{Name: "x", Type: model.TypeRef{}}},
	})

	i, ok := g.IndexOf(collector.UnresolvedID)
	require.True(t, ok)
	assert.Empty(t, g.Out(i))
	assert.Len(t, g.Unresolved(), 1)
	assert.Equal(t, 1, g.NumEdges())
}

func TestFilter(t *testing.T) {
	assert := assert.New(t)

	g := build(Options{}, model.TypeDecl{
		Name: "A",
		Fields: []model.Field{
			{Name: "x", Type: model.Ref("A")},
			{Name: "y", Type: model.Ref("A")},
		},
	})

	f := g.Filter(func(e Edge) bool { return e.Label != "x" })
	assert.Equal(2, g.NumEdges())
	assert.Equal(1, f.NumEdges())
	assert.Equal("y", f.Edge(0).Label)
	assert.Equal(g.Len(), f.Len())

	from, to := f.Endpoints(0)
	assert.Equal(0, from)
	assert.Equal(0, to)
}

func TestEdgeDescription(t *testing.T) {
	a, b := id("A"), id("B")
	for expected, e := range map[string]Edge{
		"A -> (field x with type B)":         {Origin: a, Target: b, Label: "x", Kind: Field},
		"A -> (field x with element type B)": {Origin: a, Target: b, Label: "x", Kind: Element},
		"A -> (supertype B)":                 {Origin: a, Target: b, Label: SuperLabel, Kind: Supertype},
		"A -> (outer reference to B)":        {Origin: a, Target: b, Label: OuterLabel, Kind: Capture},
	} {
		assert.Equal(t, expected, e.String())
	}
}

func TestParseElementPolicy(t *testing.T) {
	assert := assert.New(t)

	for _, p := range []ElementPolicy{ElementsSupplement, ElementsReplace} {
		parsed, err := ParseElementPolicy(p.String())
		assert.NoError(err)
		assert.Equal(p, parsed)
	}

	p, err := ParseElementPolicy("")
	assert.NoError(err)
	assert.Equal(ElementsSupplement, p)

	_, err = ParseElementPolicy("both")
	assert.Error(err)
}
