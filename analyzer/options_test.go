package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cyclefinder/internal/graph"
)

func TestMakeRunOptions(t *testing.T) {
	assert := assert.New(t)

	r := makeRunOptions(nil)
	assert.Equal(graph.ElementsSupplement.String(), r.elements)
	assert.Zero(r.maxCycles)

	r = makeRunOptions(Options{
		WithWhitelist("a.txt,b.txt"),
		nil,
		WithRules("A: b"),
		WithElements("replace"),
		WithMaxCycles(7),
	})
	assert.Equal("a.txt,b.txt", r.whitelist)
	assert.Equal("A: b", r.rules)
	assert.Equal("replace", r.elements)
	assert.Equal(7, r.maxCycles)
}

func TestPrepare(t *testing.T) {
	r := makeRunOptions(Options{WithRules("A: b\nbogus rule line"), WithMaxCycles(3)})

	s := r.prepare()
	require.NoError(t, s.err)
	assert.Same(t, s, r.prepare())
	assert.Equal(t, 1, s.wl.Len())
	assert.Equal(t, graph.ElementsSupplement, s.opts.Elements)
	assert.Equal(t, 3, s.opts.MaxCyclesPerComponent)
}

func TestPrepareErrors(t *testing.T) {
	for name, opt := range map[string]Option{
		"Elements":  WithElements("both"),
		"Whitelist": WithWhitelist("testdata/missing.txt"),
	} {
		t.Run(name, func(t *testing.T) {
			r := makeRunOptions(Options{opt})
			assert.Error(t, r.prepare().err)
		})
	}
}
