// Package analyzer reports strong reference cycles between the named types
// of a Go package.
//
// Go forbids import cycles, so a reference cycle always lies within one
// package; each cycle is reported at the declaration of its least type.
package analyzer

import (
	"golang.org/x/tools/go/analysis"
)

const (
	name = "cyclefinder"
	doc  = `cyclefinder reports strong reference cycles between types

A cycle is a closed chain of struct fields, embedded types, slice, map and
channel elements leading from a type back to itself. Fields tagged
cyclefinder:"weak" and whitelisted references are ignored.`
)

// New creates a new instance of the cyclefinder analyzer configured by opts.
func New(opts ...Option) *analysis.Analyzer {
	r := makeRunOptions(opts)

	a := &analysis.Analyzer{
		Name: name,
		Doc:  doc,
		Run:  r.run,
	}

	registerFlags(r, &a.Flags)

	return a
}

// Analyzer is a pre-configured *[analysis.Analyzer] with default options.
var Analyzer = New()
