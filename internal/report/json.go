package report

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"go-cyclefinder/internal/cycles"
)

// EdgeDoc is the JSON form of one edge.
type EdgeDoc struct {
	Origin string `json:"origin"`
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

// CycleDoc is the JSON form of one cycle.
type CycleDoc struct {
	Edges []EdgeDoc `json:"edges"`
	Types []string  `json:"types"`
}

// TruncationDoc reports a capped component.
type TruncationDoc struct {
	Types    []string `json:"types"`
	Reported int      `json:"reported"`
}

// Document is the JSON form of a whole result.
type Document struct {
	Cycles    []CycleDoc      `json:"cycles"`
	Truncated []TruncationDoc `json:"truncated,omitempty"`
	Count     int             `json:"count"`
}

// NewDocument converts a result into its JSON form.
func NewDocument(res *cycles.Result) Document {
	doc := Document{Cycles: []CycleDoc{}, Count: res.Len()}

	for _, c := range res.Cycles() {
		cd := CycleDoc{}
		for _, e := range c {
			cd.Edges = append(cd.Edges, EdgeDoc{
				Origin: e.Origin.String(),
				Label:  e.Label,
				Kind:   e.Kind.String(),
				Target: e.Target.String(),
			})
		}
		for _, t := range c.Types() {
			cd.Types = append(cd.Types, t.String())
		}
		doc.Cycles = append(doc.Cycles, cd)
	}

	for _, comp := range res.Truncated() {
		td := TruncationDoc{Reported: len(comp.Cycles)}
		for _, t := range comp.Nodes {
			td.Types = append(td.Types, t.String())
		}
		doc.Truncated = append(doc.Truncated, td)
	}

	return doc
}

// WriteJSON writes the indented JSON form of res.
func WriteJSON(w io.Writer, res *cycles.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(NewDocument(res)), "encoding cycle report")
}
