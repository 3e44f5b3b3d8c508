// Package report renders cycle search results.
package report

import (
	"bufio"
	"fmt"
	"io"

	"go-cyclefinder/internal/cycles"
)

// WriteText prints every cycle as its edge list followed by the full names
// of the types involved, then the total count.
func WriteText(w io.Writer, res *cycles.Result) error {
	bw := bufio.NewWriter(w)

	for _, c := range res.Cycles() {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "***** Found reference cycle *****")
		for _, e := range c {
			fmt.Fprintln(bw, e.String())
		}
		fmt.Fprintln(bw, "----- Full Types -----")
		for _, t := range c.Types() {
			fmt.Fprintln(bw, t.String())
		}
	}

	for _, comp := range res.Truncated() {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "***** Cycle search truncated: component of %d types, %d cycles reported *****\n",
			len(comp.Nodes), len(comp.Cycles))
	}

	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%d CYCLES FOUND.\n", res.Len())

	return bw.Flush()
}
