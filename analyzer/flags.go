package analyzer

import (
	"flag"
)

// registerFlags binds the run options to command line flag values.
// A nil flag set value defaults to the program's command line.
func registerFlags(r *runOptions, flags *flag.FlagSet) {
	if flags == nil {
		flags = flag.CommandLine
	}

	flags.StringVar(&r.whitelist, "whitelist", r.whitelist, "comma separated list of whitelist files")
	flags.StringVar(&r.elements, "elements", r.elements, "element edge policy: supplement or replace")
	flags.IntVar(&r.maxCycles, "max-cycles", r.maxCycles, "maximum cycles reported per strongly connected component (0 is unlimited)")
}
