package main

import (
	"strings"

	"github.com/urfave/cli"
)

const (
	configFlag     = "config"
	whitelistFlag  = "whitelist"
	formatFlag     = "format"
	outputFlag     = "output"
	maxCyclesFlag  = "max-cycles"
	elementsFlag   = "elements"
	noFailFlag     = "no-fail"
	dirFlag        = "dir"
	implementsFlag = "implements"
	declsFlag      = "decls"

	neo4jURIFlag      = "neo4j-uri"
	neo4jUserFlag     = "neo4j-user"
	neo4jPasswordFlag = "neo4j-pass"
	cleanFlag         = "clean"
)

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func analysisFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  joinFlagNames(configFlag, "c"),
			Usage: "path to a YAML configuration file",
		},
		cli.StringSliceFlag{
			Name:  joinFlagNames(whitelistFlag, "w"),
			Usage: "whitelist file; may be repeated",
		},
		cli.IntFlag{
			Name:  maxCyclesFlag,
			Usage: "cap on cycles reported per strongly connected component (0 is unlimited)",
		},
		cli.StringFlag{
			Name:  elementsFlag,
			Usage: "element edge policy: 'supplement' or 'replace'",
		},
	)
}

func reportFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  joinFlagNames(formatFlag, "f"),
			Usage: "report format: 'text', 'json' or 'dot'",
		},
		cli.StringFlag{
			Name:  joinFlagNames(outputFlag, "o"),
			Usage: "write the report to this file instead of stdout",
		},
		cli.BoolFlag{
			Name:  noFailFlag,
			Usage: "exit with status 0 even when cycles are found",
		},
	)
}

func goSourceFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  joinFlagNames(dirFlag, "d"),
			Value: ".",
			Usage: "root directory of the Go module",
		},
		cli.BoolFlag{
			Name:  implementsFlag,
			Usage: "treat implemented project interfaces as supertypes",
		},
	)
}

func neo4jFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  neo4jURIFlag,
			Usage: "Neo4j bolt URI",
		},
		cli.StringFlag{
			Name:  neo4jUserFlag,
			Usage: "Neo4j username",
		},
		cli.StringFlag{
			Name:  neo4jPasswordFlag,
			Usage: "Neo4j password",
		},
		cli.BoolFlag{
			Name:  cleanFlag,
			Usage: "clean existing reference graph data before loading",
		},
	)
}
