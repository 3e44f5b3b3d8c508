package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"go-cyclefinder/internal/config"
	"go-cyclefinder/internal/cycles"
	"go-cyclefinder/internal/finder"
	"go-cyclefinder/internal/gosource"
	"go-cyclefinder/internal/graph"
	"go-cyclefinder/internal/graphstore"
	"go-cyclefinder/internal/model"
	"go-cyclefinder/internal/report"
	"go-cyclefinder/internal/whitelist"
)

func goCommand() cli.Command {
	return cli.Command{
		Name:      "go",
		Usage:     "find reference cycles between the types of a Go module",
		ArgsUsage: "[packages]",
		Flags:     reportFlags(goSourceFlags(analysisFlags()...)...),
		Action: func(c *cli.Context) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			conf, err := settings(c)
			if err != nil {
				return err
			}

			decls, err := gosource.Declarations(ctx, c.String(dirFlag), gosource.Options{
				Patterns:   c.Args(),
				Implements: conf.Implements,
			})
			if err != nil {
				return err
			}

			_, res, err := analyze(ctx, conf, decls)
			if err != nil {
				return err
			}
			return writeReport(c, conf, res)
		},
	}
}

func declsCommand() cli.Command {
	return cli.Command{
		Name:      "decls",
		Usage:     "find reference cycles in YAML or JSON declaration files",
		ArgsUsage: "FILE...",
		Flags:     reportFlags(analysisFlags()...),
		Before: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("no declaration files specified")
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			conf, err := settings(c)
			if err != nil {
				return err
			}

			decls, err := model.ReadFiles(c.Args()...)
			if err != nil {
				return err
			}

			_, res, err := analyze(ctx, conf, decls)
			if err != nil {
				return err
			}
			return writeReport(c, conf, res)
		},
	}
}

func exportCommand() cli.Command {
	return cli.Command{
		Name:  "export",
		Usage: "load the reference graph and its cycles into Neo4j",
		Flags: neo4jFlags(goSourceFlags(analysisFlags(cli.StringSliceFlag{
			Name:  declsFlag,
			Usage: "read declaration files instead of loading Go packages; may be repeated",
		})...)...),
		Action: func(c *cli.Context) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			conf, err := settings(c)
			if err != nil {
				return err
			}
			if conf.Neo4j.Password == "" {
				return errors.Errorf("neo4j password is required: set --%s or %s", neo4jPasswordFlag, config.EnvNeo4jPassword)
			}

			var decls []model.TypeDecl
			if files := c.StringSlice(declsFlag); len(files) > 0 {
				decls, err = model.ReadFiles(files...)
			} else {
				decls, err = gosource.Declarations(ctx, c.String(dirFlag), gosource.Options{
					Patterns:   c.Args(),
					Implements: conf.Implements,
				})
			}
			if err != nil {
				return err
			}

			g, res, err := analyze(ctx, conf, decls)
			if err != nil {
				return err
			}

			loader, err := graphstore.NewLoader(conf.Neo4j.URI, conf.Neo4j.User, conf.Neo4j.Password)
			if err != nil {
				return err
			}
			defer func() {
				grip.Error(message.WrapError(loader.Close(ctx), message.Fields{
					"message": "problem closing neo4j driver",
				}))
			}()

			if err := loader.Verify(ctx); err != nil {
				return err
			}
			if err := loader.Export(ctx, g, res, conf.Neo4j.Clean); err != nil {
				return errors.Wrap(err, "problem exporting reference graph")
			}

			grip.Info(message.Fields{
				"message": "reference graph loaded into neo4j",
				"types":   g.Len(),
				"edges":   g.NumEdges(),
				"cycles":  res.Len(),
			})
			return nil
		},
	}
}

// settings resolves the configuration: file, then environment, then flags.
func settings(c *cli.Context) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	conf, err := config.Load(c.String(configFlag))
	if err != nil {
		return nil, err
	}
	conf.ApplyEnv(nil)

	conf.Whitelist = append(conf.Whitelist, c.StringSlice(whitelistFlag)...)
	if c.IsSet(elementsFlag) {
		conf.Elements = c.String(elementsFlag)
	}
	if c.IsSet(maxCyclesFlag) {
		conf.MaxCyclesPerComponent = c.Int(maxCyclesFlag)
	}
	if c.IsSet(formatFlag) {
		conf.Format = c.String(formatFlag)
	}
	if c.Bool(implementsFlag) {
		conf.Implements = true
	}
	if v := c.String(neo4jURIFlag); v != "" {
		conf.Neo4j.URI = v
	}
	if v := c.String(neo4jUserFlag); v != "" {
		conf.Neo4j.User = v
	}
	if v := c.String(neo4jPasswordFlag); v != "" {
		conf.Neo4j.Password = v
	}
	if c.Bool(cleanFlag) {
		conf.Neo4j.Clean = true
	}

	return conf, errors.Wrap(conf.Validate(), "invalid configuration")
}

func loadWhitelist(paths []string) (*whitelist.Whitelist, error) {
	wl, diags, err := whitelist.ParseFiles(paths...)
	if err != nil {
		return nil, err
	}
	for _, d := range diags {
		grip.Warning(message.Fields{
			"message": "skipping malformed whitelist rule",
			"source":  d.Source,
			"line":    d.Line,
			"text":    d.Text,
			"reason":  d.Reason,
		})
	}
	return wl, nil
}

func analyze(ctx context.Context, conf *config.Config, decls []model.TypeDecl) (*graph.Graph, *cycles.Result, error) {
	wl, err := loadWhitelist(conf.Whitelist)
	if err != nil {
		return nil, nil, err
	}

	g, res, err := finder.Run(ctx, decls, wl, finder.Options{
		Elements:              conf.ElementPolicy(),
		MaxCyclesPerComponent: conf.MaxCyclesPerComponent,
	})
	return g, res, errors.Wrap(err, "cycle search interrupted")
}

func writeReport(c *cli.Context, conf *config.Config, res *cycles.Result) error {
	var w io.Writer = os.Stdout
	if path := c.String(outputFlag); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "problem creating output file '%s'", path)
		}
		defer f.Close()
		w = f
	}

	if err := report.Write(w, conf.ReportFormat(), res); err != nil {
		return err
	}

	if res.Len() > 0 && !c.Bool(noFailFlag) {
		return cli.NewExitError(errors.Errorf("%d reference cycles found", res.Len()), 1)
	}
	return nil
}
