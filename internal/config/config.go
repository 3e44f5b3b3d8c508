// Package config holds the settings shared by the command line tool.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"go-cyclefinder/internal/graph"
	"go-cyclefinder/internal/report"
)

// Environment variables overriding the Neo4j settings.
const (
	EnvNeo4jURI      = "NEO4J_URI"
	EnvNeo4jUser     = "NEO4J_USER"
	EnvNeo4jPassword = "NEO4J_PASSWORD"
)

// Config is the YAML configuration file.
type Config struct {
	Whitelist             []string `yaml:"whitelist"`
	Elements              string   `yaml:"elements"`
	MaxCyclesPerComponent int      `yaml:"max_cycles_per_component"`
	Implements            bool     `yaml:"implements"`
	Format                string   `yaml:"format"`
	Neo4j                 Neo4j    `yaml:"neo4j"`
}

// Neo4j holds the export connection settings.
type Neo4j struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Clean    bool   `yaml:"clean"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Elements: graph.ElementsSupplement.String(),
		Format:   string(report.Text),
		Neo4j: Neo4j{
			URI:  "bolt://localhost:7687",
			User: "neo4j",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	conf := Default()
	if path == "" {
		return conf, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Errorf("file %s does not exist", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid file: %s", path)
	}

	if err := yaml.UnmarshalStrict(data, conf); err != nil {
		return nil, errors.Wrapf(err, "problem parsing yaml from file %s", path)
	}

	return conf, nil
}

// LoadEnv loads .env files into the process environment. Missing files are
// ignored; with no arguments ./.env is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	catcher := grip.NewBasicCatcher()
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		catcher.Wrapf(godotenv.Load(f), "loading env file '%s'", f)
	}
	return catcher.Resolve()
}

// ApplyEnv overrides the Neo4j settings from the environment as seen by
// lookup; nil selects os.Getenv.
func (c *Config) ApplyEnv(lookup func(string) string) {
	if lookup == nil {
		lookup = os.Getenv
	}
	if v := strings.TrimSpace(lookup(EnvNeo4jURI)); v != "" {
		c.Neo4j.URI = v
	}
	if v := strings.TrimSpace(lookup(EnvNeo4jUser)); v != "" {
		c.Neo4j.User = v
	}
	if v := lookup(EnvNeo4jPassword); v != "" {
		c.Neo4j.Password = v
	}
}

// Validate checks enumerated values and bounds.
func (c *Config) Validate() error {
	catcher := grip.NewBasicCatcher()

	_, err := graph.ParseElementPolicy(c.Elements)
	catcher.Add(err)

	_, err = report.ParseFormat(c.Format)
	catcher.Add(err)

	catcher.NewWhen(c.MaxCyclesPerComponent < 0, "max_cycles_per_component must not be negative")

	return catcher.Resolve()
}

// ElementPolicy returns the parsed element policy.
func (c *Config) ElementPolicy() graph.ElementPolicy {
	p, err := graph.ParseElementPolicy(c.Elements)
	if err != nil {
		return graph.ElementsSupplement
	}
	return p
}

// ReportFormat returns the parsed report format.
func (c *Config) ReportFormat() report.Format {
	f, err := report.ParseFormat(c.Format)
	if err != nil {
		return report.Text
	}
	return f
}
