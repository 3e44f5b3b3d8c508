package gclplugin

import (
	"strings"

	"github.com/pkg/errors"

	"go-cyclefinder/analyzer"
	"go-cyclefinder/internal/graph"
)

// Settings represents the configuration options for an instance of the [Plugin].
type Settings struct {
	// Whitelist lists whitelist files.
	Whitelist []string `json:"whitelist,omitempty"`
	// Rules holds inline whitelist rules.
	Rules []string `json:"rules,omitempty"`
	// Elements selects the element edge policy.
	Elements *string `json:"elements,omitzero"`
	// MaxCycles caps the cycles reported per strongly connected component.
	MaxCycles *int `json:"max-cycles,omitzero"`
}

// Validate rejects an unknown element policy or a negative cycle cap.
func (s Settings) Validate() error {
	if s.Elements != nil {
		if _, err := graph.ParseElementPolicy(*s.Elements); err != nil {
			return err
		}
	}
	if s.MaxCycles != nil && *s.MaxCycles < 0 {
		return errors.Errorf("max-cycles must not be negative, got %d", *s.MaxCycles)
	}
	return nil
}

// Options converts [Settings] into a list of [analyzer.Option].
// Settings apply only when explicitly set.
func (s Settings) Options() []analyzer.Option {
	var opts []analyzer.Option

	if len(s.Whitelist) > 0 {
		opts = append(opts, analyzer.WithWhitelist(strings.Join(s.Whitelist, ",")))
	}
	if len(s.Rules) > 0 {
		opts = append(opts, analyzer.WithRules(strings.Join(s.Rules, "\n")))
	}
	opts = appendOption(opts, s.Elements, analyzer.WithElements)
	opts = appendOption(opts, s.MaxCycles, analyzer.WithMaxCycles)

	return opts
}

// appendOption appends a non-nil setting to an [analyzer.Option] list.
func appendOption[T any](opts []analyzer.Option, value *T, constructor func(T) analyzer.Option) []analyzer.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
