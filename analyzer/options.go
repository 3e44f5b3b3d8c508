package analyzer

import (
	"go-cyclefinder/internal/graph"
)

// runOptions represent the configuration of one analyzer instance.
type runOptions struct {
	// whitelist is a comma separated list of whitelist files.
	whitelist string

	// rules holds inline whitelist rules, one per line.
	rules string

	elements  string
	maxCycles int

	shared state
}

func makeRunOptions(opts Options) *runOptions {
	r := &runOptions{elements: graph.ElementsSupplement.String()}
	opts.apply(r)

	return r
}

// Option configures specific behavior of a [New] cyclefinder analyzer.
type Option interface {
	apply(r *runOptions)
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

func (o Options) apply(r *runOptions) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// WithWhitelist is an [Option] naming whitelist files, comma separated.
func WithWhitelist(files string) Option { return whitelistOption{files: files} }

type whitelistOption struct{ files string }

func (o whitelistOption) apply(r *runOptions) { r.whitelist = o.files }

// WithRules is an [Option] adding inline whitelist rules.
func WithRules(rules string) Option { return rulesOption{rules: rules} }

type rulesOption struct{ rules string }

func (o rulesOption) apply(r *runOptions) { r.rules = o.rules }

// WithElements is an [Option] selecting the element edge policy,
// "supplement" or "replace".
func WithElements(policy string) Option { return elementsOption{policy: policy} }

type elementsOption struct{ policy string }

func (o elementsOption) apply(r *runOptions) { r.elements = o.policy }

// WithMaxCycles is an [Option] capping the cycles reported per strongly
// connected component. Zero means no limit.
func WithMaxCycles(maxCycles int) Option { return maxCyclesOption{maxCycles: maxCycles} }

type maxCyclesOption struct{ maxCycles int }

func (o maxCyclesOption) apply(r *runOptions) { r.maxCycles = o.maxCycles }
