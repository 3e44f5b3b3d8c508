// Package whitelist parses suppression rules and filters reference edges
// with them.
//
// Each non-blank line holds one rule; text after '#' is a comment.
//
//	Origin: member        edges from Origin labeled member or targeting type member
//	field Origin.member   same as "Origin: member"
//	type Target           every edge targeting Target
//	outer Origin          the captured outer reference of Origin
//	namespace prefix      every edge from a type below prefix
//
// Origin may be a path.Match pattern.
package whitelist

import (
	"path"
	"strings"

	"go-cyclefinder/internal/collector"
	"go-cyclefinder/internal/graph"
)

type set map[string]struct{}

func (s set) has(k string) bool {
	_, ok := s[k]
	return ok
}

type patternRule struct {
	origin string
	member string
}

// Whitelist is an immutable set of suppression rules. The nil Whitelist
// matches nothing.
type Whitelist struct {
	byOrigin   map[string]set
	patterns   []patternRule
	targets    set
	namespaces []string
	count      int
}

func newWhitelist() *Whitelist {
	return &Whitelist{
		byOrigin: make(map[string]set),
		targets:  make(set),
	}
}

// Len returns the number of rules.
func (w *Whitelist) Len() int {
	if w == nil {
		return 0
	}
	return w.count
}

func (w *Whitelist) addEdgeRule(origin, member string) {
	w.count++
	if isPattern(origin) {
		w.patterns = append(w.patterns, patternRule{origin: origin, member: member})
		return
	}
	s, ok := w.byOrigin[origin]
	if !ok {
		s = make(set)
		w.byOrigin[origin] = s
	}
	s[member] = struct{}{}
}

func (w *Whitelist) addTarget(target string) {
	w.count++
	w.targets[target] = struct{}{}
}

func (w *Whitelist) addNamespace(prefix string) {
	w.count++
	w.namespaces = append(w.namespaces, prefix)
}

// Merge returns a whitelist holding the rules of w and o.
func (w *Whitelist) Merge(o *Whitelist) *Whitelist {
	out := newWhitelist()
	for _, src := range []*Whitelist{w, o} {
		if src == nil {
			continue
		}
		for origin, members := range src.byOrigin {
			for m := range members {
				out.addEdgeRule(origin, m)
			}
		}
		for _, p := range src.patterns {
			out.addEdgeRule(p.origin, p.member)
		}
		for t := range src.targets {
			out.addTarget(t)
		}
		for _, ns := range src.namespaces {
			out.addNamespace(ns)
		}
	}
	return out
}

// Matches reports whether some rule suppresses e.
func (w *Whitelist) Matches(e graph.Edge) bool {
	if w == nil {
		return false
	}

	if w.targets.has(e.Target.String()) || w.targets.has(e.Target.Name) {
		return true
	}

	for _, origin := range spellings(e.Origin) {
		if members, ok := w.byOrigin[origin]; ok && matchesMember(members, e) {
			return true
		}
	}

	for _, p := range w.patterns {
		if !memberMatches(p.member, e) {
			continue
		}
		for _, origin := range spellings(e.Origin) {
			if ok, _ := path.Match(p.origin, origin); ok {
				return true
			}
		}
	}

	for _, ns := range w.namespaces {
		if inNamespace(e.Origin.Name, ns) {
			return true
		}
	}

	return false
}

// Keep is the negation of [Whitelist.Matches], suitable for
// [graph.Graph.Filter].
func (w *Whitelist) Keep(e graph.Edge) bool { return !w.Matches(e) }

// Apply returns the edges no rule matches.
func (w *Whitelist) Apply(edges []graph.Edge) []graph.Edge {
	out := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		if !w.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func spellings(id collector.TypeID) []string {
	if id.Arity == 0 {
		return []string{id.Name}
	}
	return []string{id.String(), id.Name}
}

func matchesMember(members set, e graph.Edge) bool {
	if members.has(e.Label) {
		return true
	}
	for _, t := range spellings(e.Target) {
		if members.has(t) {
			return true
		}
	}
	return false
}

func memberMatches(member string, e graph.Edge) bool {
	return member == e.Label || member == e.Target.Name || member == e.Target.String()
}

func inNamespace(name, ns string) bool {
	if !strings.HasPrefix(name, ns) || len(name) == len(ns) {
		return false
	}
	switch name[len(ns)] {
	case '.', '/':
		return true
	}
	return false
}

func isPattern(s string) bool { return strings.ContainsAny(s, `*?[\`) }
