package whitelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"

	"go-cyclefinder/internal/graph"
)

// ParseError describes a rule line that could not be parsed. It does not
// stop parsing; the remaining rules still apply.
type ParseError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.Source, e.Line, e.Reason, e.Text)
}

// ParseString parses rules from a string.
func ParseString(rules, source string) (*Whitelist, []*ParseError) {
	w, diags, _ := Parse(strings.NewReader(rules), source)
	return w, diags
}

// Parse reads rules from r. Malformed lines are returned as diagnostics; the
// error is reserved for read failures.
func Parse(r io.Reader, source string) (*Whitelist, []*ParseError, error) {
	w := newWhitelist()
	var diags []*ParseError

	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		text := sc.Text()
		line, _, _ := strings.Cut(text, "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if reason := w.parseLine(line); reason != "" {
			diags = append(diags, &ParseError{Source: source, Line: lineno, Text: text, Reason: reason})
		}
	}

	if err := sc.Err(); err != nil {
		return w, diags, errors.Wrapf(err, "reading whitelist '%s'", source)
	}

	return w, diags, nil
}

// ParseFiles parses and merges the rules of several files.
func ParseFiles(paths ...string) (*Whitelist, []*ParseError, error) {
	var (
		out   *Whitelist
		diags []*ParseError
	)

	for _, p := range paths {
		w, d, err := parseFile(p)
		diags = append(diags, d...)
		if err != nil {
			return nil, diags, err
		}
		out = out.Merge(w)
	}

	if out == nil {
		out = newWhitelist()
	}

	return out, diags, nil
}

func parseFile(p string) (*Whitelist, []*ParseError, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening whitelist")
	}
	defer f.Close()

	return Parse(f, p)
}

// parseLine adds the rule on line to w and returns a non-empty reason when
// the line is malformed.
func (w *Whitelist) parseLine(line string) string {
	if origin, member, ok := strings.Cut(line, ":"); ok {
		return w.edgeRule(strings.TrimSpace(origin), strings.TrimSpace(member))
	}

	words := strings.Fields(line)
	if len(words) != 2 {
		return "expected 'Origin: member' or '<keyword> <name>'"
	}

	keyword, arg := words[0], words[1]
	switch keyword {
	case "field":
		i := strings.LastIndexByte(arg, '.')
		if i <= 0 || i == len(arg)-1 {
			return "field rule needs 'Type.field'"
		}
		return w.edgeRule(arg[:i], arg[i+1:])

	case "outer":
		return w.edgeRule(arg, graph.OuterLabel)

	case "type":
		w.addTarget(arg)

	case "namespace":
		w.addNamespace(strings.TrimRight(arg, "./"))

	default:
		return fmt.Sprintf("unknown rule keyword %q", keyword)
	}

	return ""
}

func (w *Whitelist) edgeRule(origin, member string) string {
	switch {
	case origin == "":
		return "missing origin type"
	case member == "":
		return "missing field or target type"
	case strings.ContainsAny(origin, " \t"), strings.ContainsAny(member, " \t"):
		return "unexpected whitespace in rule"
	}

	if _, err := path.Match(origin, ""); err != nil {
		return "invalid origin pattern"
	}

	w.addEdgeRule(origin, member)
	return ""
}
