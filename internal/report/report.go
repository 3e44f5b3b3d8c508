package report

import (
	"io"

	"github.com/pkg/errors"

	"go-cyclefinder/internal/cycles"
)

// Format selects a rendering.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	DOT  Format = "dot"
)

// ParseFormat validates a format name; the empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return Text, nil
	case Text, JSON, DOT:
		return f, nil
	default:
		return "", errors.Errorf("unknown report format '%s'", s)
	}
}

// Write renders res in the given format.
func Write(w io.Writer, f Format, res *cycles.Result) error {
	switch f {
	case JSON:
		return WriteJSON(w, res)
	case DOT:
		return WriteDot(w, res)
	default:
		return WriteText(w, res)
	}
}
