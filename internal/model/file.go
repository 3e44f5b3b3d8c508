package model

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Document is the on-disk form of a declaration set.
type Document struct {
	Types []TypeDecl `json:"types" yaml:"types"`
}

// ReadFile reads a declaration set. Files ending in .json are decoded as
// JSON, everything else as YAML. The document is either a list of
// declarations or an object with a "types" list.
func ReadFile(path string) ([]TypeDecl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading declarations from '%s'", path)
	}

	var decls []TypeDecl
	if strings.EqualFold(filepath.Ext(path), ".json") {
		decls, err = decodeJSON(data)
	} else {
		decls, err = decodeYAML(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding declarations in '%s'", path)
	}

	return decls, nil
}

// ReadFiles concatenates the declarations of several files.
func ReadFiles(paths ...string) ([]TypeDecl, error) {
	var out []TypeDecl
	for _, p := range paths {
		decls, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, decls...)
	}
	return out, nil
}

func decodeJSON(data []byte) ([]TypeDecl, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var decls []TypeDecl
		err := json.Unmarshal(data, &decls)
		return decls, errors.WithStack(err)
	}

	var doc Document
	err := json.Unmarshal(data, &doc)
	return doc.Types, errors.WithStack(err)
}

func decodeYAML(data []byte) ([]TypeDecl, error) {
	var decls []TypeDecl
	if err := yaml.UnmarshalStrict(data, &decls); err == nil {
		return decls, nil
	}

	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, errors.WithStack(err)
	}
	return doc.Types, nil
}
