// Package model holds the resolved declaration records consumed by the
// cycle finder. Front ends (declaration files, the Go loader) produce them;
// the core never parses source text.
package model

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a declared type.
type Kind int

const (
	Class Kind = iota
	Interface
	Enum
	Anonymous
)

var kindNames = [...]string{
	Class:     "class",
	Interface: "interface",
	Enum:      "enum",
	Anonymous: "anonymous",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name to its value. The empty string is a class.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return Class, nil
	}
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return Class, errors.Errorf("unknown type kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (k Kind) MarshalYAML() (interface{}, error) { return k.String(), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// TypeRef is a resolved reference to a type as written at a use site.
//
// An empty Name on a non-parameter reference means the resolver could not
// determine the type.
type TypeRef struct {
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Args      []TypeRef `json:"args,omitempty" yaml:"args,omitempty"`
	Dims      int       `json:"dims,omitempty" yaml:"dims,omitempty"` // array depth
	Primitive bool      `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Param     bool      `json:"param,omitempty" yaml:"param,omitempty"` // type variable or wildcard
	Bound     *TypeRef  `json:"bound,omitempty" yaml:"bound,omitempty"`
}

// Ref returns a reference to the named type instantiated with args.
func Ref(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

// Primitive returns a reference to a primitive (non-reference) type.
func Primitive(name string) TypeRef {
	return TypeRef{Name: name, Primitive: true}
}

// Param returns a reference to a type variable with an optional bound.
func Param(name string, bound *TypeRef) TypeRef {
	return TypeRef{Name: name, Param: true, Bound: bound}
}

// ArrayOf wraps r in dims array dimensions.
func ArrayOf(r TypeRef, dims int) TypeRef {
	r.Dims += dims
	return r
}

// Resolved reports whether the resolver determined the referenced type.
func (r TypeRef) Resolved() bool { return r.Param || r.Name != "" }

func (r TypeRef) String() string {
	var b strings.Builder
	switch {
	case r.Param:
		b.WriteString(r.Name)
		if r.Bound != nil {
			b.WriteString(" extends ")
			b.WriteString(r.Bound.String())
		}
	case r.Name == "":
		b.WriteString("?")
	default:
		b.WriteString(r.Name)
	}
	if len(r.Args) > 0 {
		b.WriteByte('<')
		for i, a := range r.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	for range r.Dims {
		b.WriteString("[]")
	}
	return b.String()
}

// Field is a declared field of a type.
type Field struct {
	Name   string  `json:"name" yaml:"name"`
	Type   TypeRef `json:"type" yaml:"type"`
	Static bool    `json:"static,omitempty" yaml:"static,omitempty"`
	Weak   bool    `json:"weak,omitempty" yaml:"weak,omitempty"` // annotated as non-owning
}

// TypeDecl is one resolved type declaration.
type TypeDecl struct {
	Name       string    `json:"name" yaml:"name"`
	TypeParams []string  `json:"type_params,omitempty" yaml:"type_params,omitempty"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	Fields     []Field   `json:"fields,omitempty" yaml:"fields,omitempty"`
	Supertypes []TypeRef `json:"supertypes,omitempty" yaml:"supertypes,omitempty"`

	// Outer is the enclosing type whose instance a non-static nested, local
	// or anonymous type captures.
	Outer     *TypeRef `json:"outer,omitempty" yaml:"outer,omitempty"`
	WeakOuter bool     `json:"weak_outer,omitempty" yaml:"weak_outer,omitempty"`

	Pos string `json:"pos,omitempty" yaml:"pos,omitempty"` // file:line
}

// Arity is the number of declared type parameters.
func (d *TypeDecl) Arity() int { return len(d.TypeParams) }
