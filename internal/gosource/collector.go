// Package gosource converts the named types of loaded Go packages into
// declarations for the cycle finder.
//
// Go has no inheritance, so embedded fields and embedded interfaces play
// the role of supertypes. Pointers are transparent, slices and arrays become
// array dimensions, maps and channels are builtin containers whose key and
// element types are type arguments. Basic types, and named types over them,
// never hold references. A struct field tagged `cyclefinder:"weak"` is
// treated as non-owning.
package gosource

import (
	"fmt"
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"go-cyclefinder/internal/model"
)

// Names of builtin types that have no declaration.
const (
	MapName       = "map"
	ChanName      = "chan"
	FuncName      = "func"
	InterfaceName = "interface{}"
	StructName    = "struct{}"

	// UnderlyingField labels the reference held by a named non-struct type,
	// such as a named slice or map.
	UnderlyingField = "$underlying"

	tagKey  = "cyclefinder"
	weakTag = "weak"
)

// Collector gathers type declarations from Go packages.
type Collector struct {
	RootModule string

	// Implements adds every project interface a struct type (or its
	// pointer) implements to the struct's supertypes.
	Implements bool

	Decls     []model.TypeDecl
	Positions map[string]token.Pos // declared type name -> declaration

	byName     map[string]int
	structs    []*types.Named
	interfaces []*types.Named
}

// NewCollector creates a Collector scoped to the given root module path.
// An empty root module accepts every package.
func NewCollector(rootModule string) *Collector {
	return &Collector{
		RootModule: rootModule,
		Positions:  make(map[string]token.Pos),
		byName:     make(map[string]int),
	}
}

// isProjectPackage reports whether pkgPath belongs to the analysed module.
func (c *Collector) isProjectPackage(pkgPath string) bool {
	if c.RootModule == "" {
		return true
	}
	return pkgPath == c.RootModule || strings.HasPrefix(pkgPath, c.RootModule+"/")
}

// relPath strips the module prefix from a full file or package path,
// returning a path relative to the project root.
func (c *Collector) relPath(fullPath string) string {
	if c.RootModule == "" {
		return fullPath
	}
	if idx := strings.Index(fullPath, c.RootModule); idx >= 0 {
		rest := fullPath[idx+len(c.RootModule):]
		if len(rest) > 0 && rest[0] == '/' {
			return rest[1:]
		}
		return rest
	}
	return fullPath
}

// CollectTypes walks all project packages and declares their named types.
func (c *Collector) CollectTypes(pkgs []*packages.Package) {
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if !c.isProjectPackage(pkg.PkgPath) || pkg.Types == nil {
			return
		}
		c.CollectPackage(pkg.Fset, pkg.Types)
	})

	if c.Implements {
		c.collectImplements()
	}
}

// CollectPackage declares the package-level named types of pkg. Types of
// other packages are only referenced and stay opaque.
func (c *Collector) CollectPackage(fset *token.FileSet, pkg *types.Package) {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		if named, ok := tn.Type().(*types.Named); ok {
			c.declare(fset, named)
		}
	}
}

func (c *Collector) declare(fset *token.FileSet, named *types.Named) {
	obj := named.Obj()
	decl := model.TypeDecl{
		Name: qualified(obj),
		Pos:  c.position(fset, obj.Pos()),
	}

	if tps := named.TypeParams(); tps != nil {
		for i := range tps.Len() {
			decl.TypeParams = append(decl.TypeParams, tps.At(i).Obj().Name())
		}
	}

	switch u := named.Underlying().(type) {
	case *types.Basic:
		return

	case *types.Struct:
		decl.Kind = model.Class
		c.structFields(&decl, u, fset, obj.Pos())
		c.structs = append(c.structs, named)

	case *types.Interface:
		decl.Kind = model.Interface
		for i := range u.NumEmbeddeds() {
			decl.Supertypes = append(decl.Supertypes, c.ref(u.EmbeddedType(i), "", fset, obj.Pos()))
		}
		if u.NumMethods() > 0 {
			c.interfaces = append(c.interfaces, named)
		}

	default:
		decl.Kind = model.Class
		decl.Fields = []model.Field{{
			Name: UnderlyingField,
			Type: c.ref(u, decl.Name+"$", fset, obj.Pos()),
		}}
	}

	c.add(decl, obj.Pos())
}

func (c *Collector) add(decl model.TypeDecl, pos token.Pos) {
	if _, dup := c.byName[decl.Name]; dup {
		return
	}
	c.byName[decl.Name] = len(c.Decls)
	c.Decls = append(c.Decls, decl)
	c.Positions[decl.Name] = pos
}

func (c *Collector) structFields(decl *model.TypeDecl, st *types.Struct, fset *token.FileSet, pos token.Pos) {
	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Embedded() {
			decl.Supertypes = append(decl.Supertypes, c.ref(f.Type(), "", fset, pos))
			continue
		}

		decl.Fields = append(decl.Fields, model.Field{
			Name: f.Name(),
			Type: c.ref(f.Type(), decl.Name+"$"+f.Name(), fset, pos),
			Weak: isWeak(st.Tag(i)),
		})
	}
}

// anonymous declares an anonymous struct type under the given name.
func (c *Collector) anonymous(name string, st *types.Struct, fset *token.FileSet, pos token.Pos) {
	if _, dup := c.byName[name]; dup {
		return
	}
	decl := model.TypeDecl{
		Name: name,
		Kind: model.Anonymous,
		Pos:  c.position(fset, pos),
	}
	c.structFields(&decl, st, fset, pos)
	c.add(decl, pos)
}

// ref converts a Go type into a reference. hint names anonymous struct
// types met on the way; without a hint they stay opaque.
func (c *Collector) ref(t types.Type, hint string, fset *token.FileSet, pos token.Pos) model.TypeRef {
	switch t := t.(type) {
	case *types.Alias:
		return c.ref(types.Unalias(t), hint, fset, pos)

	case *types.Basic:
		if t.Kind() == types.Invalid {
			return model.TypeRef{}
		}
		return model.Primitive(t.Name())

	case *types.Pointer:
		return c.ref(t.Elem(), hint, fset, pos)

	case *types.Slice:
		return model.ArrayOf(c.ref(t.Elem(), hint, fset, pos), 1)

	case *types.Array:
		return model.ArrayOf(c.ref(t.Elem(), hint, fset, pos), 1)

	case *types.Map:
		return model.Ref(MapName, c.ref(t.Key(), hint, fset, pos), c.ref(t.Elem(), hint, fset, pos))

	case *types.Chan:
		return model.Ref(ChanName, c.ref(t.Elem(), hint, fset, pos))

	case *types.Signature:
		return model.Ref(FuncName)

	case *types.Interface:
		return model.Ref(InterfaceName)

	case *types.Struct:
		if hint == "" {
			return model.Ref(StructName)
		}
		c.anonymous(hint, t, fset, pos)
		return model.Ref(hint)

	case *types.TypeParam:
		var bound *model.TypeRef
		if named, ok := types.Unalias(t.Constraint()).(*types.Named); ok && named.Obj().Pkg() != nil {
			b := model.Ref(qualified(named.Obj()))
			bound = &b
		}
		return model.Param(t.Obj().Name(), bound)

	case *types.Named:
		if _, ok := t.Underlying().(*types.Basic); ok {
			return model.Primitive(qualified(t.Obj()))
		}
		var args []model.TypeRef
		if ta := t.TypeArgs(); ta != nil {
			for i := range ta.Len() {
				args = append(args, c.ref(ta.At(i), "", fset, pos))
			}
		}
		return model.Ref(qualified(t.Origin().Obj()), args...)

	default:
		return model.TypeRef{}
	}
}

// collectImplements records implemented project interfaces as supertypes
// of the struct types that satisfy them.
func (c *Collector) collectImplements() {
	seen := make(map[string]bool)
	for _, concrete := range c.structs {
		if concrete.TypeParams() != nil {
			continue
		}
		cname := qualified(concrete.Obj())
		idx, ok := c.byName[cname]
		if !ok {
			continue
		}

		for _, iface := range c.interfaces {
			if iface.TypeParams() != nil {
				continue
			}
			iname := qualified(iface.Obj())
			edgeKey := cname + "->" + iname
			if seen[edgeKey] {
				continue
			}
			it, ok := iface.Underlying().(*types.Interface)
			if !ok {
				continue
			}
			if types.Implements(concrete, it) || types.Implements(types.NewPointer(concrete), it) {
				seen[edgeKey] = true
				decl := &c.Decls[idx]
				if !slices.ContainsFunc(decl.Supertypes, func(r model.TypeRef) bool { return r.Name == iname }) {
					decl.Supertypes = append(decl.Supertypes, model.Ref(iname))
				}
			}
		}
	}
}

func (c *Collector) position(fset *token.FileSet, pos token.Pos) string {
	if fset == nil || !pos.IsValid() {
		return ""
	}
	p := fset.Position(pos)
	return fmt.Sprintf("%s:%d", c.relPath(p.Filename), p.Line)
}

func qualified(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func isWeak(tag string) bool {
	v, ok := reflect.StructTag(tag).Lookup(tagKey)
	if !ok {
		return false
	}
	return slices.Contains(strings.Split(v, ","), weakTag)
}
