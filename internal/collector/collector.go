// Package collector turns resolved declarations into the node table the
// reference graph is built from.
package collector

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"go-cyclefinder/internal/model"
)

// Names of the special leaf types.
const (
	UnresolvedName = "<unresolved>"
	AnyName        = "<any>"
)

// maxBoundDepth limits how far a chain of type parameter bounds is followed
// before it is treated as recursive.
const maxBoundDepth = 32

// TypeID is the canonical identity of a type: its qualified name plus
// generic arity.
type TypeID struct {
	Name  string
	Arity int
}

var (
	UnresolvedID = TypeID{Name: UnresolvedName}
	AnyID        = TypeID{Name: AnyName}
)

func (id TypeID) String() string {
	if id.Arity == 0 {
		return id.Name
	}
	return id.Name + "<" + strconv.Itoa(id.Arity) + ">"
}

// Compare orders identities by name, then arity.
func (id TypeID) Compare(other TypeID) int {
	if c := cmp.Compare(id.Name, other.Name); c != 0 {
		return c
	}
	return cmp.Compare(id.Arity, other.Arity)
}

// Target is one candidate referent of a field.
type Target struct {
	ID      TypeID
	Element bool // reached through a type argument or array element
}

// Field is a declared field with its erasure chain.
type Field struct {
	Name     string
	Static   bool
	Weak     bool
	Degraded bool // element targets were dropped, see Table.Unresolved
	Targets  []Target
}

// Node is one type in the table.
type Node struct {
	ID        TypeID
	Kind      model.Kind
	Declared  bool // false for opaque leaves outside the analyzed set
	Fields    []Field
	Supers    []TypeID
	Outer     *TypeID
	WeakOuter bool
	Pos       string
	Order     int
}

// Leaf reports whether the node is an opaque leaf.
func (n *Node) Leaf() bool { return !n.Declared }

// Unresolved records a type reference that could not be modeled precisely.
type Unresolved struct {
	Type   TypeID
	Member string
	Reason string
}

// Table is the result of a collection run.
type Table struct {
	nodes []*Node
	index map[TypeID]*Node

	Unresolved []Unresolved
}

// Nodes returns the nodes in insertion order.
func (t *Table) Nodes() []*Node { return t.nodes }

// Len returns the number of nodes.
func (t *Table) Len() int { return len(t.nodes) }

// Lookup finds the node with the given identity.
func (t *Table) Lookup(id TypeID) (*Node, bool) {
	n, ok := t.index[id]
	return n, ok
}

// Collect builds the node table for a declaration set. The table does not
// depend on the order of decls.
func Collect(decls []model.TypeDecl) *Table {
	c := &collector{
		table: &Table{index: make(map[TypeID]*Node)},
		names: make(map[string]TypeID),
	}

	merged := merge(decls)

	for _, d := range merged {
		id := TypeID{Name: d.Name, Arity: d.Arity()}
		if _, ok := c.names[d.Name]; !ok {
			c.names[d.Name] = id
		}
		n := c.node(id)
		n.Declared = true
		n.Kind = d.Kind
		n.Pos = d.Pos
		n.WeakOuter = d.WeakOuter
	}

	for _, d := range merged {
		c.declare(d)
	}

	return c.table
}

// merge sorts declarations by identity and folds duplicates together.
// Duplicates are ordered by their content, so the merged result does not
// depend on input order.
func merge(decls []model.TypeDecl) []*model.TypeDecl {
	sorted := make([]*model.TypeDecl, 0, len(decls))
	keys := make(map[*model.TypeDecl]string, len(decls))
	for i := range decls {
		sorted = append(sorted, &decls[i])
		keys[&decls[i]] = declKey(&decls[i])
	}
	slices.SortFunc(sorted, func(a, b *model.TypeDecl) int {
		if c := (TypeID{a.Name, a.Arity()}).Compare(TypeID{b.Name, b.Arity()}); c != 0 {
			return c
		}
		return cmp.Compare(keys[a], keys[b])
	})

	var out []*model.TypeDecl
	for _, d := range sorted {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.Name == d.Name && last.Arity() == d.Arity() {
				mergeInto(last, d)
				continue
			}
		}
		cp := *d
		cp.Fields = slices.Clone(d.Fields)
		cp.Supertypes = slices.Clone(d.Supertypes)
		out = append(out, &cp)
	}
	return out
}

// mergeInto folds src into dst. Same-named fields of different types are
// both kept; identical fields merge and stay strong unless both are weak.
func mergeInto(dst, src *model.TypeDecl) {
	for _, f := range src.Fields {
		i := slices.IndexFunc(dst.Fields, func(g model.Field) bool {
			return g.Name == f.Name && g.Type.String() == f.Type.String()
		})
		if i < 0 {
			dst.Fields = append(dst.Fields, f)
			continue
		}
		dst.Fields[i].Weak = dst.Fields[i].Weak && f.Weak
		dst.Fields[i].Static = dst.Fields[i].Static && f.Static
	}
	dst.Supertypes = append(dst.Supertypes, src.Supertypes...)
	if dst.Outer == nil {
		dst.Outer = src.Outer
	}
	dst.WeakOuter = dst.WeakOuter || src.WeakOuter
	if dst.Pos == "" {
		dst.Pos = src.Pos
	}
}

// declKey renders the content of d for ordering duplicate declarations.
func declKey(d *model.TypeDecl) string {
	var b strings.Builder
	for _, f := range d.Fields {
		b.WriteString(f.Name)
		b.WriteByte(' ')
		b.WriteString(f.Type.String())
		if f.Static {
			b.WriteString(" static")
		}
		if f.Weak {
			b.WriteString(" weak")
		}
		b.WriteByte(';')
	}
	b.WriteByte('|')
	for _, s := range d.Supertypes {
		b.WriteString(s.String())
		b.WriteByte(';')
	}
	b.WriteByte('|')
	if d.Outer != nil {
		b.WriteString(d.Outer.String())
	}
	if d.WeakOuter {
		b.WriteString(" weak")
	}
	b.WriteByte('|')
	b.WriteString(d.Kind.String())
	b.WriteByte('|')
	b.WriteString(d.Pos)
	return b.String()
}

type collector struct {
	table *Table
	names map[string]TypeID // declared name -> identity of least arity
}

// node returns the node for id, creating an opaque leaf on first sight.
func (c *collector) node(id TypeID) *Node {
	if n, ok := c.table.index[id]; ok {
		return n
	}
	n := &Node{ID: id, Order: len(c.table.nodes)}
	c.table.nodes = append(c.table.nodes, n)
	c.table.index[id] = n
	return n
}

func (c *collector) unresolved(owner TypeID, member, reason string) {
	c.table.Unresolved = append(c.table.Unresolved, Unresolved{Type: owner, Member: member, Reason: reason})
}

func (c *collector) declare(d *model.TypeDecl) {
	id := TypeID{Name: d.Name, Arity: d.Arity()}
	n := c.table.index[id]

	for _, f := range d.Fields {
		n.Fields = append(n.Fields, c.field(id, f))
	}

	for _, s := range d.Supertypes {
		sid, ok := c.erase(s, 0)
		if !ok {
			c.unresolved(id, "$super", "unresolved supertype "+s.String())
		}
		if !slices.Contains(n.Supers, sid) && sid != id {
			n.Supers = append(n.Supers, sid)
		}
	}

	if d.Outer != nil {
		oid, ok := c.erase(*d.Outer, 0)
		if !ok {
			c.unresolved(id, "$outer", "unresolved enclosing type "+d.Outer.String())
		}
		n.Outer = &oid
	}
}

// field computes the erasure chain of a field.
func (c *collector) field(owner TypeID, f model.Field) Field {
	out := Field{Name: f.Name, Static: f.Static, Weak: f.Weak}
	ref := f.Type

	if ref.Primitive {
		return out
	}

	if ref.Dims > 0 {
		base := ref
		base.Dims = 0
		id, ok := c.erase(base, 0)
		if !ok {
			c.unresolved(owner, f.Name, "unresolved array element type "+ref.String())
		}
		out.Targets = append(out.Targets, Target{ID: id, Element: true})
		return c.elements(owner, out, base)
	}

	id, ok := c.erase(ref, 0)
	if !ok {
		c.unresolved(owner, f.Name, "unresolved type "+ref.String())
		return out.with(Target{ID: id})
	}
	out = out.with(Target{ID: id})
	if ref.Param {
		return out
	}
	return c.elements(owner, out, ref)
}

// elements appends the type arguments of ref, recursively, as element
// targets. An argument that cannot be modeled degrades the field to the
// targets already recorded.
func (c *collector) elements(owner TypeID, out Field, ref model.TypeRef) Field {
	var args []Target
	if ok := c.collectArgs(ref, &args); !ok {
		out.Degraded = true
		c.unresolved(owner, out.Name, "type arguments of "+ref.String()+" not modeled")
		return out
	}
	for _, t := range args {
		out = out.with(t)
	}
	return out
}

func (c *collector) collectArgs(ref model.TypeRef, acc *[]Target) bool {
	for _, a := range ref.Args {
		if a.Primitive {
			continue
		}
		if !a.Resolved() {
			return false
		}
		base := a
		base.Dims = 0
		id, ok := c.erase(base, 0)
		if !ok {
			return false
		}
		*acc = append(*acc, Target{ID: id, Element: true})
		if a.Param {
			continue
		}
		if !c.collectArgs(base, acc) {
			return false
		}
	}
	return true
}

// erase maps a reference to the identity of its erasure. It reports false
// when the reference is unresolved or its bounds recurse too deep, in which
// case the returned identity is the unresolved leaf.
func (c *collector) erase(ref model.TypeRef, depth int) (TypeID, bool) {
	if ref.Param {
		if depth >= maxBoundDepth {
			return c.node(UnresolvedID).ID, false
		}
		if ref.Bound == nil {
			return c.node(AnyID).ID, true
		}
		return c.erase(*ref.Bound, depth+1)
	}
	if ref.Name == "" {
		return c.node(UnresolvedID).ID, false
	}

	id := TypeID{Name: ref.Name, Arity: len(ref.Args)}
	if n, ok := c.table.index[id]; ok && n.Declared {
		return id, true
	}
	if declared, ok := c.names[ref.Name]; ok {
		id = declared
	}
	return c.node(id).ID, true
}

// with appends t unless an equal target is already present.
func (f Field) with(t Target) Field {
	for _, have := range f.Targets {
		if have.ID == t.ID {
			return f
		}
	}
	f.Targets = append(f.Targets, t)
	return f
}
