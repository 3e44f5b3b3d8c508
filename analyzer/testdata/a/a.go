package a

import "time"

type Node struct { // want `reference cycle \[test/a\.Node--next-->test/a\.Node\]`
	next *Node
	val  int
}

type Child struct { // want `reference cycle \[test/a\.Child--parent-->test/a\.Parent, test/a\.Parent--children-->test/a\.Child\]`
	parent *Parent
	name   string
}

type Parent struct {
	children []*Child
}

type Item struct { // want `reference cycle \[test/a\.Item--owner-->test/a\.Owner, test/a\.Owner--items-->test/a\.Item\]`
	owner *Owner
}

type Owner struct {
	items map[string]*Item
}

type Doc struct {
	views   []*View
	created time.Time
}

type View struct {
	doc *Doc `cyclefinder:"weak"`
}
