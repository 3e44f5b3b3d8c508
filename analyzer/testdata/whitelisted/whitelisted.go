package whitelisted

type Child struct {
	parent *Parent
}

type Parent struct {
	children []*Child
}

type Node struct {
	next *Node
}

type Doc struct { // want `reference cycle \[test/whitelisted\.Doc--views-->test/whitelisted\.View, test/whitelisted\.View--doc-->test/whitelisted\.Doc\]`
	views []*View
}

type View struct {
	doc *Doc
}
