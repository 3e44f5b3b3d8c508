package replace

type List[E any] struct {
	owner *Tree
	items []E
}

type Tree struct { // want `reference cycle \[test/replace\.Tree--children-->test/replace\.Tree\]`
	children List[*Tree]
}
