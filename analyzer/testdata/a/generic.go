package a

type Tree[T any] struct { // want `reference cycle \[test/a\.Tree<1>--children-->test/a\.Tree<1>\]`
	children []*Tree[T]
	value    T
}

type Pair[K comparable, V any] struct {
	key   K
	value V
}
