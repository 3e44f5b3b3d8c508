package limited

type A struct { // want `reference cycle \[test/limited\.A--toB-->test/limited\.B, test/limited\.B--toA-->test/limited\.A\]` `reference cycle search truncated: 3 types, 1 cycles reported`
	toB *B
	toC *C
}

type B struct {
	toA *A
	toC *C
}

type C struct {
	toA *A
	toB *B
}
