package ir

import "testing"

func TestConcatDeduplicatesAndComputesWidth(t *testing.T) {
	g := newTestGenerator(t)
	a, _ := g.Var("a", 4, false)
	b, _ := g.Var("b", 4, false)

	c1, err := a.Concat(b)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if got := c1.Width(); got != 8 {
		t.Fatalf("Width() = %d, want 8", got)
	}
	if got := c1.Members(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("Members() = %v, want [a b]", got)
	}

	c2, err := a.Concat(b)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if c1 != c2 {
		t.Fatalf("Concat(a, b) called twice with identical members should return the cached var")
	}

	c3, err := b.Concat(a)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if c3 == c1 {
		t.Fatalf("Concat(b, a) should not share a's Concat(a, b) cache entry (member order matters)")
	}
}

func TestConcatSignedness(t *testing.T) {
	g := newTestGenerator(t)
	signedA, _ := g.Var("signedA", 4, true)
	signedB, _ := g.Var("signedB", 4, true)
	unsigned, _ := g.Var("unsigned", 4, false)

	allSigned, err := signedA.Concat(signedB)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if !allSigned.IsSigned() {
		t.Fatalf("a concat of all-signed members should itself be signed")
	}

	mixed, err := signedA.Concat(unsigned)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if mixed.IsSigned() {
		t.Fatalf("a concat with any unsigned member should itself be unsigned")
	}
}

func TestConcatFlattensWhenChaining(t *testing.T) {
	g := newTestGenerator(t)
	a, _ := g.Var("a", 4, false)
	b, _ := g.Var("b", 4, false)
	c, _ := g.Var("c", 4, false)

	ab, err := a.Concat(b)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	chained, err := ab.Concat(c)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	members := chained.Members()
	if len(members) != 3 || members[0] != a || members[1] != b || members[2] != c {
		t.Fatalf("Members() = %v, want [a b c] (flattened, not nested)", members)
	}
	if got := chained.Width(); got != 12 {
		t.Fatalf("Width() = %d, want 12", got)
	}

	again, err := ab.Concat(c)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if again != chained {
		t.Fatalf("chaining the same members twice should return the cached var")
	}
}

func TestConcatRequiresAtLeastOneMember(t *testing.T) {
	g := newTestGenerator(t)
	a, _ := g.Var("a", 4, false)
	if _, err := a.Concat(); err == nil {
		t.Fatalf("Concat with no additional members should fail")
	}
}

func TestSignedViewIsLazyAndCachedAndNotAssignable(t *testing.T) {
	g := newTestGenerator(t)
	a, _ := g.Var("a", 8, false)

	sv1 := a.Signed()
	sv2 := a.Signed()
	if sv1 != sv2 {
		t.Fatalf("Signed() called twice should return the cached view")
	}
	if !sv1.IsSigned() {
		t.Fatalf("a SignedView should report IsSigned() true")
	}
	if sv1.Width() != a.Width() {
		t.Fatalf("a SignedView should preserve the underlying var's width")
	}

	b, _ := g.Var("b", 8, false)
	if _, err := sv1.Assign(b, Blocking); err == nil {
		t.Fatalf("assigning to a SignedView should fail")
	}
}

func TestSignedOnAlreadySignedVarReturnsSelf(t *testing.T) {
	g := newTestGenerator(t)
	a, _ := g.Var("a", 8, true)
	if a.Signed() != a {
		t.Fatalf("Signed() on an already-signed var should return itself")
	}
}
