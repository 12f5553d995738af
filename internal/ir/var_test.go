package ir

import (
	"errors"
	"testing"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	ctx := NewContext()
	return ctx.NewGenerator("top")
}

func TestSliceIdempotence(t *testing.T) {
	g := newTestGenerator(t)
	a, err := g.Var("a", 16, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}

	s1, err := a.Slice(7, 0)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	s2, err := a.Slice(7, 0)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("Slice(7,0) called twice returned distinct vars: %p vs %p", s1, s2)
	}

	s3, err := a.Slice(15, 8)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if s3 == s1 {
		t.Fatalf("distinct bounds Slice(15,8) and Slice(7,0) returned the same var")
	}

	b1, err := a.Bit(3)
	if err != nil {
		t.Fatalf("Bit: %v", err)
	}
	b2, err := a.Slice(3, 3)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if b1 != b2 {
		t.Fatalf("Bit(3) and Slice(3,3) did not share the same cached var")
	}
}

func TestSliceOutOfRange(t *testing.T) {
	g := newTestGenerator(t)
	a, err := g.Var("a", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}

	if _, err := a.Slice(8, 0); !errors.Is(err, &Error{Kind: KindSliceOutOfRange}) {
		t.Fatalf("Slice(8,0) on an 8-bit var: got %v, want KindSliceOutOfRange", err)
	}
	if _, err := a.Slice(3, 4); !errors.Is(err, &Error{Kind: KindSliceOutOfRange}) {
		t.Fatalf("Slice(3,4) with low > high: got %v, want KindSliceOutOfRange", err)
	}
}

func TestWidthMismatch(t *testing.T) {
	g := newTestGenerator(t)
	a, err := g.Var("a", 16, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	b, err := g.Var("b", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}

	if _, err := a.Add(b); !errors.Is(err, &Error{Kind: KindWidthMismatch}) {
		t.Fatalf("Add across mismatched widths: got %v, want KindWidthMismatch", err)
	}
	if _, err := a.Sub(b); !errors.Is(err, &Error{Kind: KindWidthMismatch}) {
		t.Fatalf("Sub across mismatched widths: got %v, want KindWidthMismatch", err)
	}

	// Assign itself does not enforce width agreement at construction time
	// (that is the pass pipeline's job, via verify_generator_connectivity);
	// it only rejects non-assignable destinations and conflicting concrete
	// AssignmentTypes.
	if _, err := a.Assign(b, Blocking); err != nil {
		t.Fatalf("Assign across mismatched widths should still construct an AssignStmt: %v", err)
	}

	c, err := g.Var("c", 16, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	if _, err := a.Add(c); err != nil {
		t.Fatalf("Add across matching widths should succeed: %v", err)
	}
}

func TestCrossGeneratorMismatch(t *testing.T) {
	ctx := NewContext()
	g1 := ctx.NewGenerator("g1")
	g2 := ctx.NewGenerator("g2")
	a, err := g1.Var("a", 16, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	b, err := g2.Var("b", 16, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	if _, err := a.Add(b); !errors.Is(err, &Error{Kind: KindCrossGenerator}) {
		t.Fatalf("Add across generators: got %v, want KindCrossGenerator", err)
	}
}

func TestAssignIdempotentByIdentity(t *testing.T) {
	g := newTestGenerator(t)
	a, _ := g.Var("a", 16, false)
	b, _ := g.Var("b", 16, false)

	first, err := a.Assign(b, Undefined)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	second, err := a.Assign(b, Undefined)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if first != second {
		t.Fatalf("Assign(b, Undefined) called twice produced distinct AssignStmts")
	}
	if len(a.Sources()) != 1 {
		t.Fatalf("a has %d sources after a repeated identical Assign, want 1", len(a.Sources()))
	}

	upgraded, err := a.Assign(b, Blocking)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if upgraded != first {
		t.Fatalf("upgrading an Undefined assign to Blocking should reuse the statement")
	}
	if upgraded.Type() != Blocking {
		t.Fatalf("Type() = %v, want Blocking", upgraded.Type())
	}

	if _, err := a.Assign(b, NonBlocking); !errors.Is(err, &Error{Kind: KindAssignTypeMismatch}) {
		t.Fatalf("re-assigning with a conflicting concrete type: got %v, want KindAssignTypeMismatch", err)
	}
}

func TestNotAssignable(t *testing.T) {
	g := newTestGenerator(t)
	a, _ := g.Var("a", 16, false)
	b, _ := g.Var("b", 16, false)
	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := sum.Assign(a, Blocking); !errors.Is(err, &Error{Kind: KindNotAssignable}) {
		t.Fatalf("assigning to an expression var: got %v, want KindNotAssignable", err)
	}

	c, err := g.Const(5, 16, false)
	if err != nil {
		t.Fatalf("Const: %v", err)
	}
	if _, err := c.Assign(a, Blocking); !errors.Is(err, &Error{Kind: KindNotAssignable}) {
		t.Fatalf("assigning to a constant: got %v, want KindNotAssignable", err)
	}
}
