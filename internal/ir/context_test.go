package ir

import "testing"

func TestNewGeneratorUniquifiesNames(t *testing.T) {
	ctx := NewContext()
	a := ctx.NewGenerator("buffer")
	b := ctx.NewGenerator("buffer")
	if a.Name == b.Name {
		t.Fatalf("two generators created with the same base name got identical names: %q", a.Name)
	}
	if a.Name != "buffer" {
		t.Fatalf("the first generator with a given base name should keep it unsuffixed, got %q", a.Name)
	}
}

func TestRenameUniquifiesAndUpdatesRegistry(t *testing.T) {
	ctx := NewContext()
	a := ctx.NewGenerator("a")
	b := ctx.NewGenerator("b")

	got := ctx.Rename(a, "b")
	if got == "b" {
		t.Fatalf("renaming a to the already-taken name %q should have uniquified it", "b")
	}
	if a.Name != got {
		t.Fatalf("Rename should update the generator's own Name field")
	}

	// The old name "a" must now be free for reuse.
	c := ctx.NewGenerator("a")
	if c.Name != "a" {
		t.Fatalf("after renaming a away, its old name should be free; got %q", c.Name)
	}
	if b.Name != "b" {
		t.Fatalf("renaming a should not affect b's name, got %q", b.Name)
	}
}

func TestInternStringDeduplicates(t *testing.T) {
	ctx := NewContext()
	s1 := ctx.InternString("hello")
	s2 := ctx.InternString("hello")
	if s1 != s2 {
		t.Fatalf("InternString should return the same string content")
	}
}

func TestNumCPUsDefaultAndOverride(t *testing.T) {
	ctx := NewContext()
	if ctx.NumCPUs() <= 0 {
		t.Fatalf("NumCPUs() should default to a positive detected core count, got %d", ctx.NumCPUs())
	}
	ctx.SetNumCPUs(4)
	if ctx.NumCPUs() != 4 {
		t.Fatalf("NumCPUs() = %d, want 4 after SetNumCPUs(4)", ctx.NumCPUs())
	}
	ctx.SetNumCPUs(0)
	if ctx.NumCPUs() <= 0 {
		t.Fatalf("SetNumCPUs(0) should reset to the detected core count, got %d", ctx.NumCPUs())
	}
}

func TestInternConstCachesByTriple(t *testing.T) {
	ctx := NewContext()
	a, err := ctx.InternConst(5, 8, false)
	if err != nil {
		t.Fatalf("InternConst: %v", err)
	}
	b, err := ctx.InternConst(5, 8, false)
	if err != nil {
		t.Fatalf("InternConst: %v", err)
	}
	if a != b {
		t.Fatalf("InternConst(5, 8, false) called twice should return the identical var")
	}
	c, err := ctx.InternConst(5, 8, true)
	if err != nil {
		t.Fatalf("InternConst: %v", err)
	}
	if c == a {
		t.Fatalf("a different signedness should not share the unsigned const's cache entry")
	}
}
