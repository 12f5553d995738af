package passes

import (
	"context"
	"testing"

	"kratosc/internal/ir"
)

func TestInsertVerilatorPublicSkipsNonDebugGenerators(t *testing.T) {
	c := ir.NewContext()
	g, err := buildBuffer(c, "buffer")
	if err != nil {
		t.Fatalf("buildBuffer: %v", err)
	}
	design := ir.NewDesign(g)
	if err := (&InsertVerilatorPublic{}).Run(context.Background(), design); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, p := range g.Ports() {
		if p.Comment() != "" {
			t.Errorf("port %s got a comment on a non-debug generator", p.Name())
		}
	}
}

func TestInsertVerilatorPublicDecoratesDebugGenerator(t *testing.T) {
	c := ir.NewContext()
	g, err := buildBuffer(c, "buffer")
	if err != nil {
		t.Fatalf("buildBuffer: %v", err)
	}
	g.Debug = true

	in := g.Lookup("in")
	in.SetComment("already annotated")

	design := ir.NewDesign(g)
	if err := (&InsertVerilatorPublic{}).Run(context.Background(), design); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if in.Comment() != "already annotated" {
		t.Errorf("InsertVerilatorPublic overwrote an existing comment: %q", in.Comment())
	}
	out := g.Lookup("out")
	if out.Comment() != VerilatorPublicMarker {
		t.Errorf("out.Comment() = %q, want %q", out.Comment(), VerilatorPublicMarker)
	}
}
