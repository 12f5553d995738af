package passes

import (
	"context"
	"testing"

	"kratosc/internal/ir"
)

func TestRemoveUnusedVarsDropsDeadVar(t *testing.T) {
	c := ir.NewContext()
	g := c.NewGenerator("top")
	in, err := g.Port("in", 8, ir.In, ir.PortData, false)
	if err != nil {
		t.Fatalf("Port: %v", err)
	}
	dead, err := g.Var("dead", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	stmt, err := dead.Assign(in, ir.Blocking)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := g.AddStmt(stmt); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}

	design := ir.NewDesign(g)
	if err := (&RemoveUnusedVars{}).Run(context.Background(), design); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.Lookup("dead") != nil {
		t.Fatalf("a var with no sinks should have been removed")
	}
	if len(in.Sinks()) != 0 {
		t.Fatalf("removing dead's driving assignment should have cleared in's sink list")
	}
}

func TestRemoveUnusedVarsKeepsLiveVar(t *testing.T) {
	c := ir.NewContext()
	g, err := buildBuffer(c, "buffer")
	if err != nil {
		t.Fatalf("buildBuffer: %v", err)
	}
	design := ir.NewDesign(g)
	if err := (&RemoveUnusedVars{}).Run(context.Background(), design); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.Lookup("in") == nil || g.Lookup("out") == nil {
		t.Fatalf("ports must never be removed by remove_unused_vars")
	}
}

func TestRemoveUnusedVarsNeverRemovesPorts(t *testing.T) {
	c := ir.NewContext()
	g := c.NewGenerator("top")
	if _, err := g.Port("orphaned", 8, ir.Out, ir.PortData, false); err != nil {
		t.Fatalf("Port: %v", err)
	}
	design := ir.NewDesign(g)
	if err := (&RemoveUnusedVars{}).Run(context.Background(), design); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.Lookup("orphaned") == nil {
		t.Fatalf("an undriven, unread output port should still survive remove_unused_vars")
	}
}

func TestRemoveUnusedVarsCascades(t *testing.T) {
	c := ir.NewContext()
	g := c.NewGenerator("top")
	in, err := g.Port("in", 8, ir.In, ir.PortData, false)
	if err != nil {
		t.Fatalf("Port: %v", err)
	}
	mid, err := g.Var("mid", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	leaf, err := g.Var("leaf", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}

	midStmt, err := mid.Assign(in, ir.Blocking)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := g.AddStmt(midStmt); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}
	leafStmt, err := leaf.Assign(mid, ir.Blocking)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := g.AddStmt(leafStmt); err != nil {
		t.Fatalf("AddStmt: %v", err)
	}
	// leaf has no sinks, so it (and its driver) should drop first, which in
	// turn leaves mid with no sinks, and it should drop on the next fixed-
	// point iteration.

	design := ir.NewDesign(g)
	if err := (&RemoveUnusedVars{}).Run(context.Background(), design); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.Lookup("leaf") != nil || g.Lookup("mid") != nil {
		t.Fatalf("both leaf and mid should have cascaded away")
	}
}
