package debugdb

import (
	"testing"

	"kratosc/internal/ir"
)

func TestNextBreakPointIDMonotonic(t *testing.T) {
	db := New()
	ids := make(map[uint32]bool)
	var prev uint32
	for i := 0; i < 5; i++ {
		id := db.NextBreakPointID()
		if ids[id] {
			t.Fatalf("NextBreakPointID returned a duplicate id %d", id)
		}
		if i > 0 && id <= prev {
			t.Fatalf("NextBreakPointID returned %d after %d, want an increasing id", id, prev)
		}
		ids[id] = true
		prev = id
	}
}

func TestSnapshotIsSortedAndDeterministic(t *testing.T) {
	ctx := ir.NewContext()
	gb := ctx.NewGenerator("b")
	ga := ctx.NewGenerator("a")

	db := New()
	db.AddBreakPoint(gb, 3)
	db.AddBreakPoint(gb, 1)
	db.AddBreakPoint(ga, 2)

	db.AddConnection(Connection{FromHandle: "b", FromVar: "y", ToHandle: "c", ToVar: "x"})
	db.AddConnection(Connection{FromHandle: "a", FromVar: "z", ToHandle: "c", ToVar: "w"})

	db.AddHierarchy(HierarchyEdge{ParentHandle: "top", ChildHandle: "b"})
	db.AddHierarchy(HierarchyEdge{ParentHandle: "top", ChildHandle: "a"})

	db.AddVariableMapping(VariableMapping{Generator: gb, FrontendName: "y", EmittedName: "y_0"})
	db.AddVariableMapping(VariableMapping{Generator: ga, FrontendName: "z", EmittedName: "z_0"})

	snap := db.Snapshot()

	if len(snap.BreakPoints) != 2 {
		t.Fatalf("got %d breakpoint rows, want 2", len(snap.BreakPoints))
	}
	if snap.BreakPoints[0].Generator != "a" || snap.BreakPoints[1].Generator != "b" {
		t.Fatalf("breakpoint rows not sorted by generator name: %+v", snap.BreakPoints)
	}
	if len(snap.BreakPoints[1].IDs) != 2 || snap.BreakPoints[1].IDs[0] != 1 || snap.BreakPoints[1].IDs[1] != 3 {
		t.Fatalf("generator b's ids not sorted ascending: %v", snap.BreakPoints[1].IDs)
	}

	if snap.Connections[0].FromHandle != "a" || snap.Connections[1].FromHandle != "b" {
		t.Fatalf("connections not sorted by FromHandle: %+v", snap.Connections)
	}

	if snap.Hierarchy[0].ChildHandle != "a" || snap.Hierarchy[1].ChildHandle != "b" {
		t.Fatalf("hierarchy edges not sorted by child handle: %+v", snap.Hierarchy)
	}

	if snap.Variables[0].Generator.Name != "a" || snap.Variables[1].Generator.Name != "b" {
		t.Fatalf("variable mappings not sorted by generator name: %+v", snap.Variables)
	}

	snap2 := db.Snapshot()
	if len(snap.BreakPoints) != len(snap2.BreakPoints) {
		t.Fatalf("repeated Snapshot calls produced different shapes")
	}
}

func TestSnapshotEmptyDatabase(t *testing.T) {
	db := New()
	snap := db.Snapshot()
	if len(snap.BreakPoints) != 0 || len(snap.Variables) != 0 || len(snap.Connections) != 0 || len(snap.Hierarchy) != 0 {
		t.Fatalf("an empty database should produce an empty snapshot, got %+v", snap)
	}
}
