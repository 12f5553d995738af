// Package debugdb assembles the four post-emission debug tables:
// per-generator breakpoint statement ids, front-end-to-emitted variable
// name mappings, inter-generator connection records, and the instance
// hierarchy. It is an in-memory table builder only; writing any of this
// out to a file format is left to the caller.
package debugdb

import (
	"sort"
	"sync"

	"kratosc/internal/ir"
)

// BreakPointFuncName is the function name InjectDebugBreakPoints calls at
// each decorated statement.
const BreakPointFuncName = "breakpoint_trace"

// VariableMapping records a front-end-declared var name against the name
// it was ultimately emitted under.
type VariableMapping struct {
	Generator    *ir.Generator
	FrontendName string
	EmittedName  string
}

// Connection records one inter-generator signal binding, keyed by opaque
// instance handles rather than generator pointers so it remains
// meaningful after the pointer-identity compilation session has ended.
type Connection struct {
	FromHandle string
	FromVar    string
	ToHandle   string
	ToVar      string
}

// HierarchyEdge records one (parent, child) instance relationship.
type HierarchyEdge struct {
	ParentHandle string
	ChildHandle  string
}

// Database accumulates the four debug tables over the course of a
// compilation. Safe for concurrent use by parallel per-generator passes.
type Database struct {
	mu sync.Mutex

	breakPoints map[*ir.Generator]map[uint32]struct{}
	variables   []VariableMapping
	connections []Connection
	hierarchy   []HierarchyEdge

	nextID uint32
}

// New creates an empty Database.
func New() *Database {
	return &Database{breakPoints: make(map[*ir.Generator]map[uint32]struct{})}
}

// NextBreakPointID hands out the next globally unique breakpoint id.
func (db *Database) NextBreakPointID() uint32 {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextID++
	return db.nextID
}

// AddBreakPoint records that id was assigned to a statement owned by g.
func (db *Database) AddBreakPoint(g *ir.Generator, id uint32) {
	db.mu.Lock()
	defer db.mu.Unlock()
	set, ok := db.breakPoints[g]
	if !ok {
		set = make(map[uint32]struct{})
		db.breakPoints[g] = set
	}
	set[id] = struct{}{}
}

// AddVariableMapping records a front-end-to-emitted var name mapping.
func (db *Database) AddVariableMapping(m VariableMapping) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.variables = append(db.variables, m)
}

// AddConnection records one inter-generator signal binding.
func (db *Database) AddConnection(c Connection) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.connections = append(db.connections, c)
}

// AddHierarchy records one (parent, child) instance edge.
func (db *Database) AddHierarchy(e HierarchyEdge) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.hierarchy = append(db.hierarchy, e)
}

// BreakPointRow is one generator's sorted set of breakpoint ids, for
// deterministic inspection via Snapshot.
type BreakPointRow struct {
	Generator string
	IDs       []uint32
}

// Snapshot is a deterministic, sorted view over all four tables.
type Snapshot struct {
	BreakPoints []BreakPointRow
	Variables   []VariableMapping
	Connections []Connection
	Hierarchy   []HierarchyEdge
}

// Snapshot returns a sorted, deterministic copy of the database's four
// tables, suitable for golden-file comparison in tests.
func (db *Database) Snapshot() Snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows := make([]BreakPointRow, 0, len(db.breakPoints))
	for g, ids := range db.breakPoints {
		sorted := make([]uint32, 0, len(ids))
		for id := range ids {
			sorted = append(sorted, id)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		rows = append(rows, BreakPointRow{Generator: g.Name, IDs: sorted})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Generator < rows[j].Generator })

	variables := append([]VariableMapping(nil), db.variables...)
	sort.Slice(variables, func(i, j int) bool {
		if variables[i].Generator != variables[j].Generator {
			return variables[i].Generator.Name < variables[j].Generator.Name
		}
		return variables[i].FrontendName < variables[j].FrontendName
	})

	connections := append([]Connection(nil), db.connections...)
	sort.Slice(connections, func(i, j int) bool {
		if connections[i].FromHandle != connections[j].FromHandle {
			return connections[i].FromHandle < connections[j].FromHandle
		}
		return connections[i].FromVar < connections[j].FromVar
	})

	hierarchy := append([]HierarchyEdge(nil), db.hierarchy...)
	sort.Slice(hierarchy, func(i, j int) bool {
		if hierarchy[i].ParentHandle != hierarchy[j].ParentHandle {
			return hierarchy[i].ParentHandle < hierarchy[j].ParentHandle
		}
		return hierarchy[i].ChildHandle < hierarchy[j].ChildHandle
	})

	return Snapshot{
		BreakPoints: rows,
		Variables:   variables,
		Connections: connections,
		Hierarchy:   hierarchy,
	}
}
