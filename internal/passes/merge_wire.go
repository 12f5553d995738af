package passes

import (
	"context"

	"kratosc/internal/ir"
)

// MergeWireAssignments inlines a var that is driven by exactly one
// top-level Blocking assignment from another plain var, slice, port, or
// concat (never from an Expression, to avoid duplicating arithmetic at
// every use site). Vars carrying a user comment are left alone: a comment
// is this framework's signal that the name carries user intent and should
// survive to the emitted HDL.
type MergeWireAssignments struct{}

// Name returns the pass's name.
func (p *MergeWireAssignments) Name() string { return "merge_wire_assignments" }

// Run inlines eligible single-driver wires in every generator in design.
func (p *MergeWireAssignments) Run(ctx context.Context, design *ir.Design) error {
	for _, g := range design.Generators() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for {
			changed := false
			for _, v := range g.Vars() {
				if v.Comment() != "" {
					continue
				}
				srcs := v.Sources()
				if len(srcs) != 1 {
					continue
				}
				stmt := srcs[0]
				if stmt.Type() != ir.Blocking || stmt.Parent() != g {
					continue
				}
				src := stmt.Right()
				if !isStructural(src) {
					continue
				}
				v.RelinkSinksTo(src)
				if err := v.Unassign(src); err != nil {
					return err
				}
				if err := g.RemoveVar(v); err != nil {
					return err
				}
				changed = true
			}
			if !changed {
				break
			}
		}
	}
	return nil
}

func isStructural(v *ir.Var) bool {
	switch v.Variant() {
	case ir.VarBase, ir.VarPortIO, ir.VarSlice, ir.VarConcat, ir.VarConstValue:
		return true
	default:
		return false
	}
}
