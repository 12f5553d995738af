package passes

import (
	"context"

	"kratosc/internal/ir"
)

// RemoveUnusedVars deletes internal vars with no sinks (nothing reads
// them) and, transitively, the statements that drove them, iterating to a
// fixed point: removing one dead var's driving assignment can make its own
// source var dead in turn. Ports are never removed — they are the
// generator's external contract regardless of internal usage.
type RemoveUnusedVars struct{}

// Name returns the pass's name.
func (p *RemoveUnusedVars) Name() string { return "remove_unused_vars" }

// Run removes dead internal vars (and their driving statements) from
// every generator in design, to a fixed point.
func (p *RemoveUnusedVars) Run(ctx context.Context, design *ir.Design) error {
	for _, g := range design.Generators() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for {
			changed := false
			for _, v := range g.Vars() {
				if len(v.Sinks()) > 0 {
					continue
				}
				for _, src := range v.Sources() {
					if err := v.Unassign(src.Right()); err != nil {
						return err
					}
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
