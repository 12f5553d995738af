package passes

import (
	"context"
	"fmt"

	"kratosc/internal/ir"
)

// VerifyConnectivity checks, for every generator in the design: every
// non-input var has at least one source; every input port has exactly
// zero sources driven from within its own generator (it may still be
// driven by a parent instantiation, which lives in the parent's own
// statement tree); and every driving assignment's left/right widths
// agree.
type VerifyConnectivity struct{}

// Name returns the pass's name.
func (p *VerifyConnectivity) Name() string { return "verify_generator_connectivity" }

// Run checks connectivity for every generator reachable from design.
func (p *VerifyConnectivity) Run(ctx context.Context, design *ir.Design) error {
	for _, g := range design.Generators() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.checkGenerator(g); err != nil {
			return err
		}
	}
	return nil
}

func (p *VerifyConnectivity) checkGenerator(g *ir.Generator) error {
	ownAssigns := make(map[*ir.AssignStmt]bool)
	vis := &ir.Visitor{VisitAssign: func(a *ir.AssignStmt) { ownAssigns[a] = true }}
	vis.Walk(g)

	for _, v := range g.Vars() {
		if err := checkWidths(v); err != nil {
			return err
		}
		if len(v.Sources()) == 0 {
			return &ir.Error{Kind: ir.KindInternal,
				Message: fmt.Sprintf("var %s has no driver", v.Name()),
				Nodes:   []ir.Node{v}}
		}
	}
	for _, port := range g.Ports() {
		if err := checkWidths(port); err != nil {
			return err
		}
		if port.Direction() == ir.In {
			for _, src := range port.Sources() {
				if ownAssigns[src] {
					return &ir.Error{Kind: ir.KindIllegalAssignForm,
						Message: fmt.Sprintf("input port %s cannot be driven from within its own generator %s", port.Name(), g.Name),
						Nodes:   []ir.Node{port, src}}
				}
			}
			continue
		}
		if len(port.Sources()) == 0 {
			return &ir.Error{Kind: ir.KindInternal,
				Message: fmt.Sprintf("output port %s has no driver", port.Name()),
				Nodes:   []ir.Node{port}}
		}
	}
	return nil
}

func checkWidths(v *ir.Var) error {
	for _, src := range v.Sources() {
		if src.Left().Width() != src.Right().Width() {
			return &ir.Error{Kind: ir.KindWidthMismatch,
				Message: fmt.Sprintf("%s (width %d) driven by %s (width %d)",
					src.Left().Name(), src.Left().Width(), src.Right().Name(), src.Right().Width()),
				Nodes: []ir.Node{src, src.Left(), src.Right()}}
		}
	}
	return nil
}
