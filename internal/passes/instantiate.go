package passes

import (
	"context"
	"sort"

	"kratosc/internal/ir"
)

// CreateModuleInstantiation collapses the raw port-to-port AssignStmts
// that wire a generator to each of its child instances into a single
// explicit ModuleInstantiationStmt per child, carrying a deterministic,
// sorted port-binding map. Before this pass, a child instantiation is
// represented implicitly: plain AssignStmts under the parent's top-level
// statement list, one per connected port, with one side of the
// assignment belonging to the child generator's own var namespace. After
// this pass, all of that per-port wiring is replaced by a single
// ModuleInstantiationStmt for the instance.
type CreateModuleInstantiation struct{}

// Name returns the pass's name.
func (p *CreateModuleInstantiation) Name() string { return "create_module_instantiation" }

// Run rewrites child-wiring AssignStmts into ModuleInstantiationStmts for
// every generator in design.
func (p *CreateModuleInstantiation) Run(ctx context.Context, design *ir.Design) error {
	for _, g := range design.Generators() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := instantiateChildren(g); err != nil {
			return err
		}
	}
	return nil
}

func instantiateChildren(g *ir.Generator) error {
	if len(g.Children()) == 0 {
		return nil
	}

	bindings := make(map[*ir.Generator][]ir.ModulePortConnection)
	var wiring []*ir.AssignStmt

	for _, stmt := range g.Stmts() {
		assign, ok := stmt.(*ir.AssignStmt)
		if !ok {
			continue
		}
		if child := childOwning(assign.Left(), g); child != nil {
			bindings[child] = append(bindings[child], ir.ModulePortConnection{
				PortName:   assign.Left().Name(),
				Connection: assign.Right(),
			})
			wiring = append(wiring, assign)
			continue
		}
		if child := childOwning(assign.Right(), g); child != nil {
			bindings[child] = append(bindings[child], ir.ModulePortConnection{
				PortName:   assign.Right().Name(),
				Connection: assign.Left(),
			})
			wiring = append(wiring, assign)
		}
	}

	for _, assign := range wiring {
		g.RemoveStmt(assign)
	}

	for _, child := range g.Children() {
		conns, ok := bindings[child]
		if !ok {
			continue
		}
		sort.Slice(conns, func(i, j int) bool { return conns[i].PortName < conns[j].PortName })
		instName := g.ChildInstName(child)
		instStmt := ir.NewModuleInstantiationStmt(instName, child)
		instStmt.SetBindings(conns)
		if err := g.AddStmt(instStmt); err != nil {
			return err
		}
	}
	return nil
}

// childOwning returns the child generator v belongs to, if v is a port of
// one of g's direct children; nil otherwise (including when v belongs to
// g itself).
func childOwning(v *ir.Var, g *ir.Generator) *ir.Generator {
	owner := v.Generator()
	if owner == nil || owner == g {
		return nil
	}
	if owner.ParentInstance() != g {
		return nil
	}
	return owner
}
