package passes

import (
	"context"
	"fmt"

	"kratosc/internal/ir"
)

// DecoupleGeneratorPorts inserts an intermediate internal var wherever a
// child instance's port is bound directly to one of the parent's own
// ports, so that every instantiation boundary is crossed by a plain wire
// rather than a port aliased straight through to another port. Downstream
// tooling (debug tracing, per-signal hierarchy lookups) assumes every
// generator-level port has its own driving or driven var local to that
// generator.
type DecoupleGeneratorPorts struct{}

// Name returns the pass's name.
func (p *DecoupleGeneratorPorts) Name() string { return "decouple_generator_ports" }

// Run inserts buffer vars for every direct port-to-port instantiation
// binding in every generator in design.
func (p *DecoupleGeneratorPorts) Run(ctx context.Context, design *ir.Design) error {
	for _, g := range design.Generators() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := decoupleGenerator(g); err != nil {
			return err
		}
	}
	return nil
}

func decoupleGenerator(g *ir.Generator) error {
	for _, stmt := range g.Stmts() {
		inst, ok := stmt.(*ir.ModuleInstantiationStmt)
		if !ok {
			continue
		}
		bindings := inst.Bindings()
		changed := false
		for i, bind := range bindings {
			conn := bind.Connection
			if conn.Variant() != ir.VarPortIO || conn.Generator() != g {
				continue
			}
			childPort := inst.Child().Lookup(bind.PortName)
			buf, err := freshBufferVar(g, inst.InstName(), bind.PortName, conn.Width(), conn.IsSigned())
			if err != nil {
				return err
			}
			if childPort != nil && childPort.Direction() == ir.In {
				if _, err := buf.Assign(conn, ir.Blocking); err != nil {
					return err
				}
				if err := g.AddStmt(mustAssignStmt(buf, conn)); err != nil {
					return err
				}
			} else {
				if _, err := conn.Assign(buf, ir.Blocking); err != nil {
					return err
				}
				if err := g.AddStmt(mustAssignStmt(conn, buf)); err != nil {
					return err
				}
			}
			bindings[i].Connection = buf
			changed = true
		}
		if changed {
			inst.SetBindings(bindings)
		}
	}
	return nil
}

// mustAssignStmt returns the AssignStmt already created by dst.Assign(src,
// ...) above, so it can be attached as a top-level statement; Assign is
// idempotent by (dst, src) identity so this lookup always finds it.
func mustAssignStmt(dst, src *ir.Var) ir.Stmt {
	for _, s := range dst.Sources() {
		if s.Right() == src {
			return s
		}
	}
	panic("decouple_generator_ports: assignment vanished immediately after creation")
}

func freshBufferVar(g *ir.Generator, instName, portName string, width uint, isSigned bool) (*ir.Var, error) {
	base := fmt.Sprintf("%s_%s", instName, portName)
	name := base
	for n := 0; ; n++ {
		if n > 0 {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		if g.Lookup(name) == nil {
			break
		}
	}
	return g.Var(name, width, isSigned)
}
