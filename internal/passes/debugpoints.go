package passes

import (
	"context"

	"kratosc/internal/debugdb"
	"kratosc/internal/ir"
)

// InjectDebugBreakPoints decorates every top-level statement of a
// Debug-enabled generator with a synthetic call to the breakpoint tracer
// function, each carrying a globally unique id, and publishes the
// resulting stmt-id assignment to a debugdb.Database. Generators with
// Debug == false are left untouched.
type InjectDebugBreakPoints struct {
	DB *debugdb.Database
}

// Name returns the pass's name.
func (p *InjectDebugBreakPoints) Name() string { return "inject_debug_break_points" }

// Run walks every generator in design, inserting breakpoint calls for
// those with Debug set.
func (p *InjectDebugBreakPoints) Run(ctx context.Context, design *ir.Design) error {
	if p.DB == nil {
		return nil
	}
	for _, g := range design.Generators() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !g.Debug {
			continue
		}
		if err := injectBreakPoints(g, p.DB); err != nil {
			return err
		}
	}
	return nil
}

func injectBreakPoints(g *ir.Generator, db *debugdb.Database) error {
	original := g.Stmts()
	for _, stmt := range original {
		g.RemoveStmt(stmt)
	}
	for _, stmt := range original {
		if err := g.AddStmt(stmt); err != nil {
			return err
		}
		id := db.NextBreakPointID()
		idConst, err := g.Const(int64(id), 32, false)
		if err != nil {
			return err
		}
		call := ir.NewFunctionCallStmt(debugdb.BreakPointFuncName, idConst)
		if err := g.AddStmt(call); err != nil {
			return err
		}
		db.AddBreakPoint(g, id)
	}
	return nil
}
