// Package examples builds a couple of small, self-contained generators
// used both by the package-level scenario tests and by cmd/kratosc's
// compile subcommand, since this framework has no textual front end to
// read a design from: every design is built by direct API calls.
package examples

import "kratosc/internal/ir"

// Register builds a 16-bit register with an asynchronous, active-low
// reset: a sequential block sensitive to {posedge clk, posedge rst}
// driving val from in (or clearing it to zero while rst is asserted),
// and a combinational block forwarding val to out.
func Register(ctx *ir.Context) (*ir.Generator, error) {
	g := ctx.NewGenerator("register")

	clk, err := g.Port("clk", 1, ir.In, ir.PortClock, false)
	if err != nil {
		return nil, err
	}
	rst, err := g.Port("rst", 1, ir.In, ir.PortAsyncReset, false)
	if err != nil {
		return nil, err
	}
	in, err := g.Port("in", 16, ir.In, ir.PortData, false)
	if err != nil {
		return nil, err
	}
	out, err := g.Port("out", 16, ir.Out, ir.PortData, false)
	if err != nil {
		return nil, err
	}
	val, err := g.Var("val", 16, false)
	if err != nil {
		return nil, err
	}
	zero, err := g.Const(0, 16, false)
	if err != nil {
		return nil, err
	}

	notRst, err := rst.Invert()
	if err != nil {
		return nil, err
	}

	seq := ir.NewIfStmt(notRst)
	if _, err := val.Assign(zero, ir.NonBlocking); err != nil {
		return nil, err
	}
	if err := seq.Then().AddStmt(mustFindAssign(val, zero)); err != nil {
		return nil, err
	}
	if _, err := val.Assign(in, ir.NonBlocking); err != nil {
		return nil, err
	}
	if err := seq.Else().AddStmt(mustFindAssign(val, in)); err != nil {
		return nil, err
	}

	seqBody := ir.NewBlock(ir.Sequential)
	if err := seqBody.AddStmt(seq); err != nil {
		return nil, err
	}
	sensitivity := []ir.SensitivityItem{
		{Edge: ir.Posedge, Var: clk},
		{Edge: ir.Posedge, Var: rst},
	}
	if _, err := g.AddCodeBlock(ir.Sequential, sensitivity, seqBody); err != nil {
		return nil, err
	}

	comb := ir.NewBlock(ir.Combinational)
	if _, err := out.Assign(val, ir.Blocking); err != nil {
		return nil, err
	}
	if err := comb.AddStmt(mustFindAssign(out, val)); err != nil {
		return nil, err
	}
	if _, err := g.AddCodeBlock(ir.Combinational, nil, comb); err != nil {
		return nil, err
	}

	return g, nil
}

// Mux builds a 3-to-1, 16-bit multiplexer: O is driven from I0, I1, or I2
// according to S, defaulting to zero when S selects neither.
func Mux(ctx *ir.Context) (*ir.Generator, error) {
	g := ctx.NewGenerator("mux")

	i0, err := g.Port("I0", 16, ir.In, ir.PortData, false)
	if err != nil {
		return nil, err
	}
	i1, err := g.Port("I1", 16, ir.In, ir.PortData, false)
	if err != nil {
		return nil, err
	}
	i2, err := g.Port("I2", 16, ir.In, ir.PortData, false)
	if err != nil {
		return nil, err
	}
	o, err := g.Port("O", 16, ir.Out, ir.PortData, false)
	if err != nil {
		return nil, err
	}
	s, err := g.Port("S", 2, ir.In, ir.PortData, false)
	if err != nil {
		return nil, err
	}
	zero, err := g.Const(0, 16, false)
	if err != nil {
		return nil, err
	}

	sw := ir.NewSwitchStmt(s)
	for i, in := range []*ir.Var{i0, i1, i2} {
		c, err := g.Const(int64(i), 2, false)
		if err != nil {
			return nil, err
		}
		body, err := sw.AddCase(c)
		if err != nil {
			return nil, err
		}
		if _, err := o.Assign(in, ir.Blocking); err != nil {
			return nil, err
		}
		if err := body.AddStmt(mustFindAssign(o, in)); err != nil {
			return nil, err
		}
	}
	defaultBody, err := sw.AddCase(nil)
	if err != nil {
		return nil, err
	}
	if _, err := o.Assign(zero, ir.Blocking); err != nil {
		return nil, err
	}
	if err := defaultBody.AddStmt(mustFindAssign(o, zero)); err != nil {
		return nil, err
	}

	comb := ir.NewBlock(ir.Combinational)
	if err := comb.AddStmt(sw); err != nil {
		return nil, err
	}
	if _, err := g.AddCodeBlock(ir.Combinational, nil, comb); err != nil {
		return nil, err
	}

	return g, nil
}

// mustFindAssign recovers the *ir.AssignStmt that dst.Assign(src, ...)
// just created (Assign does not attach the statement to any container by
// itself, so callers that want it inside a specific block must look it
// back up by driver identity before attaching it).
func mustFindAssign(dst, src *ir.Var) *ir.AssignStmt {
	for _, s := range dst.Sources() {
		if s.Right() == src {
			return s
		}
	}
	return nil
}
