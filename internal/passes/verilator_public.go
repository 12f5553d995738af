package passes

import (
	"context"

	"kratosc/internal/ir"
)

// InsertVerilatorPublic decorates every var on a Debug-enabled generator
// with a "verilator public" comment, which the code generator renders as a
// `// verilator public` line above the declaration. It is a pure
// decoration pass: it never changes the shape of the IR, only attaches
// the marker comment to vars that don't already carry one.
type InsertVerilatorPublic struct{}

// Name returns the pass's name.
func (p *InsertVerilatorPublic) Name() string { return "insert_verilator_public" }

// VerilatorPublicMarker is the comment text attached by this pass; the code
// generator renders it like any other comment, as a `// verilator public`
// line.
const VerilatorPublicMarker = "verilator public"

// Run decorates every var belonging to a Debug-enabled generator.
func (p *InsertVerilatorPublic) Run(ctx context.Context, design *ir.Design) error {
	for _, g := range design.Generators() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !g.Debug {
			continue
		}
		for _, v := range g.Vars() {
			if v.Comment() == "" {
				v.SetComment(VerilatorPublicMarker)
			}
		}
		for _, port := range g.Ports() {
			if port.Comment() == "" {
				port.SetComment(VerilatorPublicMarker)
			}
		}
	}
	return nil
}
