// Package codegen renders a finished ir.Design as SystemVerilog text, one
// module definition per generator, in the style of kratos's
// SystemVerilogCodeGen.
package codegen

import "kratosc/internal/ir"

// Generate renders every non-External, non-stub generator reachable from
// design.Top into SystemVerilog source, keyed by module (generator) name.
// A generator appearing more than once in the design (after
// uniquify_generators collapses structurally identical bodies to a shared
// name) is rendered exactly once.
func Generate(design *ir.Design, opts Options) (map[string]string, error) {
	out := make(map[string]string)
	for _, g := range design.Generators() {
		if g.External || g.IsStub {
			continue
		}
		if _, done := out[g.Name]; done {
			continue
		}
		src, err := emitModule(g, opts)
		if err != nil {
			return nil, err
		}
		out[g.Name] = src
	}
	return out, nil
}
