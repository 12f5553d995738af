package passes

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"kratosc/internal/ir"
)

// HashGenerators computes a structural fingerprint for every generator in
// the design, bottom-up so a parent's hash folds in the already-computed
// hashes of its children. Two generators with identical ports, vars, and
// statement bodies (module instantiations aside, which fold in by child
// hash rather than child name) hash equal regardless of their assigned
// type names.
type HashGenerators struct{}

// Name returns the pass's name.
func (p *HashGenerators) Name() string { return "hash_generators" }

// Run computes and publishes a structural hash for every generator in
// design, children before parents.
func (p *HashGenerators) Run(ctx context.Context, design *ir.Design) error {
	memo := make(map[*ir.Generator]uint64)
	gens := design.Generators()
	// Generators() walks parents before children; hash children first by
	// visiting the list in reverse, which is a valid bottom-up order for a
	// tree (a generator always appears before its children in pre-order).
	for i := len(gens) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		g := gens[i]
		if _, ok := memo[g]; ok {
			continue
		}
		memo[g] = computeHash(g, memo)
	}
	for _, g := range gens {
		g.SetHash(memo[g])
	}
	return nil
}

func computeHash(g *ir.Generator, memo map[*ir.Generator]uint64) uint64 {
	h := fnv.New64a()
	h.Write([]byte(structuralSignature(g)))

	var buf [8]byte
	for _, child := range g.Children() {
		childHash, ok := memo[child]
		if !ok {
			childHash = computeHash(child, memo)
			memo[child] = childHash
		}
		binary.BigEndian.PutUint64(buf[:], childHash)
		h.Write(buf[:])
	}
	return h.Sum64()
}

// structuralSignature renders g's ports, vars, and statement body into a
// deterministic string: sorted by name so declaration order never affects
// the hash, only shape.
func structuralSignature(g *ir.Generator) string {
	var b strings.Builder

	ports := append([]*ir.Var(nil), g.Ports()...)
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name() < ports[j].Name() })
	for _, p := range ports {
		fmt.Fprintf(&b, "port %s %d %v %v %v\n", p.Name(), p.Width(), p.IsSigned(), p.Direction(), p.PortType())
	}

	vars := append([]*ir.Var(nil), g.Vars()...)
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name() < vars[j].Name() })
	for _, v := range vars {
		fmt.Fprintf(&b, "var %s %d %v\n", v.Name(), v.Width(), v.IsSigned())
	}

	params := append([]*ir.Var(nil), g.Params()...)
	sort.Slice(params, func(i, j int) bool { return params[i].Name() < params[j].Name() })
	for _, p := range params {
		fmt.Fprintf(&b, "param %s %d %v\n", p.Name(), p.Width(), p.IsSigned())
	}

	for _, stmt := range g.Stmts() {
		writeStmtSignature(&b, stmt, 0)
	}
	return b.String()
}

func writeStmtSignature(b *strings.Builder, stmt ir.Stmt, depth int) {
	indent := strings.Repeat(" ", depth)
	switch s := stmt.(type) {
	case *ir.AssignStmt:
		fmt.Fprintf(b, "%sassign %s %s %s\n", indent, s.Type(), s.Left().Name(), s.Right().Name())
	case *ir.StmtBlock:
		fmt.Fprintf(b, "%sblock %s\n", indent, s.BlockType())
		for _, sens := range s.Sensitivity() {
			fmt.Fprintf(b, "%s sens %v %s\n", indent, sens.Edge, sens.Var.Name())
		}
		for _, child := range s.Children() {
			writeStmtSignature(b, child, depth+1)
		}
	case *ir.IfStmt:
		fmt.Fprintf(b, "%sif %s\n", indent, s.Predicate().Name())
		for _, child := range s.Then().Children() {
			writeStmtSignature(b, child, depth+1)
		}
		fmt.Fprintf(b, "%selse\n", indent)
		for _, child := range s.Else().Children() {
			writeStmtSignature(b, child, depth+1)
		}
	case *ir.SwitchStmt:
		fmt.Fprintf(b, "%sswitch %s\n", indent, s.Target().Name())
		for _, c := range s.Cases() {
			caseLabel := "default"
			if c.Value != nil {
				caseLabel = c.Value.Name()
			}
			fmt.Fprintf(b, "%s case %s\n", indent, caseLabel)
			for _, child := range c.Body.Children() {
				writeStmtSignature(b, child, depth+2)
			}
		}
	case *ir.ModuleInstantiationStmt:
		fmt.Fprintf(b, "%sinstantiate %s\n", indent, s.InstName())
		bindings := s.Bindings()
		sort.Slice(bindings, func(i, j int) bool { return bindings[i].PortName < bindings[j].PortName })
		for _, bind := range bindings {
			fmt.Fprintf(b, "%s bind %s %s\n", indent, bind.PortName, bind.Connection.Name())
		}
	case *ir.FunctionCallStmt:
		fmt.Fprintf(b, "%scall %s\n", indent, s.FuncName())
		for _, arg := range s.Args() {
			fmt.Fprintf(b, "%s arg %s\n", indent, arg.Name())
		}
	case *ir.ReturnStmt:
		fmt.Fprintf(b, "%sreturn %s\n", indent, s.Value().Name())
	case *ir.AssertStmt:
		fmt.Fprintf(b, "%sassert %s %s\n", indent, s.Predicate().Name(), s.Message())
	case *ir.CommentStmt:
		fmt.Fprintf(b, "%scomment %s\n", indent, s.Text())
	case *ir.RawStringStmt:
		fmt.Fprintf(b, "%sraw %s\n", indent, s.Text())
	default:
		fmt.Fprintf(b, "%sunknown\n", indent)
	}
}

// UniquifyGenerators collapses structurally identical generator bodies to
// a single emitted name: within each structural-hash bucket, every
// generator after the first has its Name directly overwritten with the
// bucket's canonical name. This is a plain field assignment, not a
// Context.Rename: Rename re-disambiguates against every name the Context
// has handed out, which would defeat the collapse this pass exists to
// perform.
type UniquifyGenerators struct{}

// Name returns the pass's name.
func (p *UniquifyGenerators) Name() string { return "uniquify_generators" }

// Run groups design's generators by structural hash and aliases every
// generator past the first in a bucket to the bucket's canonical name.
func (p *UniquifyGenerators) Run(ctx context.Context, design *ir.Design) error {
	canonical := make(map[uint64]*ir.Generator)
	for _, g := range design.Generators() {
		if err := ctx.Err(); err != nil {
			return err
		}
		hash, ok := g.Hash()
		if !ok {
			return &ir.Error{Kind: ir.KindInternal,
				Message: "uniquify_generators requires hash_generators to have run first"}
		}
		if canon, seen := canonical[hash]; seen {
			g.Name = canon.Name
			continue
		}
		canonical[hash] = g
	}
	return nil
}
