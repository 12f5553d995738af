package codegen

import (
	"fmt"
	"sort"
	"strings"

	"kratosc/internal/debugdb"
	"kratosc/internal/ir"
)

// Options configures code generation for a whole design.
type Options struct {
	// PackageName, if set together with HeaderInclude, causes every
	// module to open with an `include` directive and a wildcard package
	// import, mirroring SystemVerilogCodeGen's two-argument constructor.
	PackageName   string
	HeaderInclude string

	// DB, if non-nil, receives a Hierarchy row for every instantiation
	// emitted and a Connection row for every module-boundary binding.
	DB *debugdb.Database
}

// emitModule renders one generator's full module definition: header,
// parameters, ports, enums, variables, functions, and statement body, in
// that order, mirroring output_module_def.
func emitModule(g *ir.Generator, opts Options) (string, error) {
	s := newStream(g)

	if opts.HeaderInclude != "" {
		s.write(fmt.Sprintf("`include \"%s\"", opts.HeaderInclude))
		s.newline()
		s.newline()
		s.write(fmt.Sprintf("import %s::*;", opts.PackageName))
		s.newline()
	}

	s.write(fmt.Sprintf("module %s ", g.Name))
	writeParameters(s, g)
	s.writeIndent()
	s.write("(")
	s.newline()
	writePorts(s, g, opts)
	s.writeIndent()
	s.write(");")
	s.newline()
	s.newline()

	writeEnums(s, g)
	writeVariables(s, g)
	writeFunctions(s, g, opts)

	for _, stmt := range g.Stmts() {
		if err := dispatchStmt(s, g, stmt, opts); err != nil {
			return "", err
		}
	}

	s.write(fmt.Sprintf("endmodule   // %s", g.Name))
	s.newline()
	return s.String(), nil
}

func writeParameters(s *stream, g *ir.Generator) {
	params := g.Params()
	if len(params) == 0 {
		return
	}
	names := make([]string, len(params))
	byName := make(map[string]*ir.Var, len(params))
	for i, p := range params {
		names[i] = p.Name()
		byName[p.Name()] = p
	}
	sort.Strings(names)

	s.write("#(parameter ")
	for i, name := range names {
		p := byName[name]
		s.write(fmt.Sprintf("%s = %s", name, constValueStr(p)))
		if i != len(names)-1 {
			s.write(", ")
		}
	}
	s.write(")")
	s.newline()
}

// constValueStr renders a parameter's default value the way a const Var's
// Name() would, since a VarParameter's own Name() returns its declared
// name rather than its value.
func constValueStr(p *ir.Var) string {
	if p.IsSigned() && p.DefaultValue() < 0 {
		return fmt.Sprintf("-%d'h%X", p.Width(), -p.DefaultValue())
	}
	return fmt.Sprintf("%d'h%X", p.Width(), p.DefaultValue())
}

// writePorts sorts the port list by name and emits one declaration line
// per port, trailing every line but the last with a comma, mirroring
// generate_ports (interface grouping is out of scope here: no port in
// this model carries an InterfaceBinding that lacks its own plain
// declaration, since interfaces are registered but not yet lowered to a
// distinct port-less emission path).
func writePorts(s *stream, g *ir.Generator, opts Options) {
	s.pushIndent()
	defer s.popIndent()

	ports := g.Ports()
	names := make([]string, len(ports))
	byName := make(map[string]*ir.Var, len(ports))
	for i, p := range ports {
		names[i] = p.Name()
		byName[p.Name()] = p
	}
	sort.Strings(names)

	for i, name := range names {
		end := ","
		if i == len(names)-1 {
			end = ""
		}
		s.writePort(byName[name], end)
	}
}

func writeEnums(s *stream, g *ir.Generator) {
	// Enum defs are registered via AddEnum for reference by var
	// declarations of variant VarEnum; no generator in this framework's
	// public API currently constructs a VarEnum var, so there is nothing
	// to typedef here yet (see DESIGN.md).
	_ = g
	_ = s
}

func writeVariables(s *stream, g *ir.Generator) {
	for _, v := range g.Vars() {
		s.writeVarDecl(v)
	}
}

func writeFunctions(s *stream, g *ir.Generator, opts Options) {
	for _, name := range g.FunctionNames() {
		writeFunctionBlock(s, g, g.Function(name), opts)
	}
}

func writeFunctionBlock(s *stream, g *ir.Generator, fn *ir.StmtBlock, opts Options) {
	if fn == nil {
		return
	}
	s.write("function " + fn.Name() + "(")
	s.newline()
	s.pushIndent()
	params := fn.Params()
	for i, p := range params {
		s.writeIndent()
		s.write(varDecl(p))
		if i != len(params)-1 {
			s.write(",")
		}
		s.newline()
	}
	s.write(");")
	s.newline()
	s.popIndent()

	s.write("begin")
	s.newline()
	s.pushIndent()
	for _, child := range fn.Children() {
		_ = dispatchStmt(s, g, child, opts)
	}
	s.popIndent()
	s.writeIndent()
	s.write("end")
	s.newline()
	s.write("endfunction")
	s.newline()
}

// dispatchStmt renders one statement, recursing into nested statements as
// needed, mirroring dispatch_node's switch over StatementType.
func dispatchStmt(s *stream, g *ir.Generator, stmt ir.Stmt, opts Options) error {
	switch st := stmt.(type) {
	case *ir.AssignStmt:
		return dispatchAssign(s, g, st)
	case *ir.StmtBlock:
		return dispatchBlock(s, g, st, opts)
	case *ir.IfStmt:
		return dispatchIf(s, g, st, opts)
	case *ir.SwitchStmt:
		return dispatchSwitch(s, g, st, opts)
	case *ir.ModuleInstantiationStmt:
		return dispatchInstantiation(s, g, st, opts)
	case *ir.FunctionCallStmt:
		dispatchCall(s, st)
		return nil
	case *ir.ReturnStmt:
		dispatchReturn(s, st)
		return nil
	case *ir.AssertStmt:
		dispatchAssert(s, st)
		return nil
	case *ir.CommentStmt:
		s.writeComment(st.Text())
		return nil
	case *ir.RawStringStmt:
		for _, line := range strings.Split(st.Text(), "\n") {
			s.writeIndent()
			s.write(line)
			s.newline()
		}
		return nil
	default:
		return &ir.Error{Kind: ir.KindInternal, Message: "code generation has no case for this statement kind"}
	}
}

func dispatchAssign(s *stream, g *ir.Generator, stmt *ir.AssignStmt) error {
	if stmt.Left().Variant() == ir.VarPortIO && stmt.Left().Direction() == ir.In && stmt.Left().Generator() == g {
		return &ir.Error{Kind: ir.KindIllegalAssignForm,
			Message: "cannot drive a module's input from itself",
			Nodes:   []ir.Node{stmt, stmt.Left(), stmt.Right()}}
	}
	return s.writeAssign(stmt)
}

func dispatchBlock(s *stream, g *ir.Generator, b *ir.StmtBlock, opts Options) error {
	switch b.BlockType() {
	case ir.Sequential:
		return writeSequentialBlock(s, g, b, opts)
	case ir.Combinational:
		return writeProcessBlock(s, g, b, "always_comb begin", opts)
	case ir.Initial:
		return writeProcessBlock(s, g, b, "initial begin", opts)
	case ir.Scope:
		return writeProcessBlock(s, g, b, "begin", opts)
	case ir.Function:
		writeFunctionBlock(s, g, b, opts)
		return nil
	default:
		return &ir.Error{Kind: ir.KindInternal, Message: "unknown block type"}
	}
}

func writeSequentialBlock(s *stream, g *ir.Generator, b *ir.StmtBlock, opts Options) error {
	if c := b.Comment(); c != "" {
		s.writeComment(c)
	}
	if s.debug() {
		b.SetVerilogLine(s.lineNumber())
	}
	var sens []string
	for _, item := range b.Sensitivity() {
		edge := "posedge"
		if item.Edge == ir.Negedge {
			edge = "negedge"
		}
		sens = append(sens, edge+" "+item.Var.Name())
	}
	s.write("always_ff @(" + strings.Join(sens, ", ") + ") begin")
	s.newline()
	s.pushIndent()
	for _, child := range b.Children() {
		if err := dispatchStmt(s, g, child, opts); err != nil {
			return err
		}
	}
	s.popIndent()
	s.writeIndent()
	s.write("end")
	s.newline()
	return nil
}

func writeProcessBlock(s *stream, g *ir.Generator, b *ir.StmtBlock, header string, opts Options) error {
	if c := b.Comment(); c != "" {
		s.writeComment(c)
	}
	if s.debug() {
		b.SetVerilogLine(s.lineNumber())
	}
	s.write(header)
	s.newline()
	s.pushIndent()
	for _, child := range b.Children() {
		if err := dispatchStmt(s, g, child, opts); err != nil {
			return err
		}
	}
	s.popIndent()
	s.writeIndent()
	s.write("end")
	s.newline()
	return nil
}

func dispatchIf(s *stream, g *ir.Generator, st *ir.IfStmt, opts Options) error {
	if s.debug() {
		st.SetVerilogLine(s.lineNumber())
	}
	s.writeIndent()
	s.write(fmt.Sprintf("if (%s) ", st.Predicate().Name()))
	if err := dispatchBlock(s, g, st.Then(), opts); err != nil {
		return err
	}

	elseChildren := st.Else().Children()
	if len(elseChildren) == 0 {
		return nil
	}
	// A single nested IfStmt in the else branch renders as "else if
	// (...)" rather than "else begin if (...) ... end", matching the
	// chained else-if form kratos users expect from nested If() calls.
	if len(elseChildren) == 1 {
		if nestedIf, ok := elseChildren[0].(*ir.IfStmt); ok {
			s.writeIndent()
			s.write("else ")
			return dispatchIf(s, g, nestedIf, opts)
		}
	}
	s.writeIndent()
	s.write("else ")
	return dispatchBlock(s, g, st.Else(), opts)
}

func dispatchSwitch(s *stream, g *ir.Generator, st *ir.SwitchStmt, opts Options) error {
	s.writeIndent()
	s.write(fmt.Sprintf("unique case (%s)", st.Target().Name()))
	s.newline()
	s.pushIndent()

	cases := append([]ir.SwitchCase(nil), st.Cases()...)
	sort.SliceStable(cases, func(i, j int) bool {
		if cases[i].Value == nil {
			return false
		}
		if cases[j].Value == nil {
			return true
		}
		return caseConstValue(cases[i].Value) < caseConstValue(cases[j].Value)
	})

	for _, c := range cases {
		label := "default"
		if c.Value != nil {
			label = c.Value.Name()
		}
		s.writeIndent()
		s.write(label + ": ")
		children := c.Body.Children()
		if len(children) == 0 {
			s.write("begin end")
			s.newline()
			continue
		}
		if len(children) == 1 {
			s.skipIndent = true
			err := dispatchStmt(s, g, children[0], opts)
			s.skipIndent = false
			if err != nil {
				return err
			}
			continue
		}
		s.newline()
		s.pushIndent()
		for _, child := range children {
			if err := dispatchStmt(s, g, child, opts); err != nil {
				return err
			}
		}
		s.popIndent()
	}

	s.popIndent()
	s.writeIndent()
	s.write("endcase")
	s.newline()
	return nil
}

func caseConstValue(v *ir.Var) int64 { return v.ConstValue() }

func dispatchInstantiation(s *stream, g *ir.Generator, st *ir.ModuleInstantiationStmt, opts Options) error {
	if c := st.Comment(); c != "" {
		s.writeComment(c)
	}
	if s.debug() {
		st.SetVerilogLine(s.lineNumber())
	}
	child := st.Child()
	s.writeIndent()
	s.write(child.Name)

	params := child.Params()
	if len(params) > 0 {
		names := make([]string, len(params))
		byName := make(map[string]*ir.Var, len(params))
		for i, p := range params {
			names[i] = p.Name()
			byName[p.Name()] = p
		}
		sort.Strings(names)
		s.write(" #(")
		s.newline()
		s.pushIndent()
		for i, name := range names {
			s.writeIndent()
			end := ","
			if i == len(names)-1 {
				end = ")"
			}
			s.write(fmt.Sprintf(".%s(%s)%s", name, constValueStr(byName[name]), end))
			s.newline()
		}
		s.popIndent()
	}

	s.write(" " + st.InstName())
	writePortInterface(s, st, opts)

	if opts.DB != nil {
		opts.DB.AddHierarchy(debugdb.HierarchyEdge{ParentHandle: g.Name, ChildHandle: child.Name})
		for _, bind := range st.Bindings() {
			opts.DB.AddConnection(debugdb.Connection{
				FromHandle: g.Name, FromVar: bind.Connection.Name(),
				ToHandle: child.Name, ToVar: bind.PortName,
			})
		}
	}
	return nil
}

// writePortInterface emits the `(.port(connection), ...)` binding list
// for a module instantiation, sorted by port name, mirroring
// generate_port_interface's sorted binding emission.
func writePortInterface(s *stream, st *ir.ModuleInstantiationStmt, opts Options) {
	bindings := append([]ir.ModulePortConnection(nil), st.Bindings()...)
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].PortName < bindings[j].PortName })

	s.write(" (")
	s.newline()
	s.pushIndent()
	for i, b := range bindings {
		s.writeIndent()
		end := ","
		if i == len(bindings)-1 {
			end = ""
		}
		s.write(fmt.Sprintf(".%s(%s)%s", b.PortName, b.Connection.Name(), end))
		s.newline()
	}
	s.popIndent()
	s.writeIndent()
	s.write(");")
	s.newline()
}

func dispatchCall(s *stream, st *ir.FunctionCallStmt) {
	s.writeIndent()
	args := make([]string, len(st.Args()))
	for i, a := range st.Args() {
		args[i] = a.Name()
	}
	s.write(fmt.Sprintf("%s(%s);", st.FuncName(), strings.Join(args, ", ")))
	s.newline()
}

func dispatchReturn(s *stream, st *ir.ReturnStmt) {
	s.writeIndent()
	s.write("return " + st.Value().Name() + ";")
	s.newline()
}

func dispatchAssert(s *stream, st *ir.AssertStmt) {
	s.writeIndent()
	s.write(fmt.Sprintf("assert (%s)", st.Predicate().Name()))
	if st.Message() != "" {
		s.write(fmt.Sprintf(" else $error(\"%s\")", st.Message()))
	}
	s.write(";")
	s.newline()
}
