package ir

import "sort"

// Generator is a named hardware module body: its port list, internal vars,
// parameters, child instances, and statements. Generators are created
// exclusively through Context.NewGenerator so that every type name handed
// out by a single compilation is unique.
type Generator struct {
	ctx  *Context
	Name string

	vars     map[string]*Var
	ports    []*Var
	varList  []*Var
	params   []*Var

	children    map[string]*Generator
	childOrder  []string
	parentInst  *Generator

	stmts []Stmt

	enums      map[string]*EnumType
	structs    map[string]*StructDef
	interfaces map[string]*InterfaceRef
	functions  map[string]*StmtBlock

	Debug    bool
	External bool
	IsStub   bool

	structuralHash    uint64
	structuralHashSet bool
}

// Hash returns the structural fingerprint computed by the hash_generators
// pass, or (0, false) if that pass has not run yet.
func (g *Generator) Hash() (uint64, bool) { return g.structuralHash, g.structuralHashSet }

// SetHash publishes g's structural fingerprint; used by the
// hash_generators pass.
func (g *Generator) SetHash(h uint64) {
	g.structuralHash = h
	g.structuralHashSet = true
}

func newGenerator(ctx *Context, name string) *Generator {
	return &Generator{
		ctx:        ctx,
		Name:       name,
		vars:       make(map[string]*Var),
		children:   make(map[string]*Generator),
		enums:      make(map[string]*EnumType),
		structs:    make(map[string]*StructDef),
		interfaces: make(map[string]*InterfaceRef),
		functions:  make(map[string]*StmtBlock),
	}
}

// Context returns the owning Context.
func (g *Generator) Context() *Context { return g.ctx }

func (g *Generator) declare(name string) error {
	if _, taken := g.vars[name]; taken {
		return newError(KindInternal, "generator %s already has a var named %s", []Node{}, g.Name, name)
	}
	return nil
}

// Port declares a named port of the given width, direction, and role on g.
func (g *Generator) Port(name string, width uint, dir PortDirection, portType PortType, isSigned bool) (*Var, error) {
	if err := g.declare(name); err != nil {
		return nil, err
	}
	v := &Var{
		name:      name,
		width:     width,
		isSigned:  isSigned,
		variant:   VarPortIO,
		size:      []uint{1},
		generator: g,
		direction: dir,
		portType:  portType,
	}
	g.vars[name] = v
	g.ports = append(g.ports, v)
	return v, nil
}

// Var declares a named internal variable of the given width on g.
func (g *Generator) Var(name string, width uint, isSigned bool) (*Var, error) {
	if err := g.declare(name); err != nil {
		return nil, err
	}
	v := &Var{
		name:      name,
		width:     width,
		isSigned:  isSigned,
		variant:   VarBase,
		size:      []uint{1},
		generator: g,
	}
	g.vars[name] = v
	g.varList = append(g.varList, v)
	return v, nil
}

// Param declares a named parameter on g with the given default value.
func (g *Generator) Param(name string, width uint, isSigned bool, defaultValue int64) (*Var, error) {
	if err := g.declare(name); err != nil {
		return nil, err
	}
	if err := checkConstRange(defaultValue, width, isSigned); err != nil {
		return nil, err
	}
	v := &Var{
		name:      name,
		width:     width,
		isSigned:  isSigned,
		variant:   VarParameter,
		size:      []uint{1},
		generator: g,
		constVal:  defaultValue,
	}
	g.vars[name] = v
	g.params = append(g.params, v)
	return v, nil
}

// Const returns the Context-wide canonical constant Var for the given
// (value, width, signed) triple; constants are interned process-wide and do
// not occupy the generator's name namespace.
func (g *Generator) Const(value int64, width uint, isSigned bool) (*Var, error) {
	return g.ctx.InternConst(value, width, isSigned)
}

// Ports returns the generator's declared ports, in declaration order.
func (g *Generator) Ports() []*Var { return append([]*Var(nil), g.ports...) }

// Vars returns the generator's declared internal vars, in declaration
// order.
func (g *Generator) Vars() []*Var { return append([]*Var(nil), g.varList...) }

// Params returns the generator's declared parameters, in declaration
// order.
func (g *Generator) Params() []*Var { return append([]*Var(nil), g.params...) }

func (g *Generator) lookupVar(name string) *Var {
	return g.vars[name]
}

// Lookup returns the var named name declared directly on g (port,
// internal var, or parameter), or nil if g has none by that name.
func (g *Generator) Lookup(name string) *Var {
	return g.vars[name]
}

// RemoveVar deletes v from g's namespace. It fails if v still has sources
// or sinks, since removing a still-connected var would silently corrupt
// the driver graph; callers (e.g. the remove_unused_vars pass) must
// unassign v's drivers first.
func (g *Generator) RemoveVar(v *Var) error {
	if len(v.sources) > 0 || len(v.sinks) > 0 {
		return newError(KindInternal, "cannot remove var %s: still connected to the driver graph", []Node{v}, v.Name())
	}
	delete(g.vars, v.name)
	switch v.variant {
	case VarBase:
		g.varList = removeVarFromSlice(g.varList, v)
	case VarPortIO:
		g.ports = removeVarFromSlice(g.ports, v)
	case VarParameter:
		g.params = removeVarFromSlice(g.params, v)
	}
	return nil
}

func removeVarFromSlice(vars []*Var, target *Var) []*Var {
	out := vars[:0]
	for _, v := range vars {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

// AddChild places child as a named instance of g. AddChild fails if
// instName is already taken, or if child already has a parent instance.
func (g *Generator) AddChild(instName string, child *Generator) error {
	if _, taken := g.children[instName]; taken {
		return newError(KindInternal, "generator %s already has a child instance named %s", []Node{}, g.Name, instName)
	}
	if child.parentInst != nil {
		return newError(KindInternal, "generator %s is already instantiated as a child of %s", []Node{}, child.Name, child.parentInst.Name)
	}
	g.children[instName] = child
	g.childOrder = append(g.childOrder, instName)
	child.parentInst = g
	return nil
}

// Child returns the child instance named instName, or nil.
func (g *Generator) Child(instName string) *Generator { return g.children[instName] }

// Children returns g's child instances in AddChild order.
func (g *Generator) Children() []*Generator {
	out := make([]*Generator, 0, len(g.childOrder))
	for _, name := range g.childOrder {
		out = append(out, g.children[name])
	}
	return out
}

// ParentInstance returns the generator g is instantiated within, or nil if
// g is a top-level design root.
func (g *Generator) ParentInstance() *Generator { return g.parentInst }

// ChildInstName returns the instance name child was added under via
// AddChild, or "" if child is not one of g's direct children.
func (g *Generator) ChildInstName(child *Generator) string {
	for _, name := range g.childOrder {
		if g.children[name] == child {
			return name
		}
	}
	return ""
}

// AddEnum registers a named EnumType for use by this generator's codegen
// output.
func (g *Generator) AddEnum(e *EnumType) error {
	if _, taken := g.enums[e.Name]; taken {
		return newError(KindInternal, "generator %s already has an enum named %s", []Node{}, g.Name, e.Name)
	}
	g.enums[e.Name] = e
	return nil
}

// Enum returns the named EnumType, or nil.
func (g *Generator) Enum(name string) *EnumType { return g.enums[name] }

// AddStruct registers a named StructDef for use by this generator's codegen
// output.
func (g *Generator) AddStruct(s *StructDef) error {
	if _, taken := g.structs[s.Name]; taken {
		return newError(KindInternal, "generator %s already has a struct named %s", []Node{}, g.Name, s.Name)
	}
	g.structs[s.Name] = s
	return nil
}

// Struct returns the named StructDef, or nil.
func (g *Generator) Struct(name string) *StructDef { return g.structs[name] }

// AddInterface registers a named InterfaceRef.
func (g *Generator) AddInterface(ref *InterfaceRef) error {
	if _, taken := g.interfaces[ref.DefName]; taken {
		return newError(KindInternal, "generator %s already has an interface named %s", []Node{}, g.Name, ref.DefName)
	}
	g.interfaces[ref.DefName] = ref
	return nil
}

// Interface returns the named InterfaceRef, or nil.
func (g *Generator) Interface(name string) *InterfaceRef { return g.interfaces[name] }

// AddFunction declares a named Function block with the given formal
// parameters and registers it for lookup by FunctionCallStmt emission.
func (g *Generator) AddFunction(name string, params []*Var) *StmtBlock {
	fn := NewBlock(Function)
	fn.SetName(name)
	fn.SetParams(params)
	g.functions[name] = fn
	return fn
}

// Function returns the named Function block, or nil.
func (g *Generator) Function(name string) *StmtBlock { return g.functions[name] }

// FunctionNames returns the names of every function declared on g, sorted,
// so callers (chiefly code generation) can emit them deterministically.
func (g *Generator) FunctionNames() []string {
	names := make([]string, 0, len(g.functions))
	for name := range g.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddStmt appends stmt as a top-level statement of g.
func (g *Generator) AddStmt(stmt Stmt) error { return attach(stmt, g) }

// RemoveStmt detaches stmt from g's top-level statement list.
func (g *Generator) RemoveStmt(stmt Stmt) { detach(stmt) }

// Stmts returns g's top-level statements, in order.
func (g *Generator) Stmts() []Stmt { return append([]Stmt(nil), g.stmts...) }

// AddCodeBlock is sugar for constructing and attaching a typed process
// block: it stamps blockType and sensitivity onto body and attaches it as
// one of g's top-level statements.
func (g *Generator) AddCodeBlock(blockType BlockType, sensitivity []SensitivityItem, body *StmtBlock) (*StmtBlock, error) {
	body.blockType = blockType
	body.sensitivity = sensitivity
	if err := g.AddStmt(body); err != nil {
		return nil, err
	}
	return body, nil
}

func (g *Generator) addChildStmt(stmt Stmt) error {
	g.stmts = append(g.stmts, stmt)
	return nil
}

func (g *Generator) removeChildStmt(stmt Stmt) {
	out := g.stmts[:0]
	for _, s := range g.stmts {
		if s != stmt {
			out = append(out, s)
		}
	}
	g.stmts = out
}

func (g *Generator) childStmts() []Stmt { return g.stmts }

// AssignTarget is implemented by the containers a bridging assignment from
// MoveSrcTo/MoveSinkTo can be attached to: a Generator's top-level
// statement list or a StmtBlock's body.
type AssignTarget interface {
	AddStmt(stmt Stmt) error
}

// MoveSrcTo retires v in favor of newVar: every AssignStmt that currently
// drives v (v as Left) is relinked to drive newVar instead, the same move
// is applied recursively to every slice of v against the matching slice of
// newVar, and a bridging "v = newVar" assignment is appended to parent so
// anything still reading v keeps seeing the right value. Expression and
// Const vars cannot be retired this way and fail with NotReparentable;
// every other variant is accepted. Ported from kratos's Var::move_src_to.
func (v *Var) MoveSrcTo(newVar *Var, parent AssignTarget) error {
	if v.variant == VarExpression || v.variant == VarConstValue {
		return newError(KindNotReparentable, "only base or port variables are allowed, not %s", []Node{v}, v.Name())
	}
	for _, s := range v.sources {
		s.left = newVar
		newVar.addSource(s)
	}
	v.sources = nil

	for _, key := range v.sliceOrder {
		newSlice, err := newVar.Slice(key.high, key.low)
		if err != nil {
			return err
		}
		if err := v.slices[key].MoveSrcTo(newSlice, parent); err != nil {
			return err
		}
	}

	stmt, err := v.Assign(newVar, Undefined)
	if err != nil {
		return err
	}
	return parent.AddStmt(stmt)
}

// MoveSinkTo retires v in favor of newVar: every AssignStmt that currently
// consumes v (v as Right) is relinked to consume newVar instead, the same
// move is applied recursively to every slice of v against the matching
// slice of newVar, and a bridging "newVar = v" assignment is appended to
// parent so newVar keeps carrying v's value. Expression and Const vars
// cannot be retired this way and fail with NotReparentable; every other
// variant is accepted. Ported from kratos's Var::move_sink_to.
func (v *Var) MoveSinkTo(newVar *Var, parent AssignTarget) error {
	if v.variant == VarExpression || v.variant == VarConstValue {
		return newError(KindNotReparentable, "only base or port variables are allowed, not %s", []Node{v}, v.Name())
	}
	for _, s := range v.sinks {
		s.right = newVar
		newVar.addSink(s)
	}
	v.sinks = nil

	for _, key := range v.sliceOrder {
		newSlice, err := newVar.Slice(key.high, key.low)
		if err != nil {
			return err
		}
		if err := v.slices[key].MoveSinkTo(newSlice, parent); err != nil {
			return err
		}
	}

	stmt, err := newVar.Assign(v, Undefined)
	if err != nil {
		return err
	}
	return parent.AddStmt(stmt)
}

// RelinkSinksTo redirects every AssignStmt that currently consumes v (v as
// Right) to consume newVar instead, with no bridging assignment and no
// slice recursion. Unlike MoveSinkTo, it does not retire v behind a
// surviving link to newVar; it is for splicing v fully out of the driver
// graph (e.g. merge_wire_assignments inlining a single-driver wire) ahead
// of removing v outright.
func (v *Var) RelinkSinksTo(newVar *Var) {
	for _, s := range v.sinks {
		s.right = newVar
		newVar.addSink(s)
	}
	v.sinks = nil
}
