package ir

import "fmt"

// VarVariant tags the concrete shape of a Var node.
type VarVariant int

const (
	VarBase VarVariant = iota
	VarPortIO
	VarSlice
	VarExpression
	VarConstValue
	VarParameter
	VarPackedStruct
	VarEnum
	VarSignedView
	VarConcat
)

func (v VarVariant) String() string {
	switch v {
	case VarBase:
		return "Base"
	case VarPortIO:
		return "PortIO"
	case VarSlice:
		return "Slice"
	case VarExpression:
		return "Expression"
	case VarConstValue:
		return "ConstValue"
	case VarParameter:
		return "Parameter"
	case VarPackedStruct:
		return "PackedStruct"
	case VarEnum:
		return "Enum"
	case VarSignedView:
		return "SignedView"
	case VarConcat:
		return "Concat"
	default:
		return "Unknown"
	}
}

// sliceKey caches slices by their (high, low) bounds on the parent Var.
type sliceKey struct {
	high, low uint
}

// Var is the fundamental value-carrying IR node: plain variables, ports,
// slices, concatenations, constants, parameters, and expressions are all
// variants of the same type, distinguished by Variant.
type Var struct {
	name      string
	width     uint
	isSigned  bool
	variant   VarVariant
	size      []uint
	generator *Generator
	comment   string
	verilogLn int

	sources []*AssignStmt
	sinks   []*AssignStmt

	slices     map[sliceKey]*Var
	sliceOrder []sliceKey
	concatVars map[*Var]struct{}
	signedView *Var

	// Slice-specific.
	parent    *Var
	high, low uint

	// Concat-specific; ordered, non-empty when variant == VarConcat.
	members []*Var

	// Expression-specific.
	op          ExprOp
	left, right *Var

	// Const-specific.
	constVal int64

	// Port-specific.
	direction PortDirection
	portType  PortType
	ifaceRef  *InterfaceRef

	// Enum-specific.
	enumType   *EnumType
	enumMember string

	// PackedStruct-specific.
	structDef *StructDef
}

func (*Var) node() {}

// Name returns the var's declared name for Base/PortIO/Parameter variants,
// or a structurally derived textual form for Slice/Concat/Expression/Const
// variants, matching kratos's Var::to_string family.
func (v *Var) Name() string {
	switch v.variant {
	case VarSlice:
		if v.high == v.low {
			return fmt.Sprintf("%s[%d]", v.parent.Name(), v.high)
		}
		return fmt.Sprintf("%s[%d:%d]", v.parent.Name(), v.high, v.low)
	case VarConcat:
		names := make([]string, len(v.members))
		for i, m := range v.members {
			names[i] = m.Name()
		}
		return "{" + joinComma(names) + "}"
	case VarExpression:
		if v.right != nil {
			return fmt.Sprintf("(%s %s %s)", v.left.Name(), exprOpSymbol(v.op), v.right.Name())
		}
		return fmt.Sprintf("(%s%s)", exprOpSymbol(v.op), v.left.Name())
	case VarConstValue:
		return v.constString()
	case VarSignedView:
		return fmt.Sprintf("$signed(%s)", v.parent.Name())
	default:
		return v.name
	}
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

func (v *Var) constString() string {
	if v.isSigned && v.constVal < 0 {
		return fmt.Sprintf("-%d'h%X", v.width, -v.constVal)
	}
	return fmt.Sprintf("%d'h%X", v.width, v.constVal)
}

// Width returns the bit width of the var.
func (v *Var) Width() uint { return v.width }

// IsSigned reports whether the var carries a signed interpretation.
func (v *Var) IsSigned() bool { return v.isSigned }

// Variant reports the concrete shape of the var.
func (v *Var) Variant() VarVariant { return v.variant }

// Size returns the array shape of the var (default []uint{1}).
func (v *Var) Size() []uint { return v.size }

// Generator returns the non-owning back-reference to the var's owning
// generator.
func (v *Var) Generator() *Generator { return v.generator }

// DefaultValue returns a VarParameter's default value.
func (v *Var) DefaultValue() int64 { return v.constVal }

// ConstValue returns a VarConstValue's numeric value.
func (v *Var) ConstValue() int64 { return v.constVal }

// Sources returns the assignment statements driving this var, in insertion
// order.
func (v *Var) Sources() []*AssignStmt { return append([]*AssignStmt(nil), v.sources...) }

// Sinks returns the assignment statements that consume this var as a right-
// hand side, in insertion order.
func (v *Var) Sinks() []*AssignStmt { return append([]*AssignStmt(nil), v.sinks...) }

// SetComment attaches a human-readable comment emitted above the var's
// declaration or next to its driving assignment.
func (v *Var) SetComment(c string) { v.comment = c }

// Comment returns the var's attached comment, if any.
func (v *Var) Comment() string { return v.comment }

// VerilogLine returns the source line this var's declaration was emitted
// on, set by the code generator when the owning generator has Debug set.
func (v *Var) VerilogLine() int { return v.verilogLn }

// SetVerilogLine records the emitted line number for this var's
// declaration.
func (v *Var) SetVerilogLine(line int) { v.verilogLn = line }

func (v *Var) addSource(stmt *AssignStmt) {
	for _, s := range v.sources {
		if s == stmt {
			return
		}
	}
	v.sources = append(v.sources, stmt)
}

func (v *Var) addSink(stmt *AssignStmt) {
	for _, s := range v.sinks {
		if s == stmt {
			return
		}
	}
	v.sinks = append(v.sinks, stmt)
}

func (v *Var) removeSource(stmt *AssignStmt) {
	v.sources = removeStmtFromSlice(v.sources, stmt)
}

func (v *Var) removeSink(stmt *AssignStmt) {
	v.sinks = removeStmtFromSlice(v.sinks, stmt)
}

func removeStmtFromSlice(stmts []*AssignStmt, target *AssignStmt) []*AssignStmt {
	out := stmts[:0]
	for _, s := range stmts {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}

// EnumType describes a named enumeration shared across a compilation.
type EnumType struct {
	Name    string
	Width   uint
	Members []EnumMember
}

// EnumMember is one name/value pair of an EnumType, emitted sorted by
// Value.
type EnumMember struct {
	Name  string
	Value int64
}

// StructDef describes a named packed struct shared across a compilation.
type StructDef struct {
	Name   string
	Fields []StructField
}

// StructField is one member of a StructDef.
type StructField struct {
	Name  string
	Width uint
}

// InterfaceRef binds a Port to a named interface instance/definition pair.
type InterfaceRef struct {
	DefName string
	RefName string
	Ports   []InterfacePort
	Vars    []InterfaceVar
}

// InterfacePort is one port declared by an interface definition.
type InterfacePort struct {
	Name      string
	Width     uint
	IsSigned  bool
	Direction PortDirection
}

// InterfaceVar is one plain variable declared by an interface definition.
type InterfaceVar struct {
	Name     string
	Width    uint
	IsSigned bool
}
