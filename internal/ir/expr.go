package ir

// ExprOp enumerates the operators an Expression var can carry.
type ExprOp int

const (
	Add ExprOp = iota
	Minus
	Multiply
	Divide
	Mod
	And
	Or
	Xor
	UInvert
	UPlus
	ShiftLeft
	LogicalShiftRight
	SignedShiftRight
	LessThan
	GreaterThan
	LessEqThan
	GreaterEqThan
	Eq
	Neq
)

var relationalOps = map[ExprOp]bool{
	LessThan:      true,
	GreaterThan:   true,
	LessEqThan:    true,
	GreaterEqThan: true,
	Eq:            true,
	Neq:           true,
}

// IsRelational reports whether op produces a single-bit result.
func IsRelational(op ExprOp) bool { return relationalOps[op] }

func exprOpSymbol(op ExprOp) string {
	switch op {
	case Add:
		return "+"
	case Minus:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Mod:
		return "%"
	case And:
		return "&"
	case Or:
		return "|"
	case Xor:
		return "^"
	case UInvert:
		return "~"
	case UPlus:
		return "+"
	case ShiftLeft:
		return "<<"
	case LogicalShiftRight:
		return ">>"
	case SignedShiftRight:
		return ">>>"
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessEqThan:
		return "<="
	case GreaterEqThan:
		return ">="
	case Eq:
		return "=="
	case Neq:
		return "!="
	default:
		return "?"
	}
}

// generatorOwner returns the generator a var belongs to, or nil for a
// const var: const vars are interned process-wide by Context.InternConst
// and never belong to any single generator, so they carry no generator
// identity to compare against.
func generatorOwner(v *Var) *Generator {
	if v.variant == VarConstValue {
		return nil
	}
	return v.generator
}

// binary resolves each operand by name within its own generator, checks the
// cross-generator and width invariants, and allocates a new Expression var
// interned nowhere in particular (expressions are not cached; only slices
// and concats are).
func (v *Var) binary(op ExprOp, other *Var) (*Var, error) {
	left, right, err := v.resolveOperands(other)
	if err != nil {
		return nil, err
	}
	leftGen, rightGen := generatorOwner(left), generatorOwner(right)
	if leftGen != nil && rightGen != nil && leftGen != rightGen {
		return nil, newError(KindCrossGenerator, "%s and %s belong to different generators", []Node{left, right}, left.Name(), right.Name())
	}
	if left.width != right.width {
		return nil, newError(KindWidthMismatch, "left (%s) width (%d) does not match right (%s) width (%d)",
			[]Node{left, right}, left.Name(), left.width, right.Name(), right.width)
	}
	width := left.width
	if IsRelational(op) {
		width = 1
	}
	gen := leftGen
	if gen == nil {
		gen = rightGen
	}
	e := &Var{
		generator: gen,
		width:     width,
		isSigned:  left.isSigned && right.isSigned,
		variant:   VarExpression,
		size:      []uint{1},
		op:        op,
		left:      left,
		right:     right,
	}
	return e, nil
}

// unary allocates a new Expression var for a unary operator.
func (v *Var) unary(op ExprOp) *Var {
	return &Var{
		generator: v.generator,
		width:     v.width,
		isSigned:  v.isSigned,
		variant:   VarExpression,
		size:      []uint{1},
		op:        op,
		left:      v,
	}
}

// resolveOperands looks v and other up by name, each within its own generator, so
// that operations always act on the current in-scope definition, per
// spec.md's "looking up by name returns the current in-scope definition".
// Vars that are not Base/PortIO/Parameter (e.g. already an Expression or a
// Slice) resolve to themselves, since they have no generator-namespace
// entry to look up.
func (v *Var) resolveOperands(other *Var) (*Var, *Var, error) {
	left, err := v.resolveSelf()
	if err != nil {
		return nil, nil, err
	}
	right, err := other.resolveSelf()
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (v *Var) resolveSelf() (*Var, error) {
	if v.generator == nil {
		if v.variant == VarConstValue {
			return v, nil
		}
		return nil, newError(KindInternal, "var %s has no owning generator", []Node{v}, v.Name())
	}
	switch v.variant {
	case VarBase, VarPortIO, VarParameter, VarEnum, VarPackedStruct:
		found := v.generator.lookupVar(v.name)
		if found == nil {
			return nil, newError(KindNameNotFound, "unable to find var %s in generator %s", []Node{v}, v.name, v.generator.Name)
		}
		return found, nil
	default:
		return v, nil
	}
}

// Add returns left + right.
func (v *Var) Add(other *Var) (*Var, error) { return v.binary(Add, other) }

// Sub returns left - right.
func (v *Var) Sub(other *Var) (*Var, error) { return v.binary(Minus, other) }

// Mul returns left * right.
func (v *Var) Mul(other *Var) (*Var, error) { return v.binary(Multiply, other) }

// Div returns left / right.
func (v *Var) Div(other *Var) (*Var, error) { return v.binary(Divide, other) }

// Rem returns left % right.
func (v *Var) Rem(other *Var) (*Var, error) { return v.binary(Mod, other) }

// And returns left & right.
func (v *Var) And(other *Var) (*Var, error) { return v.binary(And, other) }

// Or returns left | right.
func (v *Var) Or(other *Var) (*Var, error) { return v.binary(Or, other) }

// Xor returns left ^ right.
func (v *Var) Xor(other *Var) (*Var, error) { return v.binary(Xor, other) }

// Shl returns left << right.
func (v *Var) Shl(other *Var) (*Var, error) { return v.binary(ShiftLeft, other) }

// Lshr returns left >> right (logical/unsigned shift).
func (v *Var) Lshr(other *Var) (*Var, error) { return v.binary(LogicalShiftRight, other) }

// Ashr returns left >>> right (arithmetic/signed shift).
func (v *Var) Ashr(other *Var) (*Var, error) { return v.binary(SignedShiftRight, other) }

// Lt returns left < right.
func (v *Var) Lt(other *Var) (*Var, error) { return v.binary(LessThan, other) }

// Gt returns left > right.
func (v *Var) Gt(other *Var) (*Var, error) { return v.binary(GreaterThan, other) }

// Le returns left <= right.
func (v *Var) Le(other *Var) (*Var, error) { return v.binary(LessEqThan, other) }

// Ge returns left >= right.
func (v *Var) Ge(other *Var) (*Var, error) { return v.binary(GreaterEqThan, other) }

// Eq returns left == right.
func (v *Var) Eq(other *Var) (*Var, error) { return v.binary(Eq, other) }

// Neq returns left != right.
func (v *Var) Neq(other *Var) (*Var, error) { return v.binary(Neq, other) }

// Neg returns unary -v.
func (v *Var) Neg() (*Var, error) {
	self, err := v.resolveSelf()
	if err != nil {
		return nil, err
	}
	return self.unary(Minus), nil
}

// Invert returns unary ~v.
func (v *Var) Invert() (*Var, error) {
	self, err := v.resolveSelf()
	if err != nil {
		return nil, err
	}
	return self.unary(UInvert), nil
}

// UnaryPlus returns unary +v.
func (v *Var) UnaryPlus() (*Var, error) {
	self, err := v.resolveSelf()
	if err != nil {
		return nil, err
	}
	return self.unary(UPlus), nil
}

// Op returns the operator of an Expression var.
func (v *Var) Op() ExprOp { return v.op }

// Left returns the left (or sole, for unary ops) operand of an Expression
// var.
func (v *Var) Left() *Var { return v.left }

// Right returns the right operand of a binary Expression var, or nil for
// unary ops.
func (v *Var) Right() *Var { return v.right }
