package ir

// Slice returns the idempotent [hi:lo] child Var of v, creating it on first
// use and returning the identical pointer on every later call with the same
// bounds (Testable Property 2). Bit(i) is sugar for Slice(i, i).
func (v *Var) Slice(hi, lo uint) (*Var, error) {
	if lo > hi {
		return nil, newError(KindSliceOutOfRange, "low (%d) cannot be larger than high (%d)", []Node{v}, lo, hi)
	}
	if hi >= v.width {
		return nil, newError(KindSliceOutOfRange, "high (%d) must be smaller than width (%d)", []Node{v}, hi, v.width)
	}
	key := sliceKey{high: hi, low: lo}
	if v.slices == nil {
		v.slices = make(map[sliceKey]*Var)
	}
	if existing, ok := v.slices[key]; ok {
		return existing, nil
	}
	s := &Var{
		generator: v.generator,
		width:     hi - lo + 1,
		isSigned:  v.isSigned,
		variant:   VarSlice,
		size:      []uint{1},
		parent:    v,
		high:      hi,
		low:       lo,
	}
	v.slices[key] = s
	v.sliceOrder = append(v.sliceOrder, key)
	return s, nil
}

// Bit is sugar for Slice(i, i).
func (v *Var) Bit(i uint) (*Var, error) {
	return v.Slice(i, i)
}

// Parent returns the Var this slice was carved from, or nil for non-slice
// variants.
func (v *Var) Parent() *Var { return v.parent }

// High returns the high bound of a Slice variant.
func (v *Var) High() uint { return v.high }

// Low returns the low bound of a Slice variant.
func (v *Var) Low() uint { return v.low }

// Members returns the ordered list of vars a Concat references.
func (v *Var) Members() []*Var { return append([]*Var(nil), v.members...) }

// Concat returns a Concat of v followed by others, deduplicating against
// any existing concat cached on v with the identical ordered member list.
// Chaining off an existing Concat flattens: v.Concat(w).Concat(x) yields a
// single three-member concat [v, w, x], not a nested concat of a concat.
func (v *Var) Concat(others ...*Var) (*Var, error) {
	if len(others) == 0 {
		return nil, newError(KindInternal, "concat requires at least one additional var", []Node{v})
	}
	var members []*Var
	if v.variant == VarConcat {
		members = append(v.Members(), others...)
	} else {
		members = append([]*Var{v}, others...)
	}
	for c := range v.concatVars {
		if concatEqual(c.members, members) {
			return c, nil
		}
	}
	width := uint(0)
	signed := true
	for _, m := range members {
		width += m.width
		if !m.isSigned {
			signed = false
		}
	}
	c := &Var{
		generator: v.generator,
		width:     width,
		isSigned:  signed,
		variant:   VarConcat,
		size:      []uint{1},
		members:   members,
	}
	if v.concatVars == nil {
		v.concatVars = make(map[*Var]struct{})
	}
	v.concatVars[c] = struct{}{}
	for _, m := range members {
		if m == v {
			continue
		}
		if m.concatVars == nil {
			m.concatVars = make(map[*Var]struct{})
		}
		m.concatVars[c] = struct{}{}
	}
	return c, nil
}

func concatEqual(a, b []*Var) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Signed returns v's companion SignedView (a $signed() view). The view is
// lazily created on first use and is not itself assignable: NotAssignable
// is returned if the caller tries to make it an assignment destination.
func (v *Var) Signed() *Var {
	if v.isSigned {
		return v
	}
	if v.signedView != nil {
		return v.signedView
	}
	sv := &Var{
		generator: v.generator,
		width:     v.width,
		isSigned:  true,
		variant:   VarSignedView,
		size:      []uint{1},
		parent:    v,
	}
	v.signedView = sv
	return sv
}
