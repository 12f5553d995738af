package ir

// checkConstRange verifies that value fits within width bits, two's-
// complement range when signed, or [0, 2^width-1] when unsigned.
func checkConstRange(value int64, width uint, isSigned bool) error {
	if isSigned {
		min := -(int64(1) << (width - 1))
		max := (int64(1) << (width - 1)) - 1
		if width >= 64 {
			// A 64-bit signed value always fits in a 64-bit signed field.
			return nil
		}
		if value < min {
			return newError(KindOutOfRange, "%d is smaller than the minimum value (%d) given width %d", nil, value, min, width)
		}
		if value > max {
			return newError(KindOutOfRange, "%d is larger than the maximum value (%d) given width %d", nil, value, max, width)
		}
		return nil
	}
	if value < 0 {
		return newError(KindOutOfRange, "%d is negative but width %d is declared unsigned", nil, value, width)
	}
	if width >= 64 {
		return nil
	}
	max := (int64(1) << width) - 1
	if value > max {
		return newError(KindOutOfRange, "%d is larger than the maximum value (%d) given width %d", nil, value, max, width)
	}
	return nil
}

// Value returns the stored value of a ConstValue var.
func (v *Var) Value() int64 { return v.constVal }

// SetValue attempts to change the value of a ConstValue var, re-running the
// range check for its declared width/signedness. On failure the old value
// is kept (state unchanged) and an error describing the rejected value is
// returned for the caller to log.
func (v *Var) SetValue(newValue int64) error {
	if err := checkConstRange(newValue, v.width, v.isSigned); err != nil {
		return err
	}
	v.constVal = newValue
	return nil
}
