package ir

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the compiler's error taxonomy.
type ErrorKind int

const (
	KindNameNotFound ErrorKind = iota
	KindCrossGenerator
	KindWidthMismatch
	KindSliceOutOfRange
	KindOutOfRange
	KindNotAssignable
	KindAssignTypeMismatch
	KindIllegalAssignForm
	KindNotReparentable
	KindInterfaceMismatch
	KindPassTimeout
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNameNotFound:
		return "NameNotFound"
	case KindCrossGenerator:
		return "CrossGenerator"
	case KindWidthMismatch:
		return "WidthMismatch"
	case KindSliceOutOfRange:
		return "SliceOutOfRange"
	case KindOutOfRange:
		return "OutOfRange"
	case KindNotAssignable:
		return "NotAssignable"
	case KindAssignTypeMismatch:
		return "AssignTypeMismatch"
	case KindIllegalAssignForm:
		return "IllegalAssignForm"
	case KindNotReparentable:
		return "NotReparentable"
	case KindInterfaceMismatch:
		return "InterfaceMismatch"
	case KindPassTimeout:
		return "PassTimeout"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Node is implemented by every IR node that can be attached to an Error for
// source-location purposes (Var variants and Stmt variants).
type Node interface {
	node()
}

// Error is the typed error every fallible IR/pass operation returns. It
// carries the participating IR nodes so a caller can recover source
// locations without re-deriving them.
type Error struct {
	Kind    ErrorKind
	Message string
	Nodes   []Node
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is/errors.As match against a sentinel ErrorKind via
// Is(target error) bool below; Unwrap itself has no wrapped error to expose
// since Error is always the leaf.
func (e *Error) Unwrap() error { return nil }

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, &ir.Error{Kind: ir.KindWidthMismatch}).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

func newError(kind ErrorKind, format string, nodes []Node, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Nodes: nodes}
}
