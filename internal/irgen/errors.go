package irgen

import (
	"fmt"
	"strings"

	"github.com/tinyrange/minicc/internal/ast"
)

type ErrorKind int

const (
	// UnresolvedName: an undeclared variable or a call to an undeclared function.
	UnresolvedName ErrorKind = iota
	// Unsupported: a construct the generator does not lower.
	Unsupported
	// Structural: lowering would leave a block without a terminator.
	Structural
)

func (k ErrorKind) String() string {
	switch k {
	case UnresolvedName:
		return "unresolved name"
	case Unsupported:
		return "unsupported"
	case Structural:
		return "structural"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a semantic error tied to the node that caused it.
type Error struct {
	Kind ErrorKind
	Node ast.Node
	Func string // enclosing function, if any
	Msg  string
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Node != nil && e.Node.Pos().IsValid() {
		fmt.Fprintf(&sb, "%s: ", e.Node.Pos())
	}
	if e.Func != "" {
		fmt.Fprintf(&sb, "in function %s: ", e.Func)
	}
	fmt.Fprintf(&sb, "%s: %s", e.Kind, e.Msg)
	return sb.String()
}

// ErrorList collects errors from independent functions of one module.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns l as an error, or nil if l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Kinds lists the kind of each error in order.
func (l ErrorList) Kinds() []ErrorKind {
	out := make([]ErrorKind, len(l))
	for i, e := range l {
		out[i] = e.Kind
	}
	return out
}
