package types

import (
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/tinyrange/minicc/internal/ast"
)

// Lower maps a source type tag to its IR type. mapped is false when the tag
// has no IR representation of its own and was lowered to i32 instead; the
// caller is expected to report that.
func Lower(tag ast.TypeTag) (t lltypes.Type, mapped bool) {
	switch tag {
	case ast.TypeVoid:
		return lltypes.Void, true
	case ast.TypeInt:
		return lltypes.I32, true
	case ast.TypeChar:
		// char shares int's representation
		return lltypes.I32, false
	default:
		return lltypes.I32, false
	}
}

// Size returns the size in bytes of a value of the given tag on our target.
func Size(tag ast.TypeTag) int {
	if tag == ast.TypeVoid {
		return 0
	}
	return 4
}

func IsVoid(t lltypes.Type) bool { return t.Equal(lltypes.Void) }

// IsBool reports whether t is the 1-bit comparison result type.
func IsBool(t lltypes.Type) bool { return t.Equal(lltypes.I1) }

func IsInt32(t lltypes.Type) bool { return t.Equal(lltypes.I32) }
