package types

import (
	"testing"

	lltypes "github.com/llir/llvm/ir/types"

	"github.com/tinyrange/minicc/internal/ast"
)

func TestLower(t *testing.T) {
	tests := []struct {
		tag    ast.TypeTag
		want   lltypes.Type
		mapped bool
		size   int
	}{
		{ast.TypeVoid, lltypes.Void, true, 0},
		{ast.TypeInt, lltypes.I32, true, 4},
		{ast.TypeChar, lltypes.I32, false, 4},
		{ast.TypeTag(42), lltypes.I32, false, 4},
	}
	for _, tt := range tests {
		got, mapped := Lower(tt.tag)
		if !got.Equal(tt.want) || mapped != tt.mapped {
			t.Errorf("Lower(%v) = %v, %v; want %v, %v", tt.tag, got, mapped, tt.want, tt.mapped)
		}
		if s := Size(tt.tag); s != tt.size {
			t.Errorf("Size(%v) = %d, want %d", tt.tag, s, tt.size)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !IsVoid(lltypes.Void) || IsVoid(lltypes.I32) {
		t.Fatal("IsVoid")
	}
	if !IsBool(lltypes.I1) || IsBool(lltypes.I32) {
		t.Fatal("IsBool")
	}
	if !IsInt32(lltypes.I32) || IsInt32(lltypes.I1) {
		t.Fatal("IsInt32")
	}
}
