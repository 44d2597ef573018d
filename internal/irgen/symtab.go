package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

type symKind int

const (
	symVar symKind = iota
	symFunc
)

// symbol is what a name is bound to: a storage slot or a function.
type symbol struct {
	kind  symKind
	slot  value.Value // *ir.InstAlloca or *ir.Global
	owner *ir.Func    // function owning slot; nil for globals
	fn    *ir.Func
}

// symtab is one flat table for the whole module. A later binding of a
// name replaces the earlier one regardless of block nesting.
type symtab map[string]symbol

func (s symtab) bindVar(name string, slot value.Value, owner *ir.Func) {
	s[name] = symbol{kind: symVar, slot: slot, owner: owner}
}

func (s symtab) bindFunc(name string, f *ir.Func) {
	s[name] = symbol{kind: symFunc, fn: f}
}

func (s symtab) lookup(name string) (symbol, bool) {
	sym, ok := s[name]
	return sym, ok
}
