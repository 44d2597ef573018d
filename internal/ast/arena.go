package ast

import (
	"fmt"
	"sync/atomic"
)

// NodeID identifies a node within the arena generation that allocated it.
type NodeID struct {
	Gen   uint32
	Index uint32
}

func (id NodeID) String() string { return fmt.Sprintf("%d.%d", id.Gen, id.Index) }

var generations atomic.Uint32

// Arena owns every node of one tree. Nodes are never freed individually;
// the tree goes away with its arena.
type Arena struct {
	gen   uint32
	pos   Pos
	nodes []Node
}

// NewArena returns an empty arena with a fresh generation.
func NewArena() *Arena {
	return &Arena{gen: generations.Add(1)}
}

func (a *Arena) Generation() uint32 { return a.gen }

// Len reports how many nodes a has allocated.
func (a *Arena) Len() int { return len(a.nodes) }

// Node returns the node with the given id, or nil if id was not
// allocated by a.
func (a *Arena) Node(id NodeID) Node {
	if id.Gen != a.gen || int(id.Index) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id.Index]
}

// Mark sets the position recorded on nodes allocated after it.
func (a *Arena) Mark(pos Pos) { a.pos = pos }

func (a *Arena) alloc(n Node, b *Base) {
	b.id = NodeID{Gen: a.gen, Index: uint32(len(a.nodes))}
	b.pos = a.pos
	a.nodes = append(a.nodes, n)
}

func (a *Arena) NewProgram(nodes ...Node) *Program {
	n := &Program{Nodes: nodes}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewBlock(stmts ...Node) *Block {
	n := &Block{Stmts: stmts}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewIntConst(v int32) *IntConst {
	n := &IntConst{Value: v}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewStrConst(s string) *StrConst {
	n := &StrConst{Value: s}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewIdentifier(name string) *Identifier {
	n := &Identifier{Name: name}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewIdentifierList(names ...string) *IdentifierList {
	n := &IdentifierList{Names: names}
	a.alloc(n, &n.Base)
	return n
}

// NewPointerName is a single-name IdentifierList with pointers leading '*'.
func (a *Arena) NewPointerName(name string, pointers int) *IdentifierList {
	n := &IdentifierList{Names: []string{name}, Pointers: pointers}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewType(tag TypeTag) *Type {
	n := &Type{Tag: tag}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewConstType(tag TypeTag) *Type {
	n := &Type{Tag: tag, Const: true}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewDeclaration(t *Type, names *IdentifierList) *Declaration {
	n := &Declaration{Type: t, Names: names}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewParameterList(params ...Node) *ParameterList {
	n := &ParameterList{Params: params}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewFxnNameArg(name string, params *ParameterList) *FxnNameArg {
	n := &FxnNameArg{Name: name, Params: params}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewFxnDef(ret *Type, nameArg *FxnNameArg, body *Block) *FxnDef {
	n := &FxnDef{Ret: ret, NameArg: nameArg, Body: body}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewFDeclaration(ret, name Node) *FDeclaration {
	n := &FDeclaration{Ret: ret, Name: name}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewFxnCall(callee string, args *ParameterList) *FxnCall {
	n := &FxnCall{Callee: callee, Args: args}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewArithmetic(op ArithOp, l, r Node) *Arithmetic {
	n := &Arithmetic{Op: op, Left: l, Right: r}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewBitwise(op BitOp, l, r Node) *Bitwise {
	n := &Bitwise{Op: op, Left: l, Right: r}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewComparison(op CmpOp, l, r Node) *Comparison {
	n := &Comparison{Op: op, Left: l, Right: r}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewBoolean(op BoolOp, l, r Node) *Boolean {
	n := &Boolean{Op: op, Left: l, Right: r}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewAssign(lhs, rhs Node) *Assign {
	n := &Assign{LHS: lhs, RHS: rhs}
	a.alloc(n, &n.Base)
	return n
}

// NewReturn builds `return value;`, or `return;` when value is nil.
func (a *Arena) NewReturn(value Node) *Return {
	n := &Return{Value: value}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewIfThen(cond, body Node) *IfThen {
	n := &IfThen{Cond: cond, Body: body}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewIfThenElse(cond, then, els Node) *IfThenElse {
	n := &IfThenElse{Cond: cond, Then: then, Else: els}
	a.alloc(n, &n.Base)
	return n
}

func (a *Arena) NewWhile(cond, body Node) *While {
	n := &While{Cond: cond, Body: body}
	a.alloc(n, &n.Base)
	return n
}
