package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sampleFunc(a *Arena) *Program {
	// int add(int a, int b) { return a + b; }
	params := a.NewParameterList(
		a.NewDeclaration(a.NewType(TypeInt), a.NewIdentifierList("a")),
		a.NewDeclaration(a.NewType(TypeInt), a.NewIdentifierList("b")),
	)
	body := a.NewBlock(a.NewReturn(a.NewArithmetic(Add, a.NewIdentifierList("a"), a.NewIdentifierList("b"))))
	return a.NewProgram(a.NewFxnDef(a.NewType(TypeInt), a.NewFxnNameArg("add", params), body))
}

func TestArenaIDs(t *testing.T) {
	a := NewArena()
	x := a.NewIntConst(1)
	y := a.NewIntConst(2)
	if x.ID().Gen != a.Generation() || y.ID().Gen != a.Generation() {
		t.Fatalf("node generation %d/%d, arena %d", x.ID().Gen, y.ID().Gen, a.Generation())
	}
	if x.ID().Index != 0 || y.ID().Index != 1 {
		t.Fatalf("indices = %d, %d", x.ID().Index, y.ID().Index)
	}
	if got := a.Node(y.ID()); got != Node(y) {
		t.Fatalf("Node(%v) = %v", y.ID(), got)
	}
	if a.Len() != 2 {
		t.Fatalf("Len = %d", a.Len())
	}

	b := NewArena()
	if b.Generation() == a.Generation() {
		t.Fatalf("arenas share generation %d", a.Generation())
	}
	if got := b.Node(x.ID()); got != nil {
		t.Fatalf("foreign id resolved to %v", got)
	}
}

func TestArenaMark(t *testing.T) {
	a := NewArena()
	a.Mark(Pos{Line: 3, Col: 7})
	n := a.NewIdentifier("x")
	if n.Pos().String() != "3:7" {
		t.Fatalf("pos = %s", n.Pos())
	}
	a.Mark(Pos{})
	if m := a.NewIdentifier("y"); m.Pos().IsValid() {
		t.Fatalf("expected unknown position, got %s", m.Pos())
	}
}

func TestSequencesKeepOrder(t *testing.T) {
	a := NewArena()
	p := a.NewProgram()
	blk := a.NewBlock()
	names := a.NewIdentifierList()
	for i := int32(0); i < 5; i++ {
		p.Add(a.NewIntConst(i))
		blk.Add(a.NewIntConst(i * 10))
	}
	names.Add("a")
	names.Add("b")
	for i, n := range p.Nodes {
		if n.(*IntConst).Value != int32(i) {
			t.Fatalf("program order broken at %d", i)
		}
	}
	for i, n := range blk.Stmts {
		if n.(*IntConst).Value != int32(i*10) {
			t.Fatalf("block order broken at %d", i)
		}
	}
	if diff := cmp.Diff([]string{"a", "b"}, names.Names); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
}

func TestIdentifierListName(t *testing.T) {
	a := NewArena()
	if name, ok := a.NewIdentifierList("x").Name(); !ok || name != "x" {
		t.Fatalf("Name() = %q, %v", name, ok)
	}
	if _, ok := a.NewIdentifierList("x", "y").Name(); ok {
		t.Fatal("two names reported as scalar")
	}
	if _, ok := a.NewIdentifierList().Name(); ok {
		t.Fatal("empty list reported as scalar")
	}
}

func TestCopyIsDeep(t *testing.T) {
	src := NewArena()
	prog := sampleFunc(src)
	dst := NewArena()
	cp := Copy(dst, prog).(*Program)

	if diff := cmp.Diff(prog, cp, cmpopts.IgnoreTypes(Base{}), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("copy differs (-src +copy):\n%s", diff)
	}
	if dst.Len() != src.Len() {
		t.Fatalf("copy allocated %d nodes, source has %d", dst.Len(), src.Len())
	}
	fd := prog.Nodes[0].(*FxnDef)
	cfd := cp.Nodes[0].(*FxnDef)
	if fd == cfd || fd.Body == cfd.Body || fd.NameArg.Params == cfd.NameArg.Params {
		t.Fatal("copy aliases source nodes")
	}
	if cfd.ID().Gen != dst.Generation() {
		t.Fatalf("copied node belongs to generation %d", cfd.ID().Gen)
	}
}

func TestCopyLeaves(t *testing.T) {
	src := NewArena()
	typ := src.NewConstType(TypeChar)
	ptr := src.NewPointerName("p", 2)
	dst := NewArena()

	ct := Copy(dst, typ).(*Type)
	if ct.Tag != TypeChar || !ct.Const {
		t.Fatalf("copied type = %+v", ct)
	}
	cl := Copy(dst, ptr).(*IdentifierList)
	cl.Add("q")
	if len(ptr.Names) != 1 || cl.Pointers != 2 {
		t.Fatalf("copy shares names slice or lost pointers: %v %d", ptr.Names, cl.Pointers)
	}
}

func TestVisitDispatch(t *testing.T) {
	a := NewArena()
	nodes := []Node{
		a.NewProgram(), a.NewBlock(), a.NewIntConst(1), a.NewStrConst("s"),
		a.NewIdentifier("i"), a.NewIdentifierList("l"), a.NewType(TypeInt),
		a.NewDeclaration(nil, nil), a.NewParameterList(), a.NewFxnNameArg("f", nil),
		a.NewFxnDef(nil, nil, nil), a.NewFDeclaration(nil, nil), a.NewFxnCall("f", nil),
		a.NewArithmetic(Add, nil, nil), a.NewBitwise(Shl, nil, nil),
		a.NewComparison(Lt, nil, nil), a.NewBoolean(AndAnd, nil, nil),
		a.NewAssign(nil, nil), a.NewReturn(nil), a.NewIfThen(nil, nil),
		a.NewIfThenElse(nil, nil, nil), a.NewWhile(nil, nil),
	}
	for _, n := range nodes {
		got, err := Visit[Kind](kindOf{}, n)
		if err != nil {
			t.Fatalf("Visit(%s): %v", n.Kind(), err)
		}
		if got != n.Kind() {
			t.Fatalf("Visit dispatched %s to %s", n.Kind(), got)
		}
	}
	if _, err := Visit[Kind](kindOf{}, nil); err == nil {
		t.Fatal("expected error visiting nil")
	}
}

type kindOf struct{}

func (kindOf) VisitProgram(*Program) (Kind, error)               { return KindProgram, nil }
func (kindOf) VisitBlock(*Block) (Kind, error)                   { return KindBlock, nil }
func (kindOf) VisitIntConst(*IntConst) (Kind, error)             { return KindIntConst, nil }
func (kindOf) VisitStrConst(*StrConst) (Kind, error)             { return KindStrConst, nil }
func (kindOf) VisitIdentifier(*Identifier) (Kind, error)         { return KindIdentifier, nil }
func (kindOf) VisitIdentifierList(*IdentifierList) (Kind, error) { return KindIdentifierList, nil }
func (kindOf) VisitType(*Type) (Kind, error)                     { return KindType, nil }
func (kindOf) VisitDeclaration(*Declaration) (Kind, error)       { return KindDeclaration, nil }
func (kindOf) VisitParameterList(*ParameterList) (Kind, error)   { return KindParameterList, nil }
func (kindOf) VisitFxnNameArg(*FxnNameArg) (Kind, error)         { return KindFxnNameArg, nil }
func (kindOf) VisitFxnDef(*FxnDef) (Kind, error)                 { return KindFxnDef, nil }
func (kindOf) VisitFDeclaration(*FDeclaration) (Kind, error)     { return KindFDeclaration, nil }
func (kindOf) VisitFxnCall(*FxnCall) (Kind, error)               { return KindFxnCall, nil }
func (kindOf) VisitArithmetic(*Arithmetic) (Kind, error)         { return KindArithmetic, nil }
func (kindOf) VisitBitwise(*Bitwise) (Kind, error)               { return KindBitwise, nil }
func (kindOf) VisitComparison(*Comparison) (Kind, error)         { return KindComparison, nil }
func (kindOf) VisitBoolean(*Boolean) (Kind, error)               { return KindBoolean, nil }
func (kindOf) VisitAssign(*Assign) (Kind, error)                 { return KindAssign, nil }
func (kindOf) VisitReturn(*Return) (Kind, error)                 { return KindReturn, nil }
func (kindOf) VisitIfThen(*IfThen) (Kind, error)                 { return KindIfThen, nil }
func (kindOf) VisitIfThenElse(*IfThenElse) (Kind, error)         { return KindIfThenElse, nil }
func (kindOf) VisitWhile(*While) (Kind, error)                   { return KindWhile, nil }
