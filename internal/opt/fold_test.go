package opt

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tinyrange/minicc/internal/ast"
	"github.com/tinyrange/minicc/internal/parser"
)

var treeOpts = cmp.Options{cmpopts.IgnoreTypes(ast.Base{}), cmpopts.EquateEmpty()}

func fold(t *testing.T, n ast.Node) ast.Node {
	t.Helper()
	out, err := FoldNode(ast.NewArena(), n)
	if err != nil {
		t.Fatalf("FoldNode: %v", err)
	}
	return out
}

func TestFoldArithmetic(t *testing.T) {
	a := ast.NewArena()
	// 3 * (2 + 4)
	n := a.NewArithmetic(ast.Mul, a.NewIntConst(3), a.NewArithmetic(ast.Add, a.NewIntConst(2), a.NewIntConst(4)))
	got, ok := fold(t, n).(*ast.IntConst)
	if !ok || got.Value != 18 {
		t.Fatalf("fold = %#v, want IntConst(18)", got)
	}
}

func TestFoldOperators(t *testing.T) {
	tests := []struct {
		op   ast.ArithOp
		x, y int32
		want int32
	}{
		{ast.Add, 2, 3, 5},
		{ast.Sub, 2, 3, -1},
		{ast.Mul, -4, 3, -12},
		{ast.Div, 7, 2, 3},
		{ast.Div, -7, 2, -3},
		{ast.Mod, 7, 3, 1},
		{ast.Mod, -7, 3, -1},
		{ast.Add, math.MaxInt32, 1, math.MinInt32},
		{ast.Mul, 1 << 16, 1 << 16, 0},
		{ast.Sub, math.MinInt32, 1, math.MaxInt32},
		{ast.Div, math.MinInt32, -1, math.MinInt32},
	}
	for _, tt := range tests {
		a := ast.NewArena()
		got := fold(t, a.NewArithmetic(tt.op, a.NewIntConst(tt.x), a.NewIntConst(tt.y)))
		c, ok := got.(*ast.IntConst)
		if !ok || c.Value != tt.want {
			t.Errorf("%d %v %d = %#v, want %d", tt.x, tt.op, tt.y, got, tt.want)
		}
	}
}

func TestFoldKeepsNonConstantOperands(t *testing.T) {
	a := ast.NewArena()
	// x + (1 + 2) => x + 3
	n := a.NewArithmetic(ast.Add, a.NewIdentifierList("x"), a.NewArithmetic(ast.Add, a.NewIntConst(1), a.NewIntConst(2)))
	w := ast.NewArena()
	want := w.NewArithmetic(ast.Add, w.NewIdentifierList("x"), w.NewIntConst(3))
	if diff := cmp.Diff(want, fold(t, n), treeOpts); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestFoldDoesNotReduceOtherOperators(t *testing.T) {
	a := ast.NewArena()
	tests := []ast.Node{
		a.NewComparison(ast.Lt, a.NewIntConst(1), a.NewIntConst(2)),
		a.NewBitwise(ast.BitAnd, a.NewIntConst(6), a.NewIntConst(3)),
		a.NewBitwise(ast.Shl, a.NewIntConst(1), a.NewIntConst(4)),
		a.NewBoolean(ast.OrOr, a.NewIntConst(0), a.NewIntConst(1)),
	}
	for _, n := range tests {
		got := fold(t, n)
		if got.Kind() != n.Kind() {
			t.Errorf("%s folded to %s", n.Kind(), got.Kind())
			continue
		}
		if diff := cmp.Diff(n, got, treeOpts); diff != "" {
			t.Errorf("%s changed (-in +out):\n%s", n.Kind(), diff)
		}
	}

	// Operands are still folded.
	cmpNode := a.NewComparison(ast.Eq, a.NewArithmetic(ast.Mul, a.NewIntConst(2), a.NewIntConst(5)), a.NewIdentifierList("y"))
	got := fold(t, cmpNode).(*ast.Comparison)
	if l, ok := got.Left.(*ast.IntConst); !ok || l.Value != 10 {
		t.Fatalf("comparison left operand = %#v", got.Left)
	}
}

func TestFoldDivisionByZero(t *testing.T) {
	for _, op := range []ast.ArithOp{ast.Div, ast.Mod} {
		a := ast.NewArena()
		a.Mark(ast.Pos{Line: 4, Col: 9})
		n := a.NewArithmetic(op, a.NewIntConst(1), a.NewArithmetic(ast.Sub, a.NewIntConst(2), a.NewIntConst(2)))
		_, err := FoldNode(ast.NewArena(), a.NewReturn(n))
		var fe *Error
		if !errors.As(err, &fe) {
			t.Fatalf("%v: err = %v, want *Error", op, err)
		}
		if fe.Node != n {
			t.Fatalf("%v: error blames %v", op, fe.Node)
		}
		if fe.Error() != "4:9: constant "+opName(op)+" by zero" {
			t.Fatalf("%v: message %q", op, fe.Error())
		}
	}
}

func TestFoldIsPure(t *testing.T) {
	f, err := parser.ParseFile("p.c", `
int g(int x);
int f(int a) {
	int b;
	b = 2 + 3 * 4;
	if (a < 1 + 1) { return g(a * (2 - 1)); }
	while (b > 0) { b = b - (10 / 5); }
	return b;
}`)
	if err != nil {
		t.Fatal(err)
	}
	before := ast.Copy(ast.NewArena(), f.Root)
	out, err := Fold(f)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, f.Root, treeOpts); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
	if out.Arena == f.Arena || out.Arena.Generation() == f.Arena.Generation() {
		t.Fatal("folded tree shares the input arena")
	}
	seen := map[ast.Node]bool{}
	for i := 0; i < f.Arena.Len(); i++ {
		seen[f.Arena.Node(ast.NodeID{Gen: f.Arena.Generation(), Index: uint32(i)})] = true
	}
	for i := 0; i < out.Arena.Len(); i++ {
		n := out.Arena.Node(ast.NodeID{Gen: out.Arena.Generation(), Index: uint32(i)})
		if seen[n] {
			t.Fatalf("folded tree aliases input node %s", n.Kind())
		}
	}
}

func TestFoldIdempotent(t *testing.T) {
	srcs := []string{
		"int main() { return 2 + 3 * 4; }",
		"int f(int x) { if (x < 2 * 3) { return x << (1 + 1); } else { return (x + 1) * (4 - 2); } }",
		"void h() { int i; i = 0; while (i < 10 - 1) { i = i + 1 * 1; } }",
		`int s() { return 1 && 2 || 3 == 3; }`,
	}
	for _, src := range srcs {
		f, err := parser.ParseFile("i.c", src)
		if err != nil {
			t.Fatal(err)
		}
		once, err := Fold(f)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := Fold(once)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(once.Root, twice.Root, treeOpts); diff != "" {
			t.Errorf("%s: fold not idempotent (-once +twice):\n%s", src, diff)
		}
	}
}

func TestFoldReturnExpression(t *testing.T) {
	f, err := parser.ParseFile("r.c", "int main() { return 2 + 3 * 4; }")
	if err != nil {
		t.Fatal(err)
	}
	out, err := Fold(f)
	if err != nil {
		t.Fatal(err)
	}
	ret := out.Root.Nodes[0].(*ast.FxnDef).Body.Stmts[0].(*ast.Return)
	if c, ok := ret.Value.(*ast.IntConst); !ok || c.Value != 14 {
		t.Fatalf("return value = %#v, want IntConst(14)", ret.Value)
	}
	if ret.Value.Pos() != f.Root.Nodes[0].(*ast.FxnDef).Body.Stmts[0].(*ast.Return).Value.Pos() {
		t.Fatal("folded constant lost its position")
	}
}
