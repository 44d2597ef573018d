package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/tinyrange/minicc/internal/ast"
	"github.com/tinyrange/minicc/internal/types"
)

// slotType returns the element type of a storage location, or nil if v is
// not one.
func slotType(v value.Value) lltypes.Type {
	switch s := v.(type) {
	case *ir.InstAlloca:
		return s.ElemType
	case *ir.Global:
		return s.ContentType
	}
	return nil
}

// load turns a storage location into the value it holds. Other values are
// returned unchanged.
func (g *Generator) load(v value.Value) value.Value {
	if t := slotType(v); t != nil {
		return g.cur.NewLoad(t, v)
	}
	return v
}

// rvalue lowers n as an operand of type want.
func (g *Generator) rvalue(n ast.Node, want lltypes.Type) (value.Value, error) {
	if n == nil {
		return nil, g.errorf(Unsupported, nil, "missing operand")
	}
	v, err := ast.Visit[value.Value](g, n)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, g.errorf(Unsupported, n, "%s does not produce a value", n.Kind())
	}
	return g.coerce(n, g.load(v), want)
}

func (g *Generator) coerce(n ast.Node, v value.Value, want lltypes.Type) (value.Value, error) {
	t := v.Type()
	switch {
	case t.Equal(want):
		return v, nil
	case types.IsVoid(t):
		return nil, g.errorf(Unsupported, n, "void value used in an expression")
	case types.IsBool(t) && types.IsInt32(want):
		return g.cur.NewZExt(v, lltypes.I32), nil
	case types.IsInt32(t) && types.IsBool(want):
		return g.cur.NewICmp(enum.IPredNE, v, constant.NewInt(lltypes.I32, 0)), nil
	}
	return nil, g.errorf(Unsupported, n, "cannot convert %s to %s", t, want)
}

func (g *Generator) operands(l, r ast.Node, want lltypes.Type) (value.Value, value.Value, error) {
	x, err := g.rvalue(l, want)
	if err != nil {
		return nil, nil, err
	}
	y, err := g.rvalue(r, want)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func (g *Generator) VisitIntConst(n *ast.IntConst) (value.Value, error) {
	return constant.NewInt(lltypes.I32, int64(n.Value)), nil
}

func (g *Generator) VisitStrConst(n *ast.StrConst) (value.Value, error) {
	return nil, g.errorf(Unsupported, n, "string constant %q cannot be lowered", n.Value)
}

func (g *Generator) VisitIdentifier(n *ast.Identifier) (value.Value, error) {
	return nil, g.errorf(Unsupported, n, "identifier %s used outside a declarator", n.Name)
}

// VisitIdentifierList resolves a name to its storage location.
func (g *Generator) VisitIdentifierList(n *ast.IdentifierList) (value.Value, error) {
	name, ok := n.Name()
	if !ok {
		return nil, g.errorf(Unsupported, n, "expected one name, found %d", len(n.Names))
	}
	sym, ok := g.syms.lookup(name)
	switch {
	case !ok:
		return nil, g.errorf(UnresolvedName, n, "variable %s used before it is declared", name)
	case sym.kind == symFunc:
		return nil, g.errorf(Unsupported, n, "function %s used as a value", name)
	case sym.owner != nil && sym.owner != g.fn:
		return nil, g.errorf(UnresolvedName, n, "variable %s belongs to function %s", name, sym.owner.Name())
	}
	return sym.slot, nil
}

func (g *Generator) VisitArithmetic(n *ast.Arithmetic) (value.Value, error) {
	x, y, err := g.operands(n.Left, n.Right, lltypes.I32)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.Add:
		return g.cur.NewAdd(x, y), nil
	case ast.Sub:
		return g.cur.NewSub(x, y), nil
	case ast.Mul:
		return g.cur.NewMul(x, y), nil
	case ast.Div:
		return g.cur.NewSDiv(x, y), nil
	case ast.Mod:
		return g.cur.NewSRem(x, y), nil
	}
	return nil, g.errorf(Unsupported, n, "arithmetic operator %v", n.Op)
}

func (g *Generator) VisitBitwise(n *ast.Bitwise) (value.Value, error) {
	if n.Op == ast.Shl || n.Op == ast.Shr {
		return g.shift(n)
	}
	x, y, err := g.operands(n.Left, n.Right, lltypes.I32)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.BitAnd:
		return g.cur.NewAnd(x, y), nil
	case ast.BitOr:
		return g.cur.NewOr(x, y), nil
	case ast.BitXor:
		return g.cur.NewXor(x, y), nil
	}
	return nil, g.errorf(Unsupported, n, "bitwise operator %v", n.Op)
}

// shift lowers << and >>. The amount must be an integer literal in [0, 32);
// >> is arithmetic.
func (g *Generator) shift(n *ast.Bitwise) (value.Value, error) {
	x, err := g.rvalue(n.Left, lltypes.I32)
	if err != nil {
		return nil, err
	}
	amt, ok := n.Right.(*ast.IntConst)
	if !ok {
		return nil, g.errorf(Unsupported, n, "shift amount must be an integer constant")
	}
	if amt.Value < 0 || amt.Value >= 32 {
		return nil, g.errorf(Unsupported, n, "shift amount %d out of range", amt.Value)
	}
	k := constant.NewInt(lltypes.I32, int64(amt.Value))
	if n.Op == ast.Shl {
		return g.cur.NewShl(x, k), nil
	}
	return g.cur.NewAShr(x, k), nil
}

var predicates = map[ast.CmpOp]enum.IPred{
	ast.Lt: enum.IPredSLT,
	ast.Gt: enum.IPredSGT,
	ast.Ge: enum.IPredSGE,
	ast.Le: enum.IPredSLE,
	ast.Eq: enum.IPredEQ,
	ast.Ne: enum.IPredNE,
}

func (g *Generator) VisitComparison(n *ast.Comparison) (value.Value, error) {
	pred, ok := predicates[n.Op]
	if !ok {
		return nil, g.errorf(Unsupported, n, "comparison operator %v", n.Op)
	}
	x, y, err := g.operands(n.Left, n.Right, lltypes.I32)
	if err != nil {
		return nil, err
	}
	return g.cur.NewICmp(pred, x, y), nil
}

// VisitBoolean evaluates both operands unconditionally.
func (g *Generator) VisitBoolean(n *ast.Boolean) (value.Value, error) {
	x, y, err := g.operands(n.Left, n.Right, lltypes.I1)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.AndAnd:
		return g.cur.NewAnd(x, y), nil
	case ast.OrOr:
		return g.cur.NewOr(x, y), nil
	}
	return nil, g.errorf(Unsupported, n, "boolean operator %v", n.Op)
}

// VisitAssign stores the right side into the left side's slot and yields the
// stored value.
func (g *Generator) VisitAssign(n *ast.Assign) (value.Value, error) {
	if _, ok := n.LHS.(*ast.IdentifierList); !ok {
		return nil, g.errorf(Unsupported, n, "cannot assign to %s", kindOf(n.LHS))
	}
	slot, err := ast.Visit[value.Value](g, n.LHS)
	if err != nil {
		return nil, err
	}
	v, err := g.rvalue(n.RHS, slotType(slot))
	if err != nil {
		return nil, err
	}
	g.cur.NewStore(v, slot)
	return v, nil
}

func (g *Generator) VisitFxnCall(n *ast.FxnCall) (value.Value, error) {
	sym, ok := g.syms.lookup(n.Callee)
	if !ok || sym.kind != symFunc {
		return nil, g.errorf(UnresolvedName, n, "function %s called without being declared or defined", n.Callee)
	}
	var args []value.Value
	if n.Args != nil {
		for i, a := range n.Args.Params {
			var want lltypes.Type = lltypes.I32
			if i < len(sym.fn.Params) {
				want = sym.fn.Params[i].Typ
			}
			v, err := g.rvalue(a, want)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
	}
	return g.cur.NewCall(sym.fn, args...), nil
}

func kindOf(n ast.Node) string {
	if n == nil {
		return "nothing"
	}
	return n.Kind().String()
}
