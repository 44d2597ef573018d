package opt

import (
	"fmt"

	"github.com/tinyrange/minicc/internal/ast"
)

// Error reports a constant expression that cannot be evaluated.
type Error struct {
	Node *ast.Arithmetic
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Node.Pos(), e.Msg)
}

// Fold returns a constant-folded copy of f in a new arena. f is not modified
// and the result shares no nodes with it.
func Fold(f *ast.File) (*ast.File, error) {
	dst := ast.NewArena()
	root, err := FoldNode(dst, f.Root)
	if err != nil {
		return nil, err
	}
	return &ast.File{Name: f.Name, Arena: dst, Root: root.(*ast.Program)}, nil
}

// FoldNode folds the subtree at n, allocating the result in dst.
//
// Only Arithmetic nodes whose operands fold to integer constants are
// reduced. Bitwise, Comparison and Boolean nodes are rebuilt over their
// folded operands but never reduced, even when both sides are constant.
func FoldNode(dst *ast.Arena, n ast.Node) (ast.Node, error) {
	if n == nil {
		return nil, nil
	}
	return ast.Visit[ast.Node](folder{dst}, n)
}

type folder struct{ a *ast.Arena }

func (f folder) fold(n ast.Node) (ast.Node, error) { return FoldNode(f.a, n) }

func (f folder) foldAll(ns []ast.Node) ([]ast.Node, error) {
	if ns == nil {
		return nil, nil
	}
	out := make([]ast.Node, len(ns))
	for i, n := range ns {
		fn, err := f.fold(n)
		if err != nil {
			return nil, err
		}
		out[i] = fn
	}
	return out, nil
}

func (f folder) pair(l, r ast.Node) (ast.Node, ast.Node, error) {
	fl, err := f.fold(l)
	if err != nil {
		return nil, nil, err
	}
	fr, err := f.fold(r)
	if err != nil {
		return nil, nil, err
	}
	return fl, fr, nil
}

func (f folder) leaf(n ast.Node) (ast.Node, error) { return ast.Copy(f.a, n), nil }

func (f folder) block(b *ast.Block) (*ast.Block, error) {
	if b == nil {
		return nil, nil
	}
	stmts, err := f.foldAll(b.Stmts)
	if err != nil {
		return nil, err
	}
	f.a.Mark(b.Pos())
	return f.a.NewBlock(stmts...), nil
}

func (f folder) params(l *ast.ParameterList) (*ast.ParameterList, error) {
	if l == nil {
		return nil, nil
	}
	ps, err := f.foldAll(l.Params)
	if err != nil {
		return nil, err
	}
	f.a.Mark(l.Pos())
	return f.a.NewParameterList(ps...), nil
}

func (f folder) nameArg(n *ast.FxnNameArg) (*ast.FxnNameArg, error) {
	if n == nil {
		return nil, nil
	}
	ps, err := f.params(n.Params)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewFxnNameArg(n.Name, ps), nil
}

func (f folder) typ(t *ast.Type) *ast.Type {
	if t == nil {
		return nil
	}
	return ast.Copy(f.a, t).(*ast.Type)
}

func (f folder) VisitProgram(n *ast.Program) (ast.Node, error) {
	nodes, err := f.foldAll(n.Nodes)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewProgram(nodes...), nil
}

func (f folder) VisitBlock(n *ast.Block) (ast.Node, error) { return f.block(n) }

func (f folder) VisitIntConst(n *ast.IntConst) (ast.Node, error)             { return f.leaf(n) }
func (f folder) VisitStrConst(n *ast.StrConst) (ast.Node, error)             { return f.leaf(n) }
func (f folder) VisitIdentifier(n *ast.Identifier) (ast.Node, error)         { return f.leaf(n) }
func (f folder) VisitIdentifierList(n *ast.IdentifierList) (ast.Node, error) { return f.leaf(n) }
func (f folder) VisitType(n *ast.Type) (ast.Node, error)                     { return f.leaf(n) }
func (f folder) VisitDeclaration(n *ast.Declaration) (ast.Node, error)       { return f.leaf(n) }

func (f folder) VisitParameterList(n *ast.ParameterList) (ast.Node, error) { return f.params(n) }

func (f folder) VisitFxnNameArg(n *ast.FxnNameArg) (ast.Node, error) { return f.nameArg(n) }

func (f folder) VisitFxnDef(n *ast.FxnDef) (ast.Node, error) {
	ret := f.typ(n.Ret)
	na, err := f.nameArg(n.NameArg)
	if err != nil {
		return nil, err
	}
	body, err := f.block(n.Body)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewFxnDef(ret, na, body), nil
}

func (f folder) VisitFDeclaration(n *ast.FDeclaration) (ast.Node, error) {
	ret, name, err := f.pair(n.Ret, n.Name)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewFDeclaration(ret, name), nil
}

func (f folder) VisitFxnCall(n *ast.FxnCall) (ast.Node, error) {
	args, err := f.params(n.Args)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewFxnCall(n.Callee, args), nil
}

func (f folder) VisitArithmetic(n *ast.Arithmetic) (ast.Node, error) {
	l, r, err := f.pair(n.Left, n.Right)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	lc, lok := l.(*ast.IntConst)
	rc, rok := r.(*ast.IntConst)
	if !lok || !rok {
		return f.a.NewArithmetic(n.Op, l, r), nil
	}
	v, err := evalArith(n, lc.Value, rc.Value)
	if err != nil {
		return nil, err
	}
	return f.a.NewIntConst(v), nil
}

// evalArith computes x op y with 32-bit wraparound. Division and modulo
// truncate toward zero; a zero divisor is an error.
func evalArith(n *ast.Arithmetic, x, y int32) (int32, error) {
	switch n.Op {
	case ast.Add:
		return x + y, nil
	case ast.Sub:
		return x - y, nil
	case ast.Mul:
		return x * y, nil
	case ast.Div, ast.Mod:
		if y == 0 {
			return 0, &Error{Node: n, Msg: fmt.Sprintf("constant %s by zero", opName(n.Op))}
		}
		if n.Op == ast.Div {
			return x / y, nil
		}
		return x % y, nil
	}
	return 0, &Error{Node: n, Msg: fmt.Sprintf("unknown arithmetic operator %v", n.Op)}
}

func opName(op ast.ArithOp) string {
	if op == ast.Mod {
		return "modulo"
	}
	return "division"
}

func (f folder) VisitBitwise(n *ast.Bitwise) (ast.Node, error) {
	l, r, err := f.pair(n.Left, n.Right)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewBitwise(n.Op, l, r), nil
}

func (f folder) VisitComparison(n *ast.Comparison) (ast.Node, error) {
	l, r, err := f.pair(n.Left, n.Right)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewComparison(n.Op, l, r), nil
}

func (f folder) VisitBoolean(n *ast.Boolean) (ast.Node, error) {
	l, r, err := f.pair(n.Left, n.Right)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewBoolean(n.Op, l, r), nil
}

func (f folder) VisitAssign(n *ast.Assign) (ast.Node, error) {
	l, r, err := f.pair(n.LHS, n.RHS)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewAssign(l, r), nil
}

func (f folder) VisitReturn(n *ast.Return) (ast.Node, error) {
	v, err := f.fold(n.Value)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewReturn(v), nil
}

func (f folder) VisitIfThen(n *ast.IfThen) (ast.Node, error) {
	cond, body, err := f.pair(n.Cond, n.Body)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewIfThen(cond, body), nil
}

func (f folder) VisitIfThenElse(n *ast.IfThenElse) (ast.Node, error) {
	cond, then, err := f.pair(n.Cond, n.Then)
	if err != nil {
		return nil, err
	}
	els, err := f.fold(n.Else)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewIfThenElse(cond, then, els), nil
}

func (f folder) VisitWhile(n *ast.While) (ast.Node, error) {
	cond, body, err := f.pair(n.Cond, n.Body)
	if err != nil {
		return nil, err
	}
	f.a.Mark(n.Pos())
	return f.a.NewWhile(cond, body), nil
}
