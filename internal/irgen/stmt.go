package irgen

import (
	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/tinyrange/minicc/internal/ast"
	"github.com/tinyrange/minicc/internal/types"
)

// terminated reports whether there is no open block to append to.
func (g *Generator) terminated() bool {
	return g.cur == nil || g.cur.Term != nil
}

func (g *Generator) stmt(n ast.Node) error {
	if n == nil {
		return nil
	}
	_, err := ast.Visit[value.Value](g, n)
	return err
}

func (g *Generator) VisitBlock(n *ast.Block) (value.Value, error) {
	if g.fn == nil {
		return nil, g.errorf(Unsupported, n, "block outside a function")
	}
	for _, s := range n.Stmts {
		if g.terminated() {
			g.warnf(s, "unreachable code skipped")
			break
		}
		if err := g.stmt(s); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (g *Generator) VisitReturn(n *ast.Return) (value.Value, error) {
	ret := g.fn.Sig.RetType
	if n.Value == nil {
		if !types.IsVoid(ret) {
			return nil, g.errorf(Unsupported, n, "return without a value in function returning %s", ret)
		}
		g.cur.NewRet(nil)
		return nil, nil
	}
	if types.IsVoid(ret) {
		return nil, g.errorf(Unsupported, n, "return with a value in void function")
	}
	v, err := g.rvalue(n.Value, ret)
	if err != nil {
		return nil, err
	}
	g.cur.NewRet(v)
	return nil, nil
}

func (g *Generator) cond(n ast.Node) (value.Value, error) {
	return g.rvalue(n, lltypes.I1)
}

func (g *Generator) VisitIfThen(n *ast.IfThen) (value.Value, error) {
	then := g.fn.NewBlock(g.local("if.then"))
	end := g.fn.NewBlock(g.local("if.end"))

	c, err := g.cond(n.Cond)
	if err != nil {
		return nil, err
	}
	g.cur.NewCondBr(c, then, end)

	g.cur = then
	if err := g.stmt(n.Body); err != nil {
		return nil, err
	}
	if !g.terminated() {
		g.cur.NewBr(end)
	}
	g.cur = end
	return nil, nil
}

// VisitIfThenElse has no merge block: both branches must leave through a
// terminator of their own.
func (g *Generator) VisitIfThenElse(n *ast.IfThenElse) (value.Value, error) {
	then := g.fn.NewBlock(g.local("if.then"))
	els := g.fn.NewBlock(g.local("if.else"))

	c, err := g.cond(n.Cond)
	if err != nil {
		return nil, err
	}
	g.cur.NewCondBr(c, then, els)

	for _, arm := range []struct {
		b    *ir.Block
		body ast.Node
		name string
	}{{then, n.Then, "then"}, {els, n.Else, "else"}} {
		g.cur = arm.b
		if err := g.stmt(arm.body); err != nil {
			return nil, err
		}
		if !g.terminated() {
			return nil, g.errorf(Structural, n, "%s branch of if/else does not end in a return", arm.name)
		}
	}
	g.cur = nil
	return nil, nil
}

func (g *Generator) VisitWhile(n *ast.While) (value.Value, error) {
	cond := g.fn.NewBlock(g.local("while.cond"))
	body := g.fn.NewBlock(g.local("while.body"))
	end := g.fn.NewBlock(g.local("while.end"))

	g.cur.NewBr(cond)
	g.cur = cond
	c, err := g.cond(n.Cond)
	if err != nil {
		return nil, err
	}
	g.cur.NewCondBr(c, body, end)

	g.cur = body
	if err := g.stmt(n.Body); err != nil {
		return nil, err
	}
	if !g.terminated() {
		g.cur.NewBr(cond)
	}
	g.cur = end
	return nil, nil
}
