package ast

// Copy returns a deep copy of n allocated in dst. Positions are preserved;
// the copy shares no nodes or slices with n.
func Copy(dst *Arena, n Node) Node {
	out, err := Visit[Node](copier{dst}, n)
	if err != nil {
		return nil
	}
	return out
}

type copier struct{ a *Arena }

func (c copier) at(n Node) { c.a.Mark(n.Pos()) }

func (c copier) node(n Node) Node {
	if n == nil {
		return nil
	}
	return Copy(c.a, n)
}

func (c copier) nodes(ns []Node) []Node {
	if ns == nil {
		return nil
	}
	out := make([]Node, len(ns))
	for i, n := range ns {
		out[i] = c.node(n)
	}
	return out
}

func (c copier) typ(t *Type) *Type {
	if t == nil {
		return nil
	}
	c.at(t)
	nt := c.a.NewType(t.Tag)
	nt.Const = t.Const
	return nt
}

func (c copier) idents(l *IdentifierList) *IdentifierList {
	if l == nil {
		return nil
	}
	c.at(l)
	nl := c.a.NewIdentifierList(append([]string(nil), l.Names...)...)
	nl.Pointers = l.Pointers
	return nl
}

func (c copier) params(l *ParameterList) *ParameterList {
	if l == nil {
		return nil
	}
	ps := c.nodes(l.Params)
	c.at(l)
	return c.a.NewParameterList(ps...)
}

func (c copier) block(b *Block) *Block {
	if b == nil {
		return nil
	}
	ss := c.nodes(b.Stmts)
	c.at(b)
	return c.a.NewBlock(ss...)
}

func (c copier) nameArg(n *FxnNameArg) *FxnNameArg {
	if n == nil {
		return nil
	}
	ps := c.params(n.Params)
	c.at(n)
	return c.a.NewFxnNameArg(n.Name, ps)
}

func (c copier) VisitProgram(n *Program) (Node, error) {
	ns := c.nodes(n.Nodes)
	c.at(n)
	return c.a.NewProgram(ns...), nil
}

func (c copier) VisitBlock(n *Block) (Node, error) { return c.block(n), nil }

func (c copier) VisitIntConst(n *IntConst) (Node, error) {
	c.at(n)
	return c.a.NewIntConst(n.Value), nil
}

func (c copier) VisitStrConst(n *StrConst) (Node, error) {
	c.at(n)
	return c.a.NewStrConst(n.Value), nil
}

func (c copier) VisitIdentifier(n *Identifier) (Node, error) {
	c.at(n)
	return c.a.NewIdentifier(n.Name), nil
}

func (c copier) VisitIdentifierList(n *IdentifierList) (Node, error) { return c.idents(n), nil }

func (c copier) VisitType(n *Type) (Node, error) { return c.typ(n), nil }

func (c copier) VisitDeclaration(n *Declaration) (Node, error) {
	t, names := c.typ(n.Type), c.idents(n.Names)
	c.at(n)
	return c.a.NewDeclaration(t, names), nil
}

func (c copier) VisitParameterList(n *ParameterList) (Node, error) { return c.params(n), nil }

func (c copier) VisitFxnNameArg(n *FxnNameArg) (Node, error) { return c.nameArg(n), nil }

func (c copier) VisitFxnDef(n *FxnDef) (Node, error) {
	ret, na, body := c.typ(n.Ret), c.nameArg(n.NameArg), c.block(n.Body)
	c.at(n)
	return c.a.NewFxnDef(ret, na, body), nil
}

func (c copier) VisitFDeclaration(n *FDeclaration) (Node, error) {
	ret, name := c.node(n.Ret), c.node(n.Name)
	c.at(n)
	return c.a.NewFDeclaration(ret, name), nil
}

func (c copier) VisitFxnCall(n *FxnCall) (Node, error) {
	args := c.params(n.Args)
	c.at(n)
	return c.a.NewFxnCall(n.Callee, args), nil
}

func (c copier) VisitArithmetic(n *Arithmetic) (Node, error) {
	l, r := c.node(n.Left), c.node(n.Right)
	c.at(n)
	return c.a.NewArithmetic(n.Op, l, r), nil
}

func (c copier) VisitBitwise(n *Bitwise) (Node, error) {
	l, r := c.node(n.Left), c.node(n.Right)
	c.at(n)
	return c.a.NewBitwise(n.Op, l, r), nil
}

func (c copier) VisitComparison(n *Comparison) (Node, error) {
	l, r := c.node(n.Left), c.node(n.Right)
	c.at(n)
	return c.a.NewComparison(n.Op, l, r), nil
}

func (c copier) VisitBoolean(n *Boolean) (Node, error) {
	l, r := c.node(n.Left), c.node(n.Right)
	c.at(n)
	return c.a.NewBoolean(n.Op, l, r), nil
}

func (c copier) VisitAssign(n *Assign) (Node, error) {
	l, r := c.node(n.LHS), c.node(n.RHS)
	c.at(n)
	return c.a.NewAssign(l, r), nil
}

func (c copier) VisitReturn(n *Return) (Node, error) {
	v := c.node(n.Value)
	c.at(n)
	return c.a.NewReturn(v), nil
}

func (c copier) VisitIfThen(n *IfThen) (Node, error) {
	cond, body := c.node(n.Cond), c.node(n.Body)
	c.at(n)
	return c.a.NewIfThen(cond, body), nil
}

func (c copier) VisitIfThenElse(n *IfThenElse) (Node, error) {
	cond, then, els := c.node(n.Cond), c.node(n.Then), c.node(n.Else)
	c.at(n)
	return c.a.NewIfThenElse(cond, then, els), nil
}

func (c copier) VisitWhile(n *While) (Node, error) {
	cond, body := c.node(n.Cond), c.node(n.Body)
	c.at(n)
	return c.a.NewWhile(cond, body), nil
}
