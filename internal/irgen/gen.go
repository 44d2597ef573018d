// Package irgen lowers a minicc AST to an LLVM IR module.
package irgen

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/tinyrange/minicc/internal/ast"
	"github.com/tinyrange/minicc/internal/types"
)

type Option func(*Generator)

// WithModuleName sets the source file name recorded in the module.
func WithModuleName(name string) Option {
	return func(g *Generator) { g.m.SourceFilename = name }
}

// WithDiagnostics sets where warnings are written. The default is stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(g *Generator) { g.diag = w }
}

// Generator holds the state of one lowering pass. A Generator lowers a
// single compilation unit; use a new one per module.
type Generator struct {
	m    *ir.Module
	syms symtab

	funcs   map[string]*ir.Func
	defined map[*ir.Func]bool
	globals map[string]*ir.Global

	// current function
	fn     *ir.Func
	fnName string
	cur    *ir.Block
	names  map[string]int

	diag io.Writer
	errs ErrorList
}

func New(opts ...Option) *Generator {
	g := &Generator{
		m:       ir.NewModule(),
		syms:    symtab{},
		funcs:   map[string]*ir.Func{},
		defined: map[*ir.Func]bool{},
		globals: map[string]*ir.Global{},
		diag:    os.Stderr,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Build lowers prog into a new module. The module is returned even when
// errors occur; functions that failed to lower are left as declarations and
// the error is an ErrorList.
func Build(prog *ast.Program, opts ...Option) (*ir.Module, error) {
	return New(opts...).Lower(prog)
}

func (g *Generator) Lower(prog *ast.Program) (*ir.Module, error) {
	if prog == nil {
		return g.m, errors.New("irgen: nil program")
	}
	if _, err := g.VisitProgram(prog); err != nil {
		g.record(err)
	}
	return g.m, g.errs.Err()
}

// Module returns the module built so far.
func (g *Generator) Module() *ir.Module { return g.m }

func (g *Generator) errorf(kind ErrorKind, n ast.Node, format string, args ...any) error {
	return &Error{Kind: kind, Node: n, Func: g.fnName, Msg: fmt.Sprintf(format, args...)}
}

func (g *Generator) record(err error) {
	var e *Error
	if errors.As(err, &e) {
		g.errs = append(g.errs, e)
		return
	}
	g.errs = append(g.errs, &Error{Kind: Unsupported, Func: g.fnName, Msg: err.Error()})
}

func (g *Generator) warnf(n ast.Node, format string, args ...any) {
	if g.diag == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if n == nil {
		fmt.Fprintf(g.diag, "warning: %s\n", msg)
		return
	}
	fmt.Fprintf(g.diag, "%s: warning: %s\n", n.Pos(), msg)
}

// local returns a function-unique local name derived from base.
func (g *Generator) local(base string) string {
	n := g.names[base]
	g.names[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, n)
}

func (g *Generator) lowerType(t *ast.Type) (lltypes.Type, error) {
	if t == nil {
		return nil, g.errorf(Unsupported, nil, "missing type")
	}
	lt, mapped := types.Lower(t.Tag)
	if !mapped {
		g.warnf(t, "type %s is not implemented, treating it as %s", t.Tag, lt)
	}
	return lt, nil
}

func (g *Generator) VisitProgram(n *ast.Program) (value.Value, error) {
	if g.fn != nil {
		return nil, g.errorf(Unsupported, n, "program nested in function")
	}
	for _, top := range n.Nodes {
		switch top.(type) {
		case *ast.FxnDef, *ast.FDeclaration, *ast.Declaration:
		default:
			g.record(g.errorf(Unsupported, top, "%s at top level", top.Kind()))
			continue
		}
		if _, err := ast.Visit[value.Value](g, top); err != nil {
			g.record(err)
		}
	}
	return nil, nil
}

func (g *Generator) VisitFxnDef(n *ast.FxnDef) (value.Value, error) {
	if g.fn != nil {
		return nil, g.errorf(Unsupported, n, "nested function definition")
	}
	if n.NameArg == nil || n.Body == nil {
		return nil, g.errorf(Unsupported, n, "function definition without name or body")
	}
	g.fnName = n.NameArg.Name
	defer func() { g.fn, g.fnName, g.cur, g.names = nil, "", nil, nil }()

	f, err := g.declare(n.Ret, n.NameArg, true)
	if err != nil {
		return nil, err
	}
	g.defined[f] = true
	g.fn, g.names = f, map[string]int{}
	if err := g.define(n, f); err != nil {
		// keep the signature so later calls still resolve
		f.Blocks = nil
		return nil, err
	}
	return nil, nil
}

func (g *Generator) define(n *ast.FxnDef, f *ir.Func) error {
	for _, p := range f.Params {
		p.SetName(g.local(p.Name()))
	}
	g.cur = f.NewBlock(g.local("entry"))
	for i, p := range f.Params {
		name := paramName(n.NameArg.Params.Params[i])
		slot := g.alloca(p.Typ, ast.TypeInt, name+".addr")
		g.cur.NewStore(p, slot)
		g.syms.bindVar(name, slot, f)
	}
	if _, err := g.VisitBlock(n.Body); err != nil {
		return err
	}
	if g.cur != nil && g.cur.Term == nil {
		if !types.IsVoid(f.Sig.RetType) {
			return g.errorf(Structural, n, "control reaches end of non-void function %s", f.Name())
		}
		g.cur.NewRet(nil)
	}
	return g.verify(n, f)
}

// declare returns the function named by na, creating it on first use. A
// later declaration or definition must agree with the earlier signature.
func (g *Generator) declare(ret *ast.Type, na *ast.FxnNameArg, definition bool) (*ir.Func, error) {
	retT, err := g.lowerType(ret)
	if err != nil {
		return nil, err
	}
	var params []*ir.Param
	if na.Params != nil {
		for i, p := range na.Params.Params {
			d, ok := p.(*ast.Declaration)
			if !ok {
				return nil, g.errorf(Unsupported, p, "parameter %d of %s is a %s", i, na.Name, p.Kind())
			}
			name, ok := d.Names.Name()
			if !ok {
				return nil, g.errorf(Unsupported, p, "parameter %d of %s must declare exactly one name", i, na.Name)
			}
			t, err := g.lowerType(d.Type)
			if err != nil {
				return nil, err
			}
			if types.IsVoid(t) {
				return nil, g.errorf(Unsupported, p, "parameter %s declared void", name)
			}
			params = append(params, ir.NewParam(name, t))
		}
	}
	if _, ok := g.globals[na.Name]; ok {
		return nil, g.errorf(Unsupported, na, "%s redeclared as a function", na.Name)
	}

	f, ok := g.funcs[na.Name]
	if !ok {
		f = g.m.NewFunc(na.Name, retT, params...)
		g.funcs[na.Name] = f
		g.syms.bindFunc(na.Name, f)
		return f, nil
	}
	if definition && g.defined[f] {
		return nil, g.errorf(Unsupported, na, "redefinition of %s", na.Name)
	}
	if !sameSignature(f, retT, params) {
		return nil, g.errorf(Unsupported, na, "conflicting types for %s", na.Name)
	}
	if definition {
		for i, p := range params {
			f.Params[i].SetName(p.Name())
		}
	}
	g.syms.bindFunc(na.Name, f)
	return f, nil
}

func sameSignature(f *ir.Func, ret lltypes.Type, params []*ir.Param) bool {
	if !f.Sig.RetType.Equal(ret) || len(f.Params) != len(params) {
		return false
	}
	for i, p := range params {
		if !f.Params[i].Typ.Equal(p.Typ) {
			return false
		}
	}
	return true
}

func paramName(n ast.Node) string {
	name, _ := n.(*ast.Declaration).Names.Name()
	return name
}

func (g *Generator) alloca(t lltypes.Type, tag ast.TypeTag, name string) *ir.InstAlloca {
	slot := g.cur.NewAlloca(t)
	slot.SetName(g.local(name))
	slot.Align = ir.Align(types.Size(tag))
	return slot
}

// variable binds a variable: a global at top level, otherwise an alloca in
// the current function.
func (g *Generator) variable(typ *ast.Type, names *ast.IdentifierList) error {
	if typ == nil || names == nil {
		return g.errorf(Unsupported, nil, "incomplete declaration")
	}
	name, ok := names.Name()
	if !ok {
		return g.errorf(Unsupported, names, "declaration must name exactly one variable")
	}
	t, err := g.lowerType(typ)
	if err != nil {
		return err
	}
	if types.IsVoid(t) {
		return g.errorf(Unsupported, names, "variable %s declared void", name)
	}
	if names.Pointers > 0 {
		g.warnf(names, "pointer declarator on %s ignored, treating it as %s", name, t)
	}

	if g.fn == nil {
		if _, ok := g.funcs[name]; ok {
			return g.errorf(Unsupported, names, "%s redeclared as a variable", name)
		}
		gl, ok := g.globals[name]
		if !ok {
			gl = g.m.NewGlobalDef(name, constant.NewInt(lltypes.I32, 0))
			g.globals[name] = gl
		}
		g.syms.bindVar(name, gl, nil)
		return nil
	}
	g.syms.bindVar(name, g.alloca(t, typ.Tag, name), g.fn)
	return nil
}

func (g *Generator) VisitDeclaration(n *ast.Declaration) (value.Value, error) {
	return nil, g.variable(n.Type, n.Names)
}

func (g *Generator) VisitFDeclaration(n *ast.FDeclaration) (value.Value, error) {
	ret, ok := n.Ret.(*ast.Type)
	if !ok {
		return nil, g.errorf(Unsupported, n, "declaration without a type")
	}
	switch name := n.Name.(type) {
	case *ast.FxnNameArg:
		if g.fn != nil {
			return nil, g.errorf(Unsupported, n, "function declaration inside a function")
		}
		_, err := g.declare(ret, name, false)
		return nil, err
	case *ast.IdentifierList:
		return nil, g.variable(ret, name)
	}
	return nil, g.errorf(Unsupported, n, "cannot declare a %s", n.Name.Kind())
}

func (g *Generator) VisitType(n *ast.Type) (value.Value, error) {
	return nil, g.errorf(Unsupported, n, "type %s used as a value", n.Tag)
}

func (g *Generator) VisitParameterList(n *ast.ParameterList) (value.Value, error) {
	return nil, g.errorf(Unsupported, n, "parameter list used as a value")
}

func (g *Generator) VisitFxnNameArg(n *ast.FxnNameArg) (value.Value, error) {
	return nil, g.errorf(Unsupported, n, "function name %s used as a value", n.Name)
}
