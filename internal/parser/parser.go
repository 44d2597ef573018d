package parser

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tinyrange/minicc/internal/ast"
	"github.com/tinyrange/minicc/internal/lexer"
)

type Parser struct {
	lx  *lexer.Lexer
	tok lexer.Token
	a   *ast.Arena
}

// ParseFile parses a whole translation unit into a fresh arena.
func ParseFile(filename, src string) (*ast.File, error) {
	p := &Parser{lx: lexer.New(src), a: ast.NewArena()}
	p.next()
	p.mark()
	prog := p.a.NewProgram()
	for p.tok.Type != lexer.EOF {
		nodes, err := p.parseExternal()
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			prog.Add(n)
		}
	}
	return &ast.File{Name: filename, Arena: p.a, Root: prog}, nil
}

func (p *Parser) next() { p.tok = p.lx.Next() }

// mark stamps the current token's position on the nodes built next.
func (p *Parser) mark() { p.markAt(p.tok) }

func (p *Parser) markAt(t lexer.Token) { p.a.Mark(ast.Pos{Line: t.Line, Col: t.Col}) }

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s at %d:%d", fmt.Sprintf(format, args...), p.tok.Line, p.tok.Col)
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.tok.Type != tt {
		return lexer.Token{}, p.errorf("expected %v, got %v", tt, p.tok.Type)
	}
	t := p.tok
	p.next()
	return t, nil
}

func isTypeStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.KW_INT, lexer.KW_CHAR, lexer.KW_VOID, lexer.KW_CONST:
		return true
	}
	return false
}

// type = ['const'] ('int' | 'char' | 'void') ['const']
func (p *Parser) parseType() (*ast.Type, error) {
	start := p.tok
	isConst := false
	if p.tok.Type == lexer.KW_CONST {
		isConst = true
		p.next()
	}
	var tag ast.TypeTag
	switch p.tok.Type {
	case lexer.KW_INT:
		tag = ast.TypeInt
	case lexer.KW_CHAR:
		tag = ast.TypeChar
	case lexer.KW_VOID:
		tag = ast.TypeVoid
	default:
		return nil, p.errorf("expected type, got %v", p.tok.Type)
	}
	p.next()
	if p.tok.Type == lexer.KW_CONST {
		isConst = true
		p.next()
	}
	p.markAt(start)
	if isConst {
		return p.a.NewConstType(tag), nil
	}
	return p.a.NewType(tag), nil
}

// declarator = {'*'} IDENT
func (p *Parser) parseDeclarator() (*ast.IdentifierList, lexer.Token, error) {
	start := p.tok
	stars := 0
	for p.tok.Type == lexer.STAR {
		stars++
		p.next()
	}
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, nameTok, err
	}
	p.markAt(start)
	return p.a.NewPointerName(nameTok.Lex, stars), nameTok, nil
}

// external = type declarator ( '(' params ')' ( block | ';' ) | {',' declarator} ';' )
func (p *Parser) parseExternal() ([]ast.Node, error) {
	start := p.tok
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, nameTok, err := p.parseDeclarator()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != lexer.LPAREN {
		return p.parseVarDeclRest(start, typ, name)
	}
	p.next()
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	p.markAt(nameTok)
	nameArg := p.a.NewFxnNameArg(nameTok.Lex, params)
	if p.tok.Type == lexer.SEMI {
		p.next()
		p.markAt(start)
		return []ast.Node{p.a.NewFDeclaration(typ, nameArg)}, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.markAt(start)
	return []ast.Node{p.a.NewFxnDef(typ, nameArg, body)}, nil
}

// parseVarDeclRest finishes `T a [= e], b [= e];` after the first declarator.
// Each name becomes its own FDeclaration; initialisers become Assigns.
func (p *Parser) parseVarDeclRest(start lexer.Token, typ *ast.Type, first *ast.IdentifierList) ([]ast.Node, error) {
	var out []ast.Node
	name := first
	for {
		var declType ast.Node = typ
		if len(out) > 0 {
			declType = ast.Copy(p.a, typ)
		}
		p.markAt(start)
		out = append(out, p.a.NewFDeclaration(declType, name))
		if p.tok.Type == lexer.ASSIGN {
			eq := p.tok
			p.next()
			rhs, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			lhs := ast.Copy(p.a, name)
			p.markAt(eq)
			out = append(out, p.a.NewAssign(lhs, rhs))
		}
		if p.tok.Type != lexer.COMMA {
			break
		}
		p.next()
		var err error
		name, _, err = p.parseDeclarator()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return out, nil
}

// params = [ 'void' | type declarator {',' type declarator} ]
func (p *Parser) parseParams() (*ast.ParameterList, error) {
	p.mark()
	params := p.a.NewParameterList()
	if p.tok.Type == lexer.RPAREN {
		return params, nil
	}
	if p.tok.Type == lexer.KW_VOID {
		// `(void)` is an empty list; `(void *p)` is not supported.
		p.next()
		if p.tok.Type == lexer.RPAREN {
			return params, nil
		}
		return nil, p.errorf("void parameter must be alone")
	}
	for {
		start := p.tok
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		name, _, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		p.markAt(start)
		params.Add(p.a.NewDeclaration(typ, name))
		if p.tok.Type == lexer.COMMA {
			p.next()
			continue
		}
		break
	}
	return params, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	p.mark()
	blk := p.a.NewBlock()
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	for p.tok.Type != lexer.RBRACE && p.tok.Type != lexer.EOF {
		stmts, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		for _, s := range stmts {
			blk.Add(s)
		}
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return blk, nil
}

// parseBody parses the statement controlled by if/else/while. A single
// statement is wrapped in a Block.
func (p *Parser) parseBody() (ast.Node, error) {
	if p.tok.Type == lexer.LBRACE {
		return p.parseBlock()
	}
	start := p.tok
	stmts, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	p.markAt(start)
	return p.a.NewBlock(stmts...), nil
}

func (p *Parser) parseStmt() ([]ast.Node, error) {
	start := p.tok
	switch p.tok.Type {
	case lexer.KW_RETURN:
		p.next()
		var val ast.Node
		if p.tok.Type != lexer.SEMI {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			val = e
		}
		if _, err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		p.markAt(start)
		return []ast.Node{p.a.NewReturn(val)}, nil
	case lexer.KW_IF:
		p.next()
		cond, err := p.parseParenExpr()
		if err != nil {
			return nil, err
		}
		then, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		if p.tok.Type != lexer.KW_ELSE {
			p.markAt(start)
			return []ast.Node{p.a.NewIfThen(cond, then)}, nil
		}
		p.next()
		els, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		p.markAt(start)
		return []ast.Node{p.a.NewIfThenElse(cond, then, els)}, nil
	case lexer.KW_WHILE:
		p.next()
		cond, err := p.parseParenExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		p.markAt(start)
		return []ast.Node{p.a.NewWhile(cond, body)}, nil
	case lexer.LBRACE:
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return []ast.Node{b}, nil
	case lexer.SEMI:
		p.next()
		return nil, nil
	}
	if isTypeStart(p.tok.Type) {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		name, _, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		return p.parseVarDeclRest(start, typ, name)
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return []ast.Node{e}, nil
}

func (p *Parser) parseParenExpr() (ast.Node, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return e, nil
}

// Expr grammar, loosest first:
// expr    = assign
// assign  = binary(0) [ '=' assign ]
// binary  = operators by precedence level (see levels)
// unary   = '-' unary | '+' unary | primary
// primary = INT | CHAR | STRING | IDENT [ '(' args ')' ] | '(' expr ')'
func (p *Parser) parseExpr() (ast.Node, error) { return p.parseAssign() }

func (p *Parser) parseAssign() (ast.Node, error) {
	lhs, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.tok.Type != lexer.ASSIGN {
		return lhs, nil
	}
	eq := p.tok
	p.next()
	rhs, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	p.markAt(eq)
	return p.a.NewAssign(lhs, rhs), nil
}

var levels = [][]lexer.TokenType{
	{lexer.OROR},
	{lexer.ANDAND},
	{lexer.PIPE},
	{lexer.CARET},
	{lexer.AMP},
	{lexer.EQEQ, lexer.NEQ},
	{lexer.LT, lexer.GT, lexer.LE, lexer.GE},
	{lexer.SHL, lexer.SHR},
	{lexer.PLUS, lexer.MINUS},
	{lexer.STAR, lexer.SLASH, lexer.PERCENT},
}

func (p *Parser) atLevel(level int) bool {
	for _, tt := range levels[level] {
		if p.tok.Type == tt {
			return true
		}
	}
	return false
}

func (p *Parser) parseBinary(level int) (ast.Node, error) {
	if level == len(levels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.atLevel(level) {
		opTok := p.tok
		p.next()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		p.markAt(opTok)
		left = p.binary(opTok.Type, left, right)
	}
	return left, nil
}

func (p *Parser) binary(tt lexer.TokenType, l, r ast.Node) ast.Node {
	switch tt {
	case lexer.PLUS:
		return p.a.NewArithmetic(ast.Add, l, r)
	case lexer.MINUS:
		return p.a.NewArithmetic(ast.Sub, l, r)
	case lexer.STAR:
		return p.a.NewArithmetic(ast.Mul, l, r)
	case lexer.SLASH:
		return p.a.NewArithmetic(ast.Div, l, r)
	case lexer.PERCENT:
		return p.a.NewArithmetic(ast.Mod, l, r)
	case lexer.AMP:
		return p.a.NewBitwise(ast.BitAnd, l, r)
	case lexer.PIPE:
		return p.a.NewBitwise(ast.BitOr, l, r)
	case lexer.CARET:
		return p.a.NewBitwise(ast.BitXor, l, r)
	case lexer.SHL:
		return p.a.NewBitwise(ast.Shl, l, r)
	case lexer.SHR:
		return p.a.NewBitwise(ast.Shr, l, r)
	case lexer.LT:
		return p.a.NewComparison(ast.Lt, l, r)
	case lexer.GT:
		return p.a.NewComparison(ast.Gt, l, r)
	case lexer.LE:
		return p.a.NewComparison(ast.Le, l, r)
	case lexer.GE:
		return p.a.NewComparison(ast.Ge, l, r)
	case lexer.EQEQ:
		return p.a.NewComparison(ast.Eq, l, r)
	case lexer.NEQ:
		return p.a.NewComparison(ast.Ne, l, r)
	case lexer.ANDAND:
		return p.a.NewBoolean(ast.AndAnd, l, r)
	case lexer.OROR:
		return p.a.NewBoolean(ast.OrOr, l, r)
	}
	panic(fmt.Sprintf("parser: %v is not a binary operator", tt))
}

func (p *Parser) parseUnary() (ast.Node, error) {
	switch p.tok.Type {
	case lexer.PLUS:
		p.next()
		return p.parseUnary()
	case lexer.MINUS:
		minus := p.tok
		p.next()
		// Negative literals stay literals; anything else is 0 - x.
		if p.tok.Type == lexer.INT {
			v, err := p.intValue(true)
			if err != nil {
				return nil, err
			}
			p.markAt(minus)
			p.next()
			return p.a.NewIntConst(v), nil
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		p.markAt(minus)
		return p.a.NewArithmetic(ast.Sub, p.a.NewIntConst(0), x), nil
	}
	return p.parsePrimary()
}

func (p *Parser) intValue(negative bool) (int32, error) {
	v, err := strconv.ParseInt(p.tok.Lex, 10, 64)
	if negative {
		v = -v
	}
	if err != nil || v > math.MaxInt32 || v < math.MinInt32 {
		return 0, p.errorf("integer constant %s out of range", p.tok.Lex)
	}
	return int32(v), nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	p.mark()
	switch p.tok.Type {
	case lexer.INT:
		v, err := p.intValue(false)
		if err != nil {
			return nil, err
		}
		p.next()
		return p.a.NewIntConst(v), nil
	case lexer.CHAR:
		r := []rune(p.tok.Lex)
		if len(r) != 1 {
			return nil, p.errorf("bad char constant %q", p.tok.Lex)
		}
		p.next()
		return p.a.NewIntConst(int32(r[0])), nil
	case lexer.STRING:
		s := p.a.NewStrConst(p.tok.Lex)
		p.next()
		return s, nil
	case lexer.IDENT:
		id := p.tok
		p.next()
		if p.tok.Type != lexer.LPAREN {
			p.markAt(id)
			return p.a.NewIdentifierList(id.Lex), nil
		}
		p.next()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		p.markAt(id)
		return p.a.NewFxnCall(id.Lex, args), nil
	case lexer.LPAREN:
		return p.parseParenExpr()
	}
	return nil, p.errorf("unexpected token %v", p.tok.Type)
}

// args = [ assign {',' assign} ] ')'
func (p *Parser) parseArgs() (*ast.ParameterList, error) {
	p.mark()
	args := p.a.NewParameterList()
	for p.tok.Type != lexer.RPAREN {
		e, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		args.Add(e)
		if p.tok.Type != lexer.COMMA {
			break
		}
		p.next()
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}
