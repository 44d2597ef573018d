package lexer

import (
	"strings"
	"unicode"
)

type Lexer struct {
	src  []rune
	i    int
	ch   rune
	line int
	col  int
}

func New(src string) *Lexer {
	l := &Lexer{src: []rune(src), line: 1}
	l.read()
	return l
}

func (l *Lexer) read() {
	if l.i >= len(l.src) {
		l.ch = 0
		l.col++
		return
	}
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	l.ch = l.src[l.i]
	l.i++
	l.col++
}

func (l *Lexer) peek() rune {
	if l.i >= len(l.src) {
		return 0
	}
	return l.src[l.i]
}

// two consumes the current character and, if the next one is second,
// that one too, returning which token applies.
func (l *Lexer) two(second rune, one, both TokenType) (TokenType, string) {
	first := l.ch
	l.read()
	if l.ch == second {
		l.read()
		return both, string([]rune{first, second})
	}
	return one, string(first)
}

var singles = map[rune]TokenType{
	'(': LPAREN, ')': RPAREN, '{': LBRACE, '}': RBRACE, ';': SEMI, ',': COMMA,
	'+': PLUS, '-': MINUS, '*': STAR, '/': SLASH, '%': PERCENT, '^': CARET,
}

// skip moves past whitespace and both comment forms.
func (l *Lexer) skip() {
	for {
		switch {
		case unicode.IsSpace(l.ch):
			l.read()
		case l.ch == '/' && l.peek() == '/':
			for l.ch != 0 && l.ch != '\n' {
				l.read()
			}
		case l.ch == '/' && l.peek() == '*':
			l.read()
			l.read()
			for l.ch != 0 && !(l.ch == '*' && l.peek() == '/') {
				l.read()
			}
			if l.ch != 0 {
				l.read()
				l.read()
			}
		default:
			return
		}
	}
}

// span consumes characters while ok holds.
func (l *Lexer) span(ok func(rune) bool) string {
	var sb strings.Builder
	for l.ch != 0 && ok(l.ch) {
		sb.WriteRune(l.ch)
		l.read()
	}
	return sb.String()
}

func isIdent(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }

func (l *Lexer) Next() Token {
	l.skip()
	tok := Token{Line: l.line, Col: l.col}
	ch := l.ch
	if tt, ok := singles[ch]; ok {
		tok.Type, tok.Lex = tt, string(ch)
		l.read()
		return tok
	}
	switch {
	case ch == 0:
		tok.Type = EOF
	case ch == '=':
		tok.Type, tok.Lex = l.two('=', ASSIGN, EQEQ)
	case ch == '!':
		tok.Type, tok.Lex = l.two('=', ILLEGAL, NEQ)
	case ch == '&':
		tok.Type, tok.Lex = l.two('&', AMP, ANDAND)
	case ch == '|':
		tok.Type, tok.Lex = l.two('|', PIPE, OROR)
	case ch == '<' && l.peek() == '<':
		tok.Type, tok.Lex = l.two('<', LT, SHL)
	case ch == '<':
		tok.Type, tok.Lex = l.two('=', LT, LE)
	case ch == '>' && l.peek() == '>':
		tok.Type, tok.Lex = l.two('>', GT, SHR)
	case ch == '>':
		tok.Type, tok.Lex = l.two('=', GT, GE)
	case ch == '"':
		tok.Type, tok.Lex = l.quoted('"', STRING)
	case ch == '\'':
		tok.Type, tok.Lex = l.quoted('\'', CHAR)
	case unicode.IsLetter(ch) || ch == '_':
		tok.Lex = l.span(isIdent)
		tok.Type = IDENT
		if kw, ok := keywords[tok.Lex]; ok {
			tok.Type = kw
		}
	case unicode.IsDigit(ch):
		tok.Type, tok.Lex = INT, l.span(unicode.IsDigit)
	default:
		tok.Type, tok.Lex = ILLEGAL, string(ch)
		l.read()
	}
	return tok
}

// quoted reads a string or char literal. Lex holds the decoded contents;
// an unterminated literal is ILLEGAL.
func (l *Lexer) quoted(quote rune, tt TokenType) (TokenType, string) {
	var sb strings.Builder
	l.read()
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			return ILLEGAL, sb.String()
		}
		if l.ch == '\\' {
			l.read()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '0':
				sb.WriteRune(0)
			default:
				sb.WriteRune(l.ch)
			}
			l.read()
			continue
		}
		sb.WriteRune(l.ch)
		l.read()
	}
	l.read()
	return tt, sb.String()
}
