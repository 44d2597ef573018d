package lexer

import "fmt"

type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Identifiers + literals
	IDENT
	INT
	CHAR
	STRING

	// Keywords
	KW_INT
	KW_CHAR
	KW_VOID
	KW_CONST
	KW_RETURN
	KW_IF
	KW_ELSE
	KW_WHILE

	// Symbols
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }
	SEMI   // ;
	COMMA  // ,
	ASSIGN // =

	// Arithmetic
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %

	// Shifts
	SHL // <<
	SHR // >>

	// Bitwise/logical
	AMP    // &
	ANDAND // &&
	OROR   // ||
	PIPE   // |
	CARET  // ^

	// Comparison
	EQEQ // ==
	NEQ  // !=
	LT   // <
	LE   // <=
	GT   // >
	GE   // >=
)

var tokenNames = map[TokenType]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL",
	IDENT: "identifier", INT: "integer", CHAR: "char literal", STRING: "string literal",
	KW_INT: "int", KW_CHAR: "char", KW_VOID: "void", KW_CONST: "const",
	KW_RETURN: "return", KW_IF: "if", KW_ELSE: "else", KW_WHILE: "while",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", SEMI: ";", COMMA: ",", ASSIGN: "=",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	SHL: "<<", SHR: ">>",
	AMP: "&", ANDAND: "&&", OROR: "||", PIPE: "|", CARET: "^",
	EQEQ: "==", NEQ: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

var keywords = map[string]TokenType{
	"int":    KW_INT,
	"char":   KW_CHAR,
	"void":   KW_VOID,
	"const":  KW_CONST,
	"return": KW_RETURN,
	"if":     KW_IF,
	"else":   KW_ELSE,
	"while":  KW_WHILE,
}

type Token struct {
	Type TokenType
	Lex  string
	Line int
	Col  int
}

func (t Token) Is(op TokenType) bool { return t.Type == op }
